package effect

import "strconv"

// Group applies its effects in order.
//
// A SelfContained group hides its internal ids from the surrounding graph:
// it reports no save or use ids. Its children still share the stage store.
type Group struct {
	Effects       []SingleStage
	SelfContained bool
}

func (*Group) sealed() {}

func (g *Group) Apply(p *ApplyParams) error {
	return applyAll(g.Effects, p)
}

// internalSaveIDs returns the ids saved by any child, ignoring SelfContained.
func (g *Group) internalSaveIDs() IDSet {
	var ids IDSet
	for _, e := range g.Effects {
		if isNil(e) {
			continue
		}
		ids.Append(e.SaveIDs())
	}
	return ids
}

func (g *Group) internalUseIDs() UseIDs {
	var u UseIDs
	for _, e := range g.Effects {
		if isNil(e) {
			continue
		}
		u.Append(e.UseIDs())
	}
	return u
}

func (g *Group) SaveIDs() IDSet {
	if g.SelfContained {
		return IDSet{}
	}
	return g.internalSaveIDs()
}

func (g *Group) UseIDs() UseIDs {
	if g.SelfContained {
		return UseIDs{}
	}
	return g.internalUseIDs()
}

// SavesBeforeUsing walks the children in order: every id of ids read by a
// child must have been saved by an earlier child, or be saved before use
// inside that child.
func (g *Group) SavesBeforeUsing(ids IDSet) bool {
	if g.SelfContained {
		return true
	}
	var saved IDSet
	for _, e := range g.Effects {
		if isNil(e) {
			continue
		}
		need := e.UseIDs().Local.Intersect(ids).Difference(saved)
		if !need.IsEmpty() && !e.SavesBeforeUsing(need) {
			return false
		}
		saved.Append(e.SaveIDs())
	}
	return true
}

func (g *Group) SwapIDs(m map[ID]ID) {
	for _, e := range g.Effects {
		e.SwapIDs(m)
	}
}

func (g *Group) CollectByType(t EffectType, out *[]*SimpleEffect) {
	for _, e := range g.Effects {
		e.CollectByType(t, out)
	}
}

// RemoveByUseID removes children reading id. An emptied group asks to be
// removed itself.
func (g *Group) RemoveByUseID(id ID) bool {
	if len(g.Effects) == 0 {
		return false
	}
	g.Effects = removeByUseID(g.Effects, id)
	return len(g.Effects) == 0
}

func (g *Group) Clone() SingleStage {
	cp := g.cloneGroup()
	return &cp
}

func (g *Group) cloneGroup() Group {
	return Group{
		Effects:       cloneAll(g.Effects),
		SelfContained: g.SelfContained,
	}
}

func (g *Group) collectIDs(dst *IDSet) {
	for _, e := range g.Effects {
		e.collectIDs(dst)
	}
}

func (g *Group) Validate() Problems {
	var ps Problems
	if len(g.Effects) == 0 {
		ps.errorf("effect group is empty")
		return ps
	}
	w := stageWalker{}
	for i, e := range g.Effects {
		if isNil(e) {
			ps.errorf("effect %d is nil", i)
			continue
		}
		ps.Merge(groupChildPrefix(i), e.Validate())
	}
	if g.SelfContained && !ps.HasErrors() {
		// Internal wiring is invisible outside, so check it here.
		uses := g.internalUseIDs()
		if !uses.Previous.IsEmpty() {
			ps.errorf("self-contained group reads previous-stage ids %s", uses.Previous)
		}
		for i, e := range g.Effects {
			missing := e.UseIDs().Local.Difference(w.current).Difference(reservedIDs)
			if !missing.IsEmpty() && !e.SavesBeforeUsing(missing) {
				ps.errorf("effect %d uses ids %s before they are saved in the group", i, missing)
			}
			w.current.Append(e.SaveIDs())
		}
	}
	return ps
}

func groupChildPrefix(i int) string {
	return "effect " + strconv.Itoa(i)
}
