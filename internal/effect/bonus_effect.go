package effect

// BonusEffect is a group tagged with the identity of the attachment it came
// from and a stack count.
//
// Apply writes Stacks into StackID of the local store before applying the
// group, so children can scale by it.
type BonusEffect struct {
	Group
	BonusID ID
	Stacks  int
}

func (b *BonusEffect) stacks() int {
	return max(b.Stacks, 1)
}

func (b *BonusEffect) Apply(p *ApplyParams) error {
	if p.Local != nil {
		p.Local.Set(StackID, float64(b.stacks()))
	}
	return b.Group.Apply(p)
}

// UseIDs hides StackID: the bonus effect provides it itself.
func (b *BonusEffect) UseIDs() UseIDs {
	u := b.Group.UseIDs()
	u.Local.Remove(StackID)
	return u
}

func (b *BonusEffect) SavesBeforeUsing(ids IDSet) bool {
	ids.Remove(StackID)
	return b.Group.SavesBeforeUsing(ids)
}

func (b *BonusEffect) Clone() SingleStage {
	return b.CloneBonus()
}

// CloneBonus returns a deep copy with the concrete type.
func (b *BonusEffect) CloneBonus() *BonusEffect {
	return &BonusEffect{Group: b.cloneGroup(), BonusID: b.BonusID, Stacks: b.Stacks}
}

// AddStack increments the stack count.
func (b *BonusEffect) AddStack() {
	b.Stacks = b.stacks() + 1
}

func (b *BonusEffect) Validate() Problems {
	var ps Problems
	if b.Stacks < 0 {
		ps.errorf("bonus effect has negative stacks %d", b.Stacks)
	}
	ps.Merge("", b.Group.Validate())
	return ps
}

// forEachBonus calls fn for every BonusEffect inside e, including e itself.
func forEachBonus(e SingleStage, fn func(*BonusEffect)) {
	switch v := e.(type) {
	case *BonusEffect:
		fn(v)
		for _, c := range v.Effects {
			forEachBonus(c, fn)
		}
	case *ComplexEffect:
		for _, c := range v.Effects {
			forEachBonus(c, fn)
		}
	case *Group:
		for _, c := range v.Effects {
			forEachBonus(c, fn)
		}
	}
}

// removeBonus drops every BonusEffect with identity id from effects, nested
// ones included. Returns the filtered slice and the number removed.
func removeBonus(effects []SingleStage, id ID) ([]SingleStage, int) {
	n, removed := 0, 0
	for _, e := range effects {
		if b, ok := e.(*BonusEffect); ok && b.BonusID == id {
			removed++
			continue
		}
		switch v := e.(type) {
		case *BonusEffect:
			var r int
			v.Effects, r = removeBonus(v.Effects, id)
			removed += r
		case *ComplexEffect:
			var r int
			v.Effects, r = removeBonus(v.Effects, id)
			removed += r
		case *Group:
			var r int
			v.Effects, r = removeBonus(v.Effects, id)
			removed += r
		}
		effects[n] = e
		n++
	}
	clear(effects[n:])
	return effects[:n], removed
}
