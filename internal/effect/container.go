package effect

// stageList holds the three ordered stages of a multi-stage effect. T is
// SingleStage or *BonusEffect; it cannot be constrained by SingleStage
// because BonusContainer is reachable from that interface.
type stageList[T any] struct {
	stages [StageCount][]T
}

// single views an element of a stageList as a SingleStage.
func single[T any](e T) SingleStage {
	s, _ := any(e).(SingleStage)
	return s
}

// Effects returns the effects of stage st. The slice is owned by the list.
func (s *stageList[T]) Effects(st Stage) []T {
	return s.stages[st]
}

// Add appends effects to stage st.
func (s *stageList[T]) Add(st Stage, effects ...T) {
	s.stages[st] = append(s.stages[st], effects...)
}

// Len returns the number of top-level effects over all stages.
func (s *stageList[T]) Len() int {
	n := 0
	for _, st := range s.stages {
		n += len(st)
	}
	return n
}

func (s *stageList[T]) IsEmpty() bool {
	return s.Len() == 0
}

// HasTargetEffects reports whether the Target stage is non-empty.
func (s *stageList[T]) HasTargetEffects() bool {
	return len(s.stages[StageTarget]) > 0
}

func (s *stageList[T]) collectIDs() IDSet {
	var ids IDSet
	for _, st := range s.stages {
		for _, e := range st {
			if se := single(e); !isNil(se) {
				se.collectIDs(&ids)
			}
		}
	}
	return ids
}

func (s *stageList[T]) swapIDs(m map[ID]ID) {
	if len(m) == 0 {
		return
	}
	for _, st := range s.stages {
		for _, e := range st {
			single(e).SwapIDs(m)
		}
	}
}

func (s *stageList[T]) collectByType(st Stage, t EffectType) []*SimpleEffect {
	var out []*SimpleEffect
	for _, e := range s.stages[st] {
		single(e).CollectByType(t, &out)
	}
	return out
}

func (s *stageList[T]) forEachBonus(fn func(*BonusEffect)) {
	for _, st := range s.stages {
		for _, e := range st {
			forEachBonus(single(e), fn)
		}
	}
}

func (s *stageList[T]) cloneStages() stageList[T] {
	var out stageList[T]
	for i, st := range s.stages {
		if st == nil {
			continue
		}
		out.stages[i] = make([]T, len(st))
		for j, e := range st {
			se := single(e)
			if isNil(se) {
				out.stages[i][j] = e
				continue
			}
			out.stages[i][j] = se.Clone().(T)
		}
	}
	return out
}

func (s *stageList[T]) singleStages() [StageCount][]SingleStage {
	var out [StageCount][]SingleStage
	for i, st := range s.stages {
		out[i] = make([]SingleStage, len(st))
		for j, e := range st {
			out[i][j] = single(e)
		}
	}
	return out
}

// Container holds any single-stage effects in three stages.
type Container struct {
	stageList[SingleStage]
}

// AppendBonus moves the effects of b into c. With selfOnly set only the Self
// stage is taken.
func (c *Container) AppendBonus(b *BonusContainer, selfOnly bool) {
	for st := range StageCount {
		if selfOnly && st != StageSelf {
			break
		}
		for _, e := range b.stages[st] {
			c.stages[st] = append(c.stages[st], e)
		}
	}
}

// removeBonus strips every bonus effect with identity id.
func (c *Container) removeBonus(id ID) int {
	removed := 0
	for st := range StageCount {
		var r int
		c.stages[st], r = removeBonus(c.stages[st], id)
		removed += r
	}
	return removed
}

// removeByUseID drops effects reading id in every stage.
func (c *Container) removeByUseID(id ID) {
	for st := range StageCount {
		c.stages[st] = removeByUseID(c.stages[st], id)
	}
}

// BonusContainer holds bonus effects in three stages. It is the exchange
// format items use to describe what they attach.
type BonusContainer struct {
	stageList[*BonusEffect]
}

// AppendBonus moves the bonus effects of b into c.
func (c *BonusContainer) AppendBonus(b *BonusContainer, selfOnly bool) {
	for st := range StageCount {
		if selfOnly && st != StageSelf {
			break
		}
		c.stages[st] = append(c.stages[st], b.stages[st]...)
	}
}

func (c *BonusContainer) removeBonus(id ID) int {
	removed := 0
	for st := range StageCount {
		n := 0
		for _, b := range c.stages[st] {
			if b.BonusID == id {
				removed++
				continue
			}
			var r int
			b.Effects, r = removeBonus(b.Effects, id)
			removed += r
			c.stages[st][n] = b
			n++
		}
		clear(c.stages[st][n:])
		c.stages[st] = c.stages[st][:n]
	}
	return removed
}

// mergeIDs resolves save id collisions between an existing graph and an
// incoming copy by remapping the incoming one. Returns the occupied set after
// the merge.
func mergeIDs(existing IDSet, incoming interface {
	collectIDs() IDSet
	swapIDs(map[ID]ID)
}) IDSet {
	in := incoming.collectIDs()
	colliding := existing.Intersect(in).Difference(reservedIDs)
	occupied := existing.Union(in).Union(reservedIDs)
	if swap := occupied.SwapMap(colliding); len(swap) > 0 {
		incoming.swapIDs(swap)
		in = incoming.collectIDs()
	}
	return existing.Union(in).Union(reservedIDs)
}
