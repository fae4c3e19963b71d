package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy. Remove reports
// whether the store held the entity.
type Removable interface {
	Remove(id EntityID) bool
}

// Store is a typed component store. Components are kept densely in insertion
// order so iteration is deterministic from tick to tick; Remove swaps the last
// element into the hole.
type Store[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	data  []*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{index: make(map[EntityID]int, 32)}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.data[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.data = append(s.data, c)
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.data[i], true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store[T]) Remove(id EntityID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.ids) - 1
	if i != last {
		s.ids[i] = s.ids[last]
		s.data[i] = s.data[last]
		s.index[s.ids[i]] = i
	}
	s.ids = s.ids[:last]
	s.data[last] = nil
	s.data = s.data[:last]
	delete(s.index, id)
	return true
}

func (s *Store[T]) Len() int { return len(s.ids) }

// Each visits every component. fn must not add or remove components of this
// store; queue destruction through World instead.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, id := range s.ids {
		fn(id, s.data[i])
	}
}

// Each2 iterates over entities that have both component A and B, in the
// order of the smaller store.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for i, id := range sa.ids {
			if j, ok := sb.index[id]; ok {
				fn(id, sa.data[i], sb.data[j])
			}
		}
		return
	}
	for j, id := range sb.ids {
		if i, ok := sa.index[id]; ok {
			fn(id, sa.data[i], sb.data[j])
		}
	}
}
