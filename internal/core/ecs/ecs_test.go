package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPoolRecyclesWithNewGeneration(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero())
	assert.True(t, p.Alive(a))

	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "stale id")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index())
	assert.NotEqual(t, a.Generation(), b.Generation())
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Live())
}

func TestStoreIterationOrderIsStable(t *testing.T) {
	s := NewStore[int]()
	ids := []EntityID{NewEntityID(0, 1), NewEntityID(1, 1), NewEntityID(2, 1), NewEntityID(3, 1)}
	for i, id := range ids {
		v := i
		s.Set(id, &v)
	}
	s.Remove(ids[1])

	var seen []EntityID
	s.Each(func(id EntityID, _ *int) { seen = append(seen, id) })
	assert.Equal(t, []EntityID{ids[0], ids[3], ids[2]}, seen)

	v, ok := s.Get(ids[3])
	require.True(t, ok)
	assert.Equal(t, 3, *v)
	assert.False(t, s.Has(ids[1]))
	assert.Equal(t, 3, s.Len())
}

func TestEach2JoinsOnEntity(t *testing.T) {
	pos := NewStore[float64]()
	tag := NewStore[string]()
	a, b, c := NewEntityID(0, 1), NewEntityID(1, 1), NewEntityID(2, 1)
	pa, pb := 1.0, 2.0
	ta, tc := "a", "c"
	pos.Set(a, &pa)
	pos.Set(b, &pb)
	tag.Set(a, &ta)
	tag.Set(c, &tc)

	var joined []EntityID
	Each2(pos, tag, func(id EntityID, p *float64, s *string) {
		joined = append(joined, id)
		assert.Equal(t, 1.0, *p)
		assert.Equal(t, "a", *s)
	})
	assert.Equal(t, []EntityID{a}, joined)
}

func TestWorldDestroyQueueDedupes(t *testing.T) {
	w := NewWorld()
	s := NewStore[int]()
	w.Registry().Register(s)

	id := w.CreateEntity()
	v := 7
	s.Set(id, &v)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.Equal(t, 1, w.Pending())

	destroyed, cleared := w.FlushDestroyQueue()
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 1, cleared)
	assert.False(t, w.Alive(id))
	assert.False(t, s.Has(id))
	assert.Equal(t, 0, w.Pending())

	w.MarkForDestruction(id)
	assert.Equal(t, 0, w.Pending(), "dead entities are not queued")
}

func TestRegistryRemoveAllCountsHolders(t *testing.T) {
	r := NewRegistry()
	hp := NewStore[int]()
	pos := NewStore[float64]()
	r.Register(hp)
	r.Register(pos)
	assert.Equal(t, 2, r.Len())

	a := NewEntityID(1, 1)
	b := NewEntityID(2, 1)
	v, p := 3, 1.5
	hp.Set(a, &v)
	pos.Set(a, &p)
	hp.Set(b, &v)

	assert.Equal(t, 2, r.RemoveAll(a))
	assert.Equal(t, 1, r.RemoveAll(b))
	assert.Equal(t, 0, r.RemoveAll(a), "already cleared")
	assert.Equal(t, 0, hp.Len())
}
