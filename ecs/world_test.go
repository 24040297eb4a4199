package ecs

import (
	"testing"

	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type grounded struct{}

func TestEntityHandleEncoding(t *testing.T) {
	e := makeEntity(3, 2)
	assert.Equal(t, entityID(3), e.id())
	assert.Equal(t, generation(2), e.generation())
	assert.Equal(t, "3v2", e.String())
	assert.True(t, e.Valid())
	assert.False(t, Entity(0).Valid())

	high := makeEntity(1, 1<<31)
	assert.Equal(t, entityID(1), high.id(), "generation bits never leak into the slot id")
}

func TestEntityLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		create    int
		destroy   []int
		wantLive  int
		wantSlots []entityID // slots handed out by the next creates, most recently freed first
	}{
		{name: "fresh", create: 3, wantLive: 3, wantSlots: []entityID{4}},
		{name: "destroy_middle", create: 3, destroy: []int{1}, wantLive: 2, wantSlots: []entityID{2, 4}},
		{name: "destroy_two", create: 3, destroy: []int{0, 2}, wantLive: 1, wantSlots: []entityID{3, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, tt.create)
			for i := range ents {
				ents[i] = CreateEntity(w)
				require.Equal(t, entityID(i+1), ents[i].id())
				require.Equal(t, generation(0), ents[i].generation())
			}
			for _, i := range tt.destroy {
				require.True(t, DestroyEntity(w, ents[i]))
				assert.False(t, IsAlive(w, ents[i]))
			}
			assert.Len(t, Entities(w), tt.wantLive)

			for _, slot := range tt.wantSlots {
				e := CreateEntity(w)
				assert.Equal(t, slot, e.id())
				if int(slot) <= tt.create {
					assert.Equal(t, generation(1), e.generation(), "a recycled slot bumps its generation")
				}
			}
		})
	}
}

func TestStaleHandles(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[position]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, k, &position{X: 1}))
	require.True(t, DestroyEntity(w, old))
	assert.False(t, DestroyEntity(w, old), "destroying twice fails")

	recycled := CreateEntity(w)
	require.Equal(t, old.id(), recycled.id())
	assert.NotEqual(t, old, recycled)
	assert.False(t, Has(w, recycled, k), "a recycled slot starts empty")

	assert.ErrorIs(t, Add(w, old, k, &position{}), component.ErrEntityNotAlive)
	_, ok := Get(w, old, k)
	assert.False(t, ok)
	assert.False(t, Remove(w, old, k))

	require.NoError(t, Add(w, recycled, k, &position{X: 2}))
	assert.Equal(t, []Entity{recycled}, Query(w, k), "queries hand out the live generation")
}

func TestDestroyRemovesEveryComponent(t *testing.T) {
	w := NewWorld()
	kp := component.NewComponentKind[position]()
	kv := component.NewComponentKind[velocity]()

	a := CreateEntity(w)
	b := CreateEntity(w)
	for _, e := range []Entity{a, b} {
		require.NoError(t, Add(w, e, kp, &position{}))
		require.NoError(t, Add(w, e, kv, &velocity{}))
	}

	require.True(t, DestroyEntity(w, a))
	assert.Equal(t, 1, w.store(kp.ID(), false).Len())
	assert.Equal(t, 1, w.store(kv.ID(), false).Len())
	assert.Equal(t, []Entity{b}, Query(w, kp))
}

func TestComponentOperations(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[position]()
	e := CreateEntity(w)

	assert.False(t, Has(w, e, k))
	assert.False(t, Remove(w, e, k), "removing a missing component reports false")

	first := &position{X: 1}
	require.NoError(t, Add(w, e, k, first))
	got, ok := Get(w, e, k)
	require.True(t, ok)
	assert.Same(t, first, got)

	second := &position{X: 2}
	require.NoError(t, Add(w, e, k, second))
	got, _ = Get(w, e, k)
	assert.Same(t, second, got, "Add replaces")
	assert.Equal(t, 1, w.store(k.ID(), false).Len())

	assert.True(t, Remove(w, e, k))
	assert.False(t, Has(w, e, k))
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	assert.ErrorIs(t, Add(w, e, component.NewComponentKind[position](), nil), component.ErrNilComponent)
	var zero component.ComponentKind[position]
	assert.ErrorIs(t, Add(w, e, zero, &position{}), component.ErrInvalidComponentKind)
	assert.ErrorIs(t, Add(w, Entity(0), component.NewComponentKind[position](), &position{}), component.ErrEntityNotAlive)
}

func TestJoinsVisitOnlyFullMatches(t *testing.T) {
	w := NewWorld()
	kp := component.NewComponentKind[position]()
	kv := component.NewComponentKind[velocity]()
	kg := component.NewComponentKind[grounded]()

	moving := CreateEntity(w)
	still := CreateEntity(w)
	landed := CreateEntity(w)
	gone := CreateEntity(w)

	require.NoError(t, Add(w, moving, kp, &position{}))
	require.NoError(t, Add(w, moving, kv, &velocity{X: 1}))
	require.NoError(t, Add(w, still, kp, &position{}))
	require.NoError(t, Add(w, landed, kp, &position{}))
	require.NoError(t, Add(w, landed, kv, &velocity{X: 2}))
	require.NoError(t, Add(w, landed, kg, &grounded{}))
	require.NoError(t, Add(w, gone, kp, &position{}))
	require.NoError(t, Add(w, gone, kv, &velocity{}))
	require.True(t, DestroyEntity(w, gone))

	var two []Entity
	ForEach2(w, kp, kv, func(e Entity, p *position, v *velocity) {
		p.X += v.X
		two = append(two, e)
	})
	assert.ElementsMatch(t, []Entity{moving, landed}, two)

	var three []Entity
	ForEach3(w, kp, kv, kg, func(e Entity, p *position, _ *velocity, _ *grounded) {
		three = append(three, e)
		assert.Equal(t, 2.0, p.X, "writes from the previous join are visible")
	})
	assert.Equal(t, []Entity{landed}, three)

	unused := component.NewComponentKind[int]()
	ForEach2(w, kp, unused, func(Entity, *position, *int) {
		t.Fatal("a kind with no store joins nothing")
	})
}

func TestIntersectWalksSmallestSet(t *testing.T) {
	big := &SparseSet{}
	small := &SparseSet{}
	for id := entityID(1); id <= 5; id++ {
		big.Set(id, id)
	}
	small.Set(4, 4)
	small.Set(2, 2)
	small.Set(9, 9)

	assert.Equal(t, []entityID{4, 2}, intersect(big, small), "order follows the smallest set")
	assert.Nil(t, intersect(big, nil))
	assert.Nil(t, intersect())
}

func TestSparseSetRemoveKeepsIndex(t *testing.T) {
	s := &SparseSet{}
	for id := entityID(1); id <= 3; id++ {
		s.Set(id, int(id))
	}
	require.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, 3, s.Get(3), "the moved tail is still addressable")
	assert.Equal(t, 2, s.Get(2))
	assert.Equal(t, 2, s.Len())

	var nilSet *SparseSet
	assert.False(t, nilSet.Has(1))
	assert.Nil(t, nilSet.Get(1))
	assert.Zero(t, nilSet.Len())
}

func TestFirstAndQuery(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[position]()

	_, ok := First(w, k)
	assert.False(t, ok)

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	require.NoError(t, Add(w, e2, k, &position{}))
	require.NoError(t, Add(w, e1, k, &position{}))

	first, ok := First(w, k)
	require.True(t, ok)
	assert.Equal(t, e2, first, "storage order, not slot order")
	assert.Equal(t, []Entity{e2, e1}, Query(w, k))
}

func TestNilWorld(t *testing.T) {
	var w *World
	k := component.NewComponentKind[position]()
	assert.False(t, IsAlive(w, makeEntity(1, 0)))
	assert.Nil(t, Entities(w))
	assert.Nil(t, Query(w, k))
	assert.Nil(t, w.Events())
	ForEach(w, k, func(Entity, *position) { t.Fatal("nil world has no entities") })
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	q := w.Events()

	q.Push(CollisionEvent{Entity: e, Kind: CollisionEventLanded, Side: collision.SideBottom})
	q.Push(CollisionEvent{Entity: e, Kind: CollisionEventBumped, Side: collision.SideRight})
	assert.Equal(t, 2, q.Len())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, CollisionEventLanded, got[0].Kind)
	assert.Equal(t, collision.SideRight, got[1].Side)
	assert.Zero(t, q.Len())

	q.Push(CollisionEvent{Entity: e, Kind: CollisionEventLeftGround})
	q.flush()
	assert.Nil(t, q.Drain())

	var nilQueue *EventQueue
	nilQueue.Push(CollisionEvent{})
	assert.Zero(t, nilQueue.Len())
}
