package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrDependencyCycle is returned when objects depend on each other in a loop,
// so no object can be updated first.
var ErrDependencyCycle = errors.New("dependency cycle between game objects")

type Scene struct {
	Name        string
	GameObjects []*GameObject
	uidMap      map[uint64]*GameObject

	// order is GameObjects sorted so that dependencies update first.
	order []*GameObject
	dirty bool
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
		dirty:       true,
	}
}

// AddGameObject adds g and all of its children to the scene.
func (s *Scene) AddGameObject(g *GameObject) {
	if g.Scene == s {
		return
	}
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
	s.markDirty()

	for _, child := range g.Children {
		s.AddGameObject(child)
	}
}

// RemoveGameObject removes g and all of its children from the scene.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range g.Children {
		s.RemoveGameObject(child)
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidMap, g.UID)
	if g.Scene == s {
		g.Scene = nil
	}
	s.markDirty()
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

// Start validates every component, fixes the update order and then starts
// every object. Objects are not started if validation or ordering fails.
func (s *Scene) Start() error {
	for _, g := range s.GameObjects {
		for _, c := range g.components {
			v, ok := c.(Validator)
			if !ok {
				continue
			}
			if err := v.Validate(); err != nil {
				return fmt.Errorf("validate %q: %w", g.Name, err)
			}
		}
	}

	if err := s.sortUpdateOrder(); err != nil {
		return err
	}

	for _, g := range s.order {
		g.Start()
	}
	return nil
}

// Update runs one tick. Every object is updated after the objects it depends
// on, so a follower always sees its target's transform for the current tick.
func (s *Scene) Update(deltaTime float32) {
	if s.dirty {
		if err := s.sortUpdateOrder(); err != nil {
			log.Printf("Scene %q: %v; updating in insertion order", s.Name, err)
			s.order = append(s.order[:0], s.GameObjects...)
			s.dirty = false
		}
	}
	for _, g := range s.order {
		g.Start()
		g.Update(deltaTime)
	}
}

// UpdateOrder returns the objects in the order Update visits them.
func (s *Scene) UpdateOrder() ([]*GameObject, error) {
	if s.dirty {
		if err := s.sortUpdateOrder(); err != nil {
			return nil, err
		}
	}
	return append([]*GameObject(nil), s.order...), nil
}

func (s *Scene) markDirty() {
	s.dirty = true
}

// sortUpdateOrder builds a graph with an edge from every dependency to its
// dependent (hierarchy parents count as dependencies) and sorts it.
func (s *Scene) sortUpdateOrder() error {
	index := make(map[*GameObject]int64, len(s.GameObjects))
	dg := simple.NewDirectedGraph()
	for i, g := range s.GameObjects {
		index[g] = int64(i)
		dg.AddNode(simple.Node(i))
	}

	link := func(from *GameObject, to int64) {
		id, ok := index[from]
		if !ok || id == to || dg.HasEdgeFromTo(id, to) {
			return
		}
		dg.SetEdge(dg.NewEdge(dg.Node(id), dg.Node(to)))
	}

	for i, g := range s.GameObjects {
		if g.Parent != nil {
			link(g.Parent, int64(i))
		}
		for _, c := range g.components {
			d, ok := c.(Dependent)
			if !ok {
				continue
			}
			for _, dep := range d.Dependencies() {
				if dep != nil {
					link(dep, int64(i))
				}
			}
		}
	}

	sorted, err := topo.SortStabilized(dg, func(nodes []graph.Node) {
		sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
	})
	if err != nil {
		return fmt.Errorf("scene %q: %w: %v", s.Name, ErrDependencyCycle, err)
	}

	s.order = s.order[:0]
	for _, n := range sorted {
		s.order = append(s.order, s.GameObjects[n.ID()])
	}
	s.dirty = false
	return nil
}
