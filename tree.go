package ui

// Hierarchy supplies parent/child relationships and entity liveness.
// The UI core only reads it. Children must be returned in declaration order;
// callers must not modify the returned slices.
type Hierarchy interface {
	Parent(e Entity) (Entity, bool)
	Children(e Entity) []Entity
	Roots() []Entity
	Alive(e Entity) bool
}

// LifecycleKind identifies a lifecycle notification.
type LifecycleKind uint8

const (
	EntityCreated LifecycleKind = iota + 1
	EntityDestroyed
)

// LifecycleEvent notifies the UI that an entity appeared or went away.
type LifecycleEvent struct {
	Kind   LifecycleKind
	Entity Entity
}

// Tree is an arena-backed Hierarchy with generational handles.
// It is what the UI uses when the host has no scene graph of its own,
// and what the tests and scene loader build on.
//
// SetParent does not reject cycles: keeping the graph acyclic is the
// host's job, and the layout pass detects and reports cycles itself.
type Tree struct {
	nodes  []treeNode
	free   []uint32
	roots  []Entity
	events []LifecycleEvent
}

type treeNode struct {
	generation uint32
	alive      bool
	parent     Entity
	hasParent  bool
	children   []Entity
}

// NewTree creates an empty hierarchy.
func NewTree() *Tree {
	return &Tree{}
}

// Create allocates a new root entity.
func (t *Tree) Create() Entity {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, treeNode{})
	}

	node := &t.nodes[idx]
	node.generation++
	node.alive = true
	node.hasParent = false
	node.parent = Entity{}
	node.children = node.children[:0]

	e := Entity{Index: idx, Generation: node.generation}
	t.roots = append(t.roots, e)
	t.events = append(t.events, LifecycleEvent{Kind: EntityCreated, Entity: e})
	return e
}

// CreateChild allocates a new entity nested under parent.
func (t *Tree) CreateChild(parent Entity) Entity {
	e := t.Create()
	t.SetParent(e, parent)
	return e
}

// SetParent re-parents child. A zero or dead parent makes child a root.
func (t *Tree) SetParent(child, parent Entity) {
	node := t.node(child)
	if node == nil {
		return
	}
	t.detach(child, node)

	if t.node(parent) == nil {
		t.roots = append(t.roots, child)
		return
	}
	node.parent = parent
	node.hasParent = true
	p := t.node(parent)
	p.children = append(p.children, child)
}

// Destroy removes e and all of its descendants.
func (t *Tree) Destroy(e Entity) {
	root := t.node(e)
	if root == nil {
		return
	}
	t.detach(e, root)

	stack := []Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.node(cur)
		if node == nil {
			// Already destroyed through another path (cyclic graph).
			continue
		}
		stack = append(stack, node.children...)

		node.alive = false
		node.hasParent = false
		node.parent = Entity{}
		node.children = node.children[:0]
		t.free = append(t.free, cur.Index)
		t.events = append(t.events, LifecycleEvent{Kind: EntityDestroyed, Entity: cur})
	}
}

// Alive reports whether e refers to a live entity.
func (t *Tree) Alive(e Entity) bool {
	return t.node(e) != nil
}

// Parent returns the parent of e, if any.
func (t *Tree) Parent(e Entity) (Entity, bool) {
	node := t.node(e)
	if node == nil || !node.hasParent {
		return Entity{}, false
	}
	return node.parent, true
}

// Children returns the children of e in declaration order.
func (t *Tree) Children(e Entity) []Entity {
	node := t.node(e)
	if node == nil {
		return nil
	}
	return node.children
}

// Roots returns every parentless entity in declaration order.
func (t *Tree) Roots() []Entity {
	return t.roots
}

// Len returns the number of live entities.
func (t *Tree) Len() int {
	return len(t.nodes) - len(t.free)
}

// DrainEvents returns the lifecycle notifications recorded since the last
// call and clears them.
func (t *Tree) DrainEvents() []LifecycleEvent {
	events := t.events
	t.events = nil
	return events
}

func (t *Tree) node(e Entity) *treeNode {
	if e.IsZero() || int(e.Index) >= len(t.nodes) {
		return nil
	}
	node := &t.nodes[e.Index]
	if !node.alive || node.generation != e.Generation {
		return nil
	}
	return node
}

// detach unlinks e from its parent's child list or from the root list.
func (t *Tree) detach(e Entity, node *treeNode) {
	if node.hasParent {
		if p := t.node(node.parent); p != nil {
			p.children = removeEntity(p.children, e)
		}
		node.hasParent = false
		node.parent = Entity{}
		return
	}
	t.roots = removeEntity(t.roots, e)
}

func removeEntity(list []Entity, e Entity) []Entity {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
