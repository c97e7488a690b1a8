package routefinder

import "fmt"

// NodeID uniquely identifies a node within a Graph.
type NodeID string

// KeyID uniquely identifies a key within a Graph.
type KeyID string

// EdgeID uniquely identifies an edge within a Graph.
type EdgeID string

// NodeKind classifies how a node becomes reachable.
type NodeKind int

const (
	// AndGate is reachable only when every incoming edge's source side is
	// reachable and that edge's requirements are met.
	AndGate NodeKind = iota
	// OrGate is reachable via any single satisfied incoming edge.
	OrGate
	// Item can host a key placement.
	Item
	// OneWay becomes reachable through a fork that may rejoin its parent.
	OneWay
	// NoReturn begins a fresh segment; the source side is unreachable from it.
	NoReturn
)

// String returns the kind name, used in labels and trace log entries.
func (k NodeKind) String() string {
	switch k {
	case AndGate:
		return "AndGate"
	case OrGate:
		return "OrGate"
	case Item:
		return "Item"
	case OneWay:
		return "OneWay"
	case NoReturn:
		return "NoReturn"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is an immutable vertex in the graph. Group is a bitmask identifying
// which key zones may live here; it is only meaningful when Kind == Item.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Group uint64
	Label string
}

// IsItem reports whether this node can host a key placement.
func (n Node) IsItem() bool {
	return n.Kind == Item
}

// KeyKind classifies how a key is consumed once obtained.
type KeyKind int

const (
	// Reusable keys persist through the segment and all descendant segments
	// once obtained.
	Reusable KeyKind = iota
	// Consumable keys are spent upon traversing the edge they unlock.
	Consumable
	// Removable keys are required in a count equal to the minimum
	// multiplicity of the key on any path from start to the gated node.
	Removable
)

// String returns the kind name.
func (k KeyKind) String() string {
	switch k {
	case Reusable:
		return "Reusable"
	case Consumable:
		return "Consumable"
	case Removable:
		return "Removable"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// Key is an immutable token type. Quantity is how many tokens this key
// represents when referenced by an edge requirement (e.g. a requirement of
// (k, k) means two tokens of k must be held simultaneously).
type Key struct {
	ID       KeyID
	Kind     KeyKind
	Group    uint64
	Quantity int
}

// CompatibleWith reports whether this key may be placed in the given item,
// per the zone-compatibility invariant: item.Group & key.Group == key.Group.
func (k Key) CompatibleWith(item Node) bool {
	return item.Group&k.Group == k.Group
}
