package routefinder

import "sort"

// KeyMultiset counts occurrences of KeyID, per spec §9's requirement for a
// distinct multiset data structure with add/remove/count/add_range and
// structural equality (so previously-rejected search states can be
// memoized). The zero value is an empty multiset ready to use.
type KeyMultiset struct {
	counts map[KeyID]int
}

// NewKeyMultiset builds a multiset from the given key IDs, counting
// repeats.
func NewKeyMultiset(ids ...KeyID) KeyMultiset {
	m := KeyMultiset{counts: make(map[KeyID]int, len(ids))}
	for _, id := range ids {
		m.counts[id]++
	}
	return m
}

// Clone returns a deep copy, so the receiver's map is never shared between
// two snapshots that diverge.
func (m KeyMultiset) Clone() KeyMultiset {
	out := KeyMultiset{counts: make(map[KeyID]int, len(m.counts))}
	for k, v := range m.counts {
		out.counts[k] = v
	}
	return out
}

// Add increments the count of id by one and returns a new multiset,
// leaving the receiver unmodified.
func (m KeyMultiset) Add(id KeyID) KeyMultiset {
	out := m.Clone()
	out.counts[id]++
	return out
}

// AddRange adds n occurrences of id and returns a new multiset.
func (m KeyMultiset) AddRange(id KeyID, n int) KeyMultiset {
	if n <= 0 {
		return m
	}
	out := m.Clone()
	out.counts[id] += n
	return out
}

// RemoveMany removes up to n occurrences of id and returns a new multiset.
// Removing more than is held clamps at zero (and drops the entry).
func (m KeyMultiset) RemoveMany(id KeyID, n int) KeyMultiset {
	out := m.Clone()
	remaining := out.counts[id] - n
	if remaining <= 0 {
		delete(out.counts, id)
	} else {
		out.counts[id] = remaining
	}
	return out
}

// Count returns how many tokens of id are held.
func (m KeyMultiset) Count(id KeyID) int {
	if m.counts == nil {
		return 0
	}
	return m.counts[id]
}

// Has reports whether at least one token of id is held.
func (m KeyMultiset) Has(id KeyID) bool {
	return m.Count(id) > 0
}

// Distinct returns the number of distinct key IDs with a positive count.
func (m KeyMultiset) Distinct() int {
	return len(m.counts)
}

// SortedIDs returns the distinct key IDs in ascending order, giving a
// stable iteration order before any seeded shuffling (spec §5).
func (m KeyMultiset) SortedIDs() []KeyID {
	ids := make([]KeyID, 0, len(m.counts))
	for id := range m.counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Equal reports structural equality: same key IDs with the same counts.
// Used to memoize previously-rejected search states (spec §9, optional).
func (m KeyMultiset) Equal(other KeyMultiset) bool {
	if len(m.counts) != len(other.counts) {
		return false
	}
	for id, c := range m.counts {
		if other.counts[id] != c {
			return false
		}
	}
	return true
}

// RequirementKind distinguishes a node-reachability requirement from a
// reusable-key requirement within a guaranteed-requirement set (spec §4.3).
type RequirementKind int

const (
	// NodeReq requires a node to already be visited.
	NodeReq RequirementKind = iota
	// KeyReq requires a (reusable) key to already be held.
	KeyReq
)

// Requirement is a single guaranteed prerequisite: either a node (optionally
// "soft", meaning it only marks self-membership, not a hard dependency) or
// a key.
type Requirement struct {
	Kind RequirementKind
	Node NodeID
	Key  KeyID
	Soft bool
}

// NodeRequirement builds a hard node requirement.
func NodeRequirement(n NodeID) Requirement {
	return Requirement{Kind: NodeReq, Node: n}
}

// SoftNodeRequirement builds a soft node requirement (self-membership
// marker, dropped when folding guaranteed(root) per spec §4.3 step 3).
func SoftNodeRequirement(n NodeID) Requirement {
	return Requirement{Kind: NodeReq, Node: n, Soft: true}
}

// KeyRequirement builds a key requirement.
func KeyRequirement(k KeyID) Requirement {
	return Requirement{Kind: KeyReq, Key: k}
}

// reqSetKey is the map key used to dedupe a set of Requirement values.
type reqSetKey struct {
	kind RequirementKind
	node NodeID
	key  KeyID
	soft bool
}

// RequirementSet is an immutable set of Requirement values supporting the
// intersection operation the analyzer folds incoming edges through.
type RequirementSet struct {
	items map[reqSetKey]Requirement
}

// NewRequirementSet builds a RequirementSet from the given requirements,
// deduplicating.
func NewRequirementSet(reqs ...Requirement) RequirementSet {
	rs := RequirementSet{items: make(map[reqSetKey]Requirement, len(reqs))}
	for _, r := range reqs {
		rs.items[reqKeyOf(r)] = r
	}
	return rs
}

func reqKeyOf(r Requirement) reqSetKey {
	return reqSetKey{kind: r.Kind, node: r.Node, key: r.Key, soft: r.Soft}
}

// Union returns a new set containing every requirement from either set.
func (rs RequirementSet) Union(other RequirementSet) RequirementSet {
	out := make(map[reqSetKey]Requirement, len(rs.items)+len(other.items))
	for k, v := range rs.items {
		out[k] = v
	}
	for k, v := range other.items {
		out[k] = v
	}
	return RequirementSet{items: out}
}

// Intersect returns a new set containing only requirements present in both
// sets. An absent operand (zero-value RequirementSet, meaning "contributes
// nothing", per spec §9's cycle handling) acts as the identity: intersecting
// with it returns the other operand unchanged.
func (rs RequirementSet) Intersect(other RequirementSet) RequirementSet {
	if rs.items == nil {
		return other
	}
	if other.items == nil {
		return rs
	}
	out := make(map[reqSetKey]Requirement)
	for k, v := range rs.items {
		if _, ok := other.items[k]; ok {
			out[k] = v
		}
	}
	return RequirementSet{items: out}
}

// Add returns a new set with r included.
func (rs RequirementSet) Add(r Requirement) RequirementSet {
	out := make(map[reqSetKey]Requirement, len(rs.items)+1)
	for k, v := range rs.items {
		out[k] = v
	}
	out[reqKeyOf(r)] = r
	return RequirementSet{items: out}
}

// Items returns the requirements in the set, sorted for determinism.
func (rs RequirementSet) Items() []Requirement {
	out := make([]Requirement, 0, len(rs.items))
	for _, v := range rs.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		return a.Key < b.Key
	})
	return out
}

// Len returns the number of requirements in the set.
func (rs RequirementSet) Len() int {
	return len(rs.items)
}
