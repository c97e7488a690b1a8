// Package trace provides optional, durable persistence of a search's
// debug trace — the append-only State.log mentioned in the route finder
// spec — for post-mortem inspection of runs that hit a depth limit or
// returned a partial route.
package trace

import (
	"encoding/json"
	"time"
)

// Version is the current entry format version.
const Version = 1

// Entry is one record in a run's append-only debug trace.
type Entry struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Depth     int       `json:"depth"`

	// Kind names the driver action this entry records: "visit_node",
	// "place_key", "use_key", "fork", "join", "dead_end", "reject".
	Kind string `json:"kind"`

	// NodeID and KeyID are populated when relevant to Kind; both may be
	// empty.
	NodeID string `json:"node_id,omitempty"`
	KeyID  string `json:"key_id,omitempty"`

	// Detail is a short human-readable note (e.g. the rejection reason).
	Detail string `json:"detail,omitempty"`
}

// Marshal serializes an entry to JSON.
func (e Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal deserializes an entry from JSON.
func Unmarshal(data []byte) (Entry, error) {
	var e Entry
	err := json.Unmarshal(data, &e)
	return e, err
}

// New creates an entry with the current fields filled in; Sequence and
// Timestamp are assigned by the Store on Append.
func New(runID string, depth int, kind string) Entry {
	return Entry{
		Version: Version,
		RunID:   runID,
		Depth:   depth,
		Kind:    kind,
	}
}

// WithNode returns a copy of e with NodeID set.
func (e Entry) WithNode(id string) Entry {
	e.NodeID = id
	return e
}

// WithKey returns a copy of e with KeyID set.
func (e Entry) WithKey(id string) Entry {
	e.KeyID = id
	return e
}

// WithDetail returns a copy of e with Detail set.
func (e Entry) WithDetail(detail string) Entry {
	e.Detail = detail
	return e
}
