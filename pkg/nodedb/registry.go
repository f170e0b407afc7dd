package nodedb

import (
	"fmt"
	"iter"

	"github.com/meshdb/meshdb-go/pkg/mesh"
	"github.com/meshdb/meshdb-go/pkg/persistence"
)

// DefaultOnlineThreshold is how recently, in seconds, a node must have been
// heard from to count as online.
const DefaultOnlineThreshold uint32 = 120

// Registry is the bounded node table of a DeviceState.
type Registry struct {
	state *persistence.DeviceState
}

// NewRegistry returns a registry over the node table of state.
func NewRegistry(state *persistence.DeviceState) *Registry {
	state.EnsureCapacity()
	return &Registry{state: state}
}

// Find returns the record for num, or nil if there is none.
// The pointer stays valid until the state is replaced by a load.
func (r *Registry) Find(num mesh.NodeNum) *mesh.NodeInfo {
	nodes := r.state.NodeDB
	for i := range nodes {
		if nodes[i].Num == num {
			return &nodes[i]
		}
	}
	return nil
}

// FindOrCreate returns the record for num, appending an empty one if it is
// unknown. created reports whether a record was appended.
//
// It panics if the table is full.
func (r *Registry) FindOrCreate(num mesh.NodeNum) (node *mesh.NodeInfo, created bool) {
	if n := r.Find(num); n != nil {
		return n, false
	}

	if len(r.state.NodeDB) >= mesh.MaxNumNodes {
		panic(fmt.Sprintf("nodedb: node table full (%d records), cannot add %s", len(r.state.NodeDB), num))
	}
	r.state.EnsureCapacity()
	r.state.NodeDB = append(r.state.NodeDB, mesh.NodeInfo{Num: num})
	return &r.state.NodeDB[len(r.state.NodeDB)-1], true
}

// Reclaim replaces the record heard from longest ago with an empty record
// for num and returns it along with a copy of the evicted record. Ties go
// to the earliest record. Pointers to the evicted record now see the new
// one, so Reclaim is only used before records are handed out.
//
// num must not already be in the table and the table must not be empty.
func (r *Registry) Reclaim(num mesh.NodeNum) (node *mesh.NodeInfo, evicted mesh.NodeInfo) {
	nodes := r.state.NodeDB
	oldest := 0
	for i := 1; i < len(nodes); i++ {
		if nodes[i].LastSeen < nodes[oldest].LastSeen {
			oldest = i
		}
	}
	evicted = nodes[oldest]
	nodes[oldest] = mesh.NodeInfo{Num: num}
	return &nodes[oldest], evicted
}

// Count returns the number of records.
func (r *Registry) Count() int {
	return len(r.state.NodeDB)
}

// SinceLastSeen returns how many seconds before now the node was last
// heard from. A LastSeen ahead of now, as happens before the clock is set,
// yields zero.
func SinceLastSeen(node *mesh.NodeInfo, now uint32) uint32 {
	if node.LastSeen >= now {
		return 0
	}
	return now - node.LastSeen
}

// CountOnline returns the number of nodes heard from less than threshold
// seconds before now.
func (r *Registry) CountOnline(now, threshold uint32) int {
	count := 0
	nodes := r.state.NodeDB
	for i := range nodes {
		if SinceLastSeen(&nodes[i], now) < threshold {
			count++
		}
	}
	return count
}

// All yields a copy of every record in discovery order.
func (r *Registry) All() iter.Seq[mesh.NodeInfo] {
	return func(yield func(mesh.NodeInfo) bool) {
		for i := 0; i < len(r.state.NodeDB); i++ {
			if !yield(r.state.NodeDB[i]) {
				return
			}
		}
	}
}

// Cursor returns a cursor positioned before the first record.
func (r *Registry) Cursor() *Cursor {
	return &Cursor{registry: r}
}

// Cursor walks the node table one record per call. Records appended while
// walking are visited.
type Cursor struct {
	registry *Registry
	pos      int
}

// Next returns a copy of the next record. ok is false once the cursor has
// passed the last record.
func (c *Cursor) Next() (node mesh.NodeInfo, ok bool) {
	nodes := c.registry.state.NodeDB
	if c.pos >= len(nodes) {
		return mesh.NodeInfo{}, false
	}
	node = nodes[c.pos]
	c.pos++
	return node, true
}

// Reset moves the cursor back to the first record.
func (c *Cursor) Reset() {
	c.pos = 0
}
