package identity

import (
	"log/slog"
	"math/rand/v2"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// NodeLookup finds a node record by number. It returns nil if the number
// is unknown.
type NodeLookup interface {
	Find(num mesh.NodeNum) *mesh.NodeInfo
}

// PickProvisionalNodeNum picks the local node number for a device with
// hardware address ownMAC, avoiding numbers held by other devices in nodes.
// It loops until it finds a free number or one held by ownMAC, so nodes must
// leave at least one candidate free; a table of mesh.MaxNumNodes records
// always does.
func PickProvisionalNodeNum(nodes NodeLookup, ownMAC [6]byte, rng *rand.Rand) mesh.NodeNum {
	return pick(nodes, ownMAC, rng, nil)
}

func pick(nodes NodeLookup, ownMAC [6]byte, rng *rand.Rand, onCollision func(taken, next mesh.NodeNum)) mesh.NodeNum {
	r := mesh.NodeNum(ownMAC[5])
	if r == mesh.NodeNumBroadcast || r < mesh.NumReserved {
		r = mesh.NumReserved
	}

	for {
		found := nodes.Find(r)
		if found == nil || found.User.MACAddr == ownMAC {
			return r
		}
		next := mesh.NumReserved + mesh.NodeNum(rng.IntN(int(mesh.NodeNumBroadcast-mesh.NumReserved)))
		if onCollision != nil {
			onCollision(r, next)
		}
		r = next
	}
}

// Assigner holds the local identity and its seeded generator.
type Assigner struct {
	identity LocalIdentity
	rng      *rand.Rand
	logger   *slog.Logger
	events   log.Logger
}

// NewAssigner creates an assigner for id with a generator seeded from its MAC.
func NewAssigner(id LocalIdentity) *Assigner {
	return &Assigner{
		identity: id,
		rng:      id.NewRand(),
		logger:   slog.New(slog.DiscardHandler),
		events:   log.NoopLogger{},
	}
}

// SetLogger sets the operational logger. Nil disables logging.
func (a *Assigner) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a.logger = logger
}

// SetEventLogger sets the event trace logger.
func (a *Assigner) SetEventLogger(l log.Logger) {
	a.events = log.OrNoop(l)
}

// Identity returns the local identity.
func (a *Assigner) Identity() LocalIdentity {
	return a.identity
}

// Pick chooses the provisional node number against nodes.
func (a *Assigner) Pick(nodes NodeLookup) mesh.NodeNum {
	num := pick(nodes, a.identity.MAC, a.rng, func(taken, next mesh.NodeNum) {
		a.logger.Info("Desired node number is in use, trying another", "taken", taken, "next", next)
		a.events.Log(log.Event{
			Layer:    log.LayerIdentity,
			Category: log.CategoryNode,
			NodeNum:  taken,
			Node:     &log.NodeEvent{Change: log.NodeNumCollision},
		})
	})

	a.events.Log(log.Event{
		Layer:    log.LayerIdentity,
		Category: log.CategoryNode,
		NodeNum:  num,
		Node: &log.NodeEvent{
			Change:   log.NodeNumAssigned,
			UserID:   a.identity.ID,
			LongName: a.identity.LongName,
		},
	})
	return num
}
