package nodedb

import (
	"errors"
	"log/slog"

	"github.com/meshdb/meshdb-go/pkg/clock"
	"github.com/meshdb/meshdb-go/pkg/identity"
	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
	"github.com/meshdb/meshdb-go/pkg/metrics"
	"github.com/meshdb/meshdb-go/pkg/persistence"
	"github.com/meshdb/meshdb-go/pkg/storage"
	"github.com/meshdb/meshdb-go/pkg/version"
)

// ErrNoStorage is returned by Open when Config.Storage is nil.
var ErrNoStorage = errors.New("nodedb: storage is required")

// Config configures Open.
type Config struct {
	// Storage holds the snapshot blobs. Required.
	Storage storage.Storage

	// MAC identifies the device. Defaults to the first network interface.
	MAC identity.MACSource

	// Clock is the seconds clock for liveness. Defaults to the system clock.
	Clock clock.Clock

	// OnlineThreshold in seconds. Defaults to DefaultOnlineThreshold.
	OnlineThreshold uint32

	// LongName and ShortName replace the derived owner names on a device
	// without a snapshot.
	LongName  string
	ShortName string

	// HasGPS marks hardware with a built-in GPS receiver.
	HasGPS bool

	// Logger is the operational logger. Nil disables logging.
	Logger *slog.Logger

	// EventLogger receives the event trace. Nil disables it.
	EventLogger log.Logger

	// Recorder receives metrics. Nil disables them.
	Recorder metrics.Recorder
}

// NodeDB wires the device state, its persistence and the node table.
type NodeDB struct {
	state      *persistence.DeviceState
	manager    *persistence.Manager
	registry   *Registry
	reconciler *Reconciler
	assigner   *identity.Assigner

	clock     clock.Clock
	threshold uint32
	logger    *slog.Logger

	loadResult persistence.LoadResult
}

// Open builds the default state for the device, loads the snapshot if a
// usable one exists, picks the local node number and makes sure the local
// node has a record carrying the owner.
//
// Snapshot problems are logged and leave the defaults in place. When a
// loaded table is full and lacks the local record, the record heard from
// longest ago makes room. Open only fails on an invalid Config.
func Open(cfg Config) (*NodeDB, error) {
	if cfg.Storage == nil {
		return nil, ErrNoStorage
	}
	if cfg.MAC == nil {
		cfg.MAC = identity.InterfaceMAC{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.OnlineThreshold == 0 {
		cfg.OnlineThreshold = DefaultOnlineThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := identity.DeriveFrom(cfg.MAC)
	owner := id.Owner()
	if cfg.LongName != "" {
		owner.LongName = cfg.LongName
	}
	if cfg.ShortName != "" {
		owner.ShortName = cfg.ShortName
	}

	state := persistence.NewDeviceState()
	state.Owner = owner
	state.MyNode.HasGPS = cfg.HasGPS
	state.MyNode.FirmwareVersion = version.Current

	manager := persistence.NewManager(cfg.Storage, state)
	manager.SetLogger(logger)
	manager.SetEventLogger(cfg.EventLogger)
	manager.SetRecorder(cfg.Recorder)

	result, err := manager.Load()
	if err != nil {
		logger.Warn("Node database not loaded, using defaults", "result", result, "error", err)
	}
	if result == persistence.LoadAdopted {
		if state.Owner.MACAddr != id.MAC {
			logger.Warn("Snapshot owner is another device, using derived identity", "snapshot", state.Owner.ID, "id", owner.ID)
			state.Owner = owner
		}
		if version.Upgraded(state.MyNode.FirmwareVersion, version.Current) {
			logger.Info("Firmware upgraded since last save", "from", state.MyNode.FirmwareVersion, "to", version.Current)
		}
		state.MyNode.FirmwareVersion = version.Current
	}

	registry := NewRegistry(state)

	assigner := identity.NewAssigner(id)
	assigner.SetLogger(logger)
	assigner.SetEventLogger(cfg.EventLogger)
	state.MyNode.MyNodeNum = assigner.Pick(registry)

	self := registry.Find(state.MyNode.MyNodeNum)
	if self == nil && registry.Count() >= mesh.MaxNumNodes {
		// The snapshot lost our record, e.g. a peer on our number overwrote it.
		var evicted mesh.NodeInfo
		self, evicted = registry.Reclaim(state.MyNode.MyNodeNum)
		logger.Warn("Node table full, reclaimed the oldest record for the local node",
			"node", state.MyNode.MyNodeNum,
			"evicted", evicted.Num,
			"last_seen", evicted.LastSeen)
	}
	if self == nil {
		self, _ = registry.FindOrCreate(state.MyNode.MyNodeNum)
	}
	self.User = state.Owner
	self.HasUser = true
	self.LastSeen = 0

	reconciler := NewReconciler(state, registry, manager)
	reconciler.SetLogger(logger)
	reconciler.SetEventLogger(cfg.EventLogger)
	reconciler.SetRecorder(cfg.Recorder)

	logger.Info("Node database ready",
		"node", state.MyNode.MyNodeNum,
		"id", state.Owner.ID,
		"nodes", registry.Count(),
		"load", result)

	return &NodeDB{
		state:      state,
		manager:    manager,
		registry:   registry,
		reconciler: reconciler,
		assigner:   assigner,
		clock:      cfg.Clock,
		threshold:  cfg.OnlineThreshold,
		logger:     logger,
		loadResult: result,
	}, nil
}

// State returns the live device state.
func (db *NodeDB) State() *persistence.DeviceState {
	return db.state
}

// Registry returns the node table.
func (db *NodeDB) Registry() *Registry {
	return db.registry
}

// Reconciler returns the packet reconciler.
func (db *NodeDB) Reconciler() *Reconciler {
	return db.reconciler
}

// Manager returns the persistence manager.
func (db *NodeDB) Manager() *persistence.Manager {
	return db.manager
}

// Identity returns the identity derived from the hardware address.
func (db *NodeDB) Identity() identity.LocalIdentity {
	return db.assigner.Identity()
}

// LoadResult returns the outcome of the snapshot load done by Open.
func (db *NodeDB) LoadResult() persistence.LoadResult {
	return db.loadResult
}

// MyNodeNum returns the local node number.
func (db *NodeDB) MyNodeNum() mesh.NodeNum {
	return db.state.MyNode.MyNodeNum
}

// Owner returns the local user.
func (db *NodeDB) Owner() mesh.User {
	return db.state.Owner
}

// NumOnlineNodes returns the number of nodes heard from within the online
// threshold.
func (db *NodeDB) NumOnlineNodes() int {
	return db.registry.CountOnline(db.clock.NowSeconds(), db.threshold)
}

// HandlePacket applies an inbound packet. See Reconciler.HandlePacket.
func (db *NodeDB) HandlePacket(p *mesh.MeshPacket) {
	db.reconciler.HandlePacket(p)
}

// Save writes the state to storage.
func (db *NodeDB) Save() error {
	return db.manager.Save()
}
