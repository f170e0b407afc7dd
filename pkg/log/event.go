package log

import (
	"time"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// Event represents a node database event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the boot session that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// NodeNum is the node the event concerns, if any.
	NodeNum mesh.NodeNum `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Packet  *PacketEvent    `cbor:"10,keyasint,omitempty"` // Reconciler input
	Node    *NodeEvent      `cbor:"11,keyasint,omitempty"` // Record changes
	Storage *StorageEvent   `cbor:"12,keyasint,omitempty"` // Snapshot load/save
	Error   *ErrorEventData `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerReconciler is the packet reconciler.
	LayerReconciler Layer = 0
	// LayerRegistry is the node table.
	LayerRegistry Layer = 1
	// LayerPersistence is the snapshot manager.
	LayerPersistence Layer = 2
	// LayerIdentity is the identity assigner.
	LayerIdentity Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerReconciler:
		return "RECONCILER"
	case LayerRegistry:
		return "REGISTRY"
	case LayerPersistence:
		return "PERSISTENCE"
	case LayerIdentity:
		return "IDENTITY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPacket indicates an inbound packet.
	CategoryPacket Category = 0
	// CategoryNode indicates a node record change.
	CategoryNode Category = 1
	// CategoryStorage indicates a snapshot load or save.
	CategoryStorage Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPacket:
		return "PACKET"
	case CategoryNode:
		return "NODE"
	case CategoryStorage:
		return "STORAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// PacketEvent captures an inbound packet as seen by the reconciler.
type PacketEvent struct {
	// From is the sender.
	From mesh.NodeNum `cbor:"1,keyasint"`

	// PacketID is the sender-assigned packet id.
	PacketID uint32 `cbor:"2,keyasint,omitempty"`

	// RxTime is the receive timestamp (0 if the packet had none).
	RxTime uint32 `cbor:"3,keyasint,omitempty"`

	// Variant is the payload variant.
	Variant mesh.Variant `cbor:"4,keyasint"`

	// DataType is set for data payloads.
	DataType *mesh.DataType `cbor:"5,keyasint,omitempty"`

	// Ignored is set when the packet carried no payload.
	Ignored bool `cbor:"6,keyasint,omitempty"`

	// Broadcast is set when the packet was addressed to every node.
	Broadcast bool `cbor:"7,keyasint,omitempty"`
}

// NodeEvent captures a change to a node record.
type NodeEvent struct {
	// Change describes what happened to the record.
	Change NodeChange `cbor:"1,keyasint"`

	// UserID is the node's user id after the change (if known).
	UserID string `cbor:"2,keyasint,omitempty"`

	// LongName is the node's long name after the change (if known).
	LongName string `cbor:"3,keyasint,omitempty"`

	// Count is the number of records in the table after the change.
	Count int `cbor:"4,keyasint,omitempty"`
}

// NodeChange indicates what happened to a node record.
type NodeChange uint8

const (
	// NodeCreated indicates a new record was appended.
	NodeCreated NodeChange = 0
	// NodePositionUpdated indicates the position was replaced.
	NodePositionUpdated NodeChange = 1
	// NodeUserChanged indicates the user identity changed.
	NodeUserChanged NodeChange = 2
	// NodeUserRefreshed indicates an identical user was received again.
	NodeUserRefreshed NodeChange = 3
	// NodeNumAssigned indicates the local node number was picked.
	NodeNumAssigned NodeChange = 4
	// NodeNumCollision indicates a candidate local number was taken.
	NodeNumCollision NodeChange = 5
)

// String returns the change name.
func (c NodeChange) String() string {
	switch c {
	case NodeCreated:
		return "CREATED"
	case NodePositionUpdated:
		return "POSITION_UPDATED"
	case NodeUserChanged:
		return "USER_CHANGED"
	case NodeUserRefreshed:
		return "USER_REFRESHED"
	case NodeNumAssigned:
		return "NUM_ASSIGNED"
	case NodeNumCollision:
		return "NUM_COLLISION"
	default:
		return "UNKNOWN"
	}
}

// StorageEvent captures a snapshot load or save.
type StorageEvent struct {
	// Op is the operation performed.
	Op StorageOp `cbor:"1,keyasint"`

	// Blob is the blob name read or written.
	Blob string `cbor:"2,keyasint"`

	// Result is the outcome (e.g. "adopted", "not_found", "stale", "ok").
	Result string `cbor:"3,keyasint"`

	// Size is the snapshot size in bytes.
	Size int `cbor:"4,keyasint,omitempty"`

	// Version is the snapshot schema version.
	Version uint32 `cbor:"5,keyasint,omitempty"`

	// Nodes is the number of node records in the snapshot.
	Nodes int `cbor:"6,keyasint,omitempty"`
}

// StorageOp indicates the storage operation.
type StorageOp uint8

const (
	// StorageOpLoad indicates a snapshot load.
	StorageOpLoad StorageOp = 0
	// StorageOpSave indicates a snapshot save.
	StorageOpSave StorageOp = 1
)

// String returns the operation name.
func (o StorageOp) String() string {
	switch o {
	case StorageOpLoad:
		return "LOAD"
	case StorageOpSave:
		return "SAVE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
