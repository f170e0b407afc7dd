package nodedb

import "github.com/meshdb/meshdb-go/pkg/mesh"

// EventType identifies a reconciler notification.
type EventType uint8

const (
	// EventRegistryChanged - a node record was added.
	EventRegistryChanged EventType = iota

	// EventNodeUpdated - a node's position or user changed.
	EventNodeUpdated

	// EventTextMessage - a clear-text message replaced the last received one.
	EventTextMessage
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventRegistryChanged:
		return "REGISTRY_CHANGED"
	case EventNodeUpdated:
		return "NODE_UPDATED"
	case EventTextMessage:
		return "TEXT_MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// Event is a reconciler notification.
type Event struct {
	// Type is the event type.
	Type EventType

	// Node is the affected record. It points into the live table.
	Node *mesh.NodeInfo

	// Packet is the stored text message (for text message events).
	Packet *mesh.MeshPacket
}

// EventHandler handles reconciler events. Handlers run synchronously on the
// caller of HandlePacket.
type EventHandler func(Event)

// DisplayFlags collects events into flags for a display loop that polls
// instead of subscribing. Each Take call clears the flag it reads.
//
// Register it with:
//
//	flags := &nodedb.DisplayFlags{}
//	reconciler.OnEvent(flags.Handle)
type DisplayFlags struct {
	registryChanged bool
	updatedNode     *mesh.NodeInfo
	textMessage     bool
}

// Handle records an event.
func (f *DisplayFlags) Handle(e Event) {
	switch e.Type {
	case EventRegistryChanged:
		f.registryChanged = true
	case EventNodeUpdated:
		f.updatedNode = e.Node
	case EventTextMessage:
		f.textMessage = true
	}
}

// TakeRegistryChanged reports and clears whether a record was added.
func (f *DisplayFlags) TakeRegistryChanged() bool {
	v := f.registryChanged
	f.registryChanged = false
	return v
}

// TakeNodeUpdated returns and clears the most recently updated node, or nil.
func (f *DisplayFlags) TakeNodeUpdated() *mesh.NodeInfo {
	n := f.updatedNode
	f.updatedNode = nil
	return n
}

// TakeTextMessage reports and clears whether a text message arrived.
func (f *DisplayFlags) TakeTextMessage() bool {
	v := f.textMessage
	f.textMessage = false
	return v
}
