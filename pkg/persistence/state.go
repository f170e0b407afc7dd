package persistence

import (
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// Snapshot schema versions.
const (
	// VersionCurrent is stamped on every snapshot written.
	VersionCurrent uint32 = 12

	// VersionMinimum is the oldest snapshot version that is still adopted on load.
	VersionMinimum uint32 = 11
)

// DeviceState contains everything the device persists across reboots.
//
// The node table length is the valid record count. In memory the table
// always has capacity mesh.MaxNumNodes so pointers into it stay valid as
// records are appended.
type DeviceState struct {
	// Version is the snapshot schema version.
	Version uint32 `cbor:"1,keyasint"`

	HasMyNode bool            `cbor:"2,keyasint"`
	MyNode    mesh.MyNodeInfo `cbor:"3,keyasint"`

	// Owner is this device's own user. It is duplicated into the local
	// node's NodeInfo.
	HasOwner bool      `cbor:"4,keyasint"`
	Owner    mesh.User `cbor:"5,keyasint"`

	HasRadio bool             `cbor:"6,keyasint"`
	Radio    mesh.RadioConfig `cbor:"7,keyasint"`

	// NodeDB holds the known nodes in discovery order.
	NodeDB []mesh.NodeInfo `cbor:"8,keyasint"`

	// RxTextMessage is the most recent clear-text message received.
	HasRxTextMessage bool            `cbor:"9,keyasint"`
	RxTextMessage    mesh.MeshPacket `cbor:"10,keyasint"`

	// ReceiveQueue holds packets waiting to be handed to a client.
	ReceiveQueue []mesh.MeshPacket `cbor:"11,keyasint"`
}

// NewDeviceState returns the compile-time defaults: every presence flag set
// so the snapshot always carries the sub-records, and the default
// broadcast timers.
func NewDeviceState() *DeviceState {
	return &DeviceState{
		HasMyNode: true,
		HasOwner:  true,
		HasRadio:  true,
		Radio: mesh.RadioConfig{
			HasChannelSettings: true,
			HasPreferences:     true,
			Preferences: mesh.Preferences{
				SendOwnerSecs:         mesh.DefaultSendOwnerSecs,
				PositionBroadcastSecs: mesh.DefaultPositionBroadcastSecs,
			},
		},
		NodeDB:       make([]mesh.NodeInfo, 0, mesh.MaxNumNodes),
		ReceiveQueue: []mesh.MeshPacket{},
	}
}

// NodeDBCount returns the number of valid node records.
func (s *DeviceState) NodeDBCount() int {
	return len(s.NodeDB)
}

// ReceiveQueueCount returns the number of queued packets.
func (s *DeviceState) ReceiveQueueCount() int {
	return len(s.ReceiveQueue)
}

// EnsureCapacity gives the node table its full fixed capacity. Decode and
// NewDeviceState already do this; callers building a DeviceState by hand
// must call it before taking pointers into NodeDB.
func (s *DeviceState) EnsureCapacity() {
	if cap(s.NodeDB) >= mesh.MaxNumNodes {
		return
	}
	nodes := make([]mesh.NodeInfo, len(s.NodeDB), mesh.MaxNumNodes)
	copy(nodes, s.NodeDB)
	s.NodeDB = nodes
}
