package mesh

import "fmt"

// NodeNum identifies a participant on the mesh.
type NodeNum uint32

const (
	// NodeNumBroadcast addresses all nodes. Provisional node numbers are
	// drawn strictly below it.
	NodeNumBroadcast NodeNum = 0xff

	// NumReserved is the count of low node numbers held back for future use.
	NumReserved NodeNum = 4

	// MaxNumNodes is the capacity of the node table.
	MaxNumNodes = 32
)

// String returns the node number in the 0x-prefixed form used in logs.
func (n NodeNum) String() string {
	return fmt.Sprintf("0x%x", uint32(n))
}

// User is the identity a node announces on the mesh.
type User struct {
	// ID is the user id. Unconfigured devices use "!" followed by the MAC in hex.
	ID string `cbor:"1,keyasint"`

	// LongName is the human-readable name.
	LongName string `cbor:"2,keyasint"`

	// ShortName is a few characters shown where space is tight.
	ShortName string `cbor:"3,keyasint"`

	// MACAddr is the hardware address of the announcing device.
	MACAddr [6]byte `cbor:"4,keyasint"`
}

// Equal reports whether two users carry the same identity.
func (u User) Equal(other User) bool {
	return u.ID == other.ID &&
		u.LongName == other.LongName &&
		u.ShortName == other.ShortName &&
		u.MACAddr == other.MACAddr
}

// Position is the last known location report of a node.
type Position struct {
	Latitude     float64 `cbor:"1,keyasint"`
	Longitude    float64 `cbor:"2,keyasint"`
	Altitude     int32   `cbor:"3,keyasint"`
	BatteryLevel int32   `cbor:"4,keyasint"`

	// Time is the sender's clock in seconds when the fix was taken.
	Time uint32 `cbor:"5,keyasint"`
}

// DataType classifies a Data payload.
type DataType uint8

const (
	// DataTypeOpaque is an application payload this package does not interpret.
	DataTypeOpaque DataType = 0
	// DataTypeClearText is a plain UTF-8 text message.
	DataTypeClearText DataType = 1
	// DataTypeClearReadAck acknowledges that a text message was read.
	DataTypeClearReadAck DataType = 2
)

// String returns the data type name.
func (t DataType) String() string {
	switch t {
	case DataTypeOpaque:
		return "OPAQUE"
	case DataTypeClearText:
		return "CLEAR_TEXT"
	case DataTypeClearReadAck:
		return "CLEAR_READACK"
	default:
		return "UNKNOWN"
	}
}

// Data is an application payload carried by a packet.
type Data struct {
	Type    DataType `cbor:"1,keyasint"`
	Payload []byte   `cbor:"2,keyasint"`
}
