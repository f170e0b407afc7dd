package mesh

// NodeInfo is the record kept for each node seen on the mesh.
type NodeInfo struct {
	// Num is the record key. It never changes after creation.
	Num NodeNum `cbor:"1,keyasint"`

	HasUser bool `cbor:"2,keyasint"`
	User    User `cbor:"3,keyasint"`

	HasPosition bool     `cbor:"4,keyasint"`
	Position    Position `cbor:"5,keyasint"`

	// LastSeen is the receive time in seconds of the newest timestamped packet.
	LastSeen uint32 `cbor:"6,keyasint"`
}

// DisplayName returns the long name if the node has announced a user,
// otherwise its node number.
func (n *NodeInfo) DisplayName() string {
	if n.HasUser && n.User.LongName != "" {
		return n.User.LongName
	}
	return n.Num.String()
}

// MyNodeInfo describes the local node.
type MyNodeInfo struct {
	// MyNodeNum is the node number this device currently uses.
	MyNodeNum NodeNum `cbor:"1,keyasint"`

	// HasGPS is set on hardware with a built-in GPS receiver.
	HasGPS bool `cbor:"2,keyasint"`

	Region          string `cbor:"3,keyasint"`
	FirmwareVersion string `cbor:"4,keyasint"`
}

// ChannelSettings holds the radio channel parameters.
type ChannelSettings struct {
	Name        string `cbor:"1,keyasint"`
	PSK         []byte `cbor:"2,keyasint"`
	ModemConfig uint8  `cbor:"3,keyasint"`
	TxPower     int32  `cbor:"4,keyasint"`
}

// Preferences holds device behaviour timers, all in seconds.
type Preferences struct {
	// SendOwnerSecs is how often the owner record is broadcast.
	SendOwnerSecs uint32 `cbor:"1,keyasint"`

	// PositionBroadcastSecs is how often our position is broadcast.
	PositionBroadcastSecs uint32 `cbor:"2,keyasint"`

	WaitBluetoothSecs uint32 `cbor:"3,keyasint"`
	ScreenOnSecs      uint32 `cbor:"4,keyasint"`
}

// Default preference timers.
const (
	DefaultSendOwnerSecs         = 60 * 60
	DefaultPositionBroadcastSecs = 15 * 60
)

// RadioConfig groups the channel settings and preferences.
type RadioConfig struct {
	HasChannelSettings bool            `cbor:"1,keyasint"`
	ChannelSettings    ChannelSettings `cbor:"2,keyasint"`
	HasPreferences     bool            `cbor:"3,keyasint"`
	Preferences        Preferences     `cbor:"4,keyasint"`
}
