package mesh

// Variant identifies which field of a SubPacket is populated.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantPosition
	VariantData
	VariantUser
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantPosition:
		return "POSITION"
	case VariantData:
		return "DATA"
	case VariantUser:
		return "USER"
	default:
		return "NONE"
	}
}

// SubPacket is the decoded payload of a MeshPacket. At most one of the
// variant fields is set.
type SubPacket struct {
	Position *Position `cbor:"1,keyasint,omitempty"`
	Data     *Data     `cbor:"2,keyasint,omitempty"`
	User     *User     `cbor:"3,keyasint,omitempty"`
}

// Variant returns the populated variant, or VariantNone.
func (p *SubPacket) Variant() Variant {
	switch {
	case p == nil:
		return VariantNone
	case p.Position != nil:
		return VariantPosition
	case p.Data != nil:
		return VariantData
	case p.User != nil:
		return VariantUser
	default:
		return VariantNone
	}
}

// MeshPacket is a packet as delivered by the decoding layer.
type MeshPacket struct {
	From NodeNum `cbor:"1,keyasint"`
	To   NodeNum `cbor:"2,keyasint"`
	ID   uint32  `cbor:"3,keyasint"`

	// RxTime is the receive timestamp in seconds. Zero means the receiver
	// had no valid clock.
	RxTime uint32 `cbor:"4,keyasint"`

	// Payload is nil for packets that carry nothing decodable.
	Payload *SubPacket `cbor:"5,keyasint,omitempty"`
}

// HasPayload reports whether the packet carries a decoded payload.
func (p *MeshPacket) HasPayload() bool {
	return p.Payload != nil
}

// IsBroadcast reports whether the packet is addressed to every node.
func (p *MeshPacket) IsBroadcast() bool {
	return p.To == NodeNumBroadcast
}

// Clone returns a deep copy of the packet.
func (p *MeshPacket) Clone() MeshPacket {
	out := *p
	if p.Payload == nil {
		return out
	}

	sub := SubPacket{}
	if p.Payload.Position != nil {
		pos := *p.Payload.Position
		sub.Position = &pos
	}
	if p.Payload.Data != nil {
		data := Data{Type: p.Payload.Data.Type}
		if p.Payload.Data.Payload != nil {
			data.Payload = append([]byte(nil), p.Payload.Data.Payload...)
		}
		sub.Data = &data
	}
	if p.Payload.User != nil {
		user := *p.Payload.User
		sub.User = &user
	}
	out.Payload = &sub
	return out
}
