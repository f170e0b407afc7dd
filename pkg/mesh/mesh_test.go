package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubPacketVariant(t *testing.T) {
	tests := []struct {
		name string
		sub  *SubPacket
		want Variant
	}{
		{"Nil", nil, VariantNone},
		{"Empty", &SubPacket{}, VariantNone},
		{"Position", &SubPacket{Position: &Position{}}, VariantPosition},
		{"Data", &SubPacket{Data: &Data{}}, VariantData},
		{"User", &SubPacket{User: &User{}}, VariantUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Variant())
		})
	}
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "NONE", VariantNone.String())
	assert.Equal(t, "POSITION", VariantPosition.String())
	assert.Equal(t, "DATA", VariantData.String())
	assert.Equal(t, "USER", VariantUser.String())
	assert.Equal(t, "NONE", Variant(42).String())
}

func TestDataTypeString(t *testing.T) {
	assert.Equal(t, "OPAQUE", DataTypeOpaque.String())
	assert.Equal(t, "CLEAR_TEXT", DataTypeClearText.String())
	assert.Equal(t, "CLEAR_READACK", DataTypeClearReadAck.String())
	assert.Equal(t, "UNKNOWN", DataType(9).String())
}

func TestUserEqual(t *testing.T) {
	base := User{ID: "!010203040506", LongName: "Alice", ShortName: "A", MACAddr: [6]byte{1, 2, 3, 4, 5, 6}}

	assert.True(t, base.Equal(base))

	changed := base
	changed.LongName = "Bob"
	assert.False(t, base.Equal(changed))

	changed = base
	changed.MACAddr[5] = 7
	assert.False(t, base.Equal(changed))
}

func TestNodeInfoDisplayName(t *testing.T) {
	n := &NodeInfo{Num: 0x2a}
	assert.Equal(t, "0x2a", n.DisplayName())

	n.HasUser = true
	n.User.LongName = "Alice"
	assert.Equal(t, "Alice", n.DisplayName())
}

func TestMeshPacket(t *testing.T) {
	p := &MeshPacket{From: 5, To: NodeNumBroadcast}
	assert.True(t, p.IsBroadcast())
	assert.False(t, p.HasPayload())

	p.Payload = &SubPacket{}
	assert.True(t, p.HasPayload())
}

func TestMeshPacketClone(t *testing.T) {
	orig := &MeshPacket{
		From: 7,
		Payload: &SubPacket{
			Data: &Data{Type: DataTypeClearText, Payload: []byte("hello")},
		},
	}

	c := orig.Clone()
	assert.Equal(t, *orig, c)

	orig.Payload.Data.Payload[0] = 'j'
	orig.Payload.Data.Type = DataTypeOpaque
	assert.Equal(t, []byte("hello"), c.Payload.Data.Payload)
	assert.Equal(t, DataTypeClearText, c.Payload.Data.Type)

	empty := (&MeshPacket{From: 1}).Clone()
	assert.Nil(t, empty.Payload)
}
