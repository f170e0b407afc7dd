package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMAC(t *testing.T) {
	want := FixedMAC{0xa0, 0xb1, 0xc2, 0xd3, 0xe4, 0xf5}

	for _, in := range []string{"a0:b1:c2:d3:e4:f5", "A0-B1-C2-D3-E4-F5", "a0b1c2d3e4f5", " a0b1c2d3e4f5\n"} {
		got, err := ParseMAC(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseMACErrors(t *testing.T) {
	for _, in := range []string{"", "zz:b1:c2:d3:e4:f5", "a0b1c2", "a0b1c2d3e4f5a6", "00:00:5e:00:53:01:02:03"} {
		_, err := ParseMAC(in)
		assert.Error(t, err, in)
	}
}

func TestFixedMAC(t *testing.T) {
	m := FixedMAC{1, 2, 3, 4, 5, 6}
	assert.Equal(t, [6]byte{1, 2, 3, 4, 5, 6}, m.HardwareAddr())
}

func TestDerivedMAC(t *testing.T) {
	a := DerivedMAC{Seed: "node-a"}.HardwareAddr()
	b := DerivedMAC{Seed: "node-a"}.HardwareAddr()
	c := DerivedMAC{Seed: "node-b"}.HardwareAddr()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, byte(0x02), a[0]&0x02, "locally administered")
	assert.Equal(t, byte(0), a[0]&0x01, "unicast")
}

func TestInterfaceMACFallback(t *testing.T) {
	fallback := FixedMAC{1, 2, 3, 4, 5, 6}
	got := InterfaceMAC{Name: "no-such-interface-xyz", Fallback: fallback}.HardwareAddr()
	assert.Equal(t, [6]byte(fallback), got)
}
