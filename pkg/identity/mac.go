package identity

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// MACSource provides the 6-byte hardware address identifying this device.
type MACSource interface {
	HardwareAddr() [6]byte
}

// FixedMAC is a configured hardware address.
type FixedMAC [6]byte

// HardwareAddr returns the configured address.
func (m FixedMAC) HardwareAddr() [6]byte {
	return m
}

// ParseMAC parses "a0:b1:c2:d3:e4:f5", "a0-b1-c2-d3-e4-f5" or "a0b1c2d3e4f5".
func ParseMAC(s string) (FixedMAC, error) {
	var mac FixedMAC
	s = strings.TrimSpace(s)

	if strings.ContainsAny(s, ":-") {
		hw, err := net.ParseMAC(s)
		if err != nil {
			return mac, err
		}
		if len(hw) != 6 {
			return mac, fmt.Errorf("mac %q: want 6 bytes, got %d", s, len(hw))
		}
		copy(mac[:], hw)
		return mac, nil
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return mac, fmt.Errorf("mac %q: %w", s, err)
	}
	if len(b) != 6 {
		return mac, fmt.Errorf("mac %q: want 6 bytes, got %d", s, len(b))
	}
	copy(mac[:], b)
	return mac, nil
}

// DerivedMAC hashes a seed string into a stable, locally administered
// unicast address. Used on hosts without a usable network interface.
type DerivedMAC struct {
	Seed string
}

// HardwareAddr returns the first six bytes of BLAKE2b-256(seed) with the
// locally administered bit set and the multicast bit cleared.
func (d DerivedMAC) HardwareAddr() [6]byte {
	sum := blake2b.Sum256([]byte(d.Seed))
	var mac [6]byte
	copy(mac[:], sum[:6])
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}

// InterfaceMAC reads the address of a network interface.
type InterfaceMAC struct {
	// Name selects the interface. Empty picks the first non-loopback
	// interface with a 6-byte address.
	Name string

	// Fallback is used when no interface matches. Nil derives an address
	// from the hostname.
	Fallback MACSource
}

// HardwareAddr returns the interface address or the fallback.
func (i InterfaceMAC) HardwareAddr() [6]byte {
	ifaces, err := net.Interfaces()
	if err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			if i.Name != "" && iface.Name != i.Name {
				continue
			}
			if len(iface.HardwareAddr) == 6 {
				var mac [6]byte
				copy(mac[:], iface.HardwareAddr)
				return mac
			}
		}
	}

	if i.Fallback != nil {
		return i.Fallback.HardwareAddr()
	}
	host, _ := os.Hostname()
	return DerivedMAC{Seed: host}.HardwareAddr()
}

var (
	_ MACSource = FixedMAC{}
	_ MACSource = DerivedMAC{}
	_ MACSource = InterfaceMAC{}
)
