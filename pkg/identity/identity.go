package identity

import (
	"fmt"
	"math/rand/v2"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// LocalIdentity is the identity this device announces before a user
// configures it.
type LocalIdentity struct {
	MAC       [6]byte
	ID        string
	LongName  string
	ShortName string
}

// Derive builds the default identity for a hardware address.
func Derive(mac [6]byte) LocalIdentity {
	return LocalIdentity{
		MAC:       mac,
		ID:        fmt.Sprintf("!%02x%02x%02x%02x%02x%02x", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]),
		LongName:  fmt.Sprintf("Unknown %02x%02x", mac[4], mac[5]),
		ShortName: fmt.Sprintf("?%02X", mac[5]),
	}
}

// DeriveFrom reads the address from src and derives the identity.
func DeriveFrom(src MACSource) LocalIdentity {
	return Derive(src.HardwareAddr())
}

// Owner returns the identity as a mesh user record.
func (id LocalIdentity) Owner() mesh.User {
	return mesh.User{
		ID:        id.ID,
		LongName:  id.LongName,
		ShortName: id.ShortName,
		MACAddr:   id.MAC,
	}
}

// Seed returns the PRNG seed built from the last four MAC bytes.
func (id LocalIdentity) Seed() uint64 {
	return uint64(id.MAC[2])<<24 | uint64(id.MAC[3])<<16 | uint64(id.MAC[4])<<8 | uint64(id.MAC[5])
}

// NewRand returns a generator seeded from the MAC. Every call returns a
// generator producing the same sequence.
func (id LocalIdentity) NewRand() *rand.Rand {
	seed := id.Seed()
	return rand.New(rand.NewPCG(seed, seed))
}
