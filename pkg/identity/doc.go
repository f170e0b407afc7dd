// Package identity derives the local device identity from its hardware
// address and picks the provisional node number the device uses on the mesh.
//
// # Identity
//
// Until a user configures the device, its user id is "!" followed by the six
// MAC bytes in lowercase hex, and its names are derived from the last MAC
// bytes. The MAC also seeds the pseudo-random generator, so the random
// sequence is stable per device across reboots but differs between devices.
//
// # Provisional Node Numbers
//
// The first candidate is the last MAC byte, moved out of the reserved and
// broadcast range. While the node table already holds that number for a
// node with a different MAC, a new candidate is drawn at random. A record
// carrying our own MAC is reclaimed. This is a local heuristic: nothing on
// the mesh arbitrates, and two devices can still end up with the same number.
package identity
