// Package version provides firmware version parsing and comparison.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the firmware version recorded in MyNodeInfo. Release builds
// override it with -ldflags "-X github.com/meshdb/meshdb-go/pkg/version.Current=x.y.z".
var Current = "0.1.0"

// Firmware represents a parsed "major.minor.patch" firmware version.
type Firmware struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// Parse parses a "major.minor.patch" version string. A leading "v" is accepted.
func Parse(s string) (Firmware, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if len(parts) != 3 {
		return Firmware{}, fmt.Errorf("invalid version %q: expected major.minor.patch", s)
	}

	var nums [3]uint16
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.ParseUint(parts[i], 10, 16)
		if err != nil || parts[i] == "" {
			return Firmware{}, fmt.Errorf("invalid version %q: bad %s component", s, name)
		}
		nums[i] = uint16(n)
	}

	return Firmware{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the version as "major.minor.patch".
func (v Firmware) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1 depending on whether v is older than, equal
// to or newer than other.
func (v Firmware) Compare(other Firmware) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

func cmpUint(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Upgraded reports whether current is newer than the version a snapshot was
// written by. Unparseable versions are never considered an upgrade.
func Upgraded(saved, current string) bool {
	s, err := Parse(saved)
	if err != nil {
		return false
	}
	c, err := Parse(current)
	if err != nil {
		return false
	}
	return c.Compare(s) > 0
}
