package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// ErrDecode is returned for snapshots that cannot be parsed or fail
// structural validation.
var ErrDecode = errors.New("malformed device state")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Canonical key order makes snapshots byte-for-byte deterministic.
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	// Unknown fields are ignored so older firmware can read newer snapshots
	// within the supported version range.
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		MaxArrayElements:  1024,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// Encode stamps VersionCurrent on state and serializes it.
func Encode(state *DeviceState) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo stamps VersionCurrent on state and writes it to w.
func EncodeTo(w io.Writer, state *DeviceState) error {
	state.Version = VersionCurrent
	if err := encMode.NewEncoder(w).Encode(state); err != nil {
		return fmt.Errorf("encode device state: %w", err)
	}
	return nil
}

// Decode parses a snapshot into a new DeviceState. It does not check the
// version; see Supported.
func Decode(data []byte) (*DeviceState, error) {
	scratch := &DeviceState{}
	if err := decMode.Unmarshal(data, scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate(scratch); err != nil {
		return nil, err
	}
	scratch.EnsureCapacity()
	if scratch.ReceiveQueue == nil {
		scratch.ReceiveQueue = []mesh.MeshPacket{}
	}
	return scratch, nil
}

// DecodeFrom reads a whole snapshot from r and decodes it.
func DecodeFrom(r io.Reader) (*DeviceState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read device state: %w", err)
	}
	return Decode(data)
}

// Supported reports whether a decoded snapshot is new enough to adopt.
func Supported(state *DeviceState) bool {
	return state.Version >= VersionMinimum
}

func validate(state *DeviceState) error {
	if len(state.NodeDB) > mesh.MaxNumNodes {
		return fmt.Errorf("%w: %d node records exceed capacity %d", ErrDecode, len(state.NodeDB), mesh.MaxNumNodes)
	}
	seen := make(map[mesh.NodeNum]struct{}, len(state.NodeDB))
	for _, n := range state.NodeDB {
		if _, dup := seen[n.Num]; dup {
			return fmt.Errorf("%w: duplicate node %s", ErrDecode, n.Num)
		}
		seen[n.Num] = struct{}{}
	}
	return nil
}
