package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

func TestEventRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	dt := mesh.DataTypeClearText

	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "Packet",
			event: Event{
				Timestamp: ts,
				SessionID: "s-1",
				Layer:     LayerReconciler,
				Category:  CategoryPacket,
				NodeNum:   7,
				Packet:    &PacketEvent{From: 7, PacketID: 42, RxTime: 1000, Variant: mesh.VariantData, DataType: &dt},
			},
		},
		{
			name: "Node",
			event: Event{
				Timestamp: ts,
				Layer:     LayerRegistry,
				Category:  CategoryNode,
				NodeNum:   9,
				Node:      &NodeEvent{Change: NodeUserChanged, UserID: "!a", LongName: "Alice", Count: 3},
			},
		},
		{
			name: "Storage",
			event: Event{
				Timestamp: ts,
				Layer:     LayerPersistence,
				Category:  CategoryStorage,
				Storage:   &StorageEvent{Op: StorageOpSave, Blob: "/db.proto", Result: "ok", Size: 120, Version: 12, Nodes: 2},
			},
		},
		{
			name: "Error",
			event: Event{
				Timestamp: ts,
				Layer:     LayerPersistence,
				Category:  CategoryError,
				Error:     &ErrorEventData{Layer: LayerPersistence, Message: "boom", Context: "rename"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			require.NoError(t, err)

			got, err := DecodeEvent(data)
			require.NoError(t, err)

			assert.True(t, tt.event.Timestamp.Equal(got.Timestamp), "timestamp keeps nanoseconds")
			got.Timestamp = tt.event.Timestamp
			assert.Equal(t, tt.event, got)
		})
	}
}

func TestDecodeEventGarbage(t *testing.T) {
	_, err := DecodeEvent([]byte{0xff, 0x00})
	assert.Error(t, err)
}
