package nodedb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "REGISTRY_CHANGED", EventRegistryChanged.String())
	assert.Equal(t, "NODE_UPDATED", EventNodeUpdated.String())
	assert.Equal(t, "TEXT_MESSAGE", EventTextMessage.String())
	assert.Equal(t, "UNKNOWN", EventType(99).String())
}

func TestDisplayFlags(t *testing.T) {
	var flags DisplayFlags

	assert.False(t, flags.TakeRegistryChanged())
	assert.Nil(t, flags.TakeNodeUpdated())
	assert.False(t, flags.TakeTextMessage())

	a := &mesh.NodeInfo{Num: 1}
	b := &mesh.NodeInfo{Num: 2}
	flags.Handle(Event{Type: EventRegistryChanged, Node: a})
	flags.Handle(Event{Type: EventNodeUpdated, Node: a})
	flags.Handle(Event{Type: EventNodeUpdated, Node: b})
	flags.Handle(Event{Type: EventTextMessage})

	assert.True(t, flags.TakeRegistryChanged())
	assert.False(t, flags.TakeRegistryChanged(), "cleared after take")

	assert.Same(t, b, flags.TakeNodeUpdated(), "latest node wins")
	assert.Nil(t, flags.TakeNodeUpdated())

	assert.True(t, flags.TakeTextMessage())
	assert.False(t, flags.TakeTextMessage())
}

func TestDisplayFlagsWithReconciler(t *testing.T) {
	f := newReconcilerFixture(t)
	flags := &DisplayFlags{}
	f.reconciler.OnEvent(flags.Handle)

	f.reconciler.HandlePacket(positionPacket(9, 0, mesh.Position{Latitude: 1}))

	assert.True(t, flags.TakeRegistryChanged())
	assert.Same(t, f.registry.Find(9), flags.TakeNodeUpdated())
	assert.False(t, flags.TakeTextMessage())

	f.reconciler.HandlePacket(dataPacket(9, mesh.DataTypeClearText, "hi"))
	assert.False(t, flags.TakeRegistryChanged())
	assert.True(t, flags.TakeTextMessage())
}
