package identity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

type nodeMap map[mesh.NodeNum]*mesh.NodeInfo

func (m nodeMap) Find(num mesh.NodeNum) *mesh.NodeInfo {
	return m[num]
}

func (m nodeMap) add(num mesh.NodeNum, mac [6]byte) {
	m[num] = &mesh.NodeInfo{Num: num, HasUser: true, User: mesh.User{MACAddr: mac}}
}

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingLogger) changes() []log.NodeChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []log.NodeChange
	for _, e := range r.events {
		if e.Node != nil {
			out = append(out, e.Node.Change)
		}
	}
	return out
}

func TestDerive(t *testing.T) {
	id := Derive([6]byte{0xa0, 0xb1, 0xc2, 0xd3, 0xe4, 0xf5})

	assert.Equal(t, "!a0b1c2d3e4f5", id.ID)
	assert.Equal(t, "Unknown e4f5", id.LongName)
	assert.Equal(t, "?F5", id.ShortName)
	assert.Equal(t, uint64(0xc2d3e4f5), id.Seed())

	owner := id.Owner()
	assert.Equal(t, id.ID, owner.ID)
	assert.Equal(t, id.MAC, owner.MACAddr)
}

func TestDeriveShortNameUppercase(t *testing.T) {
	id := Derive([6]byte{0, 0, 0, 0, 0x0a, 0x0b})

	assert.Equal(t, "Unknown 0a0b", id.LongName)
	assert.Equal(t, "?0B", id.ShortName)
}

func TestNewRandIsStablePerMAC(t *testing.T) {
	id := Derive([6]byte{1, 2, 3, 4, 5, 6})
	a, b := id.NewRand(), id.NewRand()
	for range 16 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}

	other := Derive([6]byte{1, 2, 3, 4, 5, 7}).NewRand()
	c := id.NewRand()
	same := true
	for range 16 {
		if c.Uint64() != other.Uint64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestPickProvisionalNodeNum(t *testing.T) {
	t.Run("LastByteInRange", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x20}
		num := PickProvisionalNodeNum(nodeMap{}, mac, Derive(mac).NewRand())
		assert.Equal(t, mesh.NodeNum(0x20), num)
	})

	t.Run("ReservedClampsUp", func(t *testing.T) {
		for _, last := range []byte{0x00, 0x02, 0x03} {
			mac := [6]byte{1, 2, 3, 4, 5, last}
			num := PickProvisionalNodeNum(nodeMap{}, mac, Derive(mac).NewRand())
			assert.Equal(t, mesh.NumReserved, num, "last byte %#x", last)
		}
	})

	t.Run("FirstUnreservedKept", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x04}
		num := PickProvisionalNodeNum(nodeMap{}, mac, Derive(mac).NewRand())
		assert.Equal(t, mesh.NodeNum(4), num)
	})

	t.Run("BroadcastClampsUp", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0xff}
		num := PickProvisionalNodeNum(nodeMap{}, mac, Derive(mac).NewRand())
		assert.Equal(t, mesh.NumReserved, num)
	})

	t.Run("CollisionPicksAnother", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x20}
		nodes := nodeMap{}
		nodes.add(0x20, [6]byte{9, 9, 9, 9, 9, 0x20})

		num := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
		assert.NotEqual(t, mesh.NodeNum(0x20), num)
		assert.GreaterOrEqual(t, num, mesh.NumReserved)
		assert.Less(t, num, mesh.NodeNumBroadcast)
	})

	t.Run("CollisionIsDeterministic", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x20}
		nodes := nodeMap{}
		nodes.add(0x20, [6]byte{9, 9, 9, 9, 9, 0x20})

		a := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
		b := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
		assert.Equal(t, a, b)
	})

	t.Run("ReclaimsOwnRecord", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x20}
		nodes := nodeMap{}
		nodes.add(0x20, mac)

		num := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
		assert.Equal(t, mesh.NodeNum(0x20), num)
	})

	t.Run("NeverReturnsOccupiedNumber", func(t *testing.T) {
		mac := [6]byte{1, 2, 3, 4, 5, 0x04}
		nodes := nodeMap{}
		foreign := [6]byte{7, 7, 7, 7, 7, 7}
		for n := mesh.NodeNum(4); n < 4+mesh.MaxNumNodes; n++ {
			nodes.add(n, foreign)
		}

		num := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
		assert.Nil(t, nodes.Find(num))
		assert.GreaterOrEqual(t, num, mesh.NumReserved)
		assert.Less(t, num, mesh.NodeNumBroadcast)
	})
}

func TestAssignerLogsCollisions(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 0x20}
	nodes := nodeMap{}
	nodes.add(0x20, [6]byte{9, 9, 9, 9, 9, 0x20})

	events := &recordingLogger{}
	a := NewAssigner(Derive(mac))
	a.SetLogger(nil)
	a.SetEventLogger(events)

	num := a.Pick(nodes)
	assert.NotEqual(t, mesh.NodeNum(0x20), num)

	changes := events.changes()
	require.GreaterOrEqual(t, len(changes), 2)
	assert.Equal(t, log.NodeNumCollision, changes[0])
	assert.Equal(t, log.NodeNumAssigned, changes[len(changes)-1])

	last := events.events[len(events.events)-1]
	assert.Equal(t, num, last.NodeNum)
	assert.Equal(t, log.LayerIdentity, last.Layer)
	assert.Equal(t, "!010203040520", last.Node.UserID)
}

func TestAssignerMatchesPackageFunc(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 0x30}
	nodes := nodeMap{}
	nodes.add(0x30, [6]byte{8, 8, 8, 8, 8, 8})

	want := PickProvisionalNodeNum(nodes, mac, Derive(mac).NewRand())
	assert.Equal(t, want, NewAssigner(Derive(mac)).Pick(nodes))
}
