package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/meshdb/meshdb-go/pkg/mesh"
	"github.com/meshdb/meshdb-go/pkg/persistence"
	"github.com/meshdb/meshdb-go/pkg/storage"
)

// SnapshotView is the YAML rendering of a DeviceState.
type SnapshotView struct {
	Version     uint32          `yaml:"version"`
	Supported   bool            `yaml:"supported"`
	MyNode      MyNodeView      `yaml:"my_node"`
	Owner       UserView        `yaml:"owner"`
	Preferences PreferencesView `yaml:"preferences"`
	Nodes       []NodeView      `yaml:"nodes"`
	RxText      *TextView       `yaml:"rx_text,omitempty"`
	QueueLength int             `yaml:"receive_queue"`
}

// MyNodeView renders MyNodeInfo.
type MyNodeView struct {
	NodeNum         string `yaml:"node_num"`
	HasGPS          bool   `yaml:"has_gps"`
	Region          string `yaml:"region,omitempty"`
	FirmwareVersion string `yaml:"firmware_version,omitempty"`
}

// UserView renders a User with the MAC in colon hex.
type UserView struct {
	ID        string `yaml:"id"`
	LongName  string `yaml:"long_name"`
	ShortName string `yaml:"short_name"`
	MAC       string `yaml:"mac"`
}

// PreferencesView renders the broadcast timers.
type PreferencesView struct {
	SendOwnerSecs         uint32 `yaml:"send_owner_secs"`
	PositionBroadcastSecs uint32 `yaml:"position_broadcast_secs"`
}

// NodeView renders a NodeInfo.
type NodeView struct {
	Num      string         `yaml:"num"`
	User     *UserView      `yaml:"user,omitempty"`
	Position *mesh.Position `yaml:"position,omitempty"`
	LastSeen uint32         `yaml:"last_seen"`
}

// TextView renders the last received text message.
type TextView struct {
	From   string `yaml:"from"`
	RxTime uint32 `yaml:"rx_time"`
	Text   string `yaml:"text"`
}

// NewSnapshotView converts a state into its YAML rendering.
func NewSnapshotView(s *persistence.DeviceState) SnapshotView {
	v := SnapshotView{
		Version:   s.Version,
		Supported: persistence.Supported(s),
		MyNode: MyNodeView{
			NodeNum:         s.MyNode.MyNodeNum.String(),
			HasGPS:          s.MyNode.HasGPS,
			Region:          s.MyNode.Region,
			FirmwareVersion: s.MyNode.FirmwareVersion,
		},
		Owner: userView(s.Owner),
		Preferences: PreferencesView{
			SendOwnerSecs:         s.Radio.Preferences.SendOwnerSecs,
			PositionBroadcastSecs: s.Radio.Preferences.PositionBroadcastSecs,
		},
		Nodes:       make([]NodeView, 0, len(s.NodeDB)),
		QueueLength: s.ReceiveQueueCount(),
	}

	for _, n := range s.NodeDB {
		nv := NodeView{Num: n.Num.String(), LastSeen: n.LastSeen}
		if n.HasUser {
			u := userView(n.User)
			nv.User = &u
		}
		if n.HasPosition {
			p := n.Position
			nv.Position = &p
		}
		v.Nodes = append(v.Nodes, nv)
	}

	if s.HasRxTextMessage {
		tv := &TextView{From: s.RxTextMessage.From.String(), RxTime: s.RxTextMessage.RxTime}
		if p := s.RxTextMessage.Payload; p != nil && p.Data != nil {
			tv.Text = string(p.Data.Payload)
		}
		v.RxText = tv
	}
	return v
}

func userView(u mesh.User) UserView {
	mac := make([]byte, 0, 17)
	for i, b := range u.MACAddr {
		if i > 0 {
			mac = append(mac, ':')
		}
		mac = hex.AppendEncode(mac, []byte{b})
	}
	return UserView{ID: u.ID, LongName: u.LongName, ShortName: u.ShortName, MAC: string(mac)}
}

// RunDump decodes the primary snapshot blob in store and writes it as YAML.
func RunDump(store storage.Storage, w io.Writer) error {
	r, err := store.Open(persistence.PrimaryBlob)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer r.Close()

	return DumpFrom(r, w)
}

// DumpFrom decodes a snapshot from r and writes it as YAML.
func DumpFrom(r io.Reader, w io.Writer) error {
	state, err := persistence.DecodeFrom(r)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewSnapshotView(state)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}
