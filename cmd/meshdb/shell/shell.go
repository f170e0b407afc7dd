// Package shell provides the interactive command-line interface of
// meshdb run. Commands inject packets into the node database as if they had
// been received from the mesh and show the resulting table.
package shell

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/meshdb/meshdb-go/cmd/meshdb/commands"
	"github.com/meshdb/meshdb-go/pkg/clock"
	"github.com/meshdb/meshdb-go/pkg/mesh"
	"github.com/meshdb/meshdb-go/pkg/nodedb"
)

// Shell handles interactive mode for meshdb run.
type Shell struct {
	db    *nodedb.NodeDB
	mu    sync.Locker
	clock clock.Clock
	out   io.Writer
	rl    *readline.Instance

	flags    *nodedb.DisplayFlags
	packetID uint32

	closeOnce sync.Once
}

// New creates a shell reading commands with readline. mu guards db and is
// shared with anything else touching it, such as the metrics scrape.
func New(db *nodedb.NodeDB, mu sync.Locker, clk clock.Clock) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "meshdb> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(db, mu, clk, rl.Stdout())
	s.rl = rl
	return s, nil
}

// NewWithWriter creates a shell without a terminal. Commands are passed to
// Execute and output goes to out.
func NewWithWriter(db *nodedb.NodeDB, mu sync.Locker, clk clock.Clock, out io.Writer) *Shell {
	return newShell(db, mu, clk, out)
}

func newShell(db *nodedb.NodeDB, mu sync.Locker, clk clock.Clock, out io.Writer) *Shell {
	s := &Shell{
		db:    db,
		mu:    mu,
		clock: clk,
		out:   out,
		flags: &nodedb.DisplayFlags{},
	}
	db.Reconciler().OnEvent(s.flags.Handle)
	return s
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Execute(line) {
			cancel()
			return
		}
	}
}

// Close restores the terminal and unblocks a pending Run. It is safe to call
// more than once and on a shell without a terminal.
func (s *Shell) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.rl != nil {
			err = s.rl.Close()
		}
	})
	return err
}

// Execute runs one command line. It reports whether the shell should exit.
func (s *Shell) Execute(line string) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "nodes", "n":
		s.cmdNodes()

	case "node":
		s.cmdNode(args)

	case "online":
		s.cmdOnline()

	case "status":
		s.cmdStatus()

	case "position", "pos":
		s.cmdPosition(args)

	case "text":
		s.cmdText(args)

	case "data":
		s.cmdData(args)

	case "user":
		s.cmdUser(args)

	case "ping":
		s.cmdPing(args)

	case "save":
		s.cmdSave()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Node Database Commands:
  Inspection:
    nodes                            - List known nodes
    node <num>                       - Show one node
    online                           - Count nodes heard from recently
    status                           - Show the local node and snapshot state

  Simulated packets (<from> is decimal or 0x hex):
    position <from> <lat> <lon> [alt] - Position report
    text <from> <message...>          - Clear-text message
    data <from> <hex>                 - Opaque data payload
    user <from> <id> <short> <long...> - User announcement
    ping <from>                       - Packet with an empty payload

  Storage:
    save                             - Write the snapshot now

  General:
    help                             - Show this help
    quit                             - Exit`)
}

func (s *Shell) cmdNodes() {
	reg := s.db.Registry()
	now := s.clock.NowSeconds()

	fmt.Fprintf(s.out, "%-6s %-20s %-16s %-10s %s\n", "NUM", "NAME", "ID", "SEEN", "POSITION")
	for n := range reg.All() {
		marker := " "
		if n.Num == s.db.MyNodeNum() {
			marker = "*"
		}
		id := "-"
		if n.HasUser {
			id = n.User.ID
		}
		seen := "never"
		if n.LastSeen != 0 {
			seen = fmt.Sprintf("%ds ago", nodedb.SinceLastSeen(&n, now))
		}
		pos := "-"
		if n.HasPosition {
			pos = fmt.Sprintf("%.5f,%.5f", n.Position.Latitude, n.Position.Longitude)
		}
		fmt.Fprintf(s.out, "%s%-5s %-20s %-16s %-10s %s\n", marker, n.Num, n.DisplayName(), id, seen, pos)
	}
	fmt.Fprintf(s.out, "%d of %d slots used\n", reg.Count(), mesh.MaxNumNodes)
}

func (s *Shell) cmdNode(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: node <num>")
		return
	}
	num, err := commands.ParseNodeNum(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	n := s.db.Registry().Find(num)
	if n == nil {
		fmt.Fprintf(s.out, "Node %s not found\n", num)
		return
	}

	fmt.Fprintf(s.out, "Node %s\n", n.Num)
	if n.HasUser {
		fmt.Fprintf(s.out, "  User:     %s %q (%s)\n", n.User.ID, n.User.LongName, n.User.ShortName)
		fmt.Fprintf(s.out, "  MAC:      %s\n", hex.EncodeToString(n.User.MACAddr[:]))
	}
	if n.HasPosition {
		p := n.Position
		fmt.Fprintf(s.out, "  Position: %.6f, %.6f alt %dm battery %d%% at %d\n",
			p.Latitude, p.Longitude, p.Altitude, p.BatteryLevel, p.Time)
	}
	fmt.Fprintf(s.out, "  LastSeen: %d (%ds ago)\n", n.LastSeen, nodedb.SinceLastSeen(n, s.clock.NowSeconds()))
}

func (s *Shell) cmdOnline() {
	fmt.Fprintf(s.out, "%d of %d nodes online\n", s.db.NumOnlineNodes(), s.db.Registry().Count())
}

func (s *Shell) cmdStatus() {
	state := s.db.State()
	owner := s.db.Owner()

	fmt.Fprintf(s.out, "Node:     %s\n", s.db.MyNodeNum())
	fmt.Fprintf(s.out, "Owner:    %s %q (%s)\n", owner.ID, owner.LongName, owner.ShortName)
	fmt.Fprintf(s.out, "Firmware: %s\n", state.MyNode.FirmwareVersion)
	fmt.Fprintf(s.out, "Snapshot: %s\n", s.db.LoadResult())
	fmt.Fprintf(s.out, "Nodes:    %d known, %d online\n", s.db.Registry().Count(), s.db.NumOnlineNodes())
	if state.HasRxTextMessage {
		msg := state.RxTextMessage
		text := ""
		if msg.Payload != nil && msg.Payload.Data != nil {
			text = string(msg.Payload.Data.Payload)
		}
		fmt.Fprintf(s.out, "Last text from %s: %q\n", msg.From, text)
	}
}

func (s *Shell) cmdPosition(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: position <from> <lat> <lon> [alt]")
		return
	}
	from, ok := s.parseFrom(args[0])
	if !ok {
		return
	}
	lat, err1 := strconv.ParseFloat(args[1], 64)
	lon, err2 := strconv.ParseFloat(args[2], 64)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.out, "Error: latitude and longitude must be numbers")
		return
	}
	pos := mesh.Position{Latitude: lat, Longitude: lon, Time: s.clock.NowSeconds()}
	if len(args) > 3 {
		alt, err := strconv.ParseInt(args[3], 10, 32)
		if err != nil {
			fmt.Fprintln(s.out, "Error: altitude must be an integer")
			return
		}
		pos.Altitude = int32(alt)
	}
	s.inject(from, &mesh.SubPacket{Position: &pos})
}

func (s *Shell) cmdText(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: text <from> <message...>")
		return
	}
	from, ok := s.parseFrom(args[0])
	if !ok {
		return
	}
	text := strings.Join(args[1:], " ")
	s.inject(from, &mesh.SubPacket{Data: &mesh.Data{Type: mesh.DataTypeClearText, Payload: []byte(text)}})
}

func (s *Shell) cmdData(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: data <from> <hex>")
		return
	}
	from, ok := s.parseFrom(args[0])
	if !ok {
		return
	}
	payload, err := hex.DecodeString(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.inject(from, &mesh.SubPacket{Data: &mesh.Data{Type: mesh.DataTypeOpaque, Payload: payload}})
}

func (s *Shell) cmdUser(args []string) {
	if len(args) < 4 {
		fmt.Fprintln(s.out, "Usage: user <from> <id> <short> <long...>")
		return
	}
	from, ok := s.parseFrom(args[0])
	if !ok {
		return
	}
	user := mesh.User{
		ID:        args[1],
		ShortName: args[2],
		LongName:  strings.Join(args[3:], " "),
	}
	// Ids of the form !<12 hex digits> carry the MAC.
	if b, err := hex.DecodeString(strings.TrimPrefix(user.ID, "!")); err == nil && len(b) == 6 {
		copy(user.MACAddr[:], b)
	}
	s.inject(from, &mesh.SubPacket{User: &user})
}

func (s *Shell) cmdPing(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: ping <from>")
		return
	}
	from, ok := s.parseFrom(args[0])
	if !ok {
		return
	}
	s.inject(from, &mesh.SubPacket{})
}

func (s *Shell) cmdSave() {
	if err := s.db.Save(); err != nil {
		fmt.Fprintf(s.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Saved")
}

func (s *Shell) parseFrom(arg string) (mesh.NodeNum, bool) {
	from, err := commands.ParseNodeNum(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return 0, false
	}
	if from == mesh.NodeNumBroadcast {
		fmt.Fprintln(s.out, "Error: broadcast address cannot send")
		return 0, false
	}
	return from, true
}

func (s *Shell) inject(from mesh.NodeNum, payload *mesh.SubPacket) {
	if s.db.Registry().Find(from) == nil && s.db.Registry().Count() >= mesh.MaxNumNodes {
		fmt.Fprintf(s.out, "Error: node table full, cannot add %s\n", from)
		return
	}

	s.packetID++
	s.db.HandlePacket(&mesh.MeshPacket{
		From:    from,
		To:      mesh.NodeNumBroadcast,
		ID:      s.packetID,
		RxTime:  s.clock.NowSeconds(),
		Payload: payload,
	})
	s.showFlags()
}

// showFlags prints what the display would refresh.
func (s *Shell) showFlags() {
	if s.flags.TakeRegistryChanged() {
		fmt.Fprintf(s.out, "[display] node list changed (%d nodes)\n", s.db.Registry().Count())
	}
	if n := s.flags.TakeNodeUpdated(); n != nil {
		fmt.Fprintf(s.out, "[display] node %s updated: %s\n", n.Num, n.DisplayName())
	}
	if s.flags.TakeTextMessage() {
		msg := s.db.State().RxTextMessage
		fmt.Fprintf(s.out, "[display] text from %s: %q\n", msg.From, msg.Payload.Data.Payload)
	}
}
