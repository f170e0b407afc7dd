// Package commands implements the meshdb offline commands: event log
// viewing, statistics and export, and snapshot dumps.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// timeFormat is used for event timestamps in view and export output.
const timeFormat = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] LAYER Type node
	ts := event.Timestamp.UTC().Format(timeFormat)

	var typeLabel string
	switch {
	case event.Packet != nil:
		typeLabel = "Packet " + event.Packet.Variant.String()
	case event.Node != nil:
		typeLabel = "Node " + event.Node.Change.String()
	case event.Storage != nil:
		typeLabel = "Storage " + event.Storage.Op.String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [%s] %s %s", ts, shortenSessionID(event.SessionID), event.Layer.String(), typeLabel)
	if event.NodeNum != 0 {
		fmt.Fprintf(w, " node=%s", event.NodeNum)
	}
	fmt.Fprintln(w)

	switch {
	case event.Packet != nil:
		formatPacketDetails(w, event.Packet)
	case event.Node != nil:
		formatNodeDetails(w, event.Node)
	case event.Storage != nil:
		formatStorageDetails(w, event.Storage)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func formatPacketDetails(w io.Writer, p *log.PacketEvent) {
	fmt.Fprintf(w, "  From: %s  ID: %d", p.From, p.PacketID)
	if p.RxTime != 0 {
		fmt.Fprintf(w, "  RxTime: %d", p.RxTime)
	}
	if p.Broadcast {
		fmt.Fprint(w, "  To: broadcast")
	}
	fmt.Fprintln(w)
	if p.DataType != nil {
		fmt.Fprintf(w, "  DataType: %s\n", p.DataType.String())
	}
	if p.Ignored {
		fmt.Fprintln(w, "  Ignored: no payload")
	}
}

func formatNodeDetails(w io.Writer, n *log.NodeEvent) {
	if n.UserID != "" || n.LongName != "" {
		fmt.Fprintf(w, "  User: %s %q\n", n.UserID, n.LongName)
	}
	if n.Count > 0 {
		fmt.Fprintf(w, "  Nodes: %d\n", n.Count)
	}
}

func formatStorageDetails(w io.Writer, s *log.StorageEvent) {
	fmt.Fprintf(w, "  Blob: %s  Result: %s\n", s.Blob, s.Result)
	if s.Size > 0 || s.Version > 0 {
		fmt.Fprintf(w, "  Size: %d bytes  Version: %d  Nodes: %d\n", s.Size, s.Version, s.Nodes)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "reconciler":
		return log.LayerReconciler, nil
	case "registry":
		return log.LayerRegistry, nil
	case "persistence":
		return log.LayerPersistence, nil
	case "identity":
		return log.LayerIdentity, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be reconciler, registry, persistence, or identity)", s)
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "packet":
		return log.CategoryPacket, nil
	case "node":
		return log.CategoryNode, nil
	case "storage":
		return log.CategoryStorage, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be packet, node, storage, or error)", s)
	}
}

// ParseNodeNum parses a node number in decimal or 0x-prefixed hex.
func ParseNodeNum(s string) (mesh.NodeNum, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid node number: %s", s)
	}
	return mesh.NodeNum(n), nil
}

// FilterOptions holds the textual filter flags shared by view, stats and export.
type FilterOptions struct {
	Layer    string
	Category string
	Node     string
	Session  string
}

// Filter converts the options into a log.Filter.
func (o FilterOptions) Filter() (log.Filter, error) {
	f := log.Filter{SessionID: o.Session}
	if o.Layer != "" {
		l, err := ParseLayer(o.Layer)
		if err != nil {
			return f, err
		}
		f.Layer = &l
	}
	if o.Category != "" {
		c, err := ParseCategory(o.Category)
		if err != nil {
			return f, err
		}
		f.Category = &c
	}
	if o.Node != "" {
		n, err := ParseNodeNum(o.Node)
		if err != nil {
			return f, err
		}
		f.NodeNum = &n
	}
	return f, nil
}

// RunView prints the events in path matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
