package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meshdb/meshdb-go/pkg/log"
)

// exportRecord is one event flattened for JSON consumers. Enums are
// written by name and node numbers in hex so the output can be grepped.
type exportRecord struct {
	Time     string `json:"time"`
	Session  string `json:"session,omitempty"`
	Layer    string `json:"layer"`
	Category string `json:"category"`
	Node     string `json:"node,omitempty"`

	// Packet
	From      string `json:"from,omitempty"`
	PacketID  uint32 `json:"packet_id,omitempty"`
	RxTime    uint32 `json:"rx_time,omitempty"`
	Variant   string `json:"variant,omitempty"`
	DataType  string `json:"data_type,omitempty"`
	Broadcast bool   `json:"broadcast,omitempty"`
	Ignored   bool   `json:"ignored,omitempty"`

	// Node
	Change   string `json:"change,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	LongName string `json:"long_name,omitempty"`
	Count    int    `json:"count,omitempty"`

	// Storage
	Op      string `json:"op,omitempty"`
	Blob    string `json:"blob,omitempty"`
	Result  string `json:"result,omitempty"`
	Size    int    `json:"size,omitempty"`
	Version uint32 `json:"version,omitempty"`
	Nodes   int    `json:"nodes,omitempty"`

	// Error
	ErrorLayer string `json:"error_layer,omitempty"`
	Error      string `json:"error,omitempty"`
	Context    string `json:"context,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	rec := exportRecord{
		Time:     event.Timestamp.UTC().Format(timeFormat),
		Session:  event.SessionID,
		Layer:    event.Layer.String(),
		Category: event.Category.String(),
	}
	if event.NodeNum != 0 {
		rec.Node = event.NodeNum.String()
	}

	switch {
	case event.Packet != nil:
		p := event.Packet
		rec.From = p.From.String()
		rec.PacketID = p.PacketID
		rec.RxTime = p.RxTime
		rec.Variant = p.Variant.String()
		if p.DataType != nil {
			rec.DataType = p.DataType.String()
		}
		rec.Broadcast = p.Broadcast
		rec.Ignored = p.Ignored
	case event.Node != nil:
		rec.Change = event.Node.Change.String()
		rec.UserID = event.Node.UserID
		rec.LongName = event.Node.LongName
		rec.Count = event.Node.Count
	case event.Storage != nil:
		s := event.Storage
		rec.Op = s.Op.String()
		rec.Blob = s.Blob
		rec.Result = s.Result
		rec.Size = s.Size
		rec.Version = s.Version
		rec.Nodes = s.Nodes
	case event.Error != nil:
		rec.ErrorLayer = event.Error.Layer.String()
		rec.Error = event.Error.Message
		rec.Context = event.Error.Context
	}
	return rec
}

// RunExport writes the events in path matching filter as JSON lines to
// output, or to stdout when output is empty.
func RunExport(path string, filter log.Filter, output string) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output == "" {
		return exportJSONL(reader, os.Stdout)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := exportJSONL(reader, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for n := 1; ; n++ {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event %d: %w", n, err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event %d: %w", n, err)
		}
	}
}
