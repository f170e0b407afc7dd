package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
// Useful for development when you want to see node database events in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger
// at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session", event.SessionID))
	}
	if event.NodeNum != 0 {
		attrs = append(attrs, slog.String("node", event.NodeNum.String()))
	}

	switch {
	case event.Packet != nil:
		attrs = append(attrs,
			slog.String("from", event.Packet.From.String()),
			slog.String("variant", event.Packet.Variant.String()),
		)
		if event.Packet.RxTime != 0 {
			attrs = append(attrs, slog.Uint64("rx_time", uint64(event.Packet.RxTime)))
		}
		if event.Packet.DataType != nil {
			attrs = append(attrs, slog.String("data_type", event.Packet.DataType.String()))
		}
		if event.Packet.Broadcast {
			attrs = append(attrs, slog.Bool("broadcast", true))
		}
		if event.Packet.Ignored {
			attrs = append(attrs, slog.Bool("ignored", true))
		}
	case event.Node != nil:
		attrs = append(attrs, slog.String("change", event.Node.Change.String()))
		if event.Node.UserID != "" {
			attrs = append(attrs, slog.String("user_id", event.Node.UserID))
		}
		if event.Node.LongName != "" {
			attrs = append(attrs, slog.String("long_name", event.Node.LongName))
		}
		if event.Node.Count != 0 {
			attrs = append(attrs, slog.Int("count", event.Node.Count))
		}
	case event.Storage != nil:
		attrs = append(attrs,
			slog.String("op", event.Storage.Op.String()),
			slog.String("blob", event.Storage.Blob),
			slog.String("result", event.Storage.Result),
		)
		if event.Storage.Size != 0 {
			attrs = append(attrs, slog.Int("size", event.Storage.Size))
		}
		if event.Storage.Version != 0 {
			attrs = append(attrs, slog.Uint64("version", uint64(event.Storage.Version)))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "nodedb", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
