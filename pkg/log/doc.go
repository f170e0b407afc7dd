// Package log provides a structured event trace of node database activity.
//
// This package defines the Logger interface and Event types for capturing
// what the node database did with each packet, which records it created or
// changed, and every snapshot load and save. It is separate from operational
// logging (slog): the event trace is machine-readable and meant for replaying
// and analysing a device's history after the fact.
//
// # Basic Usage
//
// Applications configure event logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/meshdb/node.mlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at several layers:
//   - Reconciler: inbound packets (PacketEvent)
//   - Registry: record creation and updates (NodeEvent)
//   - Persistence: snapshot loads and saves (StorageEvent)
//   - Identity: node number assignment (NodeEvent)
//
// Failures at any layer use ErrorEventData.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .mlog extension.
// The "meshdb log" commands view and summarise them.
package log
