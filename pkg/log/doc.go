// Package log provides protocol capture for buttplug sessions.
//
// Capture is separate from operational logging (slog): it records every
// message crossing a connection, every raw write and read a protocol makes
// against a device, and lifecycle changes, as a machine-readable trace.
//
// # Basic Usage
//
// Components accept a Logger in their config:
//
//	// Development: print events through slog
//	cfg.CaptureLogger = log.NewSlogAdapter(slog.Default())
//
//	// Production: append to a capture file
//	cfg.CaptureLogger, _ = log.NewFileLogger("/var/log/buttplug/session.bplog")
//
//	// Both
//	cfg.CaptureLogger = log.NewMultiLogger(adapter, fileLogger)
//
// # Event Types
//
// Events are captured at three layers:
//   - Connector: envelopes as received from or sent to a client
//   - Server: decoded messages and session state
//   - Device: raw endpoint reads and writes (RawEvent), protocol state
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with integer keys,
// conventionally named *.bplog. Reader iterates a file with optional
// filtering.
package log
