// Package logging provides structured logging for the SADP engine.
//
// This package wraps zap with convenience functions for the logging
// patterns the transport and daemon need. Logging is silent by default so
// the library can sit under tools that own their output; set
// HIKTOOLS_LOG_LEVEL (or call Initialize with a level) to enable it.
//
// # Log Levels
//
//   - Debug: wire-level detail (frame hex dumps, dropped buffers)
//   - Info: normal operation (socket lifecycle, daemon start/stop)
//   - Warn: non-fatal faults the loops continue past (receive errors,
//     listener panics)
//   - Error: failures that abort an operation
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Socket bound",
//	    zap.String("interface", "eth0"),
//	    zap.Int("index", 2),
//	)
//
// Frame-level helpers (LogFrame, LogRawBytes) attach bounded hex and ASCII
// dumps for reverse-engineering sessions without flooding the output.
package logging
