// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("interpret complete", slog.Int("statements", 3))
//
// # Configuration
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] derives one that adds attributes to every message.
//
// # Levels
//
// In addition to the four slog levels the package defines [LevelTrace],
// below [LevelDebug], for per-node interpreter output.
//
// # Output
//
// [FormatText] (the default) and [FormatJSON] are supported. With
// [WithPretty] enabled, values are unquoted and styled with lipgloss when the
// output is a terminal.
//
// # Package-Level Logging
//
// Functions such as [Info] and [Debug] use a default logger that writes to
// standard error. [Config] reconfigures it. Context-unaware calls use
// [DefaultContextProvider].
package log
