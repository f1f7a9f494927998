// Package logging configures the process-wide structured logger.
//
// All engine packages log through log/slog; this package picks the
// handler (JSON, text, or console) and minimum level from the logging
// configuration and installs it as the slog default, so component
// loggers created with Component share one output.
package logging
