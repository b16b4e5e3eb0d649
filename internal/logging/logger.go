// Package logging abstracts structured logging behind a small interface so
// the client can log through slog while the server uses zap.
package logging

import "context"

// Logger accepts a message followed by alternating key-value pairs:
//
//	log.Info(ctx, "file stored", "fileId", id, "wallet", addr)
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable problems, such as a failed connectivity probe.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that attaches the given key-value pairs to every
	// record.
	With(args ...any) Logger
}
