// Package logging is the structured logger shared by the server and the
// client. The only implementation wraps log/slog.
package logging

import "context"

// Logger takes a message plus alternating key/value args:
//
//	log.Info(ctx, "company created", "id", c.ID, "owner", c.OwnerID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for conditions the caller recovers from, such as a corrupt
	// ledger value read as empty.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger; services use it to tag a "module".
	With(args ...any) Logger
}
