package ports

import "context"

// AuditSink is the destination of assembled audit records. Implementations
// must be safe for concurrent use: one record is written per request.
type AuditSink interface {
	// Write emits one record as a single structured event.
	Write(ctx context.Context, record map[string]any) error

	// Flush drains any buffered records. It must be safe to call any number
	// of times, including when no records were ever written.
	Flush(ctx context.Context) error
}
