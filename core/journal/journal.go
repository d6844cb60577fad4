// Package journal records completed QR generations and scans.
// Only sizes and classifications are stored, never the encoded or decoded text.
package journal

import (
	"context"
	"embed"
	"time"
)

// Migrations holds the schema applied at bootstrap when the journal is enabled.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Kind names the operation that produced an event.
type Kind string

const (
	KindGenerate Kind = "generate"
	KindBatch    Kind = "batch"
	KindScan     Kind = "scan"
)

// Event is one journal row.
type Event struct {
	UserID       int64
	ChatID       int64
	Kind         Kind
	Color        string
	ContentKind  string
	ContentChars int
	Outcome      string
	CreatedAt    time.Time
}

// Journal accepts events. Implementations must be safe for concurrent use.
type Journal interface {
	Record(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
func (Nop) Close() error                        { return nil }
