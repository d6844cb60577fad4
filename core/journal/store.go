package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
)

const (
	defaultRetentionDays = 90
	table                = "qr_events"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var eventColumns = []string{
	"id", "user_id", "chat_id", "kind", "color",
	"content_kind", "content_chars", "outcome", "created_at",
}

// Store writes events to Postgres.
type Store struct {
	db            *sqlx.DB
	retentionDays int
	now           func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStore wraps db; retentionDays <= 0 keeps 90 days.
func NewStore(db *sqlx.DB, retentionDays int) *Store {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Store{db: db, retentionDays: retentionDays, now: time.Now}
}

// Record inserts e, stamping CreatedAt when it is zero.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	query, args, err := psq.Insert(table).
		Columns(eventColumns...).
		Values(uuid.New(), e.UserID, e.ChatID, string(e.Kind), e.Color,
			e.ContentKind, e.ContentChars, e.Outcome, e.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("building journal insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		metrics.IncJournalError("record")
		return fmt.Errorf("inserting journal event: %w", err)
	}
	return nil
}

// Prune deletes events created before the cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := psq.Delete(table).Where(sq.Lt{"created_at": before.UTC()}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building journal prune: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		metrics.IncJournalError("prune")
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// PruneExpired applies the retention window.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	return s.Prune(ctx, s.now().AddDate(0, 0, -s.retentionDays))
}

// StartPruning runs PruneExpired every interval until Close.
func (s *Store) StartPruning(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.PruneExpired(ctx)
				if err != nil {
					logger.Warn(ctx, "journal", "journal.prune",
						slog.String("status", "fail"),
						slog.String("err", err.Error()),
					)
					continue
				}
				logger.Debug(ctx, "journal", "journal.prune",
					slog.String("status", "ok"),
					slog.Int64("entries", n),
				)
			}
		}
	}()
}

// Close stops the pruning goroutine. The database handle stays open.
func (s *Store) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

var _ Journal = (*Store)(nil)
