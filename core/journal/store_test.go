package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newMockStore(t *testing.T, retention int) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock"), retention), mock
}

func TestNewStoreDefaults(t *testing.T) {
	s, _ := newMockStore(t, 0)
	assert.Equal(t, defaultRetentionDays, s.retentionDays)
	s, _ = newMockStore(t, 7)
	assert.Equal(t, 7, s.retentionDays)
}

func TestRecord(t *testing.T) {
	s, mock := newMockStore(t, 30)
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO qr_events \(id,user_id,chat_id,kind,color,content_kind,content_chars,outcome,created_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9\)`).
		WithArgs(sqlmock.AnyArg(), int64(11), int64(22), "generate", "red", "link", 18, "ok", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Record(context.Background(), Event{
		UserID: 11, ChatID: 22, Kind: KindGenerate, Color: "red",
		ContentKind: "link", ContentChars: 18, Outcome: "ok", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStampsTime(t *testing.T) {
	s, mock := newMockStore(t, 30)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	mock.ExpectExec("INSERT INTO qr_events").
		WithArgs(sqlmock.AnyArg(), int64(1), int64(1), "scan", "", "", 0, "not_found", fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Record(context.Background(), Event{UserID: 1, ChatID: 1, Kind: KindScan, Outcome: "not_found"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordError(t *testing.T) {
	s, mock := newMockStore(t, 30)
	mock.ExpectExec("INSERT INTO qr_events").WillReturnError(errors.New("connection refused"))

	err := s.Record(context.Background(), Event{Kind: KindBatch, Outcome: "ok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting journal event")
}

func TestPruneExpired(t *testing.T) {
	s, mock := newMockStore(t, 30)
	fixed := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	mock.ExpectExec(`DELETE FROM qr_events WHERE created_at < \$1`).
		WithArgs(fixed.AddDate(0, 0, -30)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := s.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneError(t *testing.T) {
	s, mock := newMockStore(t, 30)
	mock.ExpectExec("DELETE FROM qr_events").WillReturnError(errors.New("boom"))
	_, err := s.Prune(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestStartPruningStopsOnClose(t *testing.T) {
	s, mock := newMockStore(t, 30)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 100; i++ {
		mock.ExpectExec("DELETE FROM qr_events").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	s.StartPruning(5 * time.Millisecond)
	s.StartPruning(5 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	assert.NoError(t, j.Record(context.Background(), Event{}))
	assert.NoError(t, j.Close())
}
