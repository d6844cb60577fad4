package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchema struct {
	versions []uint
	dirty    bool
	verErr   error
	upErr    error
	ups      int
}

func (f *fakeSchema) Version() (uint, bool, error) {
	v := f.versions[0]
	if len(f.versions) > 1 {
		f.versions = f.versions[1:]
	}
	return v, f.dirty, f.verErr
}

func (f *fakeSchema) Up() error {
	f.ups++
	return f.upErr
}

func TestApplyFreshSchema(t *testing.T) {
	m := &fakeSchema{versions: []uint{0, 1}, verErr: migrate.ErrNilVersion}
	require.NoError(t, apply(context.Background(), m))
	assert.Equal(t, 1, m.ups)
}

func TestApplyNoChange(t *testing.T) {
	m := &fakeSchema{versions: []uint{1}, upErr: migrate.ErrNoChange}
	assert.NoError(t, apply(context.Background(), m))
}

func TestApplyRefusesDirtySchema(t *testing.T) {
	m := &fakeSchema{versions: []uint{3}, dirty: true}
	assert.ErrorIs(t, apply(context.Background(), m), ErrDirty)
	assert.Zero(t, m.ups)
}

func TestApplyReportsUpFailure(t *testing.T) {
	m := &fakeSchema{versions: []uint{1}, upErr: errors.New("syntax error")}
	assert.ErrorContains(t, apply(context.Background(), m), "syntax error")
}

func TestWaitReadyRetriesUntilPingSucceeds(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}
	require.NoError(t, waitReady(context.Background(), ping, time.Second, time.Millisecond))
	assert.Equal(t, 3, calls)
}

func TestWaitReadyTimesOut(t *testing.T) {
	ping := func(context.Context) error { return errors.New("connection refused") }
	err := waitReady(context.Background(), ping, 5*time.Millisecond, time.Millisecond)
	assert.ErrorContains(t, err, "timeout reached")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, waitReady(ctx, ping, time.Hour, time.Hour), context.Canceled)
}
