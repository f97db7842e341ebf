package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"worksync/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu       sync.Mutex
	received [][]events.Event
	err      error
}

func (m *mockRepo) BatchInsert(_ context.Context, batch []events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, batch)
	return m.err
}

func (m *mockRepo) batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.received)
}

func encode(t *testing.T, id uint) []byte {
	t.Helper()
	data, err := json.Marshal(events.New(events.EntityRequest, events.ActionCreated, id, 1, nil))
	require.NoError(t, err)
	return data
}

func TestConsumer_FlushesOnBatchSize(t *testing.T) {
	repo := &mockRepo{}
	c := NewConsumer(repo, 2)
	ctx := context.Background()

	require.NoError(t, c.HandleMessage(ctx, encode(t, 1)))
	assert.Equal(t, 0, repo.batches())
	assert.Equal(t, 1, c.Pending())

	require.NoError(t, c.HandleMessage(ctx, encode(t, 2)))
	require.Equal(t, 1, repo.batches())
	require.Len(t, repo.received[0], 2)
	assert.Equal(t, uint(1), repo.received[0][0].EntityID)
	assert.Equal(t, uint(2), repo.received[0][1].EntityID)
	assert.Equal(t, 0, c.Pending())
}

func TestConsumer_Flush(t *testing.T) {
	repo := &mockRepo{}
	c := NewConsumer(repo, 10)
	ctx := context.Background()

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, 0, repo.batches())

	for i := uint(1); i <= 3; i++ {
		require.NoError(t, c.HandleMessage(ctx, encode(t, i)))
	}
	require.NoError(t, c.Flush(ctx))
	require.Equal(t, 1, repo.batches())
	assert.Len(t, repo.received[0], 3)
}

func TestConsumer_RejectsBadMessages(t *testing.T) {
	repo := &mockRepo{}
	c := NewConsumer(repo, 1)
	assert.Error(t, c.HandleMessage(context.Background(), []byte("not json")))
	assert.Error(t, c.HandleMessage(context.Background(), []byte(`{"entity":"request"}`)))
	assert.Equal(t, 0, repo.batches())
}

func TestConsumer_PropagatesRepoError(t *testing.T) {
	boom := errors.New("insert failed")
	c := NewConsumer(&mockRepo{err: boom}, 1)
	err := c.HandleMessage(context.Background(), encode(t, 9))
	assert.ErrorIs(t, err, boom)
}

func TestConsumer_RunFlusherFlushesOnShutdown(t *testing.T) {
	repo := &mockRepo{}
	c := NewConsumer(repo, 100)
	require.NoError(t, c.HandleMessage(context.Background(), encode(t, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunFlusher(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done
	assert.Equal(t, 1, repo.batches())
}

func TestClickhouseRepo_BatchInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClickhouseRepo(db)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	e := events.Event{Event: "product.updated", Entity: "product", EntityID: 4, ActorID: 2, OccurredAt: fixed}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO worksync_events").
		ExpectExec().
		WithArgs("product.updated", "product", uint64(4), uint64(2), "{}", fixed, fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.BatchInsert(context.Background(), []events.Event{e}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickhouseRepo_BatchInsertRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO worksync_events").
		ExpectExec().
		WillReturnError(errors.New("bad block"))
	mock.ExpectRollback()

	err = NewClickhouseRepo(db).BatchInsert(context.Background(), []events.Event{{Event: "x"}})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickhouseRepo_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS worksync_events").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewClickhouseRepo(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
