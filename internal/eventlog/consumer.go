package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"worksync/internal/events"
)

// Repo is the batch sink the consumer writes to.
type Repo interface {
	BatchInsert(ctx context.Context, batch []events.Event) error
}

// Consumer buffers events and writes them in batches of batchSize.
type Consumer struct {
	repo      Repo
	batchSize int
	buf       []events.Event
	mu        sync.Mutex
}

func NewConsumer(repo Repo, batchSize int) *Consumer {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Consumer{repo: repo, batchSize: batchSize, buf: make([]events.Event, 0, batchSize)}
}

// HandleMessage decodes one NATS message and flushes when the buffer is full.
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var e events.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Event == "" {
		return fmt.Errorf("failed to decode event: missing event name")
	}

	c.mu.Lock()
	c.buf = append(c.buf, e)
	if len(c.buf) < c.batchSize {
		c.mu.Unlock()
		return nil
	}
	batch := c.drainLocked()
	c.mu.Unlock()
	return c.repo.BatchInsert(ctx, batch)
}

// Flush writes whatever is buffered.
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.buf) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := c.drainLocked()
	c.mu.Unlock()
	return c.repo.BatchInsert(ctx, batch)
}

// Pending reports the number of buffered events.
func (c *Consumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

func (c *Consumer) drainLocked() []events.Event {
	batch := make([]events.Event, len(c.buf))
	copy(batch, c.buf)
	c.buf = c.buf[:0]
	return batch
}

// RunFlusher flushes every interval until ctx is done, then flushes once more.
func (c *Consumer) RunFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := c.Flush(context.Background()); err != nil {
				log.Printf("final flush failed: %v", err)
			}
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				log.Printf("periodic flush failed: %v", err)
			}
		}
	}
}
