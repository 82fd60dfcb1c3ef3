package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/grangou/restaurant-dashboard/internal/kafka"
)

type fakeSource struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
}

func (f *fakeSource) Fetch(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.pending) > 0 {
		m := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeSource) Commit(_ context.Context, m kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, m.Offset)
	return nil
}

func (f *fakeSource) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type fakeDLQ struct {
	mu      sync.Mutex
	sent    [][]byte
	reasons []string
	err     error
}

func (d *fakeDLQ) Publish(_ context.Context, _, value []byte, headers ...kafka.Header) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, value)
	for _, h := range headers {
		if h.Key == kafkax.HeaderError {
			d.reasons = append(d.reasons, string(h.Value))
		}
	}
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (c *fakeCache) Delete(_ context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	c.deleted = append(c.deleted, name)
	return true, nil
}

func msg(offset int64, value string) kafka.Message {
	return kafka.Message{Offset: offset, Value: []byte(value)}
}

func runFor(t *testing.T, inv *Invalidator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := inv.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInvalidatorDeletesCachedDashboards(t *testing.T) {
	src := &fakeSource{pending: []kafka.Message{
		msg(1, `{"type":"match.completed","restaurant_name":"Chez Gou","match_id":"m1"}`),
		msg(2, `{"type":"match.feedback","restaurant_name":"Trattoria","match_id":"m2"}`),
		msg(3, `{"type":"restaurant.renamed","restaurant_name":"Trattoria"}`),
	}}
	cache := &fakeCache{}
	dlq := &fakeDLQ{}

	runFor(t, NewInvalidator(zap.NewNop(), cache, src, dlq, 2))

	assert.ElementsMatch(t, []string{"Chez Gou", "Trattoria"}, cache.deleted)
	assert.ElementsMatch(t, []int64{1, 2, 3}, src.commits())
	assert.Empty(t, dlq.sent)
}

func TestInvalidatorDeadLettersBadMessages(t *testing.T) {
	src := &fakeSource{pending: []kafka.Message{
		msg(1, `garbage`),
		msg(2, `{"type":"match.created"}`),
	}}
	dlq := &fakeDLQ{}

	runFor(t, NewInvalidator(zap.NewNop(), &fakeCache{}, src, dlq, 1))

	assert.Len(t, dlq.sent, 2)
	require.Len(t, dlq.reasons, 2)
	assert.Contains(t, dlq.reasons[1], "restaurant_name")
	assert.ElementsMatch(t, []int64{1, 2}, src.commits())
}

func TestInvalidatorLeavesMessageUncommittedWhenDLQFails(t *testing.T) {
	src := &fakeSource{pending: []kafka.Message{
		msg(7, `{"type":"match.created","restaurant_name":"Chez Gou"}`),
	}}
	cache := &fakeCache{err: errors.New("redis down")}
	dlq := &fakeDLQ{err: errors.New("broker down")}

	runFor(t, NewInvalidator(zap.NewNop(), cache, src, dlq, 1))

	assert.Empty(t, src.commits())
}
