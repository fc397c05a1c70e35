package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAsyncQueueSize    = 1024
	defaultAsyncFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the async log pipeline.
type AsyncOptions struct {
	BufferSize   int
	FlushTimeout time.Duration
}

// AsyncHandler decouples a slow destination, typically remote log
// shipping, from the request path. Records are queued to a single
// consumer goroutine; when the queue is full the record is dropped
// rather than blocking the caller.
//
// WithAttrs and WithGroup derivatives share the queue, so Shutdown on
// any of them drains records from all of them.
type AsyncHandler struct {
	q    *asyncQueue
	next slog.Handler
}

type queuedRecord struct {
	ctx    context.Context
	record slog.Record
	dest   slog.Handler
}

type asyncQueue struct {
	ch           chan queuedRecord
	flushTimeout time.Duration
	closed       atomic.Bool
	dropped      atomic.Uint64
	done         sync.WaitGroup
}

// NewAsyncHandler starts the consumer goroutine for next.
func NewAsyncHandler(next slog.Handler, opts AsyncOptions) *AsyncHandler {
	size := opts.BufferSize
	if size <= 0 {
		size = defaultAsyncQueueSize
	}
	timeout := opts.FlushTimeout
	if timeout <= 0 {
		timeout = defaultAsyncFlushTimeout
	}

	q := &asyncQueue{
		ch:           make(chan queuedRecord, size),
		flushTimeout: timeout,
	}
	q.done.Add(1)
	go q.consume()

	return &AsyncHandler{q: q, next: next}
}

func (q *asyncQueue) consume() {
	defer q.done.Done()
	for r := range q.ch {
		_ = r.dest.Handle(r.ctx, r.record)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle enqueues the record without blocking. Records arriving after
// Shutdown, or while the queue is full, are dropped.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.next.Enabled(ctx, r.Level) || h.q.closed.Load() {
		return nil
	}
	select {
	case h.q.ch <- queuedRecord{ctx: ctx, record: r.Clone(), dest: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{q: h.q, next: h.next.WithAttrs(attrs)}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{q: h.q, next: h.next.WithGroup(name)}
}

// Shutdown stops accepting records and waits for the queue to drain,
// bounded by ctx or the configured flush timeout. Idempotent.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.q == nil {
		return nil
	}
	q := h.q
	if q.closed.Swap(true) {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}

	close(q.ch)
	drained := make(chan struct{})
	go func() {
		q.done.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
