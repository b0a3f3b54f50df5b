package ui

import (
	"context"
	"sync"
)

type requestKind int

const (
	feedRequest requestKind = iota
	searchRequest
)

type inflight struct {
	id     uint64
	cancel context.CancelFunc
}

// requests hands out one cancellable context per fetch. Starting a request
// cancels the previous one of the same kind, and only the newest id of a kind
// is accepted by finish.
type requests struct {
	mu     sync.Mutex
	parent context.Context
	seq    uint64
	active map[requestKind]inflight
}

func newRequests(parent context.Context) *requests {
	if parent == nil {
		parent = context.Background()
	}
	return &requests{parent: parent, active: make(map[requestKind]inflight)}
}

func (r *requests) start(kind requestKind) (uint64, context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.active[kind]; ok {
		prev.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(r.parent)
	r.active[kind] = inflight{id: r.seq, cancel: cancel}
	return r.seq, ctx
}

// finish releases request id and reports whether it was still current.
func (r *requests) finish(kind requestKind, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.active[kind]
	if !ok || cur.id != id {
		return false
	}
	cur.cancel()
	delete(r.active, kind)
	return true
}

func (r *requests) pending(kind requestKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[kind]
	return ok
}

func (r *requests) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for kind, cur := range r.active {
		cur.cancel()
		delete(r.active, kind)
	}
}
