/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package monitor drives the periodic refresh of the console's list and detail
// views. The poller owns the schedule only; what to fetch and how to display it
// stay with the view, which threads its own pagination, sorting and filter
// criteria into each fetch.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Default refresh intervals for the console views.
const (
	ListInterval    = 3 * time.Second
	DetailInterval  = 5 * time.Second
	ClusterInterval = 600 * time.Second
)

// ErrAlreadyPolling is returned by Start when the poller is not idle.
var ErrAlreadyPolling = errors.New("poller is already started")

// FetchFunc performs one fetch against the backend. The result is delivered to the
// observer untouched; implementations capture their own query criteria.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Poller periodically invokes a fetch and delivers each result to a single
// observer. Every fetch carries a monotonically increasing sequence number; a
// response is delivered only if no newer response has been delivered already, so an
// overlapping manual refresh and scheduled tick cannot reorder the displayed
// dataset, and responses arriving after Stop are silently dropped.
type Poller struct {
	log      logr.Logger
	observer func(interface{})

	mu      sync.Mutex
	cancel  context.CancelFunc
	fetch   FetchFunc
	ctx     context.Context
	seq     uint64
	applied uint64
}

// New returns an idle poller delivering results to the supplied observer.
func New(observer func(interface{}), log logr.Logger) *Poller {
	return &Poller{log: log, observer: observer}
}

// Start begins periodic fetching: one immediate fetch, then one per interval until
// Stop is called or the supplied context is cancelled. Start on a non-idle poller
// is an error.
func (p *Poller) Start(ctx context.Context, fetch FetchFunc, interval time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyPolling
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.fetch = fetch
	p.ctx = ctx

	go p.run(ctx, fetch, interval)
	return nil
}

// Stop cancels the schedule and returns the poller to idle. Responses still in
// flight are discarded, never surfaced.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.fetch = nil
		p.ctx = nil
	}
}

// Refresh runs the fetch immediately, outside the interval's own schedule. The
// ticker is not reset: a manual refresh and the next scheduled tick are independent
// events. Refresh on an idle poller is a no-op.
func (p *Poller) Refresh() {
	p.mu.Lock()
	fetch, ctx := p.fetch, p.ctx
	p.mu.Unlock()

	if fetch == nil {
		return
	}
	go p.fetchOnce(ctx, fetch)
}

func (p *Poller) run(ctx context.Context, fetch FetchFunc, interval time.Duration) {
	p.fetchOnce(ctx, fetch)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.fetchOnce(ctx, fetch)
		}
	}
}

func (p *Poller) fetchOnce(ctx context.Context, fetch FetchFunc) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	result, err := fetch(ctx)
	if err != nil {
		// Poll failures are transient by definition, the next tick retries
		if !errors.Is(err, context.Canceled) {
			p.log.V(1).Info("fetch failed", "error", err.Error())
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Deliver only the newest response, and nothing after teardown
	if p.cancel == nil || ctx.Err() != nil || seq <= p.applied {
		return
	}
	p.applied = seq
	p.observer(result)
}
