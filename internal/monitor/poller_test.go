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

package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects observer deliveries for assertions.
type recorder struct {
	mu      sync.Mutex
	results []interface{}
}

func (r *recorder) observe(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, v)
}

func (r *recorder) snapshot() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interface{}(nil), r.results...)
}

func (r *recorder) waitFor(t *testing.T, n int) []interface{} {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries, have %d", n, len(r.snapshot()))
	return nil
}

func TestPollerDeliversImmediatelyThenOnSchedule(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	var mu sync.Mutex
	n := 0
	fetch := func(context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return n, nil
	}

	require.NoError(t, p.Start(context.Background(), fetch, 10*time.Millisecond))
	defer p.Stop()

	got := rec.waitFor(t, 3)
	assert.Equal(t, 1, got[0], "first delivery comes from the immediate fetch")
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestPollerStartWhileRunning(t *testing.T) {
	p := New(func(interface{}) {}, logr.Discard())
	fetch := func(context.Context) (interface{}, error) { return nil, nil }

	require.NoError(t, p.Start(context.Background(), fetch, time.Minute))
	assert.ErrorIs(t, p.Start(context.Background(), fetch, time.Minute), ErrAlreadyPolling)

	p.Stop()
	require.NoError(t, p.Start(context.Background(), fetch, time.Minute))
	p.Stop()
}

func TestPollerStopDiscardsInFlightResponse(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	release := make(chan struct{})
	fetch := func(context.Context) (interface{}, error) {
		<-release
		return "late", nil
	}

	require.NoError(t, p.Start(context.Background(), fetch, time.Minute))
	p.Stop()
	close(release)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot(), "a response resolving after teardown must not surface")
}

func TestPollerDropsOutOfOrderResponses(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	// The first fetch stalls until the second has already resolved, so the
	// slower, older response comes back last
	first := make(chan struct{})
	second := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	fetch := func(context.Context) (interface{}, error) {
		mu.Lock()
		calls++
		c := calls
		mu.Unlock()
		if c == 1 {
			close(first)
			<-second
			return "stale", nil
		}
		return "fresh", nil
	}

	require.NoError(t, p.Start(context.Background(), fetch, time.Minute))
	defer p.Stop()

	<-first
	p.Refresh()
	got := rec.waitFor(t, 1)
	require.Equal(t, []interface{}{"fresh"}, got)

	close(second)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []interface{}{"fresh"}, rec.snapshot(), "the older response must be dropped")
}

func TestPollerRefresh(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	var mu sync.Mutex
	n := 0
	fetch := func(context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return n, nil
	}

	// Interval far in the future: every delivery past the first is a refresh
	require.NoError(t, p.Start(context.Background(), fetch, time.Hour))
	defer p.Stop()
	rec.waitFor(t, 1)

	p.Refresh()
	got := rec.waitFor(t, 2)
	assert.Equal(t, 2, got[1])
}

func TestPollerRefreshWhileIdle(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	p.Refresh()
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestPollerFetchErrorsAreNotDelivered(t *testing.T) {
	rec := &recorder{}
	p := New(rec.observe, logr.Discard())

	var mu sync.Mutex
	n := 0
	fetch := func(context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		if n == 1 {
			return nil, errors.New("backend unavailable")
		}
		return n, nil
	}

	require.NoError(t, p.Start(context.Background(), fetch, 10*time.Millisecond))
	defer p.Stop()

	got := rec.waitFor(t, 1)
	assert.Equal(t, 2, got[0], "the failed fetch yields nothing, the next tick recovers")
}
