// Package cache holds the last successfully fetched prompt catalogue for a
// fixed TTL. The catalogue lives in process memory only.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Paranoid-AF/promptlet/catalogue"
	"github.com/Paranoid-AF/promptlet/rpc"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTTL        = 300 * time.Second
	DefaultTimeout    = 5 * time.Second
	DefaultListMethod = "get_prompt_names"
)

// Options configures a Cache.
type Options struct {
	TTL            time.Duration
	Timeout        time.Duration
	ListMethod     string
	HeaderPrefixes []string
}

// Snapshot is an immutable catalogue published by one successful fetch.
type Snapshot struct {
	entries   map[string]catalogue.Entry
	order     []catalogue.Entry
	fetchedAt time.Time
}

var emptySnapshot = &Snapshot{entries: map[string]catalogue.Entry{}}

func newSnapshot(entries []catalogue.Entry, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		entries:   make(map[string]catalogue.Entry, len(entries)),
		order:     make([]catalogue.Entry, 0, len(entries)),
		fetchedAt: fetchedAt,
	}
	for _, e := range entries {
		if _, dup := s.entries[e.Name]; dup {
			continue
		}
		s.entries[e.Name] = e
		s.order = append(s.order, e)
	}
	return s
}

// Empty reports whether the snapshot holds no entries.
func (s *Snapshot) Empty() bool {
	return len(s.order) == 0
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Lookup returns the entry for name.
func (s *Snapshot) Lookup(name string) (catalogue.Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Entries returns the entries in server listing order. The slice must not be
// modified.
func (s *Snapshot) Entries() []catalogue.Entry {
	return s.order
}

// FetchedAt returns when the snapshot was fetched; zero if never.
func (s *Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

func (s *Snapshot) fresh(now time.Time, ttl time.Duration) bool {
	return !s.Empty() && now.Sub(s.fetchedAt) <= ttl
}

// Cache serves the catalogue snapshot, refreshing it through the caller when
// it is empty or older than the TTL. A failed refresh leaves the previous
// snapshot in place.
type Cache struct {
	caller  rpc.Caller
	builder *catalogue.Builder
	opts    Options

	snap atomic.Pointer[Snapshot]
	// refreshMu serializes refreshes so concurrent readers fetch once.
	refreshMu sync.Mutex
	fetches   atomic.Int64
}

// New creates an empty cache.
func New(caller rpc.Caller, builder *catalogue.Builder, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ListMethod == "" {
		opts.ListMethod = DefaultListMethod
	}
	if opts.HeaderPrefixes == nil {
		opts.HeaderPrefixes = catalogue.DefaultHeaderPrefixes
	}
	if builder == nil {
		builder = catalogue.NewBuilder(nil)
	}
	c := &Cache{caller: caller, builder: builder, opts: opts}
	c.snap.Store(emptySnapshot)
	return c
}

// Get returns the current snapshot, refreshing first if it is empty or
// expired at now. It never returns nil.
func (c *Cache) Get(ctx context.Context, now time.Time) *Snapshot {
	if s := c.snap.Load(); s.fresh(now, c.opts.TTL) {
		return s
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another reader may have refreshed while we waited.
	prev := c.snap.Load()
	if prev.fresh(now, c.opts.TTL) {
		return prev
	}

	c.fetches.Add(1)
	out := c.caller.Call(ctx, c.opts.ListMethod, map[string]any{}, c.opts.Timeout)
	if !out.OK() {
		slog.Warn("catalogue refresh failed", "kind", out.Kind, "error", out.Message, "stale_entries", prev.Len())
		return prev
	}

	names := catalogue.ParseNames(out.Text, c.opts.HeaderPrefixes)
	next := newSnapshot(c.builder.Build(names), now)
	c.snap.Store(next)
	slog.Debug("catalogue refreshed", "entries", next.Len())
	return next
}

// Peek returns the current snapshot without refreshing.
func (c *Cache) Peek() *Snapshot {
	return c.snap.Load()
}

// Invalidate drops the snapshot so the next Get refreshes.
func (c *Cache) Invalidate() {
	c.snap.Store(emptySnapshot)
}

// Fetches returns how many refreshes have been attempted.
func (c *Cache) Fetches() int {
	return int(c.fetches.Load())
}
