package service

import (
	"context"
	"testing"
	"time"

	"shortspan/internal/shortid"
	"shortspan/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore wraps a real in-memory store, counting calls per operation and
// optionally failing selected operations.
type fakeStore struct {
	inner store.KVStore
	calls map[string]int
	fail  map[string]error
}

func newFakeStore(inner store.KVStore) *fakeStore {
	return &fakeStore{
		inner: inner,
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

func (f *fakeStore) record(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) totalCalls() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	if err := f.record("get"); err != nil {
		return "", err
	}
	return f.inner.Get(ctx, key)
}

func (f *fakeStore) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := f.record("set"); err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value, expiration)
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.record("exists"); err != nil {
		return false, err
	}
	return f.inner.Exists(ctx, key)
}

func (f *fakeStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := f.record("incr"); err != nil {
		return 0, err
	}
	return f.inner.Incr(ctx, key)
}

func (f *fakeStore) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if err := f.record("expire"); err != nil {
		return false, err
	}
	return f.inner.Expire(ctx, key, expiration)
}

func (f *fakeStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := f.record("ttl"); err != nil {
		return 0, err
	}
	return f.inner.TTL(ctx, key)
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	return f.inner.Delete(ctx, key)
}

func (f *fakeStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := f.record("keys"); err != nil {
		return nil, err
	}
	return f.inner.Keys(ctx, pattern)
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if err := f.record("ping"); err != nil {
		return err
	}
	return f.inner.Ping(ctx)
}

func newTestService(t *testing.T) (*linkService, *fakeStore) {
	t.Helper()
	fs := newFakeStore(store.NewMemoryStore())
	svc := NewLinkService(fs, zerolog.Nop()).(*linkService)
	return svc, fs
}

func TestShortenMintsValidID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Shorten(ctx, "example.com/page")
	require.NoError(t, err)

	assert.True(t, shortid.Valid(result.ID), "minted id %q has the wrong shape", result.ID)
	assert.Equal(t, "https://example.com/page", result.NormalizedURL)
	assert.False(t, result.IsExisting)
}

func TestShortenDedupIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Shorten(ctx, "example.com/page")
	require.NoError(t, err)
	assert.False(t, first.IsExisting)

	// Same content, already normalized this time.
	second, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)
	assert.True(t, second.IsExisting)
	assert.Equal(t, first.ID, second.ID)
}

func TestShortenRenewalResetsTTL(t *testing.T) {
	now := time.Now()
	clock := &now
	fs := newFakeStore(store.NewMemoryStoreAt(func() time.Time { return *clock }))
	svc := NewLinkService(fs, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)

	later := now.Add(10 * time.Hour)
	clock = &later

	second, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Renewal resets to a full 24 hours, it does not inherit the old expiry.
	ttl, err := fs.inner.TTL(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, LinkTTL, ttl)
}

func TestShortenResolveRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inputs := []string{
		"example.com",
		"https://example.com/a/b?x=1#frag",
		"http://sub.example.org:8080/path",
	}

	for _, input := range inputs {
		result, err := svc.Shorten(ctx, input)
		require.NoError(t, err, "input: %q", input)

		destination, err := svc.Resolve(ctx, result.ID)
		require.NoError(t, err, "input: %q", input)
		assert.Equal(t, result.NormalizedURL, destination)
	}
}

func TestShortenRejectsBadInputWithoutStoreAccess(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInvalidURL},
		{"not a url", "not a url", ErrInvalidURL},
		{"ip host", "http://1.2.3.4/x", ErrInvalidURL},
		{"ftp scheme", "ftp://example.com", ErrInvalidURL},
		{"no tld", "https://localhost/admin", ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fs := newTestService(t)

			_, err := svc.Shorten(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, fs.totalCalls(), "validation failures must not touch the store")
		})
	}
}

func TestShortenRejectsOversizedURL(t *testing.T) {
	svc, fs := newTestService(t)

	long := "https://example.com/"
	for len(long) <= MaxURLLength {
		long += "aaaaaaaaaa"
	}

	_, err := svc.Shorten(context.Background(), long)
	assert.ErrorIs(t, err, ErrURLTooLong)
	assert.Zero(t, fs.totalCalls())
}

func TestShortenStaleReverseIndexMintsFreshID(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	first, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)

	// Simulate the forward mapping expiring while the index survives.
	require.NoError(t, fs.inner.Delete(ctx, first.ID))

	second, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)
	assert.False(t, second.IsExisting, "a dead mapping must not be served")
	assert.NotEqual(t, first.ID, second.ID)

	destination, err := svc.Resolve(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", destination)
}

func TestShortenIDSpaceExhaustion(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	// Every candidate id reads as taken.
	fs.inner = alwaysExists{fs.inner}

	_, err := svc.Shorten(ctx, "https://example.com/page")
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	assert.Equal(t, maxIDAttempts, fs.calls["exists"], "retry budget is fixed")
}

// alwaysExists reports every key as present, forcing id collisions.
type alwaysExists struct {
	store.KVStore
}

func (a alwaysExists) Exists(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func TestShortenStoreFailurePropagates(t *testing.T) {
	svc, fs := newTestService(t)
	fs.fail["get"] = store.ErrUnavailable

	_, err := svc.Shorten(context.Background(), "https://example.com/page")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestResolveErrorPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"missing id", "", ErrMissingID},
		{"invalid shape", "a#b", ErrInvalidID},
		{"too short", "ab", ErrInvalidID},
		{"too long", "abcdefghijklm", ErrInvalidID},
		{"not found", "zzzzzz", ErrLinkNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fs := newTestService(t)

			_, err := svc.Resolve(context.Background(), tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, fs.calls["incr"], "failed resolves must not count visits")
		})
	}
}

func TestResolveNotFoundDistinctFromStoreError(t *testing.T) {
	svc, fs := newTestService(t)
	fs.fail["get"] = store.ErrUnavailable

	_, err := svc.Resolve(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrLinkNotFound)
}

func TestResolveCountsVisits(t *testing.T) {
	now := time.Now()
	fs := newFakeStore(store.NewMemoryStoreAt(func() time.Time { return now }))
	svc := NewLinkService(fs, zerolog.Nop())
	ctx := context.Background()

	result, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, result.ID)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, result.ID)
	require.NoError(t, err)

	count, err := fs.inner.Get(ctx, statsKey(result.ID))
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	ttl, err := fs.inner.TTL(ctx, statsKey(result.ID))
	require.NoError(t, err)
	assert.Equal(t, LinkTTL, ttl)
}

func TestResolveCountingIsBestEffort(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	result, err := svc.Shorten(ctx, "https://example.com/page")
	require.NoError(t, err)

	fs.fail["incr"] = store.ErrUnavailable

	destination, err := svc.Resolve(ctx, result.ID)
	require.NoError(t, err, "a failing counter must not abort the redirect")
	assert.Equal(t, "https://example.com/page", destination)
}

func TestResolveRejectsCorruptedStoredValue(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	// A tampered value must never become a redirect target.
	require.NoError(t, fs.inner.Set(ctx, "abc123", "http://////", LinkTTL))

	_, err := svc.Resolve(ctx, "abc123")
	assert.ErrorIs(t, err, ErrInvalidStoredURL)
	assert.Zero(t, fs.calls["incr"])
}

func TestResolveNormalizesStoredValue(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	// Stored values are expected to carry a scheme, but the resolver must
	// not trust that blindly.
	require.NoError(t, fs.inner.Set(ctx, "abc123", "example.com/page", LinkTTL))

	destination, err := svc.Resolve(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", destination)
}
