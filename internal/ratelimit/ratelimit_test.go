package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gauravsaxena1997/punit-portfolio/internal/ratelimit"
	"github.com/gauravsaxena1997/punit-portfolio/internal/ratelimit/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLimiter_AllowsUpToMaxThenLimits(t *testing.T) {
	clock := newFakeClock()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), clock.Now)
	ctx := context.Background()

	for i := 1; i <= ratelimit.MaxRequests; i++ {
		result, err := limiter.Check(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.False(t, result.Limited, "request %d should pass", i)
		require.Equal(t, ratelimit.MaxRequests-i, result.Remaining)
		clock.Advance(time.Second)
	}

	result, err := limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, result.Limited)
	require.Equal(t, 0, result.Remaining)
	require.Equal(t, ratelimit.Window-5*time.Second, result.RetryAfter)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := ratelimit.NewLimiter(nil, clock.Now)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxRequests; i++ {
		_, err := limiter.Check(ctx, "a")
		require.NoError(t, err)
	}
	limited, err := limiter.Check(ctx, "a")
	require.NoError(t, err)
	require.True(t, limited.Limited)

	other, err := limiter.Check(ctx, "b")
	require.NoError(t, err)
	require.False(t, other.Limited)
}

func TestLimiter_ResetsExactlyAtWindowEnd(t *testing.T) {
	clock := newFakeClock()
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.NewLimiter(store, clock.Now)
	ctx := context.Background()
	start := clock.Now()

	for i := 0; i < ratelimit.MaxRequests+3; i++ {
		_, err := limiter.Check(ctx, "k")
		require.NoError(t, err)
	}

	clock.Advance(ratelimit.Window - time.Millisecond)
	result, err := limiter.Check(ctx, "k")
	require.NoError(t, err)
	require.True(t, result.Limited)

	clock.Advance(time.Millisecond)
	result, err = limiter.Check(ctx, "k")
	require.NoError(t, err)
	require.False(t, result.Limited)
	require.Equal(t, ratelimit.MaxRequests-1, result.Remaining)

	record, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, record.Count)
	require.True(t, record.ResetAt.Equal(start.Add(2*ratelimit.Window)))
}

func TestLimiter_LimitedRequestDoesNotMutate(t *testing.T) {
	clock := newFakeClock()
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.NewLimiter(store, clock.Now)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxRequests; i++ {
		_, err := limiter.Check(ctx, "k")
		require.NoError(t, err)
	}
	before, _, _ := store.Get(ctx, "k")

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "k")
		require.NoError(t, err)
		require.True(t, result.Limited)
	}

	after, _, _ := store.Get(ctx, "k")
	require.Equal(t, before, after)
	require.Equal(t, ratelimit.MaxRequests, after.Count)
}

func TestLimiter_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	t.Run("GetError", func(t *testing.T) {
		store := mock.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "k").Return(ratelimit.Record{}, false, errors.New("down"))

		_, err := ratelimit.NewLimiter(store, nil).Check(ctx, "k")
		require.Error(t, err)
		require.Contains(t, err.Error(), "down")
	})

	t.Run("SetError", func(t *testing.T) {
		store := mock.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "k").Return(ratelimit.Record{}, false, nil)
		store.EXPECT().Set(gomock.Any(), "k", gomock.Any()).Return(errors.New("read only"))

		_, err := ratelimit.NewLimiter(store, nil).Check(ctx, "k")
		require.Error(t, err)
	})
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded_for", headers: map[string]string{"X-Forwarded-For": "198.51.100.1", "X-Real-IP": "10.0.0.1"}, want: "198.51.100.1"},
		{name: "forwarded_chain_kept", headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, want: "198.51.100.1, 10.0.0.2"},
		{name: "real_ip", headers: map[string]string{"X-Real-IP": "10.0.0.1"}, want: "10.0.0.1"},
		{name: "blank_forwarded_falls_back", headers: map[string]string{"X-Forwarded-For": "  ", "X-Real-IP": "10.0.0.1"}, want: "10.0.0.1"},
		{name: "unknown", headers: nil, want: ratelimit.UnknownKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tc.headers {
				header.Set(k, v)
			}
			require.Equal(t, tc.want, ratelimit.ClientKey(header))
		})
	}
}
