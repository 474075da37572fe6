package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemoryStore().WithClock(clock.now), clock
}

func TestMemoryStore_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()
	if err := s.Set(ctx, "steam:details:10", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "steam:details:10")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("get=%q ok=%v err=%v", got, ok, err)
	}

	// Expiry is exclusive: exactly at expiresAt the entry is still served.
	clock.advance(time.Minute)
	if _, ok, _ := s.Get(ctx, "steam:details:10"); !ok {
		t.Fatalf("entry should be valid at expiresAt")
	}
	clock.advance(time.Millisecond)
	if _, ok, _ := s.Get(ctx, "steam:details:10"); ok {
		t.Fatalf("entry should be expired")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, len=%d", s.Len())
	}
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()
	_ = s.Set(ctx, "k", []byte("a"), time.Second)
	_ = s.Set(ctx, "k", []byte("b"), time.Hour)
	clock.advance(time.Minute)
	got, ok, _ := s.Get(ctx, "k")
	if !ok || string(got) != "b" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	val := []byte("abc")
	_ = s.Set(ctx, "k", val, 0)
	val[0] = 'x'
	got, _, _ := s.Get(ctx, "k")
	got[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated: %q", again)
	}
}

func TestMemoryStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	for _, k := range []string{"steam:search:q=portal", "steam:details:10", "epic:search:q=portal", "gog:product:id=1"} {
		_ = s.Set(ctx, k, []byte("1"), time.Hour)
	}
	cases := []struct {
		pattern string
		removed int
		left    int
	}{
		{pattern: "steam:search:*", removed: 1, left: 3},
		{pattern: "*:search:*", removed: 1, left: 2},
		{pattern: "gog:product:id=?", removed: 1, left: 1},
		{pattern: "nothing*", removed: 0, left: 1},
		{pattern: "", removed: 0, left: 1},
	}
	for _, tc := range cases {
		n, err := s.Invalidate(ctx, tc.pattern)
		if err != nil {
			t.Fatalf("invalidate %q: %v", tc.pattern, err)
		}
		if n != tc.removed || s.Len() != tc.left {
			t.Fatalf("pattern %q removed=%d left=%d want %d/%d", tc.pattern, n, s.Len(), tc.removed, tc.left)
		}
	}
}

func TestKey_DeterministicAndGlobSafe(t *testing.T) {
	a := Key("epic", "search", map[string]string{"q": "Half Life*", "start": "0"})
	b := Key("epic", "search", map[string]string{"start": "0", "q": "Half Life*"})
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if a != "epic:search:q=half+life%2A:start=0" {
		t.Fatalf("key=%q", a)
	}
	if Key("gog", "search", map[string]string{"q": " Portal "}) != Key("gog", "search", map[string]string{"q": "portal"}) {
		t.Fatalf("case and padding should fold")
	}
}

func TestKey_DistinctValuesStayDistinct(t *testing.T) {
	groups := [][]string{
		{"a*b", "a?b", "a_b", "a%2Ab"},
		{"a b", "a+b"},
		{"[x]", "(x)"},
		{"x:start=1", "x"},
	}
	for _, group := range groups {
		seen := map[string]string{}
		for _, q := range group {
			k := Key("epic", "search", map[string]string{"q": q})
			if prev, ok := seen[k]; ok {
				t.Fatalf("%q and %q share key %q", prev, q, k)
			}
			seen[k] = q
			if strings.ContainsAny(strings.TrimPrefix(k, "epic:search:q="), "*?[]:=") {
				t.Fatalf("key %q leaks a metacharacter", k)
			}
		}
	}

	s, _ := newTestStore()
	ctx := context.Background()
	star := Key("epic", "search", map[string]string{"q": "a*b"})
	under := Key("epic", "search", map[string]string{"q": "a_b"})
	_ = s.Set(ctx, star, []byte("star"), time.Hour)
	_ = s.Set(ctx, under, []byte("under"), time.Hour)
	if got, ok, _ := s.Get(ctx, under); !ok || string(got) != "under" {
		t.Fatalf("a_b served %q", got)
	}
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()
	calls := 0
	fn := func(context.Context) ([]string, error) {
		calls++
		return []string{"portal"}, nil
	}
	for i := 0; i < 2; i++ {
		got, err := Remember(ctx, s, "steam:search:q=portal", time.Hour, fn)
		if err != nil || len(got) != 1 || got[0] != "portal" {
			t.Fatalf("got=%v err=%v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
	clock.advance(2 * time.Hour)
	if _, err := Remember(ctx, s, "steam:search:q=portal", time.Hour, fn); err != nil {
		t.Fatalf("err=%v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2 after expiry", calls)
	}
}

func TestRemember_DoesNotCacheErrorsOrNil(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	boom := errors.New("boom")
	if _, err := Remember(ctx, s, "gog:product:id=1", time.Hour, func(context.Context) (*string, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Remember(ctx, s, "gog:product:id=2", time.Hour, func(context.Context) (*string, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("nothing should be cached, len=%d", s.Len())
	}
}
