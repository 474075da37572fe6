package storefront

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type payload struct {
	Name string `json:"name"`
}

func newTestClient(opts Options) (*Client, *[]time.Duration) {
	c := NewClient(&http.Client{Timeout: 2 * time.Second}, opts)
	slept := []time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestClient_RetriesThenSucceeds(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("accept header=%q", r.Header.Get("Accept"))
		}
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Portal"}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(Options{Platform: "steam", MaxRetries: 3, BaseDelay: 100 * time.Millisecond})
	var out payload
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Name != "Portal" {
		t.Fatalf("name=%q", out.Name)
	}
	if hits != 3 {
		t.Fatalf("hits=%d want 3", hits)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*slept) != len(want) || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Fatalf("backoff=%v want %v", *slept, want)
	}
}

func TestClient_ExhaustedRetriesReturnTransportError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c, slept := newTestClient(Options{Platform: "gog", MaxRetries: 3, BaseDelay: time.Second})
	err := c.GetJSON(context.Background(), srv.URL, &payload{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want TransportError, got %v", err)
	}
	if te.Attempts != 3 || hits != 3 {
		t.Fatalf("attempts=%d hits=%d want 3", te.Attempts, hits)
	}
	if te.Status() != http.StatusInternalServerError {
		t.Fatalf("status=%d", te.Status())
	}
	// No wait after the final failure.
	if len(*slept) != 2 || (*slept)[1] != 2*time.Second {
		t.Fatalf("backoff=%v", *slept)
	}
}

func TestClient_DecodeFailureIsRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			_, _ = w.Write([]byte(`{not json`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(Options{Platform: "epic", MaxRetries: 2})
	var out payload
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Name != "ok" || hits != 2 {
		t.Fatalf("name=%q hits=%d", out.Name, hits)
	}
}

func TestClient_PostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"query"}` {
			t.Errorf("body=%q", body)
		}
		_, _ = w.Write([]byte(`{"name":"answer"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(Options{Platform: "epic", MaxRetries: 1})
	var out payload
	if err := c.PostJSON(context.Background(), srv.URL, payload{Name: "query"}, &out); err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Name != "answer" {
		t.Fatalf("name=%q", out.Name)
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := newTestClient(Options{
		Platform:   "steam-breaker-test",
		MaxRetries: 1,
		Breaker:    &BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute},
	})
	for i := 0; i < 2; i++ {
		if err := c.GetJSON(context.Background(), srv.URL, nil); err == nil {
			t.Fatalf("expected error")
		}
	}
	err := c.GetJSON(context.Background(), srv.URL, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("want open breaker, got %v", err)
	}
	if !IsTransport(err) {
		t.Fatalf("breaker refusal should surface as TransportError")
	}
	if hits != 2 {
		t.Fatalf("hits=%d want 2", hits)
	}
}

func TestBreakerSuccess(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{context.Canceled, true},
		{&APIError{Status: 404}, true},
		{&APIError{Status: 429}, false},
		{&APIError{Status: 503}, false},
		{errors.New("dial tcp: refused"), false},
	}
	for _, tc := range cases {
		if got := breakerSuccess(tc.err); got != tc.want {
			t.Fatalf("breakerSuccess(%v)=%v want %v", tc.err, got, tc.want)
		}
	}
}
