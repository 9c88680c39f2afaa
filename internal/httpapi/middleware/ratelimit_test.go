package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	time.Sleep(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("want 200 after refill got %d", rr2.Code)
	}
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	h := RateLimit(60, 2, false)(okHandler())

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == 200 {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("want 2 allowed from one peer, got %d", allowed)
	}
}

func TestRateLimit_TrustedProxyPerClient(t *testing.T) {
	h := RateLimit(60, 1, true)(okHandler())

	a := httptest.NewRequest("GET", "/", nil)
	a.RemoteAddr = "10.0.0.1:1000"
	b := httptest.NewRequest("GET", "/", nil)
	b.RemoteAddr = "10.0.0.1:1000"
	b.Header.Set("X-Forwarded-For", "10.0.0.2, 10.0.0.1")

	for _, req := range []*http.Request{a, b} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, a)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newLimiter(rate.Limit(1), 1, time.Minute, 100)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.allow(fmt.Sprintf("c%d", i))
	}
	if got := l.size(); got != 50 {
		t.Fatalf("want 50 tracked got %d", got)
	}

	now = now.Add(2 * time.Minute)
	l.allow("fresh")
	if got := l.size(); got != 1 {
		t.Fatalf("want idle clients evicted, %d tracked", got)
	}
}

func TestLimiter_CapsTrackedClients(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newLimiter(rate.Limit(1), 1, time.Minute, 3)
	l.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		if !l.allow(k) {
			t.Fatalf("want %s allowed", k)
		}
	}
	if l.allow("d") {
		t.Fatal("want new client refused when full")
	}
	if got := l.size(); got != 3 {
		t.Fatalf("want 3 tracked got %d", got)
	}

	now = now.Add(2 * time.Minute)
	if !l.allow("d") {
		t.Fatal("want new client admitted after idle sweep")
	}
}
