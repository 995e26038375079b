package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"clearscrub-admin/internal/auth"
)

func TestSignInOutcomeLabels(t *testing.T) {
	cases := map[string]error{
		"success":             nil,
		"invalid_credentials": auth.ErrInvalidCredentials,
		"rate_limited":        auth.ErrRateLimited,
		"timeout":             auth.ErrTimeout,
		"unreachable":         fmt.Errorf("%w: dial tcp", auth.ErrUnreachable),
		"error":               errors.New("boom"),
	}
	for want, err := range cases {
		if got := signInOutcome(err); got != want {
			t.Fatalf("signInOutcome(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestMetricsCountersAndHandler(t *testing.T) {
	m := New()
	m.ObserveSignIn(nil)
	m.ObserveSignIn(auth.ErrInvalidCredentials)
	m.ObserveSignIn(auth.ErrInvalidCredentials)
	m.ObserveSignOut()
	m.ObserveRestore("corrupt")
	m.ObserveGuard("redirect")

	if got := testutil.ToFloat64(m.SignIns.WithLabelValues("invalid_credentials")); got != 2 {
		t.Fatalf("expected 2 invalid sign-ins, got %v", got)
	}
	if got := testutil.ToFloat64(m.SignOuts); got != 1 {
		t.Fatalf("expected 1 sign-out, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "clearscrub_route_guard_decisions_total") {
		t.Fatalf("expected guard metric in exposition")
	}
}
