package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomz197/beestrike/internal/score"
)

func TestStatusHandler(t *testing.T) {
	s := newTestServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	s.ReportResult(a.ID, score.Summary{Score: 1200})
	s.ReportResult(b.ID, score.Summary{Score: 3400})

	h := NewStatusHandler(s, "play.example.com:2222")
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ssh -t -p 2222 play.example.com", "Pilots online: 2", "1. bob"} {
		if !strings.Contains(body, want) {
			t.Errorf("landing page missing %q:\n%s", want, body)
		}
	}

	rec = get("/leaderboard")
	var lb Leaderboard
	if err := json.NewDecoder(rec.Body).Decode(&lb); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if lb.Players != 2 || len(lb.Top) != 2 || lb.Top[0].Username != "bob" || lb.Top[1].Score != 1200 {
		t.Errorf("leaderboard = %+v", lb)
	}

	rec = get("/leaderboard/2")
	var e TopScoreEntry
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if e.Username != "alice" {
		t.Errorf("rank 2 = %+v, want alice", e)
	}

	if rec := get("/leaderboard/3"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /leaderboard/3 = %d, want 404", rec.Code)
	}
	if rec := get("/healthz"); rec.Code != http.StatusNoContent {
		t.Errorf("GET /healthz = %d, want 204", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leaderboard", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /leaderboard = %d, want 405", rec.Code)
	}
}

func TestConnectCommand(t *testing.T) {
	tests := []struct{ addr, want string }{
		{"example.com:22", "ssh -t example.com"},
		{"example.com:2222", "ssh -t -p 2222 example.com"},
		{"example.com", "ssh -t example.com"},
	}
	for _, tt := range tests {
		if got := connectCommand(tt.addr); got != tt.want {
			t.Errorf("connectCommand(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
