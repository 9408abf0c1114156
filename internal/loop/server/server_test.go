package server

import (
	"io"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/loop"
	"github.com/tomz197/beestrike/internal/score"
)

func newTestServer() *Server {
	return NewServer(log.New(io.Discard))
}

func TestRegisterAndUnregister(t *testing.T) {
	s := newTestServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("")

	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("ids not unique: %q %q", a.ID, b.ID)
	}
	if b.Username != "pilot" {
		t.Errorf("empty username = %q, want pilot", b.Username)
	}
	if s.Players() != 2 {
		t.Fatalf("Players() = %d, want 2", s.Players())
	}

	s.UnregisterClient(a.ID)
	if _, ok := <-a.EventsCh; ok {
		t.Error("events channel not closed on unregister")
	}
	s.UnregisterClient(a.ID) // second call is a no-op
	if s.Players() != 1 {
		t.Errorf("Players() = %d, want 1", s.Players())
	}
}

func TestUsernameTruncated(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("a-very-long-username-indeed")
	if len(h.Username) != 16 {
		t.Errorf("username %q not truncated", h.Username)
	}
}

func TestUsernameKeepsWholeRunes(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ünïcödé-pïlöt-wïth-äccents", "ünïcödé-pïlöt-wï"},
		{"蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂", "蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂蜂"},
		{"eve\x1b[2Jmallory", "eve[2Jmallory"},
		{"bad\xffbytes", "badbytes"},
		{"\x1b\x07", "pilot"},
	}
	s := newTestServer()
	for _, tt := range tests {
		h := s.RegisterClient(tt.in)
		if h.Username != tt.want {
			t.Errorf("RegisterClient(%q).Username = %q, want %q", tt.in, h.Username, tt.want)
		}
		if !utf8.ValidString(h.Username) {
			t.Errorf("username %q is not valid UTF-8", h.Username)
		}
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	s := newTestServer()
	ids := make([]string, 0, 7)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ids = append(ids, s.RegisterClient(name).ID)
	}
	scores := []int{300, 900, 300, 100, 0, 500, 700}
	for i, id := range ids {
		s.ReportResult(id, score.Summary{Score: scores[i]})
	}

	top := s.TopScores()
	want := []string{"b", "g", "f", "a", "c"}
	if len(top) != len(want) {
		t.Fatalf("got %d entries, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Username != name {
			t.Errorf("top[%d] = %s (%d), want %s", i, top[i].Username, top[i].Score, name)
		}
	}
}

func TestReportResultKeepsBest(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.ReportResult(h.ID, score.Summary{Score: 800})
	s.ReportResult(h.ID, score.Summary{Score: 200})
	if top := s.TopScores(); len(top) != 1 || top[0].Score != 800 {
		t.Errorf("TopScores() = %+v, want alice 800", top)
	}

	s.ReportResult("unknown", score.Summary{Score: 5000})
	if top := s.TopScores(); len(top) != 1 {
		t.Errorf("unknown client appeared on the board: %+v", top)
	}
}

func TestAttachedSessionAtZeroKeepsFinishedBest(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.ReportResult(h.ID, score.Summary{Score: 400})

	frames := loop.NewFrameLoop()
	e, err := loop.NewEngine(loop.Options{
		Game:      config.Default().Game,
		Scheduler: frames,
		Renderer:  loop.RendererFunc(func(loop.Frame) error { return nil }),
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	s.Attach(h.ID, e)
	s.refresh()

	top := s.TopScores()
	if len(top) != 1 || top[0].Score != 400 || top[0].Live {
		t.Errorf("TopScores() = %+v, want finished 400", top)
	}
}

func TestNewRecordBroadcastSkipsSender(t *testing.T) {
	s := newTestServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")

	s.ReportResult(a.ID, score.Summary{Score: 1200, NewRecord: true})

	select {
	case ev := <-b.EventsCh:
		if ev.Type != EventNewRecord || ev.Username != "alice" || ev.Score != 1200 {
			t.Errorf("bob got %+v", ev)
		}
	default:
		t.Fatal("bob got no record event")
	}
	select {
	case ev := <-a.EventsCh:
		t.Errorf("sender got its own event %+v", ev)
	default:
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Shutdown did not return after the last client left")
	}
	if s.Players() != 0 {
		t.Errorf("Players() = %d after shutdown", s.Players())
	}
}
