package score

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores", "high.yaml")
	s := NewFileStore(path)

	got, err := s.Load()
	if err != nil || got != 0 {
		t.Fatalf("Load on missing file = %d, %v; want 0, nil", got, err)
	}
	if err := s.Save(4200); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = NewFileStore(path).Load()
	if err != nil || got != 4200 {
		t.Fatalf("Load = %d, %v; want 4200", got, err)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"garbage":  "{{{ not yaml",
		"negative": "high_score: -5\n",
		"wrong":    "high_score: lots\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := NewFileStore(path).Load()
			if err != nil || got != 0 {
				t.Fatalf("Load = %d, %v; want 0, nil", got, err)
			}
		})
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Keep Trying"},
		{499, "Keep Trying"},
		{500, "Rookie Pilot"},
		{1000, "Qualified Pilot"},
		{2500, "Excellent Pilot!"},
		{5000, "Ace Pilot!"},
		{12000, "Legendary Pilot!"},
	}
	for _, tt := range tests {
		if got := Rating(tt.score); got != tt.want {
			t.Errorf("Rating(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRecordSavesOnlyNewRecords(t *testing.T) {
	store := &MemoryStore{}
	_ = store.Save(1000)

	sum, err := Record(store, 800, Stats{Kills: 8, Level: 1, Duration: time.Minute})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if sum.NewRecord || sum.HighScore != 1000 {
		t.Fatalf("summary = %+v", sum)
	}
	if got, _ := store.Load(); got != 1000 {
		t.Fatalf("stored = %d, want unchanged 1000", got)
	}

	sum, err = Record(store, 1500, Stats{})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !sum.NewRecord || sum.HighScore != 1500 {
		t.Fatalf("summary = %+v", sum)
	}
	if got, _ := store.Load(); got != 1500 {
		t.Fatalf("stored = %d, want 1500", got)
	}
}

type failingStore struct{}

func (failingStore) Load() (int, error) { return 0, errors.New("disk on fire") }
func (failingStore) Save(int) error     { return errors.New("disk on fire") }
func (failingStore) SaveIfHigher(int) (int, bool, error) {
	return 0, false, errors.New("disk on fire")
}

func TestRecordStoreErrors(t *testing.T) {
	sum, err := Record(failingStore{}, 300, Stats{})
	if err == nil {
		t.Fatal("expected save error")
	}
	if sum.Score != 300 || sum.HighScore != 300 || !sum.NewRecord {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestConcurrentRecordsKeepHighest(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"file":   func(t *testing.T) Store { return NewFileStore(filepath.Join(t.TempDir(), "high.yaml")) },
		"memory": func(*testing.T) Store { return &MemoryStore{} },
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			for round := 0; round < 20; round++ {
				store := open(t)
				scores := []int{9000, 500, 3000, 8999, 100, 7000}

				var wg sync.WaitGroup
				start := make(chan struct{})
				records := make([]bool, len(scores))
				for i, sc := range scores {
					wg.Add(1)
					go func() {
						defer wg.Done()
						<-start
						sum, err := Record(store, sc, Stats{})
						if err != nil {
							t.Errorf("Record(%d): %v", sc, err)
						}
						records[i] = sum.NewRecord
					}()
				}
				close(start)
				wg.Wait()

				if got, _ := store.Load(); got != 9000 {
					t.Fatalf("round %d: stored %d, want 9000", round, got)
				}
				if !records[0] {
					t.Fatalf("round %d: 9000 not reported as a record", round)
				}
			}
		})
	}
}

func TestSaveIfHigher(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "high.yaml"))

	prev, saved, err := store.SaveIfHigher(400)
	if err != nil || !saved || prev != 0 {
		t.Fatalf("first SaveIfHigher = %d, %v, %v", prev, saved, err)
	}
	prev, saved, err = store.SaveIfHigher(400)
	if err != nil || saved || prev != 400 {
		t.Fatalf("equal SaveIfHigher = %d, %v, %v", prev, saved, err)
	}
	prev, saved, err = store.SaveIfHigher(100)
	if err != nil || saved || prev != 400 {
		t.Fatalf("lower SaveIfHigher = %d, %v, %v", prev, saved, err)
	}
	if got, _ := store.Load(); got != 400 {
		t.Fatalf("stored = %d, want 400", got)
	}
}

func TestOpenEmptyPathKeepsScoresInMemory(t *testing.T) {
	store := Open("")
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("Open(\"\") = %T, want *MemoryStore", store)
	}
	sum, err := Record(store, 700, Stats{})
	if err != nil || !sum.NewRecord {
		t.Fatalf("Record = %+v, %v", sum, err)
	}
	if got, err := store.Load(); err != nil || got != 700 {
		t.Fatalf("Load = %d, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "high.yaml")
	if _, ok := Open(path).(*FileStore); !ok {
		t.Fatalf("Open(%q) is not a FileStore", path)
	}
}
