//go:build js

package score

import (
	"strconv"
	"sync"
	"syscall/js"
)

// localStorageKey is the browser storage slot for the high score.
const localStorageKey = "bee_game_high_score"

// Open returns a LocalStore in the browser, where there is no file system.
// path is ignored. Without localStorage (private mode, workers) scores are
// kept in memory.
func Open(string) Store {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return &MemoryStore{}
	}
	return &LocalStore{storage: ls}
}

// LocalStore keeps the high score in window.localStorage.
type LocalStore struct {
	mu      sync.Mutex
	storage js.Value
}

func (s *LocalStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *LocalStore) Save(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Call("setItem", localStorageKey, strconv.Itoa(score))
	return nil
}

func (s *LocalStore) SaveIfHigher(score int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.load()
	if score <= prev {
		return prev, false, nil
	}
	s.storage.Call("setItem", localStorageKey, strconv.Itoa(score))
	return prev, true, nil
}

func (s *LocalStore) load() int {
	v := s.storage.Call("getItem", localStorageKey)
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	n, err := strconv.Atoi(v.String())
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var _ Store = (*LocalStore)(nil)
