package server

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Leaderboard is the JSON body of the leaderboard endpoint.
type Leaderboard struct {
	Players int             `json:"players"`
	Top     []TopScoreEntry `json:"top"`
}

// NewStatusHandler returns the HTTP side of the hub: a plain-text landing
// page telling visitors how to connect to sshAddr, the live leaderboard as
// JSON and a health check.
func NewStatusHandler(gs GameServer, sshAddr string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", landingPage(gs, connectCommand(sshAddr))).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", leaderboard(gs)).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard/{rank:[0-9]+}", leaderboardRank(gs)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	return r
}

// connectCommand renders the ssh invocation for addr, omitting the default port.
func connectCommand(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh -t " + addr
	}
	if port == "22" || port == "" {
		return "ssh -t " + host
	}
	return fmt.Sprintf("ssh -t -p %s %s", port, host)
}

func landingPage(gs GameServer, command string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "BEE STRIKE\n\nPlay in your terminal:\n\n    %s\n\n", command)
		fmt.Fprintf(w, "Pilots online: %d\n", gs.Players())
		for i, e := range gs.TopScores() {
			mark := ""
			if e.Live {
				mark = " *"
			}
			fmt.Fprintf(w, "%d. %-16s %8d%s\n", i+1, e.Username, e.Score, mark)
		}
	}
}

func leaderboard(gs GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Leaderboard{Players: gs.Players(), Top: gs.TopScores()})
	}
}

// leaderboardRank serves a single 1-based leaderboard position.
func leaderboardRank(gs GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rank, err := strconv.Atoi(mux.Vars(r)["rank"])
		top := gs.TopScores()
		if err != nil || rank < 1 || rank > len(top) {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, top[rank-1])
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
