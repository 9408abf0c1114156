package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/loop/client"
	"github.com/tomz197/beestrike/internal/score"
)

func main() {
	configPath := flag.String("config", config.GetEnv("BEESTRIKE_CONFIG", ""), "path to a YAML config file")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game; logs go to a file when asked for.
	logOut, err := openLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	defer logOut.Close()
	logger := config.NewLogger(logOut, "beestrike", cfg.Log.Level)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	player := audio.Open(cfg.Audio.Enabled, cfg.Audio.Volume, logger)
	defer audio.Close(player)

	c, err := client.NewClient(nil, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Game:   cfg.Game,
		Audio:  player,
		Scores: score.Open(cfg.Scores.Path),
		Logger: logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sig
		c.Stop()
	}()

	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// openLog returns the log destination. Without a path logs are discarded so
// they don't tear the canvas.
func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
