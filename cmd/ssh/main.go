package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/draw"
	"github.com/tomz197/beestrike/internal/loop/client"
	"github.com/tomz197/beestrike/internal/loop/server"
	"github.com/tomz197/beestrike/internal/score"
)

func main() {
	configPath := flag.String("config", config.GetEnv("BEESTRIKE_CONFIG", ""), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logger := config.NewLogger(os.Stderr, "beestrike-ssh", cfg.Log.Level)
	if err != nil {
		logger.Fatal("cannot load config", "err", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", cfg.SSH.Host, "port", cfg.SSH.Port,
		"host_key", cfg.SSH.HostKeyPath, "scores", cfg.Scores.Path, "working_dir", workingDir)

	// One hub and one high-score file shared by every session
	ctx, cancelHub := context.WithCancel(context.Background())
	hub := server.NewServer(logger.WithPrefix("hub"))
	go hub.Run(ctx)
	scores := score.Open(cfg.Scores.Path)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			gameMiddleware(hub, cfg, scores, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	var status *http.Server
	if cfg.SSH.StatusAddr != "" {
		status = &http.Server{
			Addr:              cfg.SSH.StatusAddr,
			Handler:           server.NewStatusHandler(hub, net.JoinHostPort(cfg.SSH.DisplayHost, cfg.SSH.Port)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info("starting status page", "addr", cfg.SSH.StatusAddr)
		go func() {
			if err := status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status page stopped", "err", err)
			}
		}()
	}

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	logger.Info("notifying connected players about shutdown", "players", hub.Players())
	hub.Shutdown(15 * time.Second)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if status != nil {
		if err := status.Shutdown(shutdownCtx); err != nil {
			logger.Warn("status page shutdown", "err", err)
		}
	}

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(hub *server.Server, cfg config.Config, scores score.Store, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			// Sound plays on the host, never over the wire
			c, err := client.NewClient(hub, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Game:         cfg.Game,
				Audio:        audio.Nop{},
				Scores:       scores,
				Logger:       logger,
			})
			if err != nil {
				logger.Error("cannot start client", "user", sess.User(), "err", err)
				fmt.Fprintln(sess, "Error: the game could not start.")
				return
			}

			// Leave the game loop when the connection drops
			go func() {
				<-sess.Context().Done()
				c.Stop()
			}()

			if err := c.Run(); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
