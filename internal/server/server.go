// Package server exposes login, OCR, vehicle list and export over HTTP/JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/platescan/internal/auth"
	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/ocr"
	"github.com/vburojevic/platescan/internal/session"
)

// how often expired sessions are dropped
const sweepInterval = time.Minute

// Recognizer turns an image into cleaned text; *ocr.Processor implements it
type Recognizer interface {
	Process(ctx context.Context, in ocr.Input) ocr.Outcome
	Engines() []string
}

// Options holds the collaborators of a Server
type Options struct {
	Config     *config.Config
	Users      *auth.Users
	Recognizer Recognizer
	Logger     *zap.Logger
	Clock      clock.Clock
}

// Server is the platescan HTTP API
type Server struct {
	cfg             config.ServerConfig
	users           *auth.Users
	recognizer      Recognizer
	sessions        *session.Store
	logger          *zap.Logger
	clock           clock.Clock
	shutdownTimeout time.Duration
	tls             bool
}

// New validates options and builds a Server
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Users == nil {
		return nil, errors.New("server: users are required")
	}
	if opts.Recognizer == nil {
		return nil, errors.New("server: recognizer is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	ttl, err := opts.Config.SessionTTL()
	if err != nil {
		return nil, err
	}
	shutdown, err := opts.Config.ShutdownTimeout()
	if err != nil {
		return nil, err
	}
	if opts.Config.Server.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("server: max body size must be positive, got %d", opts.Config.Server.MaxBodyBytes)
	}

	return &Server{
		cfg:             opts.Config.Server,
		users:           opts.Users,
		recognizer:      opts.Recognizer,
		sessions:        session.NewStore(ttl, opts.Clock),
		logger:          opts.Logger,
		clock:           opts.Clock,
		shutdownTimeout: shutdown,
		tls:             TLSAvailable(opts.Config.Server),
	}, nil
}

// TLSAvailable reports whether both the certificate and key files exist
func TLSAvailable(cfg config.ServerConfig) bool {
	if cfg.TLSCert == "" || cfg.TLSKey == "" {
		return false
	}
	if _, err := os.Stat(cfg.TLSCert); err != nil {
		return false
	}
	if _, err := os.Stat(cfg.TLSKey); err != nil {
		return false
	}
	return true
}

// TLS reports whether Serve will use HTTPS
func (s *Server) TLS() bool { return s.tls }

// Run listens on the configured address and serves until ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.sessions.Run(gctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Server listening",
			zap.String("addr", ln.Addr().String()),
			zap.Bool("tls", s.tls),
			zap.Strings("engines", s.recognizer.Engines()))

		var err error
		if s.tls {
			err = srv.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
