package bridge

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const defaultPort = "4040"

// Server exposes the dispatcher over HTTP: POST /rpc for commands and
// GET /health for liveness probes.
type Server struct {
	app        *fiber.App
	dispatcher *Dispatcher
	logger     zerolog.Logger
	port       string
	running    atomic.Bool
}

// ServerOption configures a Server at construction time.
type ServerOption func(*Server)

func WithPort(port string) ServerOption {
	return func(s *Server) {
		if port != "" {
			s.port = port
		}
	}
}

func WithServerLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

func NewServer(dispatcher *Dispatcher, opts ...ServerOption) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
		}),
		dispatcher: dispatcher,
		logger:     zerolog.Nop(),
		port:       defaultPort,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"running":  s.running.Load(),
			"commands": s.dispatcher.Commands(),
		})
	})
	s.app.Post("/rpc", func(ctx *fiber.Ctx) error {
		req := new(Request)
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		resp := s.dispatcher.Dispatch(*req)
		if !resp.Success {
			s.logger.Debug().
				Str("command", req.Command).
				Str("error", resp.Error).
				Msg("bridge command failed")
		}
		return ctx.JSON(resp)
	})
}

// App returns the underlying fiber app, used by tests to drive requests
// without a listener.
func (s *Server) App() *fiber.App { return s.app }

// Serve blocks listening on the configured port until Shutdown is called.
func (s *Server) Serve() error {
	s.running.Store(true)
	defer s.running.Store(false)
	s.logger.Info().Str("port", s.port).Msg("bridge server listening")
	if err := s.app.Listen(fmt.Sprintf(":%s", s.port)); err != nil {
		return eris.Wrap(err, "bridge server stopped")
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if !s.running.Load() {
		return nil
	}
	return eris.Wrap(s.app.Shutdown(), "failed to shut down bridge server")
}
