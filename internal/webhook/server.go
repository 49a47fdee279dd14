package webhook

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ServerConfig is the explicit configuration for a listener instance.
type ServerConfig struct {
	Addr        string
	ServiceName string
}

// Server is the webhook listener: it normalizes inbound bodies into
// envelopes and dispatches them to the action registry.
type Server struct {
	cfg      ServerConfig
	registry *Registry
	app      *fiber.App
}

func NewServer(cfg ServerConfig, registry *Registry) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		DisableStartupMessage: true,
	})

	// The fiber cors middleware answers preflights with 204; the published
	// contract is a 200, so the headers are set by hand.
	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		return c.Next()
	})

	app.Get("/", s.handleHealth)
	app.Post("/", s.handleWebhook)
	app.Options("/", s.handlePreflight)

	s.app = app
	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Info().Msgf("🚀 webhook listener running at %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleWebhook(c *fiber.Ctx) error {
	env := ParseEnvelope(c.Body())

	log.Info().
		Str("request_id", uuid.New().String()).
		Str("action", strings.ToUpper(env.Action)).
		Msg(Truncate(env.Message, 100))

	result := s.registry.Dispatch(c.UserContext(), env)
	return c.JSON(result)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "running",
		"service":   s.cfg.ServiceName,
		"timestamp": time.Now().Format(time.RFC3339Nano),
	})
}

func (s *Server) handlePreflight(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
	return c.SendStatus(fiber.StatusOK)
}
