package server

import (
	"fmt"

	"github.com/agentaudit/auditgate/pkg/config"
	handlers "github.com/agentaudit/auditgate/pkg/handlers/http"
	wshandlers "github.com/agentaudit/auditgate/pkg/handlers/websocket"
	"github.com/agentaudit/auditgate/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		WSHandlerTransport  wshandlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
		wsHandlerTransport  wshandlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
		wsHandlerTransport:  di.WSHandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.setupGlobalMiddleware()
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting API server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupGlobalMiddleware() {
	s.Router.Use(s.middlewareTransport.PanicRecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.RequestLoggerMiddleware.Middleware())
}

func (s *APIServer) setupRoutes() {
	v1 := s.Router.Group("/api/v1")
	if s.Config.Server.SecretKey != "" {
		v1.Use(s.middlewareTransport.AdminAuthMiddleware.Middleware())
	}
	{
		audits := v1.Group("/audits")
		{
			audits.Post("", s.handlerTransport.ProcessAuditHandler.Handle)
			audits.Get("", s.handlerTransport.ListAuditLogsHandler.Handle)
			audits.Get("/summary", s.handlerTransport.GetAuditSummaryHandler.Handle)

			audits.Use("/stream", func(c *fiber.Ctx) error {
				if websocket.IsWebSocketUpgrade(c) {
					return c.Next()
				}
				return fiber.ErrUpgradeRequired
			})
			audits.Get("/stream", websocket.New(s.wsHandlerTransport.StreamAuditLogsHandler.Handle))
		}

		v1.Get("/version", s.handlerTransport.GetVersionHandler.Handle)
	}
}

func (s *APIServer) Shutdown() error {
	return s.Router.Shutdown()
}
