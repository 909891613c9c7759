package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/usr-annotation-backend/internal/http"
	httpH "github.com/yungbote/usr-annotation-backend/internal/http/handlers"
	httpMW "github.com/yungbote/usr-annotation-backend/internal/http/middleware"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Realtime   *httpH.RealtimeHandler
	Content    *httpH.ContentHandler
	Annotation *httpH.AnnotationHandler
	Assignment *httpH.AssignmentHandler
	Concept    *httpH.ConceptHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, services.Auth, clients.Mailer),
		User:       httpH.NewUserHandler(services.User),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
		Content:    httpH.NewContentHandler(services.Content),
		Annotation: httpH.NewAnnotationHandler(services.Annotation),
		Assignment: httpH.NewAssignmentHandlerWithDeps(httpH.AssignmentHandlerDeps{
			Log:     log,
			Service: services.Assignment,
		}),
		Concept: httpH.NewConceptHandler(services.Concept),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		RealtimeHandler:   handlers.Realtime,
		ContentHandler:    handlers.Content,
		AnnotationHandler: handlers.Annotation,
		AssignmentHandler: handlers.Assignment,
		ConceptHandler:    handlers.Concept,
		HealthHandler:     handlers.Health,
	})
}
