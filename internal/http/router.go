package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/usr-annotation-backend/internal/http/handlers"
	httpMW "github.com/yungbote/usr-annotation-backend/internal/http/middleware"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	RealtimeHandler *httpH.RealtimeHandler

	ContentHandler    *httpH.ContentHandler
	AnnotationHandler *httpH.AnnotationHandler
	AssignmentHandler *httpH.AssignmentHandler
	ConceptHandler    *httpH.ConceptHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/otp", cfg.AuthHandler.IssueOTP)
			api.POST("/otp/verify", cfg.AuthHandler.VerifyOTP)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events/stream", cfg.RealtimeHandler.Stream)
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/users", cfg.UserHandler.List)
			protected.GET("/users/:id", cfg.UserHandler.Get)
			protected.PATCH("/users/:id/role", cfg.UserHandler.SetRole)
			protected.POST("/users/:id/suspend", cfg.UserHandler.Suspend)
			protected.DELETE("/users/:id", cfg.UserHandler.Delete)
		}

		// Content hierarchy
		if h := cfg.ContentHandler; h != nil {
			protected.GET("/projects", h.ListProjects)
			protected.POST("/projects", h.CreateProject)
			protected.GET("/projects/:id", h.GetProject)
			protected.PATCH("/projects/:id", h.UpdateProject)
			protected.DELETE("/projects/:id", h.DeleteProject)
			protected.GET("/projects/:id/chapters", h.ListChapters)
			protected.POST("/projects/:id/chapters", h.CreateChapter)

			protected.GET("/chapters/:id", h.GetChapter)
			protected.PATCH("/chapters/:id", h.UpdateChapter)
			protected.DELETE("/chapters/:id", h.DeleteChapter)
			protected.GET("/chapters/:id/sentences", h.ListSentences)
			protected.POST("/chapters/:id/sentences", h.CreateSentence)

			protected.GET("/sentences/:id", h.GetSentence)
			protected.GET("/sentences", h.GetSentenceByExternalID)
			protected.PATCH("/sentences/:id", h.UpdateSentence)
			protected.DELETE("/sentences/:id", h.DeleteSentence)
			protected.GET("/sentences/:id/segments", h.ListSegments)
			protected.POST("/sentences/:id/segments", h.CreateSegment)

			protected.GET("/segments/:id", h.GetSegment)
			protected.PATCH("/segments/:id", h.UpdateSegment)
			protected.DELETE("/segments/:id", h.DeleteSegment)
		}

		// Annotations
		if h := cfg.AnnotationHandler; h != nil {
			protected.GET("/segments/:id/usrs", h.ListUSRs)
			protected.POST("/segments/:id/usrs", h.CreateUSR)
			protected.GET("/usrs/:id", h.GetUSR)
			protected.DELETE("/usrs/:id", h.DeleteUSR)
			protected.PUT("/usrs/:id/lexical", h.ReplaceLexical)
			protected.PUT("/usrs/:id/dependency", h.ReplaceDependency)
			protected.PUT("/usrs/:id/discourse", h.ReplaceDiscourseCoref)
			protected.PUT("/usrs/:id/construction", h.ReplaceConstruction)
			protected.PUT("/usrs/:id/sentence-types", h.ReplaceSentenceTypes)
		}

		// Assignments
		if h := cfg.AssignmentHandler; h != nil {
			protected.POST("/assignments", h.Create)
			protected.GET("/assignments/:id", h.Get)
			protected.GET("/assignments/:id/events", h.Events)
			protected.POST("/assignments/:id/transitions/:action", h.Transition)
			protected.POST("/assignments/:id/reassign", h.Reassign)
			protected.POST("/assignments/:id/subtasks", h.Widen)
			protected.GET("/annotators/:id/assignments", h.ListByAnnotator)
			protected.GET("/annotators/:id/workload", h.Workload)
			protected.GET("/reviewers/:id/assignments", h.ListByReviewer)
		}

		// Concept dictionary
		if h := cfg.ConceptHandler; h != nil {
			protected.GET("/concepts", h.Search)
			protected.POST("/concepts", h.Create)
			protected.GET("/concepts/:label", h.Get)
		}
	}

	return r
}
