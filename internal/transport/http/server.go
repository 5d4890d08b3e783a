package http

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"learningpal/internal/bootstrap"
	"learningpal/internal/transport/http/handler"
	"learningpal/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(app.Config.App.Name),
		middleware.RequestLogger(app.Log.Named("http")),
		middleware.CORS(app.Config.App.CORSOrigins),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	mountStatic(router, app.Config.App.StaticDir)

	authHandler := handler.NewAuthHandler(app.AuthService)
	learningHandler := handler.NewLearningHandler(app.LearningService)
	sourceHandler := handler.NewSourceHandler()
	requireAuth := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/mfa/verify", authHandler.VerifyMFA)
	authGroup.POST("/mfa/resend", authHandler.ResendMFA)
	authGroup.GET("/me", requireAuth, authHandler.Me)

	learningGroup := v1.Group("/learning")
	learningGroup.Use(requireAuth)
	learningGroup.POST("/generate", learningHandler.Generate)
	learningGroup.GET("/sessions", learningHandler.ListSessions)
	learningGroup.GET("/sessions/:id", learningHandler.GetSession)
	learningGroup.DELETE("/sessions/:id", learningHandler.DeleteSession)
	learningGroup.POST("/source-document", sourceHandler.Extract)

	return router
}

// mountStatic serves the web pages when the directory exists.
func mountStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	router.Static("/static", dir)
	for route, page := range map[string]string{
		"/":         "index.html",
		"/login":    "login.html",
		"/register": "register.html",
		"/learn":    "learn.html",
	} {
		path := filepath.Join(dir, page)
		if _, err := os.Stat(path); err == nil {
			router.StaticFile(route, path)
		}
	}
}
