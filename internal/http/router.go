package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// placeholderSections son las vistas del menu que aun no tienen contenido.
var placeholderSections = map[string]string{
	"integrations":  "Integrations",
	"notifications": "Notifications",
	"billing":       "Billing",
	"api-docs":      "API Documentation",
	"payments":      "Payments",
	"customers":     "Customers",
	"analytics":     "Analytics",
}

// RouterDeps agrupa handlers y colaboradores del router.
type RouterDeps struct {
	Logger         *zap.Logger
	Sessions       *Sessions
	GuardObserver  GuardObserver
	MetricsHandler http.Handler
	Auth           *AuthHandler
	Companies      *CompanyHandler
	APIKeys        *APIKeyHandler
	Settings       *SettingsHandler
}

// NewRouter configura el router de Gin con middlewares, rutas publicas y el arbol protegido.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(deps.Logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Rutas publicas.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}
	r.GET(loginPath, deps.Auth.LoginView)

	authGroup := r.Group("/auth")
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/logout", deps.Auth.Logout)

	// Todo lo demas pasa por el Route Guard.
	protected := r.Group("/", RouteGuard(deps.Sessions, deps.GuardObserver))
	protected.GET("/", redirectHome)
	protected.GET("/dashboard", redirectHome)
	protected.GET("/auth/me", deps.Auth.Me)

	protected.GET("/companies", deps.Companies.List)
	protected.GET("/companies/:companyId", deps.Companies.Get)
	protected.GET("/companies/:companyId/export", deps.Companies.Export)

	protected.GET("/api-keys", deps.APIKeys.List)
	protected.POST("/api-keys", deps.APIKeys.Create)
	protected.POST("/api-keys/:id/revoke", deps.APIKeys.Revoke)
	protected.POST("/api-keys/:id/activate", deps.APIKeys.Activate)
	protected.POST("/api-keys/:id/roll", deps.APIKeys.Roll)
	protected.DELETE("/api-keys/:id", deps.APIKeys.Delete)

	protected.GET("/settings", deps.Settings.Get)
	protected.GET("/settings/:tab", deps.Settings.Section)
	protected.POST("/settings/suppressions/:kind", deps.Settings.AddSuppression)
	protected.DELETE("/settings/suppressions/:kind/:value", deps.Settings.RemoveSuppression)
	protected.POST("/settings/webhooks", deps.Settings.AddWebhook)
	protected.DELETE("/settings/webhooks/:id", deps.Settings.RemoveWebhook)

	for path, title := range placeholderSections {
		protected.GET("/"+path, comingSoon(title))
	}

	// Cualquier otra ruta vuelve al home; el guard decide desde ahi.
	r.NoRoute(redirectHome)

	return r
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, homePath)
}

func comingSoon(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"view": title, "status": "coming_soon"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
