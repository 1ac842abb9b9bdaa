package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/storefront-identity/internal/api/http/handler"
	"github.com/dtroode/storefront-identity/internal/api/http/middleware"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
)

// Router wires the account endpoints, their middleware and the health check.
type Router struct {
	accountService handler.AccountService
	guard          middleware.SessionGuard
	contextManager model.ContextManager
	cookie         handler.CookieOptions
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - accountService: The account lifecycle service
//   - guard: Resolves session tokens on protected routes
//   - contextManager: Carries the session account through the request context
//   - cookie: Attributes of the session cookie
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	accountService handler.AccountService,
	guard middleware.SessionGuard,
	contextManager model.ContextManager,
	cookie handler.CookieOptions,
	logger *logger.Logger,
) *Router {
	return &Router{
		accountService: accountService,
		guard:          guard,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

// Register builds the gin engine with request logging, panic recovery and
// every route mounted.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.guard, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.HandleHTTP)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.registerUserRoutes(engine, authenticate)

	return engine
}

func (r *Router) registerUserRoutes(engine *gin.Engine, authenticate *middleware.Authenticate) {
	userHandler := handler.NewUser(r.accountService, r.contextManager, r.cookie, r.logger)

	public := engine.Group("/user")
	public.POST("/signUp", userHandler.Signup)
	public.POST("/login", userHandler.Login)
	public.POST("/logout", userHandler.Logout)
	public.GET("/verifyEmail/:id/:otp", userHandler.VerifyEmail)
	public.GET("/send-otp-email/:id", userHandler.ResendCode)
	public.GET("/forgot-password/:id", userHandler.ForgotPassword)

	protected := engine.Group("/user", authenticate.RequireSession())
	protected.GET("", authenticate.RequireRole(model.RoleAdmin), userHandler.ListByRole)
	protected.PATCH("/update-name-password/:id", userHandler.UpdateCredentials)
}
