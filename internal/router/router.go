package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"claimhub/internal/auth"
	"claimhub/internal/config"
	"claimhub/internal/handler"
	"claimhub/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	claimHandler *handler.ClaimHandler,
	approvalHandler *handler.ApprovalHandler,
	hrHandler *handler.HRHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", jwtMiddleware(cfg.JWTSecret))

	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return c.JSON(http.StatusOK, echo.Map{"token_claims": token.Claims})
	})

	// Any authenticated user may read a claim; ownership is checked in the
	// service.
	secured.GET("/claims/:id", claimHandler.GetClaim)
	secured.GET("/claims/:id/receipt", claimHandler.GetReceipt)

	// Lecturer routes (submission and tracking)
	lecturer := secured.Group("", requireRole(model.RoleLecturer))
	lecturer.POST("/claims", claimHandler.SubmitClaim)
	lecturer.POST("/claims/preview", claimHandler.CalculatePreview)
	lecturer.GET("/claims/mine", claimHandler.ListMyClaims)

	// Coordinator routes (review)
	coordinator := secured.Group("/review", requireRole(model.RoleCoordinator))
	coordinator.GET("/claims", approvalHandler.ListPending)
	coordinator.POST("/claims/:id/approve", approvalHandler.Approve)
	coordinator.POST("/claims/:id/reject", approvalHandler.Reject)

	// HR routes (user management and reports)
	hr := secured.Group("/hr", requireRole(model.RoleHR))
	hr.GET("/users", hrHandler.ListUsers)
	hr.POST("/users", hrHandler.CreateUser)
	hr.GET("/users/:id", hrHandler.GetUser)
	hr.PUT("/users/:id", hrHandler.UpdateUser)
	hr.DELETE("/users/:id", hrHandler.DeleteUser)
	hr.GET("/stats", hrHandler.Stats)
	hr.GET("/reports/monthly", hrHandler.MonthlyReport)
}

// jwtMiddleware validates bearer tokens and stores a *jwt.Token carrying
// auth.Claims on the request context.
func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
}

// requireRole gates a route group on the role claim carried in the JWT. This
// is the transport-layer capability check; services re-assert the role as a
// precondition.
func requireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Role != string(role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
