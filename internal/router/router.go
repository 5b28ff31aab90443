package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"galleria/internal/auth"
	"galleria/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	auctionHandler *handler.AuctionHandler,
	categoryHandler *handler.CategoryHandler,
	storageHandler *handler.StorageHandler,
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
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/google", authHandler.GoogleLogin)
	api.GET("/auth/google/callback", authHandler.GoogleCallback)
	api.POST("/auth/verify-email", authHandler.SendVerification)
	api.GET("/auth/verify-email", authHandler.VerifyEmail)

	api.GET("/auctions", auctionHandler.List)
	api.GET("/auctions/recent", auctionHandler.Recent)
	api.GET("/auctions/:id", auctionHandler.Get)
	api.GET("/users/:id/auctions", auctionHandler.ListByUser)

	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)

	api.GET("/storage/view-url", storageHandler.ViewURL)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	}))

	secured.POST("/auctions", auctionHandler.Create)
	secured.PATCH("/auctions/:id", auctionHandler.Update)
	secured.DELETE("/auctions/:id", auctionHandler.Delete)

	secured.POST("/categories", categoryHandler.Create)
	secured.PATCH("/categories/:id", categoryHandler.Update)
	secured.DELETE("/categories/:id", categoryHandler.Delete)

	secured.POST("/storage/upload-url", storageHandler.UploadURL)
	secured.POST("/storage/upload", storageHandler.Upload)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
