package auth

import (
	"eventhub/core/cache"
	"eventhub/core/database"
	"eventhub/core/middleware"
	"eventhub/modules/auth/controller"
	"eventhub/modules/auth/repository"
	"eventhub/modules/auth/router"
	"eventhub/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and returns the service for use by other modules
func Init(g *echo.Group, db database.IDatabase, cache cache.ICache, mw *middleware.Middleware) *service.AuthService {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, cache)
	ctrl := controller.NewAuthController(svc)
	r := router.NewAuthRouter(ctrl)

	r.Register(g, mw)

	return svc
}
