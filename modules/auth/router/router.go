package router

import (
	"eventhub/core/middleware"
	"eventhub/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	auth := g.Group("/auth")

	auth.POST("/login", r.controller.Login)
	auth.POST("/logout", r.controller.Logout)
	auth.GET("/me", r.controller.Me, mw.AuthMiddleware())
}
