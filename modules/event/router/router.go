package router

import (
	"eventhub/core/constants"
	"eventhub/core/middleware"
	"eventhub/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{
		controller: controller,
	}
}

func (r *EventRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	events := g.Group("/events")
	events.Use(mw.AuthMiddleware())

	events.GET("", r.controller.ListEvents)
	events.GET("/search", r.controller.SearchEvents)
	events.GET("/:id", r.controller.GetEvent)
	events.GET("/:id/attendees", r.controller.GetAttendees)

	events.POST("/:id/register", r.controller.Register)
	events.DELETE("/:id/register", r.controller.Unregister)
	events.POST("/:id/bookmark", r.controller.Bookmark)
	events.DELETE("/:id/bookmark", r.controller.Unbookmark)
	events.POST("/:id/feedback", r.controller.SubmitFeedback)

	events.POST("", r.controller.CreateEvent, mw.RequireRole(constants.RoleAdmin))
	events.PUT("/:id", r.controller.UpdateEvent, mw.RequireRole(constants.RoleAdmin))
	events.DELETE("/:id", r.controller.DeleteEvent, mw.RequireRole(constants.RoleAdmin))
	events.POST("/recompute", r.controller.RecomputeStatuses, mw.RequireRole(constants.RoleAdmin))
	events.POST("/cover-upload-url", r.controller.GetCoverUploadURL, mw.RequireRole(constants.RoleAdmin))

	me := g.Group("/me")
	me.Use(mw.AuthMiddleware())
	me.GET("/tracking", r.controller.GetMyTracking)
	me.GET("/registrations", r.controller.GetMyRegistrations)
	me.GET("/bookmarks", r.controller.GetMyBookmarks)
}
