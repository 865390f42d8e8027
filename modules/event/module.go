package event

import (
	"eventhub/core/database"
	"eventhub/core/middleware"
	"eventhub/core/realtime"
	"eventhub/core/storage"
	"eventhub/modules/event/controller"
	"eventhub/modules/event/repository"
	"eventhub/modules/event/router"
	"eventhub/modules/event/service"
	"eventhub/modules/event/store"
	"eventhub/modules/event/worker"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and returns the service for use by other
// modules and the background worker.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, feed realtime.Feed, images storage.ImageResolver, enqueuer *worker.Enqueuer) *service.EventService {
	repo := repository.NewEventRepository(db, feed)
	snapshot := store.NewStore()
	svc := service.NewEventService(repo, snapshot, images)
	ctrl := controller.NewEventController(svc, enqueuer)
	r := router.NewEventRouter(ctrl)

	r.Register(g, mw)

	return svc
}
