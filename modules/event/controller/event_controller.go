package controller

import (
	"eventhub/core/controller"
	"eventhub/core/errors"
	"eventhub/core/logger"
	"eventhub/core/utils"
	"eventhub/modules/event/dto"
	"eventhub/modules/event/mapper"
	"eventhub/modules/event/service"
	"eventhub/modules/event/worker"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service  *service.EventService
	enqueuer *worker.Enqueuer
}

func NewEventController(service *service.EventService, enqueuer *worker.Enqueuer) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        service,
		enqueuer:       enqueuer,
	}
}

func (c *EventController) getClaims(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get("token_data")
	if tokenData == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token data not found in context", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data format", nil)
	}
	return claims, nil
}

func (c *EventController) eventID(ctx echo.Context) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param("id"))
}

// ListEvents serves the full collection, or a filtered view when any query
// parameter is present.
func (c *EventController) ListEvents(ctx echo.Context) error {
	var filter dto.EventFilter
	if err := ctx.Bind(&filter); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid filter parameters", nil)
	}

	var (
		events []dto.EventResponse
		err    error
	)
	if filter.Status == "" && filter.Category == "" && filter.Location == "" && filter.Search == "" {
		events, err = c.service.ListAll(ctx.Request().Context())
	} else {
		events, err = c.service.ListByFilter(ctx.Request().Context(), filter)
	}
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to list events", nil)
	}
	return c.SuccessResponse(ctx, dto.EventListResponse{Events: events, Total: len(events)}, "Events retrieved")
}

func (c *EventController) SearchEvents(ctx echo.Context) error {
	events, err := c.service.Search(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Search failed", nil)
	}
	return c.SuccessResponse(ctx, dto.EventListResponse{Events: events, Total: len(events)}, "Search results")
}

// GetEvent refreshes the event's derived status before returning it, so a
// screen opening a stale upcoming event sees it completed.
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}

	if _, err := c.service.RecomputeStatus(ctx.Request().Context(), id); err != nil {
		logger.Warn("EventController:GetEvent:RecomputeFailed", "event_id", id, "error", err)
	}

	event, err := c.service.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to get event", nil)
	}
	if event == nil {
		return c.NotFound(errors.ErrNotFound, "Event not found", nil)
	}
	return c.SuccessResponse(ctx, event, "Event retrieved")
}

func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	event, appErr := c.service.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Event created")
}

func (c *EventController) UpdateEvent(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	ok, appErr := c.service.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if !ok {
		return c.NotFound(errors.ErrNotFound, "Event not found", nil)
	}
	return c.SuccessResponse(ctx, nil, "Event updated")
}

func (c *EventController) DeleteEvent(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	if !c.service.Delete(ctx.Request().Context(), id) {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to delete event", nil)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted")
}

func (c *EventController) GetAttendees(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	attendees, err := c.service.GetAttendees(ctx.Request().Context(), id)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to list attendees", nil)
	}
	return c.SuccessResponse(ctx, dto.AttendeeListResponse{Attendees: attendees, Total: len(attendees)}, "Attendees retrieved")
}

func (c *EventController) Register(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	if appErr := c.service.Register(ctx.Request().Context(), id, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Registered")
}

func (c *EventController) Unregister(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	if appErr := c.service.Unregister(ctx.Request().Context(), id, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Registration cancelled")
}

func (c *EventController) Bookmark(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	if appErr := c.service.Bookmark(ctx.Request().Context(), id, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Bookmarked")
}

func (c *EventController) Unbookmark(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}
	if appErr := c.service.Unbookmark(ctx.Request().Context(), id, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Bookmark removed")
}

func (c *EventController) SubmitFeedback(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID", nil)
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	username := claims.Email
	if appErr := c.service.SubmitFeedback(ctx.Request().Context(), id, claims.UserID, username, req.Rating, req.Comment); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Feedback submitted")
}

func (c *EventController) GetMyTracking(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	tracking, err := c.service.GetUserTracking(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load tracking", nil)
	}
	responses := make([]dto.TrackingResponse, 0, len(tracking))
	for _, row := range tracking {
		responses = append(responses, mapper.ToTrackingResponse(row))
	}
	return c.SuccessResponse(ctx, dto.TrackingListResponse{Tracking: responses, Total: len(responses)}, "Tracking retrieved")
}

func (c *EventController) GetMyRegistrations(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	ids, err := c.service.ListRegisteredEventIDs(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load registrations", nil)
	}
	return c.SuccessResponse(ctx, ids, "Registrations retrieved")
}

func (c *EventController) GetMyBookmarks(ctx echo.Context) error {
	claims, err := c.getClaims(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	ids, err := c.service.ListBookmarkedEventIDs(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load bookmarks", nil)
	}
	return c.SuccessResponse(ctx, ids, "Bookmarks retrieved")
}

// RecomputeStatuses queues the bulk sweep; the worker reports the count.
func (c *EventController) RecomputeStatuses(ctx echo.Context) error {
	if c.enqueuer == nil {
		changed, err := c.service.RecomputeAllStatuses(ctx.Request().Context())
		if err != nil {
			return c.InternalServerError(errors.ErrInternalServer, "Recompute failed", nil)
		}
		return c.SuccessResponse(ctx, dto.RecomputeResponse{Changed: changed}, "Statuses recomputed")
	}
	if err := c.enqueuer.EnqueueRecomputeStatuses(ctx.Request().Context()); err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to queue recompute", nil)
	}
	return c.SuccessResponse(ctx, nil, "Recompute queued")
}

// GetCoverUploadURL hands an admin a presigned PUT URL; the returned key goes
// into the event's cover_image field once the upload finishes.
func (c *EventController) GetCoverUploadURL(ctx echo.Context) error {
	filename := ctx.QueryParam("filename")
	if filename == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "filename is required", nil)
	}
	key, url, appErr := c.service.PresignCoverUpload(ctx.Request().Context(), filename)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.UploadURLResponse{Key: key, URL: url}, "Upload URL created")
}
