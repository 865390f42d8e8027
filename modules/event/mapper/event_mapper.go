package mapper

import (
	"eventhub/core/storage"
	"eventhub/modules/event/dto"
	"eventhub/modules/event/entity"
)

// ToEventResponse maps a stored row to its API shape. The cover image falls
// back to the bundled placeholder when the stored reference is empty.
func ToEventResponse(event entity.Event, images storage.ImageResolver) dto.EventResponse {
	coverURL := event.CoverImage
	if images != nil {
		coverURL = images.ResolveImageURL(event.CoverImage)
	}
	return dto.EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Slug:          event.Slug,
		Description:   event.Description,
		Date:          event.Date,
		Time:          event.Time,
		Location:      event.Location,
		CoverImageURL: coverURL,
		Category:      event.Category,
		Featured:      event.Featured,
		Status:        event.Status,
		Type:          event.Type,
		MaxCapacity:   event.MaxCapacity,
		Organizer:     event.Organizer,
		Tags:          event.Tags,
		Requirements:  event.Requirements,
		Materials:     event.Materials,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

func ToEventResponses(events []entity.Event, images storage.ImageResolver) []dto.EventResponse {
	responses := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, ToEventResponse(e, images))
	}
	return responses
}

func ToAttendeeResponse(view entity.AttendeeView) dto.AttendeeResponse {
	return dto.AttendeeResponse{
		UserID:       view.UserID,
		Name:         view.Name,
		Email:        view.Email,
		Status:       view.Status,
		RegisteredAt: view.RegisteredAt,
	}
}

func ToTrackingResponse(tracking entity.UserEventTracking) dto.TrackingResponse {
	return dto.TrackingResponse{
		EventID:           tracking.EventID,
		EventTitle:        tracking.EventTitle,
		EventDate:         tracking.EventDate,
		Status:            tracking.Status,
		FeedbackSubmitted: tracking.FeedbackSubmitted,
		RegisteredAt:      tracking.RegisteredAt,
	}
}
