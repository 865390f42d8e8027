package constants

import "time"

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Event cache
const (
	// EventCacheTTL is how long a full-collection snapshot stays valid.
	EventCacheTTL = 5 * time.Minute
)

// Redis keys and channels
const (
	RedisKeyTokenBlacklist   = "auth:blacklist:"
	RedisChannelEventChanges = "events:changes"
)

// Event lifecycle statuses. Upcoming and Completed are derived from the
// event's date and time; Ongoing and Cancelled are set by administrators and
// never touched by automatic recomputation.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Attendee registration states
const (
	AttendeeStatusConfirmed = "confirmed"
	AttendeeStatusCancelled = "cancelled"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Feedback rating bounds
const (
	FeedbackRatingMin = 1
	FeedbackRatingMax = 5
)
