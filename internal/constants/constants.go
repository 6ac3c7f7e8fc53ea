package constants

// UnassignedDriverID is the reserved driver id for the "unassigned" bucket.
// The store persists it as NULL; every API boundary uses this value.
const UnassignedDriverID = "00000000-0000-0000-0000-000000000000"

// UnassignedDriverName is the display name of the unassigned bucket.
const UnassignedDriverName = "Unassigned"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Sessions
const (
	SessionCookieName           = "crew_session"
	SessionKeyPendingResolution = "pending_resolution"
	ContextKeyRequestID         = "request_id"
	ContextKeyTask              = "task"
	HeaderRequestID             = "X-Request-ID"
)

// Capacity defaults applied when a driver has no capacity row.
const (
	DefaultMaxHoursPerDay     = 8
	DefaultMaxHoursPerWeek    = 40
	DefaultMaxHoursPerMonth   = 160
	DefaultPreferredStartTime = "09:00"
	DefaultPreferredEndTime   = "17:00"
)
