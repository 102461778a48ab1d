package model

import (
	"time"

	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// Registration binds a registrant to a class. At most one active
// registration may exist per (registrant, class) pair. Destruction is
// terminal; there is no pending or suspended state.
type Registration struct {
	ID         int           `json:"id"`
	Registrant RegistrantRef `json:"registrant"`
	ClassID    int           `json:"class_id"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RegistrationDetail joins a registration with its class's display and
// schedule fields, for the registrant's "my classes" view.
type RegistrationDetail struct {
	Registration
	ClassName  string              `json:"class_name"`
	RoomNumber int                 `json:"room_number"`
	StartDate  time.Time           `json:"start_date"`
	EndDate    time.Time           `json:"end_date"`
	Days       schedule.WeekdaySet `json:"days"`
	StartTime  schedule.TimeOfDay  `json:"start_time"`
	EndTime    schedule.TimeOfDay  `json:"end_time"`
}

// RegisterRequest is the payload for registering the caller (or, on the
// family surface, a dependent) for a class.
type RegisterRequest struct {
	ClassID int `json:"class_id" binding:"required,min=1"`
}
