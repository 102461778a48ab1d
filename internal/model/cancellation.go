package model

import "time"

// CancellationNotice is an append-only record of an involuntary
// registration removal, written before the registration row is destroyed.
// It denormalizes the class name so the notice survives the class and the
// registration both disappearing. Voluntary self-unregistration writes no
// notice.
type CancellationNotice struct {
	ID          int           `json:"id"`
	ClassID     int           `json:"class_id"`
	ClassName   string        `json:"class_name"`
	Registrant  RegistrantRef `json:"registrant"`
	CancelledOn time.Time     `json:"cancelled_on"`
	Delivered   bool          `json:"delivered"`
	CreatedAt   time.Time     `json:"created_at"`
}
