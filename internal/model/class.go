package model

import (
	"fmt"
	"time"

	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// ClassStatus enumerates the lifecycle states of a class.
type ClassStatus string

const (
	ClassStatusOpen     ClassStatus = "OPEN"
	ClassStatusInactive ClassStatus = "INACTIVE"
)

// Class represents a recurring class offering. A class repeats weekly on
// the selected weekdays, with one daily time window shared by all of them,
// inside the start/end date range.
type Class struct {
	ID             int                 `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	RoomNumber     int                 `json:"room_number"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	Days           schedule.WeekdaySet `json:"days"`
	StartTime      schedule.TimeOfDay  `json:"start_time"`
	EndTime        schedule.TimeOfDay  `json:"end_time"`
	MaxCapacity    int                 `json:"max_capacity"`
	Occupied       int                 `json:"occupied"`
	Status         ClassStatus         `json:"status"`
	MemberPrice    float64             `json:"member_price"`
	NonMemberPrice float64             `json:"non_member_price"`
	StaffID        int                 `json:"staff_id"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Recurrence returns the class's weekly pattern for conflict evaluation.
func (c *Class) Recurrence() schedule.Recurrence {
	return schedule.Recurrence{
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Days:      c.Days,
		Start:     c.StartTime,
		End:       c.EndTime,
	}
}

// Remaining derives the free seat count; "remaining" is never persisted.
func (c *Class) Remaining() int {
	return c.MaxCapacity - c.Occupied
}

// CreateClassRequest is the staff payload for creating a new class.
// Dates use "2006-01-02", times "15:04", days full English names.
type CreateClassRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=120"`
	Description    string   `json:"description" binding:"required,max=2000"`
	RoomNumber     int      `json:"room_number" binding:"required,min=1"`
	StartDate      string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	Days           []string `json:"days" binding:"required,min=1,dive,weekday"`
	StartTime      string   `json:"start_time" binding:"required,datetime=15:04"`
	EndTime        string   `json:"end_time" binding:"required,datetime=15:04"`
	MaxCapacity    int      `json:"max_capacity" binding:"required,min=1,max=500"`
	MemberPrice    float64  `json:"member_price" binding:"gte=0"`
	NonMemberPrice float64  `json:"non_member_price" binding:"gte=0"`
}

// ToClass converts the validated payload into a Class owned by the staff
// member who created it.
func (r *CreateClassRequest) ToClass(staffID int) (*Class, error) {
	startDate, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	days, err := schedule.ParseWeekdays(r.Days)
	if err != nil {
		return nil, err
	}
	startTime, err := schedule.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := schedule.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return nil, err
	}
	return &Class{
		Name:           r.Name,
		Description:    r.Description,
		RoomNumber:     r.RoomNumber,
		StartDate:      startDate,
		EndDate:        endDate,
		Days:           days,
		StartTime:      startTime,
		EndTime:        endTime,
		MaxCapacity:    r.MaxCapacity,
		Status:         ClassStatusOpen,
		MemberPrice:    r.MemberPrice,
		NonMemberPrice: r.NonMemberPrice,
		StaffID:        staffID,
	}, nil
}
