package model

import (
	"fmt"
	"time"
)

// RegistrantKind tags the three identities capable of holding a
// registration. Members and non-members have their own accounts;
// dependents are minors owned by a family and have no login.
type RegistrantKind string

const (
	KindMember    RegistrantKind = "member"
	KindNonMember RegistrantKind = "non_member"
	KindDependent RegistrantKind = "dependent"
)

// ParseRegistrantKind validates a kind coming off the wire.
func ParseRegistrantKind(s string) (RegistrantKind, error) {
	switch RegistrantKind(s) {
	case KindMember, KindNonMember, KindDependent:
		return RegistrantKind(s), nil
	}
	return "", fmt.Errorf("unknown registrant kind %q", s)
}

// RegistrantRef identifies a registrant across the three kinds. It is the
// single foreign key shape used by registrations and cancellation notices,
// replacing per-kind lookup paths.
type RegistrantRef struct {
	Kind RegistrantKind `json:"kind"`
	ID   int            `json:"id"`
}

// AccountStatus is the lifecycle state of a member or non-member account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// Member is a full membership account. Staff are members whose email is
// provisioned with the staff flag.
type Member struct {
	ID           int           `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Birthday     time.Time     `json:"birthday"`
	Phone        string        `json:"phone"`
	Status       AccountStatus `json:"status"`
	IsStaff      bool          `json:"is_staff"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NonMember is a pay-per-class account without membership benefits.
type NonMember struct {
	ID           int           `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Birthday     time.Time     `json:"birthday"`
	Phone        string        `json:"phone"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DependentMaxAge is the hard ceiling for adding a dependent to a family.
const DependentMaxAge = 18

// Dependent is a minor attached to exactly one family. Dependents are
// registered for classes by the family owner and never log in themselves.
type Dependent struct {
	ID        int       `json:"id"`
	FamilyID  int       `json:"family_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthday  time.Time `json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
}

// AgeOn returns the dependent's age in whole years on the given date.
func (d *Dependent) AgeOn(t time.Time) int {
	age := t.Year() - d.Birthday.Year()
	anniversary := d.Birthday.AddDate(age, 0, 0)
	if anniversary.After(t) {
		age--
	}
	return age
}

// LoginRequest is the payload for member and non-member authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// SignupRequest creates a member or non-member account.
type SignupRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=member non_member"`
	FirstName string `json:"first_name" binding:"required,min=1,max=60"`
	LastName  string `json:"last_name" binding:"required,min=1,max=60"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	Birthday  string `json:"birthday" binding:"required,datetime=2006-01-02"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// SetStatusRequest is the staff payload for activating or deactivating a
// member or non-member account.
type SetStatusRequest struct {
	Status AccountStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}
