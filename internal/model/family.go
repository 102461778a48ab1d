package model

import "time"

// Family is an ownership group: exactly one owner member, plus any number
// of member-members and dependents. Only the owner may manage the group or
// register dependents for classes.
type Family struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FamilyDetail is the owner's full view of their family.
type FamilyDetail struct {
	Family
	Members    []Member    `json:"members"`
	Dependents []Dependent `json:"dependents"`
}

// AddFamilyMemberRequest adds an existing member to the family by email.
type AddFamilyMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AddDependentRequest adds a minor to the family. The dependent must be
// DependentMaxAge or younger on the day they are added.
type AddDependentRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=60"`
	LastName  string `json:"last_name" binding:"required,min=1,max=60"`
	Birthday  string `json:"birthday" binding:"required,datetime=2006-01-02"`
}
