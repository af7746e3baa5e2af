package models

import "time"

// Profile is the demographic record of an account. Email and Role are joined from
// users when the profile is read.
type Profile struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	NationalID *string    `json:"national_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Age        *int       `json:"age"`
	Gender     *string    `json:"gender"`
	Goal       *string    `json:"goal"`
	StartDate  *time.Time `json:"start_date"`
	IsActive   bool       `json:"is_active"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (p Profile) IsDeleted() bool {
	return p.DeletedAt != nil
}

func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

type UserDetail struct {
	Profile
	Routines     []Routine         `json:"routines"`
	Measurements []UserMeasurement `json:"measurements,omitempty"`
}
