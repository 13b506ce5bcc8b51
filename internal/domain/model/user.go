package model

import (
	"encoding/json"
	"time"
)

// UserRole is the account role.
type UserRole string

// User roles.
const (
	RoleAdmin     UserRole = "ADMIN"
	RoleOrganizer UserRole = "ORGANIZER"
	RoleAttendee  UserRole = "ATTENDEE"
)

// User is an account as returned by the backend. Some endpoints send "_id",
// the auth endpoints send "id"; both land in ID.
type User struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            UserRole  `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	UpgradeStatus   string    `json:"upgradeStatus,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (u User) RefID() string { return u.ID }

// UnmarshalJSON merges the two id spellings.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		FlatID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.FlatID
	}
	return nil
}
