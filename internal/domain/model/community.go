package model

import "time"

// CommunityType classifies a community.
type CommunityType string

// Community types.
const (
	CommunityNeighborhood CommunityType = "NEIGHBORHOOD"
	CommunityHobby        CommunityType = "HOBBY"
	CommunityBusiness     CommunityType = "BUSINESS"
)

// Valid reports whether t is a known community type.
func (t CommunityType) Valid() bool {
	switch t {
	case CommunityNeighborhood, CommunityHobby, CommunityBusiness:
		return true
	}
	return false
}

// Community is a group that can own events.
type Community struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Type        CommunityType `json:"type"`
	Description string        `json:"description"`
	Location    Point         `json:"location"`
	Members     []string      `json:"members"`
	Admins      []string      `json:"admins"`
	CreatedAt   time.Time     `json:"createdAt,omitzero"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (c Community) RefID() string { return c.ID }

// IsAdmin reports whether userID administers the community.
func (c Community) IsAdmin(userID string) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// HasMember reports whether userID belongs to the community.
func (c Community) HasMember(userID string) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Members groups a community's roster.
type Members struct {
	Members []User `json:"members"`
	Admins  []User `json:"admins"`
}
