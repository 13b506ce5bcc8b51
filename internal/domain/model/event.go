// Package model contains domain models passed between layers. Every type
// mirrors the JSON the REST backend produces; the backend owns the data and
// the client only holds snapshots.
package model

import (
	"time"
)

// Category is the enumerated event tag.
type Category string

// Event categories.
const (
	CategoryMusic        Category = "MUSIC"
	CategoryTech         Category = "TECH"
	CategorySports       Category = "SPORTS"
	CategoryEducation    Category = "EDUCATION"
	CategorySocial       Category = "SOCIAL"
	CategoryMeetup       Category = "MEETUP"
	CategoryBusiness     Category = "BUSINESS"
	CategoryNeighborhood Category = "NEIGHBORHOOD"
	CategoryOther        Category = "OTHER"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryMusic, CategoryTech, CategorySports, CategoryEducation, CategorySocial,
	CategoryMeetup, CategoryBusiness, CategoryNeighborhood, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Visibility controls who may see an event.
type Visibility string

// Event visibilities.
const (
	VisibilityPublic        Visibility = "PUBLIC"
	VisibilityCommunityOnly Visibility = "COMMUNITY_ONLY"
	VisibilityPrivateInvite Visibility = "PRIVATE_INVITE"
)

// Point is a GeoJSON point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address,omitempty"`
}

// NewPoint builds a point from latitude and longitude.
func NewPoint(lat, lng float64, address string) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lng, lat}, Address: address}
}

// Lat returns the latitude.
func (p Point) Lat() float64 { return p.Coordinates[1] }

// Lng returns the longitude.
func (p Point) Lng() float64 { return p.Coordinates[0] }

// Frequency is a recurrence period.
type Frequency string

// Recurrence frequencies.
const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// RecurringRule describes a repeating event.
type RecurringRule struct {
	Frequency Frequency  `json:"frequency"`
	Interval  int        `json:"interval"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Event is a backend-owned event snapshot. AttendeeCount is the one field the
// client mutates locally, during optimistic RSVP updates.
type Event struct {
	ID                 string         `json:"_id"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	Category           Category       `json:"category"`
	Visibility         Visibility     `json:"visibility"`
	StartDateTime      time.Time      `json:"startDateTime"`
	EndDateTime        time.Time      `json:"endDateTime"`
	Location           Point          `json:"location"`
	Capacity           int            `json:"capacity"`
	AttendeeCount      int            `json:"attendeeCount"`
	Organizer          Ref[User]      `json:"organizer"`
	Community          Ref[Community] `json:"community,omitzero"`
	Photos             []string       `json:"photos"`
	GoogleCalendarLink string         `json:"googleCalendarLink,omitempty"`
	UserRSVPStatus     *RSVPStatus    `json:"userRsvpStatus,omitempty"`
	RecurringRule      *RecurringRule `json:"recurringRule,omitempty"`
	CreatedAt          time.Time      `json:"createdAt,omitzero"`
	UpdatedAt          time.Time      `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (e Event) RefID() string { return e.ID }

// IsFull reports whether the visible attendee count reached capacity.
func (e Event) IsFull() bool {
	return e.Capacity > 0 && e.AttendeeCount >= e.Capacity
}

// SpotsLeft returns remaining capacity, never negative.
func (e Event) SpotsLeft() int {
	return max(0, e.Capacity-e.AttendeeCount)
}

// HasEnded reports whether the event finished before now.
func (e Event) HasEnded(now time.Time) bool {
	return !e.EndDateTime.IsZero() && now.After(e.EndDateTime)
}

// IsOrganizedBy reports whether userID organizes the event.
func (e Event) IsOrganizedBy(userID string) bool {
	return userID != "" && e.Organizer.ID() == userID
}
