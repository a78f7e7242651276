package employee

import (
	"time"
)

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Geofence is the circular work location an employee is expected to
// check in and out from.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type Employee struct {
	ID             string
	ExternalUserID string // chat-platform user id
	ChatID         int64  // push-message destination
	FullName       string
	Role           Role
	Status         Status
	Geofence       *Geofence // nil means any location is allowed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
