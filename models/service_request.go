package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestAccepted   RequestStatus = "accepted"
	RequestRejected   RequestStatus = "rejected"
	RequestInProgress RequestStatus = "in-progress"
	RequestCompleted  RequestStatus = "completed"
)

// requestTransitions lists, for every target status, the statuses it may be
// entered from.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestAccepted:   {RequestPending},
	RequestRejected:   {RequestPending},
	RequestInProgress: {RequestAccepted},
	RequestCompleted:  {RequestAccepted, RequestInProgress},
}

// TransitionSources returns the statuses from which next may be reached.
func TransitionSources(next RequestStatus) []RequestStatus {
	return requestTransitions[next]
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to RequestStatus) bool {
	for _, s := range requestTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// Display is the label shown on the mechanic dashboard.
func (s RequestStatus) Display() string {
	if s == RequestPending {
		return "new"
	}
	return string(s)
}

// Coordinates are a placeholder until geocoding exists; always 0,0 today.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ServiceLocation is the address snapshot taken when a request is created.
type ServiceLocation struct {
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

// Value implements the driver.Valuer interface
func (l ServiceLocation) Value() (driver.Value, error) {
	return valueJSON(l)
}

// Scan implements the sql.Scanner interface
func (l *ServiceLocation) Scan(value any) error {
	return scanJSON(value, l)
}

// ServiceRequest links a user to a mechanic. At most one pending request may
// exist per (user, mechanic) pair (partial unique index, see db.Migrate).
type ServiceRequest struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"userId" gorm:"not null;index"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	MechanicID      uint            `json:"mechanicId" gorm:"not null;index"`
	Mechanic        *Mechanic       `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
	ProblemType     string          `json:"problemType" gorm:"not null"`
	ServiceType     string          `json:"serviceType" gorm:"not null"`
	Message         string          `json:"message"`
	Status          RequestStatus   `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	EstimatedAmount float64         `json:"estimatedAmount"`
	Location        ServiceLocation `json:"location" gorm:"type:text"`
	AcceptedAt      *time.Time      `json:"acceptedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TimestampColumn returns the column stamped when entering status s.
func TimestampColumn(s RequestStatus) (string, error) {
	switch s {
	case RequestAccepted:
		return "accepted_at", nil
	case RequestRejected:
		return "rejected_at", nil
	case RequestInProgress:
		return "started_at", nil
	case RequestCompleted:
		return "completed_at", nil
	}
	return "", fmt.Errorf("no timestamp for status %s", s)
}
