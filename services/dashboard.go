package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/meinhoongagan/roadside-assist/models"
)

type DashboardSummary struct {
	Today     int `json:"today"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// DashboardRequest is the mechanic-facing row. Status shows "new" for
// pending requests; ETA is a placeholder until distance lookups exist.
type DashboardRequest struct {
	ID              uint                   `json:"id"`
	Customer        *models.Contact        `json:"customer,omitempty"`
	ProblemType     string                 `json:"problemType"`
	ServiceType     string                 `json:"serviceType"`
	Message         string                 `json:"message"`
	Status          string                 `json:"status"`
	EstimatedAmount float64                `json:"estimatedAmount"`
	Location        models.ServiceLocation `json:"location"`
	ETA             string                 `json:"eta"`
	CreatedAt       time.Time              `json:"createdAt"`
}

type Dashboard struct {
	Summary  DashboardSummary   `json:"summary"`
	Requests []DashboardRequest `json:"requests"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func placeholderETA() string {
	return fmt.Sprintf("%d mins", 10+rand.Intn(21))
}

// Dashboard summarizes the mechanic's full request history.
func (s *ServiceRequestService) Dashboard(_ context.Context, mechanicID uint) (*Dashboard, error) {
	reqs, err := s.mechanicRequests(mechanicID)
	if err != nil {
		return nil, err
	}

	dayStart := startOfDay(s.now())
	out := &Dashboard{Requests: make([]DashboardRequest, 0, len(reqs))}
	for _, r := range reqs {
		if !r.CreatedAt.Before(dayStart) {
			out.Summary.Today++
		}
		switch r.Status {
		case models.RequestAccepted, models.RequestInProgress:
			out.Summary.Active++
		case models.RequestCompleted:
			out.Summary.Completed++
		}

		row := DashboardRequest{
			ID:              r.ID,
			ProblemType:     r.ProblemType,
			ServiceType:     r.ServiceType,
			Message:         r.Message,
			Status:          r.Status.Display(),
			EstimatedAmount: r.EstimatedAmount,
			Location:        r.Location,
			ETA:             placeholderETA(),
			CreatedAt:       r.CreatedAt,
		}
		if r.User != nil {
			c := r.User.Contact()
			row.Customer = &c
		}
		out.Requests = append(out.Requests, row)
	}
	return out, nil
}
