package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/metrics"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"gorm.io/gorm"
)

type CreateRequestInput struct {
	MechanicID  uint   `json:"mechanicId"`
	ProblemType string `json:"problemType"`
	ServiceType string `json:"serviceType"`
	Message     string `json:"message"`
}

// RequestView is a request with the counterpart's public contact fields.
type RequestView struct {
	models.ServiceRequest
	User     *models.Contact `json:"user,omitempty"`
	Mechanic *models.Contact `json:"mechanic,omitempty"`
}

func newRequestView(r *models.ServiceRequest) *RequestView {
	v := &RequestView{ServiceRequest: *r}
	if r.User != nil {
		c := r.User.Contact()
		v.User = &c
	}
	if r.Mechanic != nil {
		c := r.Mechanic.Contact()
		v.Mechanic = &c
	}
	v.ServiceRequest.User, v.ServiceRequest.Mechanic = nil, nil
	return v
}

type ServiceRequestService struct {
	db      *gorm.DB
	catalog *pricing.Catalog
	mailer  Mailer
	now     func() time.Time
}

func NewServiceRequestService(conn *gorm.DB, catalog *pricing.Catalog, mailer Mailer) *ServiceRequestService {
	return &ServiceRequestService{db: conn, catalog: catalog, mailer: mailer, now: time.Now}
}

func selectContact(tx *gorm.DB) *gorm.DB {
	return tx.Select(models.ContactColumns)
}

// Create files a pending request from userID to a mechanic with an approved
// application. The location is copied from the user's default address.
func (s *ServiceRequestService) Create(ctx context.Context, userID uint, in CreateRequestInput) (*RequestView, error) {
	in.ProblemType = strings.TrimSpace(in.ProblemType)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	if in.MechanicID == 0 || in.ProblemType == "" || in.ServiceType == "" {
		return nil, invalid("", "mechanicId, problemType and serviceType are required")
	}

	var mechanic models.Mechanic
	if err := s.db.First(&mechanic, in.MechanicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMechanicNotFound
		}
		return nil, err
	}

	var approved int64
	err := s.db.Model(&models.MechanicApplication{}).
		Where("mechanic_id = ? AND status = ?", in.MechanicID, models.ApplicationApproved).
		Count(&approved).Error
	if err != nil {
		return nil, err
	}
	if approved == 0 {
		return nil, ErrMechanicNotApproved
	}

	var address models.SavedAddress
	err = s.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDefaultAddress
	}
	if err != nil {
		return nil, err
	}

	var pending int64
	err = s.db.Model(&models.ServiceRequest{}).
		Where("user_id = ? AND mechanic_id = ? AND status = ?", userID, in.MechanicID, models.RequestPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrDuplicatePendingRequest
	}

	req := models.ServiceRequest{
		UserID:          userID,
		MechanicID:      in.MechanicID,
		ProblemType:     in.ProblemType,
		ServiceType:     in.ServiceType,
		Message:         strings.TrimSpace(in.Message),
		Status:          models.RequestPending,
		EstimatedAmount: s.catalog.EstimateRequest(in.ServiceType),
		// TODO: geocode the address once a maps provider is configured.
		Location: models.ServiceLocation{
			Address: address.Text(),
			City:    address.City,
		},
	}
	if err := s.db.Create(&req).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrDuplicatePendingRequest
		}
		return nil, err
	}

	logger.Audit(ctx, "service request created", "requestId", req.ID, "userId", userID, "mechanicId", in.MechanicID)
	metrics.RequestTransitions.WithLabelValues(string(models.RequestPending)).Inc()

	if s.mailer != nil {
		if err := s.mailer.SendNewRequest(mechanic.Email, mechanic.Name, req.ProblemType, req.ServiceType, req.Location.City); err != nil {
			logger.Warn("failed to notify mechanic of new request", "requestId", req.ID, "error", err)
		}
	}

	req.Mechanic = &mechanic
	return newRequestView(&req), nil
}

func (s *ServiceRequestService) Accept(ctx context.Context, mechanicID, requestID uint) (*RequestView, error) {
	return s.transition(ctx, mechanicID, requestID, models.RequestAccepted)
}

func (s *ServiceRequestService) Reject(ctx context.Context, mechanicID, requestID uint) (*RequestView, error) {
	return s.transition(ctx, mechanicID, requestID, models.RequestRejected)
}

func (s *ServiceRequestService) Start(ctx context.Context, mechanicID, requestID uint) (*RequestView, error) {
	return s.transition(ctx, mechanicID, requestID, models.RequestInProgress)
}

func (s *ServiceRequestService) Complete(ctx context.Context, mechanicID, requestID uint) (*RequestView, error) {
	return s.transition(ctx, mechanicID, requestID, models.RequestCompleted)
}

// transitionError is reported when the request is not in a source state of next.
func transitionError(next models.RequestStatus) error {
	switch next {
	case models.RequestInProgress:
		return ErrRequestNotAccepted
	case models.RequestCompleted:
		return ErrRequestCannotComplete
	default:
		return ErrRequestAlreadyProcessed
	}
}

// transition moves the request to next with a conditional update, so two
// racing mechanics' actions cannot both succeed.
func (s *ServiceRequestService) transition(ctx context.Context, mechanicID, requestID uint, next models.RequestStatus) (*RequestView, error) {
	column, err := models.TimestampColumn(next)
	if err != nil {
		return nil, err
	}

	var req models.ServiceRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.MechanicID != mechanicID {
		return nil, ErrRequestForbidden
	}
	if !models.CanTransition(req.Status, next) {
		return nil, transitionError(next)
	}

	now := s.now()
	res := s.db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status IN ?", requestID, models.TransitionSources(next)).
		Updates(map[string]any{"status": next, column: now, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, transitionError(next)
	}

	err = s.db.Preload("User", selectContact).First(&req, requestID).Error
	if err != nil {
		return nil, err
	}

	logger.Audit(ctx, "service request "+string(next), "requestId", req.ID, "mechanicId", mechanicID, "userId", req.UserID)
	metrics.RequestTransitions.WithLabelValues(string(next)).Inc()
	return newRequestView(&req), nil
}

// ListForUser returns the user's requests, newest first, with mechanic contacts.
func (s *ServiceRequestService) ListForUser(userID uint) ([]*RequestView, error) {
	var reqs []models.ServiceRequest
	err := s.db.Preload("Mechanic", selectContact).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return views(reqs), nil
}

// ListForMechanic returns the mechanic's requests, newest first, with user contacts.
func (s *ServiceRequestService) ListForMechanic(mechanicID uint) ([]*RequestView, error) {
	reqs, err := s.mechanicRequests(mechanicID)
	if err != nil {
		return nil, err
	}
	return views(reqs), nil
}

func (s *ServiceRequestService) mechanicRequests(mechanicID uint) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := s.db.Preload("User", selectContact).
		Where("mechanic_id = ?", mechanicID).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

func views(reqs []models.ServiceRequest) []*RequestView {
	out := make([]*RequestView, len(reqs))
	for i := range reqs {
		out[i] = newRequestView(&reqs[i])
	}
	return out
}
