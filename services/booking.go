package services

import (
	"context"
	"strings"

	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/metrics"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"gorm.io/gorm"
)

// CreateBookingInput is the multi-step booking form. It is validated by the
// HTTP layer before it reaches the service.
type CreateBookingInput struct {
	UserInfo           models.BookingContact  `json:"userInfo"`
	VehicleInfo        models.BookingVehicle  `json:"vehicleInfo"`
	MainServices       []int                  `json:"mainServices" validate:"required,min=1"`
	AdditionalServices []string               `json:"additionalServices"`
	Schedule           models.BookingSchedule `json:"schedule"`
	Notes              string                 `json:"notes" validate:"max=1000"`
}

type BookingService struct {
	db      *gorm.DB
	catalog *pricing.Catalog
}

func NewBookingService(conn *gorm.DB, catalog *pricing.Catalog) *BookingService {
	return &BookingService{db: conn, catalog: catalog}
}

// Create prices the selection and stores the booking as pending. Unknown
// service ids return *pricing.UnknownServiceError and nothing is stored.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	total, err := s.catalog.Calculate(in.MainServices, in.AdditionalServices)
	if err != nil {
		return nil, err
	}

	schedule := in.Schedule
	if schedule.Urgency == "" {
		schedule.Urgency = models.UrgencyNormal
	}
	vehicle := in.VehicleInfo
	vehicle.LicensePlate = NormalizePlate(vehicle.LicensePlate)

	booking := models.Booking{
		Contact:            in.UserInfo,
		Vehicle:            vehicle,
		MainServices:       models.IntList(in.MainServices),
		AdditionalServices: models.StringList(in.AdditionalServices),
		Schedule:           schedule,
		Notes:              strings.TrimSpace(in.Notes),
		EstimatedTotal:     total,
		RushFee:            0,
		FinalTotal:         total,
		Status:             models.BookingPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	logger.WithCtx(ctx).Info("booking created", "bookingId", booking.ID, "estimatedTotal", total)
	return &booking, nil
}
