package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/metrics"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/storage"
	"gorm.io/gorm"
)

// ApplicationInput is the editable part of an application. Nil or empty
// values leave the stored field unchanged on update.
type ApplicationInput struct {
	BusinessName          *string
	OwnerName             *string
	Phone                 *string
	Email                 *string
	Address               *string
	City                  *string
	State                 *string
	Pincode               *string
	ExperienceYears       *int
	VehicleSpecialization *string
	ServicesProvided      []string
	Availability          *models.Availability
	Description           *string
	LicenseNumber         *string
	DeleteImages          bool
}

// ApplicationStatusView answers whether the mechanic may open the dashboard.
type ApplicationStatusView struct {
	Exists bool                     `json:"exists"`
	Status models.ApplicationStatus `json:"status,omitempty"`
}

type ApplicationService struct {
	db        *gorm.DB
	uploader  storage.Uploader
	directory *DirectoryService
}

// NewApplicationService shares cache with the directory so that reviews can
// drop stale pages.
func NewApplicationService(conn *gorm.DB, uploader storage.Uploader, cache PageCache) *ApplicationService {
	return &ApplicationService{db: conn, uploader: uploader, directory: NewDirectoryService(conn, cache, 0)}
}

func applicationFolder(mechanicID uint) string {
	return fmt.Sprintf("mechanic-applications/%d", mechanicID)
}

// Submit creates the mechanic's one application and uploads every file.
func (s *ApplicationService) Submit(ctx context.Context, mechanicID uint, in ApplicationInput, files []storage.File) (*models.MechanicApplication, error) {
	var count int64
	if err := s.db.Model(&models.MechanicApplication{}).Where("mechanic_id = ?", mechanicID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrApplicationExists
	}

	app := models.MechanicApplication{
		MechanicID:            mechanicID,
		Status:                models.ApplicationPending,
		VehicleSpecialization: models.SpecializationBoth,
		ServicesProvided:      models.StringList{},
		StoreImages:           models.StoreImages{},
	}
	if err := applyApplication(&app, in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(app.BusinessName) == "" {
		return nil, invalid("businessName", "is required")
	}

	for _, f := range files {
		obj, err := s.upload(ctx, mechanicID, f)
		if err != nil {
			s.deleteImages(ctx, app.StoreImages)
			return nil, err
		}
		app.StoreImages = append(app.StoreImages, models.StoreImage{URL: obj.URL, PublicID: obj.PublicID})
	}

	if err := s.db.Create(&app).Error; err != nil {
		s.deleteImages(ctx, app.StoreImages)
		if db.IsDuplicateKey(err) {
			return nil, ErrApplicationExists
		}
		return nil, err
	}

	logger.Audit(ctx, "application submitted", "applicationId", app.ID, "mechanicId", mechanicID)
	return &app, nil
}

func (s *ApplicationService) GetMine(mechanicID uint) (*models.MechanicApplication, error) {
	var app models.MechanicApplication
	err := s.db.Where("mechanic_id = ?", mechanicID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update merges in into the pending application. A DeleteImages flag clears
// the images; an uploaded file replaces the whole collection.
func (s *ApplicationService) Update(ctx context.Context, mechanicID uint, in ApplicationInput, file *storage.File) (*models.MechanicApplication, error) {
	app, err := s.GetMine(mechanicID)
	if err != nil {
		return nil, err
	}
	if app.Status.IsReviewed() {
		return nil, ErrApplicationReviewed
	}
	if err := applyApplication(app, in); err != nil {
		return nil, err
	}

	var removed models.StoreImages
	if in.DeleteImages || file != nil {
		removed = app.StoreImages
		app.StoreImages = models.StoreImages{}
	}
	var added models.StoreImages
	if file != nil {
		obj, err := s.upload(ctx, mechanicID, *file)
		if err != nil {
			return nil, err
		}
		added = models.StoreImages{{URL: obj.URL, PublicID: obj.PublicID}}
		app.StoreImages = added
	}

	res := s.db.Model(app).
		Where("status = ?", models.ApplicationPending).
		Select("*").Omit("id", "mechanic_id", "status", "created_at", "Mechanic").
		Updates(app)
	if res.Error == nil && res.RowsAffected == 0 {
		res.Error = ErrApplicationReviewed
	}
	if res.Error != nil {
		s.deleteImages(ctx, added)
		return nil, res.Error
	}

	s.deleteImages(ctx, removed)
	return app, nil
}

func (s *ApplicationService) Status(mechanicID uint) (ApplicationStatusView, error) {
	app, err := s.GetMine(mechanicID)
	if errors.Is(err, ErrApplicationNotFound) {
		return ApplicationStatusView{}, nil
	}
	if err != nil {
		return ApplicationStatusView{}, err
	}
	return ApplicationStatusView{Exists: true, Status: app.Status}, nil
}

// Review approves or rejects a pending application.
func (s *ApplicationService) Review(ctx context.Context, applicationID uint, approve bool, reason string) (*models.MechanicApplication, error) {
	status := models.ApplicationRejected
	var rejectReason *string
	if approve {
		status = models.ApplicationApproved
	} else if reason = strings.TrimSpace(reason); reason != "" {
		rejectReason = &reason
	}

	now := time.Now()
	res := s.db.Model(&models.MechanicApplication{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationPending).
		Updates(map[string]any{"status": status, "reviewed_at": now, "reject_reason": rejectReason})
	if res.Error != nil {
		return nil, res.Error
	}

	var app models.MechanicApplication
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrApplicationReviewed
	}

	metrics.ApplicationReviews.WithLabelValues(string(status)).Inc()
	logger.Audit(ctx, "application reviewed", "applicationId", app.ID, "mechanicId", app.MechanicID, "status", status)
	if err := s.directory.Invalidate(ctx); err != nil {
		logger.Warn("failed to flush directory cache", "error", err)
	}
	return &app, nil
}

// ListByStatus returns applications in the given status, oldest first.
func (s *ApplicationService) ListByStatus(status models.ApplicationStatus) ([]models.MechanicApplication, error) {
	var apps []models.MechanicApplication
	err := s.db.Where("status = ?", status).Order("created_at ASC").Order("id ASC").Find(&apps).Error
	return apps, err
}

func (s *ApplicationService) upload(ctx context.Context, mechanicID uint, f storage.File) (storage.Object, error) {
	if s.uploader == nil {
		return storage.Object{}, errors.New("file storage is not configured")
	}
	return s.uploader.Upload(ctx, f, applicationFolder(mechanicID))
}

// deleteImages removes files from storage, logging failures.
func (s *ApplicationService) deleteImages(ctx context.Context, images models.StoreImages) {
	if s.uploader == nil {
		return
	}
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, img.PublicID); err != nil {
			logger.Warn("failed to delete store image", "publicId", img.PublicID, "error", err)
		}
	}
}

func applyApplication(app *models.MechanicApplication, in ApplicationInput) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			if v := strings.TrimSpace(*src); v != "" {
				*dst = v
			}
		}
	}
	setString(&app.BusinessName, in.BusinessName)
	setString(&app.OwnerName, in.OwnerName)
	setString(&app.Phone, in.Phone)
	setString(&app.Email, in.Email)
	setString(&app.Address, in.Address)
	setString(&app.City, in.City)
	setString(&app.State, in.State)
	setString(&app.Pincode, in.Pincode)
	setString(&app.Description, in.Description)
	setString(&app.LicenseNumber, in.LicenseNumber)

	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 {
			return invalid("experienceYears", "must not be negative")
		}
		app.ExperienceYears = *in.ExperienceYears
	}
	if in.VehicleSpecialization != nil && strings.TrimSpace(*in.VehicleSpecialization) != "" {
		spec, ok := models.ParseSpecialization(strings.TrimSpace(*in.VehicleSpecialization))
		if !ok {
			return invalid("vehicleSpecialization", "must be one of Bike, Car, Both")
		}
		app.VehicleSpecialization = spec
	}
	if in.ServicesProvided != nil {
		app.ServicesProvided = models.StringList(in.ServicesProvided)
	}
	if in.Availability != nil {
		app.Availability = *in.Availability
	}
	return nil
}

// DecodeServices accepts either a single JSON-encoded array or repeated
// plain form values.
func DecodeServices(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, invalid("servicesProvided", "must be a JSON array of strings")
		}
		return cleanList(out), nil
	}
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return cleanList(out), nil
}

// DecodeAvailability parses a JSON-encoded availability object.
func DecodeAvailability(raw string) (*models.Availability, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var a models.Availability
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, invalid("availability", "must be a JSON object")
	}
	return &a, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
