package mechanic

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/meinhoongagan/roadside-assist/storage"
)

const imageField = "storeImages"

// ApplicationController handles the mechanic's own application.
type ApplicationController struct {
	Applications *services.ApplicationService
}

// Submit godoc
func (h *ApplicationController) Submit(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return controllers.BadRequest(c, "Invalid multipart form")
	}
	in, err := parseApplicationForm(form)
	if err != nil {
		return controllers.Fail(c, err, "")
	}

	files, closers, err := openFiles(form.File[imageField])
	defer closeAll(closers)
	if err != nil {
		return controllers.Fail(c, err, "Failed to read uploaded images")
	}

	app, err := h.Applications.Submit(c.UserContext(), controllers.CurrentUserID(c), in, files)
	if err != nil {
		return controllers.Fail(c, err, "Failed to submit application")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Application submitted successfully",
		"data":    app,
	})
}

func (h *ApplicationController) GetMine(c *fiber.Ctx) error {
	app, err := h.Applications.GetMine(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch application")
	}
	return c.JSON(fiber.Map{"data": app})
}

// Update merges the submitted fields. A single uploaded image replaces the
// stored collection.
func (h *ApplicationController) Update(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return controllers.BadRequest(c, "Invalid multipart form")
	}
	in, err := parseApplicationForm(form)
	if err != nil {
		return controllers.Fail(c, err, "")
	}

	var file *storage.File
	if headers := form.File[imageField]; len(headers) > 0 {
		f, closer, err := storage.OpenMultipart(headers[0])
		if err != nil {
			return controllers.Fail(c, err, "Failed to read uploaded image")
		}
		defer closer.Close()
		file = &f
	}

	app, err := h.Applications.Update(c.UserContext(), controllers.CurrentUserID(c), in, file)
	if err != nil {
		return controllers.Fail(c, err, "Failed to update application")
	}
	return c.JSON(fiber.Map{
		"message": "Application updated successfully",
		"data":    app,
	})
}

func (h *ApplicationController) Status(c *fiber.Ctx) error {
	view, err := h.Applications.Status(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch application status")
	}
	return c.JSON(view)
}

func parseApplicationForm(form *multipart.Form) (services.ApplicationInput, error) {
	var in services.ApplicationInput
	text := func(name string) *string {
		vals := form.Value[name]
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return nil
		}
		v := strings.TrimSpace(vals[0])
		return &v
	}

	in.BusinessName = text("businessName")
	in.OwnerName = text("ownerName")
	in.Phone = text("phone")
	in.Email = text("email")
	in.Address = text("address")
	in.City = text("city")
	in.State = text("state")
	in.Pincode = text("pincode")
	in.VehicleSpecialization = text("vehicleSpecialization")
	in.Description = text("description")
	in.LicenseNumber = text("licenseNumber")

	if raw := text("experienceYears"); raw != nil {
		years, err := strconv.Atoi(*raw)
		if err != nil || years < 0 {
			return in, &services.ValidationError{Field: "experienceYears", Message: "must be a non-negative number"}
		}
		in.ExperienceYears = &years
	}

	provided, err := services.DecodeServices(form.Value["servicesProvided"])
	if err != nil {
		return in, err
	}
	in.ServicesProvided = provided

	if raw := text("availability"); raw != nil {
		avail, err := services.DecodeAvailability(*raw)
		if err != nil {
			return in, err
		}
		in.Availability = avail
	}

	if raw := text("deleteImages"); raw != nil {
		in.DeleteImages, _ = strconv.ParseBool(*raw)
	}
	return in, nil
}

func openFiles(headers []*multipart.FileHeader) ([]storage.File, []io.Closer, error) {
	files := make([]storage.File, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	for _, fh := range headers {
		f, closer, err := storage.OpenMultipart(fh)
		if err != nil {
			return nil, closers, err
		}
		files = append(files, f)
		closers = append(closers, closer)
	}
	return files, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}
