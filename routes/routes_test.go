package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/routes"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/meinhoongagan/roadside-assist/storage"
	"github.com/meinhoongagan/roadside-assist/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type nopMailer struct{}

func (nopMailer) SendVerification(string, string, string) error               { return nil }
func (nopMailer) SendResetOTP(string, string, string) error                   { return nil }
func (nopMailer) SendPasswordChanged(string, string) error                    { return nil }
func (nopMailer) SendNewRequest(string, string, string, string, string) error { return nil }

type stubUploader struct{ n int }

func (s *stubUploader) Upload(_ context.Context, f storage.File, folder string) (storage.Object, error) {
	s.n++
	id := fmt.Sprintf("%s/%d-%s", folder, s.n, f.Name)
	return storage.Object{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (s *stubUploader) Delete(context.Context, string) error { return nil }

type harness struct {
	t    *testing.T
	app  *fiber.App
	conn *gorm.DB
	auth *services.AuthService
}

func newHarness(t *testing.T) *harness {
	conn := testkit.DB(t)
	catalog := pricing.Default()
	secret := []byte("routes-test")
	auth := services.NewAuthService(conn, nopMailer{}, services.AuthConfig{
		Secret: secret, TokenTTL: time.Hour, ClientURL: "http://client.test",
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := fiber.New()
	routes.Setup(app, routes.Deps{
		Ctx:           ctx,
		JWTSecret:     secret,
		AuthRateRPS:   1000,
		AuthRateBurst: 1000,
		Catalog:       catalog,
		Auth:          auth,
		Addresses:     services.NewAddressService(conn),
		Vehicles:      services.NewVehicleService(conn),
		Applications:  services.NewApplicationService(conn, &stubUploader{}, nil),
		Directory:     services.NewDirectoryService(conn, nil, time.Minute),
		Requests:      services.NewServiceRequestService(conn, catalog, nopMailer{}),
		Bookings:      services.NewBookingService(conn, catalog),
	})
	return &harness{t: t, app: app, conn: conn, auth: auth}
}

func (h *harness) token(id uint, role models.Role) string {
	tok, _, err := h.auth.IssueToken(id, role)
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.send(req)
}

func (h *harness) send(req *http.Request) (int, map[string]any) {
	h.t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAddressRoutes(t *testing.T) {
	h := newHarness(t)
	alice := testkit.User(t, h.conn, "alice@example.com")
	bob := testkit.User(t, h.conn, "bob@example.com")
	mech := testkit.Mechanic(t, h.conn, "mech@example.com")
	aliceTok := h.token(alice.ID, models.RoleUser)

	code, _ := h.do(http.MethodGet, "/api/addresses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = h.do(http.MethodGet, "/api/addresses", h.token(mech.ID, models.RoleMechanic), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := h.do(http.MethodPost, "/api/addresses", aliceTok, map[string]any{
		"label": "Home", "fullAddress": "1 Main St", "city": "Pune", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, code, body)
	first := body["address"].(map[string]any)
	firstID := uint(first["id"].(float64))

	code, body = h.do(http.MethodPost, "/api/addresses", aliceTok, map[string]any{
		"label": "Work", "fullAddress": "2 Side St", "city": "Pune",
	})
	require.Equal(t, http.StatusCreated, code)
	secondID := uint(body["address"].(map[string]any)["id"].(float64))

	code, body = h.do(http.MethodPatch, fmt.Sprintf("/api/addresses/%d/default", secondID), aliceTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["address"].(map[string]any)["isDefault"])

	code, body = h.do(http.MethodGet, "/api/addresses", aliceTok, nil)
	require.Equal(t, http.StatusOK, code)
	list := body["addresses"].([]any)
	require.Len(t, list, 2)
	assert.EqualValues(t, secondID, list[0].(map[string]any)["id"])

	code, body = h.do(http.MethodGet, "/api/addresses/default", aliceTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, secondID, body["address"].(map[string]any)["id"])

	bobTok := h.token(bob.ID, models.RoleUser)
	code, _ = h.do(http.MethodDelete, fmt.Sprintf("/api/addresses/%d", firstID), bobTok, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = h.do(http.MethodGet, "/api/addresses/default", bobTok, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(http.MethodDelete, fmt.Sprintf("/api/addresses/%d", firstID), aliceTok, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestVehicleRoutes(t *testing.T) {
	h := newHarness(t)
	u := testkit.User(t, h.conn, "driver@example.com")
	tok := h.token(u.ID, models.RoleUser)

	vehicle := map[string]any{"make": "Honda", "model": "City", "year": 2020, "licensePlate": " mh12ab1234 ", "isPrimary": true}
	code, body := h.do(http.MethodPost, "/api/vehicles", tok, vehicle)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "MH12AB1234", body["vehicle"].(map[string]any)["licensePlate"])

	code, _ = h.do(http.MethodPost, "/api/vehicles", tok, vehicle)
	assert.Equal(t, http.StatusConflict, code)

	code, body = h.do(http.MethodGet, "/api/vehicles", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["vehicles"], 1)
}

func TestServiceRequestRoutes(t *testing.T) {
	h := newHarness(t)
	u := testkit.User(t, h.conn, "stranded@example.com")
	testkit.DefaultAddress(t, h.conn, u.ID)
	mech := testkit.Mechanic(t, h.conn, "fixer@example.com")
	testkit.Application(t, h.conn, mech.ID, models.ApplicationApproved)
	other := testkit.Mechanic(t, h.conn, "other@example.com")

	userTok := h.token(u.ID, models.RoleUser)
	mechTok := h.token(mech.ID, models.RoleMechanic)

	req := map[string]any{"mechanicId": mech.ID, "problemType": "Flat tyre", "serviceType": "Tire Services"}
	code, body := h.do(http.MethodPost, "/api/requests", userTok, req)
	require.Equal(t, http.StatusCreated, code, body)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 600, data["estimatedAmount"])
	assert.Equal(t, "pending", data["status"])
	reqID := uint(data["id"].(float64))

	code, body = h.do(http.MethodPost, "/api/requests", userTok, req)
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, body["message"])

	code, _ = h.do(http.MethodPost, "/api/requests", userTok, map[string]any{"mechanicId": mech.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(http.MethodPost, "/api/requests", userTok, map[string]any{"mechanicId": other.ID, "problemType": "x", "serviceType": "y"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodPatch, fmt.Sprintf("/api/mechanic/requests/%d/accept", reqID), h.token(other.ID, models.RoleMechanic), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(http.MethodPatch, fmt.Sprintf("/api/mechanic/requests/%d/start", reqID), mechTok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Request must be accepted first", body["message"])

	code, body = h.do(http.MethodPatch, fmt.Sprintf("/api/mechanic/requests/%d/accept", reqID), mechTok, nil)
	require.Equal(t, http.StatusOK, code, body)
	data = body["data"].(map[string]any)
	assert.Equal(t, "accepted", data["status"])
	assert.Equal(t, "stranded@example.com", data["user"].(map[string]any)["email"])

	code, body = h.do(http.MethodPatch, fmt.Sprintf("/api/mechanic/requests/%d/reject", reqID), mechTok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Request already processed", body["message"])

	for _, step := range []string{"start", "complete"} {
		code, _ = h.do(http.MethodPatch, fmt.Sprintf("/api/mechanic/requests/%d/%s", reqID, step), mechTok, nil)
		require.Equal(t, http.StatusOK, code, step)
	}

	code, _ = h.do(http.MethodPatch, "/api/mechanic/requests/9999/accept", mechTok, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = h.do(http.MethodGet, "/api/mechanic/dashboard", mechTok, nil)
	require.Equal(t, http.StatusOK, code)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["today"])
	assert.EqualValues(t, 1, summary["completed"])
	assert.EqualValues(t, 0, summary["active"])

	code, body = h.do(http.MethodGet, "/api/requests/mine", userTok, nil)
	require.Equal(t, http.StatusOK, code)
	mine := body["data"].([]any)
	require.Len(t, mine, 1)
	assert.Equal(t, "fixer@example.com", mine[0].(map[string]any)["mechanic"].(map[string]any)["email"])

	code, body = h.do(http.MethodGet, "/api/mechanic/requests", mechTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
}

func bookingBody(main []int, extra []string) map[string]any {
	return map[string]any{
		"userInfo":           map[string]any{"fullName": "Asha", "email": "asha@example.com", "phone": "9000000000"},
		"vehicleInfo":        map[string]any{"make": "Maruti", "model": "Swift", "year": 2019, "licensePlate": "mh01aa0001"},
		"mainServices":       main,
		"additionalServices": extra,
		"schedule":           map[string]any{"preferredDate": "2026-10-20", "preferredTime": "10:00"},
	}
}

func TestBookingRoutes(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/bookings", "", bookingBody([]int{1, 2}, []string{"oil-check"}))
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 143, body["estimatedTotal"])
	assert.NotZero(t, body["bookingId"])

	code, body = h.do(http.MethodPost, "/api/bookings", "", bookingBody([]int{9}, nil))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid main service: 9", body["error"])

	code, body = h.do(http.MethodPost, "/api/bookings", "", bookingBody([]int{}, nil))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])

	missing := bookingBody([]int{1}, nil)
	delete(missing, "schedule")
	code, _ = h.do(http.MethodPost, "/api/bookings", "", missing)
	assert.Equal(t, http.StatusBadRequest, code)

	var count int64
	require.NoError(t, h.conn.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	code, body = h.do(http.MethodGet, "/api/bookings/catalog", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["main"], 6)
}

func TestDirectoryRoute(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		m := testkit.Mechanic(t, h.conn, fmt.Sprintf("m%d@example.com", i))
		testkit.Application(t, h.conn, m.ID, models.ApplicationApproved, func(a *models.MechanicApplication) {
			a.ExperienceYears = i
		})
	}

	code, body := h.do(http.MethodGet, "/api/mechanics?page=abc&limit=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 2)
	p := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, p["page"])
	assert.EqualValues(t, 3, p["total"])
	assert.EqualValues(t, 2, p["totalPages"])
	assert.Equal(t, true, p["hasNextPage"])
	assert.Equal(t, false, p["hasPrevPage"])

	code, _ = h.do(http.MethodGet, "/api/mechanics?vehicle=Truck", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthRoutes(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/auth/mechanic/register", "", map[string]any{
		"name": "Ravi", "email": "ravi@example.com", "phone": "9000000003", "password": "hunter22", "storeName": "Ravi Motors",
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, _ = h.do(http.MethodPost, "/api/auth/mechanic/register", "", map[string]any{
		"name": "Ravi", "email": "ravi@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = h.do(http.MethodPost, "/api/auth/mechanic/login", "", map[string]any{"email": "ravi@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/mechanic/login", strings.NewReader(`{"email":"ravi@example.com","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(&http.Cookie{Name: "token", Value: cookie.Value})
	code, body = h.send(me)
	require.Equal(t, http.StatusOK, code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "mechanic", user["role"])
	assert.Equal(t, "Ravi Motors", user["storeName"])
	assert.Equal(t, false, user["isVerified"])

	code, _ = h.do(http.MethodPost, "/api/auth/user/forgot-password", "", map[string]any{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodPost, "/api/auth/user/reset-password", "", map[string]any{"email": "ravi@example.com", "otp": "000000", "newPassword": "x12345"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestApplicationRoutes(t *testing.T) {
	h := newHarness(t)
	mech := testkit.Mechanic(t, h.conn, "apply@example.com")
	tok := h.token(mech.ID, models.RoleMechanic)

	submit := func(method string, fields map[string]string, images ...string) (int, map[string]any) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range fields {
			require.NoError(t, w.WriteField(k, v))
		}
		for _, name := range images {
			fw, err := w.CreateFormFile("storeImages", name)
			require.NoError(t, err)
			_, _ = fw.Write([]byte("img"))
		}
		require.NoError(t, w.Close())

		req := httptest.NewRequest(method, "/api/mechanic/application", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		return h.send(req)
	}

	code, body := h.do(http.MethodGet, "/api/mechanic/application/status", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["exists"])

	fields := map[string]string{
		"businessName": "Apply Garage", "ownerName": "Owner", "phone": "9000000004",
		"email": "apply@example.com", "address": "5 Ring Rd", "city": "Nagpur", "state": "MH",
		"pincode": "440001", "experienceYears": "4", "vehicleSpecialization": "Car",
		"servicesProvided": `["Tire Services","Towing Services"]`,
		"availability":     `{"days":["Mon","Tue"],"openTime":"09:00","closeTime":"18:00","emergency24x7":false}`,
		"licenseNumber":    "LIC-1",
	}
	code, body = submit(http.MethodPost, fields, "front.jpg", "inside.jpg")
	require.Equal(t, http.StatusCreated, code, body)
	app := body["data"].(map[string]any)
	assert.Len(t, app["storeImages"], 2)
	assert.Equal(t, "pending", app["status"])
	assert.Equal(t, []any{"Tire Services", "Towing Services"}, app["servicesProvided"])

	code, _ = submit(http.MethodPost, fields)
	assert.Equal(t, http.StatusConflict, code)

	code, body = submit(http.MethodPut, map[string]string{"city": "Mumbai", "experienceYears": "6"}, "new.jpg")
	require.Equal(t, http.StatusOK, code, body)
	app = body["data"].(map[string]any)
	assert.Equal(t, "Mumbai", app["city"])
	assert.Equal(t, "Apply Garage", app["businessName"])
	assert.Len(t, app["storeImages"], 1)

	code, _ = submit(http.MethodPut, map[string]string{"experienceYears": "many"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = h.do(http.MethodGet, "/api/mechanic/application/status", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "pending", body["status"])
}
