package services

import (
	"context"
	"testing"

	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingInput(main []int, extra []string) CreateBookingInput {
	return CreateBookingInput{
		UserInfo:           models.BookingContact{FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		VehicleInfo:        models.BookingVehicle{Make: "Honda", Model: "City", Year: 2019, LicensePlate: " mh12ab1234"},
		MainServices:       main,
		AdditionalServices: extra,
		Schedule:           models.BookingSchedule{PreferredDate: "2026-11-02", PreferredTime: "10:00"},
	}
}

func TestBookingCreatePricesAndPersists(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewBookingService(conn, pricing.Default())

	b, err := svc.Create(context.Background(), bookingInput([]int{1, 2}, []string{"oil-check"}))
	require.NoError(t, err)
	assert.Equal(t, 143.0, b.EstimatedTotal)
	assert.Equal(t, b.EstimatedTotal, b.FinalTotal)
	assert.Zero(t, b.RushFee)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.UrgencyNormal, b.Schedule.Urgency)

	var stored models.Booking
	require.NoError(t, conn.First(&stored, b.ID).Error)
	assert.Equal(t, models.IntList{1, 2}, stored.MainServices)
	assert.Equal(t, models.StringList{"oil-check"}, stored.AdditionalServices)
	assert.Equal(t, "MH12AB1234", stored.Vehicle.LicensePlate)
	assert.Equal(t, "Asha Rao", stored.Contact.FullName)
}

func TestBookingUnknownServiceStoresNothing(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewBookingService(conn, pricing.Default())

	_, err := svc.Create(context.Background(), bookingInput([]int{1, 42}, nil))
	var unknown *pricing.UnknownServiceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "invalid main service: 42", err.Error())

	var n int64
	require.NoError(t, conn.Model(&models.Booking{}).Count(&n).Error)
	assert.Zero(t, n)
}
