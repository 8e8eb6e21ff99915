package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		ok       bool
	}{
		{RequestPending, RequestAccepted, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestInProgress, false},
		{RequestPending, RequestCompleted, false},
		{RequestAccepted, RequestInProgress, true},
		{RequestAccepted, RequestCompleted, true},
		{RequestAccepted, RequestRejected, false},
		{RequestInProgress, RequestCompleted, true},
		{RequestInProgress, RequestAccepted, false},
		{RequestRejected, RequestAccepted, false},
		{RequestCompleted, RequestInProgress, false},
		{RequestCompleted, RequestPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNothingTransitionsIntoPending(t *testing.T) {
	assert.Empty(t, TransitionSources(RequestPending))
}

func TestDisplayRelabelsPending(t *testing.T) {
	assert.Equal(t, "new", RequestPending.Display())
	assert.Equal(t, "in-progress", RequestInProgress.Display())
}

func TestSpecializationMatches(t *testing.T) {
	assert.ElementsMatch(t,
		[]VehicleSpecialization{SpecializationBike, SpecializationCar, SpecializationBoth},
		SpecializationBoth.Matches())
	assert.ElementsMatch(t,
		[]VehicleSpecialization{SpecializationCar, SpecializationBoth},
		SpecializationCar.Matches())

	_, ok := ParseSpecialization("Truck")
	assert.False(t, ok)
}

func TestApplicationStatusIsReviewed(t *testing.T) {
	assert.False(t, ApplicationPending.IsReviewed())
	assert.True(t, ApplicationApproved.IsReviewed())
	assert.True(t, ApplicationRejected.IsReviewed())
}

func TestAddressText(t *testing.T) {
	a := SavedAddress{FullAddress: "12 MG Road", City: "Pune", Pincode: " 411001 "}
	assert.Equal(t, "12 MG Road, Pune, 411001", a.Text())
}

func TestJSONColumnsRoundTripThroughScan(t *testing.T) {
	var l StringList
	assert.NoError(t, l.Scan([]byte(`["Tire Services","Towing"]`)))
	assert.Equal(t, StringList{"Tire Services", "Towing"}, l)

	v, err := StringList(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	var loc ServiceLocation
	assert.NoError(t, loc.Scan(`{"address":"A","city":"B","coordinates":{"lat":0,"lng":0}}`))
	assert.Equal(t, "B", loc.City)

	assert.Error(t, loc.Scan(42))
}
