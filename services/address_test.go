package services

import (
	"testing"
	"time"

	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func countDefaults(t *testing.T, conn *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.SavedAddress{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&n).Error)
	return n
}

func TestAddressCreateDefaultUnsetsOthers(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	u := testkit.User(t, conn, "u@example.com")

	first, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("1 A St"), City: ptr("Pune"), IsDefault: ptr(true)})
	require.NoError(t, err)
	second, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("2 B St"), City: ptr("Pune"), IsDefault: ptr(true)})
	require.NoError(t, err)

	assert.EqualValues(t, 1, countDefaults(t, conn, u.ID))

	def, err := svc.GetDefault(u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	_, err = svc.SetDefault(u.ID, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countDefaults(t, conn, u.ID))

	def, err = svc.GetDefault(u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)
}

func TestAddressCreateRequiresFields(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)

	_, err := svc.Create(1, AddressInput{City: ptr("Pune")})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(1, AddressInput{FullAddress: ptr("1 A St")})
	assert.True(t, IsValidation(err))
}

func TestAddressListOrdering(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	u := testkit.User(t, conn, "u@example.com")

	old, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("old"), City: ptr("Pune")})
	require.NoError(t, err)
	def, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("def"), City: ptr("Pune"), IsDefault: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, conn.Model(def).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newest, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("new"), City: ptr("Pune")})
	require.NoError(t, err)

	list, err := svc.List(u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{def.ID, newest.ID, old.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
}

func TestAddressCrossUserIsNotFound(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	owner := testkit.User(t, conn, "owner@example.com")
	other := testkit.User(t, conn, "other@example.com")
	addr := testkit.DefaultAddress(t, conn, owner.ID)

	_, err := svc.Update(other.ID, addr.ID, AddressInput{City: ptr("Mumbai")})
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, err = svc.SetDefault(other.ID, addr.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, svc.Delete(other.ID, addr.ID), ErrAddressNotFound)

	// owner's default is untouched by the failed attempts
	assert.EqualValues(t, 1, countDefaults(t, conn, owner.ID))
}

func TestAddressUpdateIsPartial(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	u := testkit.User(t, conn, "u@example.com")
	addr := testkit.DefaultAddress(t, conn, u.ID)

	updated, err := svc.Update(u.ID, addr.ID, AddressInput{Landmark: ptr("Near temple")})
	require.NoError(t, err)
	assert.Equal(t, "Near temple", updated.Landmark)
	assert.Equal(t, addr.FullAddress, updated.FullAddress)
	assert.True(t, updated.IsDefault)
}

func TestAddressGetDefaultMissing(t *testing.T) {
	conn := testkit.DB(t)
	_, err := NewAddressService(conn).GetDefault(42)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressDelete(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	u := testkit.User(t, conn, "u@example.com")
	addr := testkit.DefaultAddress(t, conn, u.ID)

	require.NoError(t, svc.Delete(u.ID, addr.ID))
	assert.ErrorIs(t, svc.Delete(u.ID, addr.ID), ErrAddressNotFound)
}

func TestAddressUpdateRejectsBlankRequiredFields(t *testing.T) {
	conn := testkit.DB(t)
	svc := NewAddressService(conn)
	u := testkit.User(t, conn, "u@example.com")

	a, err := svc.Create(u.ID, AddressInput{FullAddress: ptr("1 A St"), City: ptr("Pune")})
	require.NoError(t, err)

	for name, in := range map[string]AddressInput{
		"city":        {City: ptr("")},
		"blank city":  {City: ptr("   ")},
		"fullAddress": {FullAddress: ptr("")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(u.ID, a.ID, in)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	var stored models.SavedAddress
	require.NoError(t, conn.First(&stored, a.ID).Error)
	assert.Equal(t, "1 A St", stored.FullAddress)
	assert.Equal(t, "Pune", stored.City)
}
