package messaging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneLocalNumber(t *testing.T) {
	got, err := NormalizePhone("08012345678", "+234")
	require.NoError(t, err)
	require.Equal(t, "+2348012345678", got)
}

func TestNormalizePhoneDefaultsCountryCode(t *testing.T) {
	got, err := NormalizePhone("08012345678", "")
	require.NoError(t, err)
	require.Equal(t, "+2348012345678", got)
}

func TestNormalizePhoneInternationalPassesThrough(t *testing.T) {
	got, err := NormalizePhone("+15551234567", "+234")
	require.NoError(t, err)
	require.Equal(t, "+15551234567", got)
}

func TestNormalizePhoneStripsFormatting(t *testing.T) {
	got, err := NormalizePhone(" 0801 234-5678 ", "+234")
	require.NoError(t, err)
	require.Equal(t, "+2348012345678", got)

	got, err = NormalizePhone("+1 (555) 123-4567", "+234")
	require.NoError(t, err)
	require.Equal(t, "+15551234567", got)
}

func TestNormalizePhoneRejectsBareNumber(t *testing.T) {
	_, err := NormalizePhone("5551234567", "+234")
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestNormalizePhoneRejectsDoubleZeroPrefix(t *testing.T) {
	_, err := NormalizePhone("0015551234567", "+234")
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestNormalizePhoneRejectsEmpty(t *testing.T) {
	_, err := NormalizePhone("   ", "+234")
	require.ErrorIs(t, err, ErrInvalidPhone)
}
