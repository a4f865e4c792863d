package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

func TestFormatPadsSequence(t *testing.T) {
	assert.Equal(t, "INST-2026-0001", Format("INST", 2026, 1))
	assert.Equal(t, "INST-2026-0420", Format("INST", 2026, 420))
	assert.Equal(t, "INST-2026-9999", Format("INST", 2026, 9999))
	assert.Equal(t, "INST-2026-", YearPrefix("INST", 2026))
}

func TestParseRoundTrip(t *testing.T) {
	year, seq, err := Parse("INST", "INST-2025-0107")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 107, seq)
}

func TestParseRejectsMalformedCodes(t *testing.T) {
	for _, code := range []string{"", "STU-2025-0001", "INST-25-0001", "INST-2025-01", "INST-2025-abcd", "INST-2025-0000"} {
		_, _, err := Parse("INST", code)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, code)
	}
}

func TestPolicyCapacity(t *testing.T) {
	p := DefaultPolicy()

	code, err := p.Code(2026, 9999)
	require.NoError(t, err)
	assert.Equal(t, "INST-2026-9999", code)

	_, err = p.Code(2026, 10000)
	assert.ErrorIs(t, err, apperrors.ErrAdmissionCodesExhausted)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = p.Code(0, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
