package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReadingKind(t *testing.T) {
	tests := []struct {
		in   string
		want ReadingKind
	}{
		{"plate", ReadingPlate},
		{"PLATE", ReadingPlate},
		{"matricula", ReadingPlate},
		{"odometer", ReadingOdometer},
		{" cuentakilometros ", ReadingOdometer},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReadingKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseReadingKind("speedometer")
	assert.Error(t, err)
}

func TestReadingKindLabel(t *testing.T) {
	assert.Equal(t, "license plate", ReadingPlate.Label())
	assert.Equal(t, "odometer", ReadingOdometer.Label())
	assert.Equal(t, "vin", ReadingKind("vin").Label())
}

func TestVehicleView(t *testing.T) {
	v := Vehicle{
		Plate:      "1234ABC",
		Odometer:   "45210",
		RecordedAt: time.Date(2026, 3, 4, 9, 5, 7, 0, time.UTC),
	}

	view := v.View()
	assert.Equal(t, "1234ABC", view.Plate)
	assert.Equal(t, "45210", view.Odometer)
	assert.Equal(t, "2026-03-04 09:05:07", view.RecordedAt)

	assert.Empty(t, Vehicle{}.RecordedAtString())
	assert.NotNil(t, ViewAll(nil))
	assert.Len(t, ViewAll([]Vehicle{v, v}), 2)
}
