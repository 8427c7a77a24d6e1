package app_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_booking/internal/app"
	"travel_booking/internal/domain"
)

func TestDecodeError_TypeMismatchNamesField(t *testing.T) {
	var in domain.HotelInput
	err := json.Unmarshal([]byte(`{"pricePerNight":"cheap"}`), &in)
	require.Error(t, err)

	ve := app.DecodeError(err, "hotel")
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "pricePerNight", ve.Fields[0].Field)
	assert.Equal(t, "Valid price per night is required", ve.Fields[0].Message)
	assert.Equal(t, "Validation failed", ve.Message)
}

func TestDecodeError_MalformedBody(t *testing.T) {
	var in domain.DestinationInput
	err := json.Unmarshal([]byte(`[1,2]`), &in)
	require.Error(t, err)

	ve := app.DecodeError(err, "destination")
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "body", ve.Fields[0].Field)

	ve = app.DecodeError(errors.New("unexpected EOF"), "destination")
	assert.Equal(t, "body", ve.Fields[0].Field)
}
