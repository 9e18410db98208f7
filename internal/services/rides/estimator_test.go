package rides_test

import (
	"testing"

	"corpmatch_backend/internal/services/rides"

	"github.com/stretchr/testify/assert"
)

func TestEstimateRide_SamePoint(t *testing.T) {
	e := rides.NewEstimator("INR")

	est := e.EstimateRide(12.9716, 77.5946, 12.9716, 77.5946)
	assert.Equal(t, 0.0, est.DistanceKm)
	assert.Equal(t, 0.0, est.DurationMin)
	// Посадка платная даже при нулевой дистанции
	assert.Equal(t, 50.0, est.Fare)
	assert.Equal(t, 5, est.PickupEstimate)
	assert.Equal(t, "INR", est.Currency)
}

func TestEstimateRide_KnownDistance(t *testing.T) {
	e := rides.NewEstimator("INR")

	// Примерно 1 градус широты = ~111 км
	est := e.EstimateRide(12.0, 77.0, 13.0, 77.0)
	assert.InDelta(t, 111.2, est.DistanceKm, 0.5)

	// Длительность = дистанция * 3 мин/км
	assert.InDelta(t, est.DistanceKm*3, est.DurationMin, 0.02)

	// Тариф: 50 + 15/км + 2/мин
	expected := 50 + est.DistanceKm*15 + est.DurationMin*2
	assert.InDelta(t, expected, est.Fare, 0.05)
}

func TestEstimateRide_ShortCityRide(t *testing.T) {
	e := rides.NewEstimator("INR")

	// Короткая поездка по Бангалору, порядка 5 км
	est := e.EstimateRide(12.9716, 77.5946, 12.9352, 77.6245)
	assert.Greater(t, est.DistanceKm, 3.0)
	assert.Less(t, est.DistanceKm, 8.0)
	assert.Greater(t, est.Fare, 50.0)
}
