package rides

import (
	"math"
)

// Тарифная сетка поездки
const (
	baseFare      = 50.0 // посадка
	perKmRate     = 15.0
	perMinRate    = 2.0
	minutesPerKm  = 3.0 // городская скорость ~20 км/ч
	pickupMinutes = 5
	earthRadiusKm = 6371.0
)

// Estimate - расчет стоимости поездки
type Estimate struct {
	DistanceKm     float64 `json:"distance_km"`
	DurationMin    float64 `json:"duration_min"`
	Fare           float64 `json:"fare"`
	PickupEstimate int     `json:"pickup_estimate_min"`
	Currency       string  `json:"currency"`
}

// Estimator считает стоимость поездки по координатам
type Estimator struct {
	Currency string
}

func NewEstimator(currency string) *Estimator {
	return &Estimator{Currency: currency}
}

// EstimateRide возвращает расчет для поездки между двумя точками
func (e *Estimator) EstimateRide(pickupLat, pickupLng, dropLat, dropLng float64) *Estimate {
	// Длительность и тариф считаются от округленной дистанции,
	// чтобы цифры в ответе сходились между собой
	distance := round2(haversineKm(pickupLat, pickupLng, dropLat, dropLng))
	duration := round2(distance * minutesPerKm)
	fare := round2(baseFare + distance*perKmRate + duration*perMinRate)

	return &Estimate{
		DistanceKm:     distance,
		DurationMin:    duration,
		Fare:           fare,
		PickupEstimate: pickupMinutes,
		Currency:       e.Currency,
	}
}

// haversineKm - расстояние по большому кругу между двумя точками
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
