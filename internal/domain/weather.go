package domain

import "time"

// WeatherSnapshot is the current weather observation for the city
type WeatherSnapshot struct {
	Temperature     float64   `json:"temperature"`
	Humidity        int       `json:"humidity"`
	WindSpeedKmh    float64   `json:"wind_speed_kmh"`
	RainProbability float64   `json:"rain_probability"`
	Condition       string    `json:"condition"`
	RainfallMmHour  *float64  `json:"rainfall_mm_hour,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	IsMock          bool      `json:"is_mock"`
}

// Rainfall returns the observed rainfall over the last hour, or 0 when
// the feed did not report one
func (w WeatherSnapshot) Rainfall() float64 {
	if w.RainfallMmHour == nil {
		return 0
	}
	return *w.RainfallMmHour
}

// NeutralWeather is the scoring default used when the weather source is
// unavailable: dry, calm, typical Barranquilla temperature.
func NeutralWeather() WeatherSnapshot {
	return WeatherSnapshot{
		Temperature:     28,
		Humidity:        70,
		WindSpeedKmh:    0,
		RainProbability: 0,
		Condition:       "Clear",
		Timestamp:       time.Now(),
		IsMock:          true,
	}
}

// WeatherResponse wraps a snapshot with metadata
type WeatherResponse struct {
	Data    WeatherSnapshot `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
}
