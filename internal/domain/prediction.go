package domain

import "time"

// TrafficFeatures is the feature vector sent to the ML sidecar
type TrafficFeatures struct {
	RoadID     int64 `json:"road_id"`
	HourOfDay  int   `json:"hour_of_day"`
	DayOfWeek  int   `json:"day_of_week"`
	IsRushHour bool  `json:"is_rush_hour"`
	IsWeekend  bool  `json:"is_weekend"`

	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	WindSpeed       *float64 `json:"wind_speed,omitempty"`
	RainProbability *float64 `json:"rain_probability,omitempty"`
	IsRaining       bool     `json:"is_raining"`

	EventNearby       bool     `json:"event_nearby"`
	ArroyoNearby      bool     `json:"arroyo_nearby"`
	ArroyoRiskEncoded *float64 `json:"arroyo_risk_level_encoded,omitempty"`
	Lanes             *int     `json:"lanes,omitempty"`
	MaxSpeedKmh       *float64 `json:"max_speed_kmh,omitempty"`
}

// TrafficPredictionRequest wraps the features for the sidecar's /predict
type TrafficPredictionRequest struct {
	Features TrafficFeatures `json:"features"`
}

// TrafficPredictionResponse is the sidecar's predicted traffic state
type TrafficPredictionResponse struct {
	RoadID              int64     `json:"road_id"`
	Timestamp           time.Time `json:"timestamp"`
	PredictedSpeedKmh   float64   `json:"predicted_speed_kmh"`
	PredictedCongestion string    `json:"predicted_congestion_level"`
	ConfidenceScore     *float64  `json:"confidence_score,omitempty"`
	ModelVersion        string    `json:"model_version"`
	IsMock              bool      `json:"is_mock"`
}
