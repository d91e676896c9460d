package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/internal/engine"
)

// Rush-hour windows used by the mock predictor and feature builders
const (
	MorningRushStart = 6
	MorningRushEnd   = 9
	EveningRushStart = 17
	EveningRushEnd   = 20
)

// MLBridge handles communication with the Python traffic-prediction
// service
type MLBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string) *MLBridge {
	return &MLBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PredictTraffic calls the prediction service, falling back to a
// rush-hour heuristic when the sidecar is unreachable
func (b *MLBridge) PredictTraffic(ctx context.Context, req domain.TrafficPredictionRequest) (domain.TrafficPredictionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.TrafficPredictionResponse{}, fmt.Errorf("ml_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.TrafficPredictionResponse{}, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		// Return mock prediction on error
		return b.getMockPrediction(req), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return b.getMockPrediction(req), nil
	}

	var prediction domain.TrafficPredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return domain.TrafficPredictionResponse{}, fmt.Errorf("ml_bridge: failed to decode response: %w", err)
	}

	return prediction, nil
}

// Health checks prediction service connectivity
func (b *MLBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ml_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ml_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}

// IsRushHour reports whether the hour falls in one of the city's
// commute windows
func IsRushHour(hour int) bool {
	return (hour >= MorningRushStart && hour <= MorningRushEnd) ||
		(hour >= EveningRushStart && hour <= EveningRushEnd)
}

// BuildTrafficFeatures assembles the sidecar's feature vector from live
// signals for one road segment
func BuildTrafficFeatures(seg domain.RoadSegment, w *domain.WeatherSnapshot, arroyo *domain.HazardZone, eventNearby bool, at time.Time) domain.TrafficFeatures {
	f := domain.TrafficFeatures{
		RoadID:      seg.ID,
		HourOfDay:   at.Hour(),
		DayOfWeek:   int(at.Weekday()),
		IsRushHour:  IsRushHour(at.Hour()),
		IsWeekend:   at.Weekday() == time.Saturday || at.Weekday() == time.Sunday,
		EventNearby: eventNearby,
	}

	if seg.Lanes > 0 {
		lanes := seg.Lanes
		f.Lanes = &lanes
	}
	if seg.MaxSpeedKmh > 0 {
		maxSpeed := seg.MaxSpeedKmh
		f.MaxSpeedKmh = &maxSpeed
	}

	if w != nil {
		temp := w.Temperature
		humidity := float64(w.Humidity)
		wind := w.WindSpeedKmh
		rainProb := w.RainProbability
		f.Temperature = &temp
		f.Humidity = &humidity
		f.WindSpeed = &wind
		f.RainProbability = &rainProb
		f.IsRaining = w.Rainfall() > 0
	}

	if arroyo != nil {
		f.ArroyoNearby = true
		if encoded, ok := engine.ArroyoRiskEncoding[arroyo.Risk]; ok {
			f.ArroyoRiskEncoded = &encoded
		}
	}

	return f
}

// getMockPrediction returns a fallback prediction based on the feature
// vector's time and weather signals
func (b *MLBridge) getMockPrediction(req domain.TrafficPredictionRequest) domain.TrafficPredictionResponse {
	f := req.Features

	speed := 42.0
	level := domain.CongestionLow

	switch {
	case f.IsRushHour && f.IsRaining:
		speed = 12
		level = domain.CongestionSevere
	case f.IsRushHour:
		speed = 18
		level = domain.CongestionHigh
	case f.IsRaining:
		speed = 28
		level = domain.CongestionModerate
	case f.IsWeekend:
		speed = 48
	}

	return domain.TrafficPredictionResponse{
		RoadID:              f.RoadID,
		Timestamp:           time.Now(),
		PredictedSpeedKmh:   speed,
		PredictedCongestion: string(level),
		ModelVersion:        "mock-heuristic",
		IsMock:              true,
	}
}
