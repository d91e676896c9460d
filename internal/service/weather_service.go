package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/pkg/utils"
)

// WeatherService fetches the current weather snapshot for the city
type WeatherService struct {
	apiKey     string
	httpClient *http.Client
}

// NewWeatherService creates a new weather service
func NewWeatherService(apiKey string) *WeatherService {
	return &WeatherService{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// OpenWeatherResponse represents the OpenWeatherMap API response
type OpenWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Name string `json:"name"`
}

// GetCurrentWeather fetches the current snapshot for Barranquilla,
// falling back to a seasonal mock when no key is set or the fetch fails
func (s *WeatherService) GetCurrentWeather(ctx context.Context) (domain.WeatherSnapshot, error) {
	if s.apiKey == "" {
		return s.getMockWeather(), nil
	}

	url := fmt.Sprintf(
		"https://api.openweathermap.org/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric",
		domain.BarranquillaCenterLat, domain.BarranquillaCenterLng, s.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Fallback to mock on network error
		return s.getMockWeather(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.getMockWeather(), nil
	}

	var owResp OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("weather: failed to decode response: %w", err)
	}

	snapshot := domain.WeatherSnapshot{
		Temperature:  owResp.Main.Temp,
		Humidity:     owResp.Main.Humidity,
		WindSpeedKmh: utils.RoundTo(owResp.Wind.Speed*3.6, 1), // API reports m/s
		Timestamp:    time.Now(),
		IsMock:       false,
	}

	if len(owResp.Weather) > 0 {
		snapshot.Condition = normalizeCondition(owResp.Weather[0].Main, owResp.Rain.OneHour)
	}
	if owResp.Rain.OneHour > 0 {
		rainfall := owResp.Rain.OneHour
		snapshot.RainfallMmHour = &rainfall
	}
	snapshot.RainProbability = estimateRainProbability(snapshot.Condition, owResp.Rain.OneHour, owResp.Main.Humidity)

	return snapshot, nil
}

// normalizeCondition maps OpenWeather condition groups onto the labels
// the scoring tables know
func normalizeCondition(main string, rainfallMmHour float64) string {
	switch main {
	case "Thunderstorm":
		return "Thunderstorm"
	case "Rain":
		if rainfallMmHour > 4 {
			return "Heavy Rain"
		}
		return "Rain"
	case "Drizzle":
		return "Drizzle"
	case "Squall", "Tornado":
		return "Storm"
	default:
		return main
	}
}

// estimateRainProbability derives a 0-100 probability from the current
// condition; the free API tier has no forecast probability field.
func estimateRainProbability(condition string, rainfallMmHour float64, humidity int) float64 {
	switch {
	case rainfallMmHour > 0 || condition == "Thunderstorm" || condition == "Heavy Rain" || condition == "Storm":
		return 90
	case condition == "Rain":
		return 80
	case condition == "Drizzle":
		return 60
	case condition == "Clouds":
		return utils.Clamp(float64(humidity)-30, 0, 50)
	default:
		return 10
	}
}

// getMockWeather returns simulated Barranquilla weather following the
// city's two rainy seasons
func (s *WeatherService) getMockWeather() domain.WeatherSnapshot {
	month := time.Now().Month()

	// Rainy seasons: April-June and August-November
	rainy := (month >= 4 && month <= 6) || (month >= 8 && month <= 11)

	if rainy {
		rainfall := 2.5
		return domain.WeatherSnapshot{
			Temperature:     29,
			Humidity:        85,
			WindSpeedKmh:    12,
			RainProbability: 75,
			Condition:       "Rain",
			RainfallMmHour:  &rainfall,
			Timestamp:       time.Now(),
			IsMock:          true,
		}
	}

	return domain.WeatherSnapshot{
		Temperature:     32,
		Humidity:        70,
		WindSpeedKmh:    18,
		RainProbability: 15,
		Condition:       "Clear",
		Timestamp:       time.Now(),
		IsMock:          true,
	}
}
