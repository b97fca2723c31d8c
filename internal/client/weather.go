package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tkasten/wayfare/backend/internal/cache"
	"github.com/tkasten/wayfare/backend/internal/domain"
)

// forecastDays caps the aggregated forecast length. The upstream 3-hourly
// feed covers five days.
const forecastDays = 5

// DayForecast is one day of the aggregated forecast.
// Temperatures are whole degrees Celsius.
type DayForecast struct {
	Date      string `json:"date"` // "2006-01-02"
	TempMin   int    `json:"temp_min"`
	TempMax   int    `json:"temp_max"`
	TempAvg   int    `json:"temp_avg"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
	Humidity  int    `json:"humidity"`
	WindSpeed int    `json:"wind_speed"`
}

// Forecast is a multi-day forecast for a destination.
type Forecast struct {
	City    string        `json:"city"`
	Country string        `json:"country"`
	Days    []DayForecast `json:"days"`
}

// WeatherClient fetches forecasts from the OpenWeatherMap 5-day API and
// collapses the 3-hourly entries into one summary per calendar day.
type WeatherClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	cache   *cache.Store[Forecast]
}

// NewWeatherClient constructs a WeatherClient against baseURL (no trailing
// slash), caching forecasts for cacheTTL.
func NewWeatherClient(baseURL, apiKey string, cacheTTL time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New[Forecast](cacheTTL),
	}
}

// owmResponse is the subset of the OpenWeatherMap /forecast payload we read.
type owmResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"` // "2006-01-02 15:04:05"
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// GetForecast returns the aggregated forecast for a destination city.
// Returns domain.ErrNotFound (wrapped) when the upstream does not know the
// city.
func (w *WeatherClient) GetForecast(ctx context.Context, city string) (Forecast, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if cached, ok := w.cache.Get(key); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", w.apiKey)
	q.Set("units", "metric")
	q.Set("cnt", "40") // 5 days of 3-hour intervals

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: %w", err)
	}

	resp, err := w.httpc.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: %w: unknown city %q", domain.ErrNotFound, city)
	case http.StatusUnauthorized:
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: weather API key rejected")
	default:
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: upstream status %d", resp.StatusCode)
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("client.WeatherClient.GetForecast: decode: %w", err)
	}

	forecast := aggregateForecast(payload)
	w.cache.Set(key, forecast)
	return forecast, nil
}

// dayBucket accumulates the 3-hourly samples belonging to one calendar day.
type dayBucket struct {
	temps     []float64
	condition string
	icon      string
	humidity  []float64
	wind      []float64
}

// aggregateForecast collapses 3-hourly entries into per-day summaries:
// min/max/mean temperature, the day's first condition and icon, and mean
// humidity and wind speed. Days keep the order they appear in the feed.
func aggregateForecast(payload owmResponse) Forecast {
	buckets := make(map[string]*dayBucket)
	var order []string

	for _, item := range payload.List {
		if len(item.DtTxt) < 10 {
			continue
		}
		date := item.DtTxt[:10]
		b, ok := buckets[date]
		if !ok {
			b = &dayBucket{}
			if len(item.Weather) > 0 {
				b.condition = item.Weather[0].Main
				b.icon = item.Weather[0].Icon
			}
			buckets[date] = b
			order = append(order, date)
		}
		b.temps = append(b.temps, item.Main.Temp)
		b.humidity = append(b.humidity, item.Main.Humidity)
		b.wind = append(b.wind, item.Wind.Speed)
	}

	if len(order) > forecastDays {
		order = order[:forecastDays]
	}

	days := make([]DayForecast, 0, len(order))
	for _, date := range order {
		b := buckets[date]
		mn, mx := b.temps[0], b.temps[0]
		for _, t := range b.temps[1:] {
			mn = math.Min(mn, t)
			mx = math.Max(mx, t)
		}
		days = append(days, DayForecast{
			Date:      date,
			TempMin:   roundInt(mn),
			TempMax:   roundInt(mx),
			TempAvg:   roundInt(mean(b.temps)),
			Condition: b.condition,
			Icon:      b.icon,
			Humidity:  roundInt(mean(b.humidity)),
			WindSpeed: roundInt(mean(b.wind)),
		})
	}

	return Forecast{
		City:    payload.City.Name,
		Country: payload.City.Country,
		Days:    days,
	}
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
