package location

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"locshare/internal/model"

	"github.com/useinsider/go-pkg/inslogger"
)

// Provider yields one position fix from the platform location source.
type Provider interface {
	CurrentPosition(ctx context.Context) (latitude, longitude float64, err error)
}

// Acquirer obtains a single high-accuracy fix plus, best effort, the device
// battery percentage. The caller must have checked the location permission
// first; Acquire makes no permission decisions of its own.
type Acquirer interface {
	Acquire(ctx context.Context) (model.LocationFix, error)
}

type acquirer struct {
	provider Provider
	battery  BatteryReader
	logger   inslogger.Interface
}

func NewAcquirer(provider Provider, battery BatteryReader, logger inslogger.Interface) Acquirer {
	return &acquirer{
		provider: provider,
		battery:  battery,
		logger:   logger,
	}
}

func (a *acquirer) Acquire(ctx context.Context) (model.LocationFix, error) {
	latitude, longitude, err := a.provider.CurrentPosition(ctx)
	if err != nil {
		return model.LocationFix{}, fmt.Errorf("failed to acquire position: %w", err)
	}

	fix := model.LocationFix{
		Latitude:  latitude,
		Longitude: longitude,
	}

	// Battery is an annotation, not a requirement: any failure here
	// degrades to "no battery info" instead of failing the acquisition.
	if a.battery != nil {
		level, err := a.battery.Level(ctx)
		if err != nil {
			a.logger.Warnf("Battery read failed, sending without battery info: %v", err)
		} else if level >= 0 {
			percent := int(math.Round(level * 100))
			if percent > 100 {
				percent = 100
			}
			fix.BatteryPercent = &percent
		}
	}

	return fix, nil
}

// HTTPProvider requests a single fix from the companion location provider.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
}

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *HTTPProvider) CurrentPosition(ctx context.Context) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/position?accuracy=high", nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to request position: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var response positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Latitude, response.Longitude, nil
}
