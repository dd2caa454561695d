package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/useinsider/go-pkg/inslogger"
)

type Capability string

const (
	CapabilityLocation Capability = "location"
	CapabilityCamera   Capability = "camera"
)

// Gate answers "may this capability be used" before any capability-dependent
// step runs. It never errors: every platform failure maps to a denied grant.
// Grants are sticky, so repeated checks on an already granted capability
// return true without re-prompting.
type Gate interface {
	EnsureLocation(ctx context.Context) bool
	EnsureCamera(ctx context.Context) bool
}

// Prober performs the actual platform ask for one capability.
type Prober interface {
	Probe(ctx context.Context, capability Capability) (bool, error)
}

type gate struct {
	prober  Prober
	logger  inslogger.Interface
	mu      sync.Mutex
	granted map[Capability]bool
}

func NewGate(prober Prober, logger inslogger.Interface) Gate {
	return &gate{
		prober:  prober,
		logger:  logger,
		granted: make(map[Capability]bool),
	}
}

func (g *gate) EnsureLocation(ctx context.Context) bool {
	return g.ensure(ctx, CapabilityLocation)
}

func (g *gate) EnsureCamera(ctx context.Context) bool {
	return g.ensure(ctx, CapabilityCamera)
}

func (g *gate) ensure(ctx context.Context, capability Capability) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.granted[capability] {
		return true
	}

	granted, err := g.prober.Probe(ctx, capability)
	if err != nil {
		g.logger.Warnf("Probe for %s capability failed, treating as denied: %v", capability, err)
		return false
	}
	if granted {
		g.granted[capability] = true
	}
	return granted
}

// DeviceProber asks the companion location provider whether location access
// is authorized, and checks the torch device node for the camera capability.
type DeviceProber struct {
	ProviderURL string
	TorchPath   string
	Client      *http.Client
}

type permissionResponse struct {
	Granted bool `json:"granted"`
}

func (p *DeviceProber) Probe(ctx context.Context, capability Capability) (bool, error) {
	switch capability {
	case CapabilityLocation:
		return p.probeLocation(ctx)
	case CapabilityCamera:
		return p.probeCamera()
	default:
		return false, fmt.Errorf("unknown capability: %s", capability)
	}
}

func (p *DeviceProber) probeLocation(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProviderURL+"/v1/permission", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach location provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var response permissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Granted, nil
}

func (p *DeviceProber) probeCamera() (bool, error) {
	info, err := os.Stat(p.TorchPath)
	if err != nil {
		return false, nil
	}
	return !info.IsDir(), nil
}
