package location

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// UnknownLevel is the sentinel a reader returns when the platform exposes no
// battery information.
const UnknownLevel = -1.0

// BatteryReader reports the battery level as a fraction in [0,1], or
// UnknownLevel when the platform cannot say.
type BatteryReader interface {
	Level(ctx context.Context) (float64, error)
}

// SysfsBattery reads the charge percentage from a power_supply capacity
// file, the kernel interface on Linux devices.
type SysfsBattery struct {
	CapacityPath string
}

func (b *SysfsBattery) Level(_ context.Context) (float64, error) {
	raw, err := os.ReadFile(b.CapacityPath)
	if err != nil {
		if os.IsNotExist(err) {
			return UnknownLevel, nil
		}
		return UnknownLevel, fmt.Errorf("failed to read battery capacity: %w", err)
	}

	percent, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return UnknownLevel, fmt.Errorf("unexpected battery capacity value %q: %w", strings.TrimSpace(string(raw)), err)
	}

	return float64(percent) / 100, nil
}
