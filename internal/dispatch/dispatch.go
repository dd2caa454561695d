// Package dispatch hands the composed deep link to the platform URL opener.
// Success suspends the flow in favor of the external messaging app, so the
// dispatcher only reports whether the hand-off call itself worked.
package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"locshare/internal/model"

	"github.com/useinsider/go-pkg/inslogger"
)

// Runner executes the platform opener command. It exists so tests can
// observe dispatch without spawning processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, message model.OutgoingMessage) error
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// NewDispatcher picks the opener strategy for the target platform. An empty
// platform falls back to runtime.GOOS.
func NewDispatcher(platform string, runner Runner, logger inslogger.Interface) Dispatcher {
	if platform == "" {
		platform = runtime.GOOS
	}
	if platform == "darwin" {
		return &precheckDispatcher{runner: runner, logger: logger}
	}
	return &directDispatcher{runner: runner, logger: logger}
}

// precheckDispatcher verifies the messaging app is installed before opening
// the link. The check is only trustworthy on darwin, where the opener can
// resolve an application by name.
type precheckDispatcher struct {
	runner Runner
	logger inslogger.Interface
}

func (d *precheckDispatcher) Dispatch(ctx context.Context, message model.OutgoingMessage) error {
	if err := d.runner.Run(ctx, "open", "-Ra", "WhatsApp"); err != nil {
		d.logger.Warnf("Messaging app lookup failed: %v", err)
		return fmt.Errorf("%w: app lookup failed", model.ErrAppNotInstalled)
	}

	if err := d.runner.Run(ctx, "open", message.DeepLinkURL); err != nil {
		d.logger.Errorf("Error opening deep link: %v", err)
		return fmt.Errorf("%w: open failed: %v", model.ErrAppNotInstalled, err)
	}
	return nil
}

// directDispatcher attempts the open without a pre-check. On platforms
// without a reliable "can this URL be opened" query, trying and mapping any
// failure to a missing app is the safer behavior.
type directDispatcher struct {
	runner Runner
	logger inslogger.Interface
}

func (d *directDispatcher) Dispatch(ctx context.Context, message model.OutgoingMessage) error {
	if err := d.runner.Run(ctx, "xdg-open", message.DeepLinkURL); err != nil {
		d.logger.Errorf("Error opening deep link: %v", err)
		return fmt.Errorf("%w: open failed: %v", model.ErrAppNotInstalled, err)
	}
	return nil
}
