// Package workflow implements the onboarding/settings state machine and the
// location-to-message pipeline behind the primary action.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"locshare/internal/composer"
	"locshare/internal/dispatch"
	"locshare/internal/location"
	"locshare/internal/model"
	"locshare/internal/permission"
	"locshare/internal/prefstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/useinsider/go-pkg/inslogger"
)

// Status lines shown to the user, matching the app's Portuguese copy.
const (
	statusLocating         = "Localizando você..."
	statusOpeningApp       = "Abrindo WhatsApp..."
	statusDone             = "Pronto! Selecione o contato."
	statusNeedPermission   = "Precisamos saber onde você está para enviar a localização."
	statusLocationFailed   = "Não conseguimos pegar sua localização. Tente novamente."
	statusAppMissing       = "O WhatsApp não parece estar instalado."
	statusNameRequired     = "Por favor, digite seu nome para continuar."
	statusSaveFailed       = "Não foi possível salvar seus dados."
	statusSaved            = "Dados salvos com sucesso!"
	statusCameraPermission = "Precisamos de permissão da câmera para usar a lanterna."
)

var sendAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "send_attempts_total",
		Help: "Send attempts by outcome",
	},
	[]string{"outcome"},
)

// Machine cycles between Onboarding, Ready and Locating for the process
// lifetime. The profile is single-writer: only Submit mutates it, and the
// state guard keeps at most one send in flight.
type Machine struct {
	mu      sync.Mutex
	state   model.UIState
	profile *model.UserProfile
	draft   model.FormDraft
	torchOn bool

	store      prefstore.Store
	gate       permission.Gate
	acquirer   location.Acquirer
	dispatcher dispatch.Dispatcher
	status     *statusBoard
	logger     inslogger.Interface
}

func NewMachine(
	store prefstore.Store,
	gate permission.Gate,
	acquirer location.Acquirer,
	dispatcher dispatch.Dispatcher,
	statusTTL time.Duration,
	logger inslogger.Interface,
) *Machine {
	return &Machine{
		state:      model.StateCheckingStoredProfile,
		store:      store,
		gate:       gate,
		acquirer:   acquirer,
		dispatcher: dispatcher,
		status:     newStatusBoard(statusTTL),
		logger:     logger,
	}
}

// Start loads the stored profile and routes to Ready or Onboarding. Storage
// failures were already absorbed by the store, so a missing profile is the
// only branch here.
func (m *Machine) Start(ctx context.Context) {
	profile := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if profile != nil && profile.DisplayName != "" {
		m.profile = profile
		m.state = model.StateReady
		m.logger.Logf("Profile loaded for %s, entering ready state", profile.DisplayName)
		return
	}
	m.state = model.StateOnboarding
	m.logger.Log("No stored profile, entering onboarding")
}

func (m *Machine) Snapshot() model.StateResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.StateResponse{
		State:         m.state,
		StatusMessage: m.status.Message(),
		Draft:         m.draft,
	}
}

// Profile returns a copy of the stored profile, or nil before onboarding
// completes.
func (m *Machine) Profile() *model.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	copied := *m.profile
	return &copied
}

// Submit validates and saves the onboarding form. A whitespace-only name is
// rejected before any write; a storage failure keeps the machine in
// Onboarding, matching the soft-failure policy for preference data.
func (m *Machine) Submit(ctx context.Context, name, phone string) error {
	m.mu.Lock()
	if m.state != model.StateOnboarding {
		m.mu.Unlock()
		return fmt.Errorf("%w: submit is only valid during onboarding", model.ErrValidation)
	}
	m.mu.Unlock()

	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		m.status.SetTransient(statusNameRequired)
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}

	profile := model.UserProfile{
		DisplayName:    trimmedName,
		RecipientPhone: strings.TrimSpace(phone),
	}

	if err := m.store.Save(ctx, profile); err != nil {
		m.logger.Errorf("Failed to save profile: %v", err)
		m.status.SetTransient(statusSaveFailed)
		return fmt.Errorf("%w: %v", model.ErrStorage, err)
	}

	m.mu.Lock()
	m.profile = &profile
	m.draft = model.FormDraft{}
	m.state = model.StateReady
	m.mu.Unlock()

	m.status.SetTransient(statusSaved)
	return nil
}

// Edit pre-fills the form with the current profile and returns to
// Onboarding. This is the only way to change stored data.
func (m *Machine) Edit() (model.FormDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != model.StateReady {
		return model.FormDraft{}, fmt.Errorf("%w: edit is only valid when ready", model.ErrBusy)
	}

	m.draft = model.FormDraft{
		Name:  m.profile.DisplayName,
		Phone: m.profile.RecipientPhone,
	}
	m.state = model.StateOnboarding
	return m.draft, nil
}

// Send runs the primary action pipeline: permission check, one fix, compose,
// hand-off. Every branch returns the machine to Ready; nothing here retries.
func (m *Machine) Send(ctx context.Context) error {
	m.mu.Lock()
	if m.state != model.StateReady {
		m.mu.Unlock()
		return fmt.Errorf("%w: state is %s", model.ErrBusy, m.state)
	}
	m.state = model.StateLocating
	name := m.profile.DisplayName
	phone := m.profile.RecipientPhone
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.state = model.StateReady
		m.mu.Unlock()
	}()

	m.status.Set(statusLocating)

	if !m.gate.EnsureLocation(ctx) {
		m.logger.Warn("Location permission denied, aborting send")
		m.status.SetTransient(statusNeedPermission)
		sendAttempts.WithLabelValues("permission_denied").Inc()
		return model.ErrPermissionDenied
	}

	fix, err := m.acquirer.Acquire(ctx)
	if err != nil {
		m.logger.Errorf("Location acquisition failed: %v", err)
		m.status.SetTransient(statusLocationFailed)
		sendAttempts.WithLabelValues("location_unavailable").Inc()
		return fmt.Errorf("%w: %v", model.ErrLocationUnavailable, err)
	}

	message := composer.Compose(name, fix, phone)

	m.status.Set(statusOpeningApp)
	if err := m.dispatcher.Dispatch(ctx, message); err != nil {
		m.logger.Errorf("Dispatch failed: %v", err)
		m.status.SetTransient(statusAppMissing)
		sendAttempts.WithLabelValues("app_not_installed").Inc()
		return err
	}

	m.status.SetTransient(statusDone)
	sendAttempts.WithLabelValues("success").Inc()
	m.logger.Logf("Location handed off for %s", name)
	return nil
}

// ToggleTorch flips the camera-gated torch flag. The feature is cosmetic and
// its route ships disabled, but the capability gate contract is the same as
// for location.
func (m *Machine) ToggleTorch(ctx context.Context) (bool, error) {
	if !m.gate.EnsureCamera(ctx) {
		m.status.SetTransient(statusCameraPermission)
		return false, model.ErrPermissionDenied
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.torchOn = !m.torchOn
	return m.torchOn, nil
}
