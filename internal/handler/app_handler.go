package handler

import (
	"context"
	"errors"
	"net/http"

	"locshare/internal/composer"
	"locshare/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/useinsider/go-pkg/inslogger"
)

// Workflow is the state-machine surface the HTTP layer drives.
type Workflow interface {
	Snapshot() model.StateResponse
	Profile() *model.UserProfile
	Submit(ctx context.Context, name, phone string) error
	Edit() (model.FormDraft, error)
	Send(ctx context.Context) error
	ToggleTorch(ctx context.Context) (bool, error)
}

type AppHandler struct {
	workflow Workflow
	logger   inslogger.Interface
}

func NewAppHandler(workflow Workflow, logger inslogger.Interface) *AppHandler {
	return &AppHandler{
		workflow: workflow,
		logger:   logger,
	}
}

// GetState reports the current screen state.
// @Summary Get UI state
// @Description Current state machine position, status message and form draft
// @Tags state
// @Produce json
// @Success 200 {object} model.StateResponse
// @Router /api/state [get]
func (h *AppHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.workflow.Snapshot())
}

// GetProfile returns the stored profile.
// @Summary Get stored profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.UserProfile
// @Failure 404 {object} map[string]interface{}
// @Router /api/profile [get]
func (h *AppHandler) GetProfile(c *gin.Context) {
	profile := h.workflow.Profile()
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No profile stored yet"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SubmitProfile saves the onboarding form.
// @Summary Submit onboarding form
// @Description Validates the name, persists the profile and moves to ready
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body model.SubmitProfileRequest true "Form values"
// @Success 200 {object} model.UserProfile
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/profile [put]
func (h *AppHandler) SubmitProfile(c *gin.Context) {
	var req model.SubmitProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.workflow.Submit(c.Request.Context(), req.Name, req.Phone); err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, model.ErrStorage):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, h.workflow.Profile())
}

// EditProfile switches back to onboarding with the form pre-filled.
// @Summary Edit stored profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.FormDraft
// @Failure 409 {object} map[string]interface{}
// @Router /api/profile/edit [post]
func (h *AppHandler) EditProfile(c *gin.Context) {
	draft, err := h.workflow.Edit()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SendLocation runs the primary action pipeline.
// @Summary Send current location
// @Description Checks permission, acquires one fix and opens the messaging app
// @Tags location
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/location/send [post]
func (h *AppHandler) SendLocation(c *gin.Context) {
	err := h.workflow.Send(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, model.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Location permission denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Accepted",
		"status":  h.workflow.Snapshot().StatusMessage,
	})
}

// FormatPhone previews the progressive phone grouping for the form field.
// @Summary Format phone input
// @Tags profile
// @Accept json
// @Produce json
// @Param input body model.FormatPhoneRequest true "Raw input"
// @Success 200 {object} model.FormatPhoneResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/phone/format [post]
func (h *AppHandler) FormatPhone(c *gin.Context) {
	var req model.FormatPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	formatted, dismiss := composer.FormatInput(req.Input)
	c.JSON(http.StatusOK, model.FormatPhoneResponse{
		Formatted:       formatted,
		DismissKeyboard: dismiss,
	})
}

const developerProfileURL = "https://github.com/devkoalaa"

// About returns the developer profile link shown in the footer.
// @Summary About
// @Tags about
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/about [get]
func (h *AppHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"developer_url": developerProfileURL})
}

// ToggleTorch flips the flashlight. The route ships disabled alongside the
// hidden camera surface, see main.go.
// @Summary Toggle flashlight
// @Tags torch
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/torch/toggle [post]
func (h *AppHandler) ToggleTorch(c *gin.Context) {
	on, err := h.workflow.ToggleTorch(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Camera permission denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"torch_on": on})
}
