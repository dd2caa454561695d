package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"locshare/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/useinsider/go-pkg/inslogger"
)

type MockWorkflow struct {
	mock.Mock
}

func (m *MockWorkflow) Snapshot() model.StateResponse {
	return m.Called().Get(0).(model.StateResponse)
}

func (m *MockWorkflow) Profile() *model.UserProfile {
	args := m.Called()
	if profile := args.Get(0); profile != nil {
		return profile.(*model.UserProfile)
	}
	return nil
}

func (m *MockWorkflow) Submit(ctx context.Context, name, phone string) error {
	return m.Called(ctx, name, phone).Error(0)
}

func (m *MockWorkflow) Edit() (model.FormDraft, error) {
	args := m.Called()
	return args.Get(0).(model.FormDraft), args.Error(1)
}

func (m *MockWorkflow) Send(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWorkflow) ToggleTorch(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.Default()
}

func newHandler(workflow *MockWorkflow) *AppHandler {
	return NewAppHandler(workflow, inslogger.NewLogger(inslogger.Debug))
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetState(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Snapshot").Return(model.StateResponse{
		State:         model.StateReady,
		StatusMessage: "Pronto! Selecione o contato.",
	})

	router := setupRouter()
	router.GET("/api/state", newHandler(mockWorkflow).GetState)

	req, _ := http.NewRequest(http.MethodGet, "/api/state", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var response model.StateResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &response)
	assert.Equal(t, model.StateReady, response.State)
}

func TestGetProfile_NotFoundBeforeOnboarding(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Profile").Return(nil)

	router := setupRouter()
	router.GET("/api/profile", newHandler(mockWorkflow).GetProfile)

	req, _ := http.NewRequest(http.MethodGet, "/api/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSubmitProfile_Success(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Submit", mock.Anything, "Maria", "").Return(nil)
	mockWorkflow.On("Profile").Return(&model.UserProfile{DisplayName: "Maria"})

	router := setupRouter()
	router.PUT("/api/profile", newHandler(mockWorkflow).SubmitProfile)

	req := jsonRequest(http.MethodPut, "/api/profile", model.SubmitProfileRequest{Name: "Maria"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockWorkflow.AssertExpectations(t)
}

func TestSubmitProfile_ValidationError(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Submit", mock.Anything, "   ", "").Return(fmt.Errorf("%w: name is required", model.ErrValidation))

	router := setupRouter()
	router.PUT("/api/profile", newHandler(mockWorkflow).SubmitProfile)

	req := jsonRequest(http.MethodPut, "/api/profile", model.SubmitProfileRequest{Name: "   "})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitProfile_StorageError(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Submit", mock.Anything, "Maria", "").Return(fmt.Errorf("%w: disk full", model.ErrStorage))

	router := setupRouter()
	router.PUT("/api/profile", newHandler(mockWorkflow).SubmitProfile)

	req := jsonRequest(http.MethodPut, "/api/profile", model.SubmitProfileRequest{Name: "Maria"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestSubmitProfile_InvalidPayload(t *testing.T) {
	mockWorkflow := new(MockWorkflow)

	router := setupRouter()
	router.PUT("/api/profile", newHandler(mockWorkflow).SubmitProfile)

	req, _ := http.NewRequest(http.MethodPut, "/api/profile", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockWorkflow.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditProfile(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Edit").Return(model.FormDraft{Name: "João", Phone: "11987654321"}, nil)

	router := setupRouter()
	router.POST("/api/profile/edit", newHandler(mockWorkflow).EditProfile)

	req, _ := http.NewRequest(http.MethodPost, "/api/profile/edit", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var draft model.FormDraft
	_ = json.Unmarshal(resp.Body.Bytes(), &draft)
	assert.Equal(t, "João", draft.Name)
}

func TestSendLocation_Accepted(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Send", mock.Anything).Return(nil)
	mockWorkflow.On("Snapshot").Return(model.StateResponse{State: model.StateReady, StatusMessage: "Pronto! Selecione o contato."})

	router := setupRouter()
	router.POST("/api/location/send", newHandler(mockWorkflow).SendLocation)

	req, _ := http.NewRequest(http.MethodPost, "/api/location/send", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusAccepted, resp.Code)
}

func TestSendLocation_PermissionDenied(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Send", mock.Anything).Return(model.ErrPermissionDenied)

	router := setupRouter()
	router.POST("/api/location/send", newHandler(mockWorkflow).SendLocation)

	req, _ := http.NewRequest(http.MethodPost, "/api/location/send", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSendLocation_BusyConflict(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Send", mock.Anything).Return(fmt.Errorf("%w: state is locating", model.ErrBusy))

	router := setupRouter()
	router.POST("/api/location/send", newHandler(mockWorkflow).SendLocation)

	req, _ := http.NewRequest(http.MethodPost, "/api/location/send", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestSendLocation_AppNotInstalled(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("Send", mock.Anything).Return(model.ErrAppNotInstalled)

	router := setupRouter()
	router.POST("/api/location/send", newHandler(mockWorkflow).SendLocation)

	req, _ := http.NewRequest(http.MethodPost, "/api/location/send", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestFormatPhone(t *testing.T) {
	mockWorkflow := new(MockWorkflow)

	router := setupRouter()
	router.POST("/api/phone/format", newHandler(mockWorkflow).FormatPhone)

	req := jsonRequest(http.MethodPost, "/api/phone/format", model.FormatPhoneRequest{Input: "11987654321"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var response model.FormatPhoneResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &response)
	assert.Equal(t, "(11) 98765-4321", response.Formatted)
	assert.True(t, response.DismissKeyboard)
}

func TestAbout(t *testing.T) {
	router := setupRouter()
	router.GET("/api/about", newHandler(new(MockWorkflow)).About)

	req, _ := http.NewRequest(http.MethodGet, "/api/about", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var response map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &response)
	assert.Equal(t, "https://github.com/devkoalaa", response["developer_url"])
}

func TestToggleTorch_PermissionDenied(t *testing.T) {
	mockWorkflow := new(MockWorkflow)
	mockWorkflow.On("ToggleTorch", mock.Anything).Return(false, model.ErrPermissionDenied)

	router := setupRouter()
	router.POST("/api/torch/toggle", newHandler(mockWorkflow).ToggleTorch)

	req, _ := http.NewRequest(http.MethodPost, "/api/torch/toggle", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}
