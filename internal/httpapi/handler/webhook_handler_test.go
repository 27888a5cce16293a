package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/service"
)

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) VerifyAndParse(headers service.WebhookHeaders, payload []byte) (*dto.WebhookEvent, error) {
	args := m.Called(headers, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WebhookEvent), args.Error(1)
}

func (m *MockWebhookService) Process(ctx context.Context, evt *dto.WebhookEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func setupWebhookRouter(svc service.WebhookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewWebhookHandler(svc, logger).RegisterRoutes(r.Group("/api"))
	return r
}

func postWebhook(r *gin.Engine, body string, withHeaders bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/webhooks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if withHeaders {
		req.Header.Set("svix-id", "msg_1")
		req.Header.Set("svix-timestamp", "1700000000")
		req.Header.Set("svix-signature", "v1,c2ln")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestReceive_VerifiedDeliveryAcknowledged(t *testing.T) {
	svc := new(MockWebhookService)
	evt := &dto.WebhookEvent{Type: "user.created"}
	evt.Data.ID = "user_1"
	svc.On("VerifyAndParse", mock.Anything, []byte(`{"type":"user.created"}`)).Return(evt, nil)
	svc.On("Process", mock.Anything, evt).Return(nil)
	r := setupWebhookRouter(svc)

	w := postWebhook(r, `{"type":"user.created"}`, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Webhook received"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestReceive_HeadersForwardedToVerifier(t *testing.T) {
	svc := new(MockWebhookService)
	expected := service.WebhookHeaders{ID: "msg_1", Timestamp: "1700000000", Signature: "v1,c2ln"}
	evt := &dto.WebhookEvent{Type: "user.deleted"}
	evt.Data.ID = "user_1"
	svc.On("VerifyAndParse", expected, mock.Anything).Return(evt, nil)
	svc.On("Process", mock.Anything, evt).Return(nil)
	r := setupWebhookRouter(svc)

	w := postWebhook(r, `{}`, true)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReceive_FailedVerificationIs400AndUnprocessed(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("VerifyAndParse", mock.Anything, mock.Anything).
		Return(nil, service.ErrWebhookBadSignature)
	r := setupWebhookRouter(svc)

	w := postWebhook(r, `{"type":"user.created"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestReceive_ProcessingFailureIs500(t *testing.T) {
	svc := new(MockWebhookService)
	evt := &dto.WebhookEvent{Type: "user.created"}
	evt.Data.ID = "user_1"
	svc.On("VerifyAndParse", mock.Anything, mock.Anything).Return(evt, nil)
	svc.On("Process", mock.Anything, evt).Return(errors.New("db write failed"))
	r := setupWebhookRouter(svc)

	w := postWebhook(r, `{"type":"user.created"}`, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
