package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookboo/internal/httpapi/models"
	"bookboo/internal/httpapi/repository"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const testWebhookKey = "0123456789abcdef0123456789abcdef"

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(testWebhookKey))
}

// sign produces the v1 signature the provider would attach.
func sign(id, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookKey))
	fmt.Fprintf(mac, "%s.%s.%s", id, timestamp, payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedHeaders(payload []byte) WebhookHeaders {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return WebhookHeaders{
		ID:        "msg_2yzaCRXf",
		Timestamp: ts,
		Signature: sign("msg_2yzaCRXf", ts, payload),
	}
}

func TestVerifyAndParse_ValidDelivery(t *testing.T) {
	svc := NewWebhookService(testSecret(), 5*time.Minute, new(MockUserStore))
	payload := []byte(`{"type":"user.created","data":{"id":"user_1","username":"booklover"}}`)

	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	assert.Equal(t, "user.created", evt.Type)
	assert.Equal(t, "user_1", evt.Data.ID)
	assert.Equal(t, "booklover", evt.Data.Username)
}

func TestVerifyAndParse_AcceptsAnyMatchingSignatureInList(t *testing.T) {
	svc := NewWebhookService(testSecret(), 5*time.Minute, new(MockUserStore))
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	headers := signedHeaders(payload)
	headers.Signature = "v1,bm90dGhlcmlnaHRzaWduYXR1cmU= " + headers.Signature

	_, err := svc.VerifyAndParse(headers, payload)
	assert.NoError(t, err)
}

func TestVerifyAndParse_MissingHeaders(t *testing.T) {
	svc := NewWebhookService(testSecret(), 5*time.Minute, new(MockUserStore))

	_, err := svc.VerifyAndParse(WebhookHeaders{ID: "msg_1"}, []byte(`{}`))
	assert.ErrorIs(t, err, ErrWebhookMissingHeaders)
}

func TestVerifyAndParse_TamperedPayloadRejected(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	headers := signedHeaders(payload)

	tampered := []byte(`{"type":"user.deleted","data":{"id":"user_2"}}`)
	_, err := svc.VerifyAndParse(headers, tampered)
	assert.ErrorIs(t, err, ErrWebhookBadSignature)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerifyAndParse_StaleTimestampRejected(t *testing.T) {
	svc := NewWebhookService(testSecret(), 5*time.Minute, new(MockUserStore))
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	ts := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	headers := WebhookHeaders{
		ID:        "msg_old",
		Timestamp: ts,
		Signature: sign("msg_old", ts, payload),
	}

	_, err := svc.VerifyAndParse(headers, payload)
	assert.ErrorIs(t, err, ErrWebhookStaleTimestamp)
}

func TestVerifyAndParse_PayloadMissingID(t *testing.T) {
	svc := NewWebhookService(testSecret(), 5*time.Minute, new(MockUserStore))
	payload := []byte(`{"type":"user.created","data":{}}`)

	_, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	assert.ErrorIs(t, err, ErrWebhookMalformedPayload)
}

func TestProcess_UserCreated(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	users.On("GetByID", mock.Anything, "user_1").Return(nil, nil)
	users.On("Create", mock.Anything, &models.User{ID: "user_1", Username: "booklover"}).Return(nil)

	evt, err := svc.VerifyAndParse(signedHeaders([]byte(`{"type":"user.created","data":{"id":"user_1","username":"booklover"}}`)),
		[]byte(`{"type":"user.created","data":{"id":"user_1","username":"booklover"}}`))
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), evt))
	users.AssertExpectations(t)
}

func TestProcess_UserCreatedWithoutUsernameGetsDefault(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	users.On("GetByID", mock.Anything, "user_1").Return(nil, nil)
	users.On("Create", mock.Anything, &models.User{ID: "user_1", Username: "BookBooUser"}).Return(nil)

	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), evt))
	users.AssertExpectations(t)
}

func TestProcess_RedeliveredCreateSkipsInsert(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	users.On("GetByID", mock.Anything, "user_1").
		Return(&models.User{ID: "user_1", Username: "booklover"}, nil)

	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	assert.NoError(t, svc.Process(context.Background(), evt))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcess_CreateRacingPastLookupIsIdempotent(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	users.On("GetByID", mock.Anything, "user_1").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicate)

	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	assert.NoError(t, svc.Process(context.Background(), evt))
}

func TestProcess_UserDeleted(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)
	users.On("Delete", mock.Anything, "user_1").Return(nil)

	payload := []byte(`{"type":"user.deleted","data":{"id":"user_1"}}`)
	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), evt))
	users.AssertExpectations(t)
}

func TestProcess_UnknownEventIgnored(t *testing.T) {
	users := new(MockUserStore)
	svc := NewWebhookService(testSecret(), 5*time.Minute, users)

	payload := []byte(`{"type":"user.updated","data":{"id":"user_1"}}`)
	evt, err := svc.VerifyAndParse(signedHeaders(payload), payload)
	require.NoError(t, err)
	assert.NoError(t, svc.Process(context.Background(), evt))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
