package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/models"
	"bookboo/internal/httpapi/repository"
)

const (
	// Fallback when the provider sends a user without a username.
	defaultUsername = "BookBooUser"

	webhookSecretPrefix = "whsec_"
)

var (
	ErrWebhookMissingHeaders   = errors.New("missing webhook headers")
	ErrWebhookBadSignature     = errors.New("webhook signature verification failed")
	ErrWebhookStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrWebhookMalformedPayload = errors.New("webhook payload missing id or type")
)

// WebhookHeaders are the signature headers the identity provider attaches
// to every delivery.
type WebhookHeaders struct {
	ID        string
	Timestamp string
	Signature string
}

// userStore is the user repository surface the lifecycle sync consumes.
type userStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// WebhookService verifies identity-provider deliveries and mirrors user
// lifecycle events into the local users table.
type WebhookService interface {
	VerifyAndParse(headers WebhookHeaders, payload []byte) (*dto.WebhookEvent, error)
	Process(ctx context.Context, evt *dto.WebhookEvent) error
}

type webhookService struct {
	secret    []byte
	tolerance time.Duration
	users     userStore
	now       func() time.Time
}

// NewWebhookService builds the webhook verifier. The secret may carry the
// provider's "whsec_" prefix around a base64 key, or be a raw shared
// secret.
func NewWebhookService(secret string, tolerance time.Duration, users userStore) WebhookService {
	key := []byte(secret)
	if trimmed, ok := strings.CutPrefix(secret, webhookSecretPrefix); ok {
		if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
			key = decoded
		}
	}
	return &webhookService{
		secret:    key,
		tolerance: tolerance,
		users:     users,
		now:       time.Now,
	}
}

// VerifyAndParse checks the delivery's HMAC-SHA256 signature over
// "id.timestamp.payload" and its timestamp freshness before trusting the
// body. The signature header may list several space-separated versioned
// signatures; any matching v1 entry passes.
func (s *webhookService) VerifyAndParse(headers WebhookHeaders, payload []byte) (*dto.WebhookEvent, error) {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return nil, ErrWebhookMissingHeaders
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrWebhookBadSignature)
	}
	age := s.now().Sub(time.Unix(ts, 0))
	if age > s.tolerance || age < -s.tolerance {
		return nil, ErrWebhookStaleTimestamp
	}

	signed := fmt.Sprintf("%s.%s.%s", headers.ID, headers.Timestamp, payload)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signed))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	verified := false
	for _, candidate := range strings.Fields(headers.Signature) {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrWebhookBadSignature
	}

	var evt dto.WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookMalformedPayload, err)
	}
	if evt.Data.ID == "" || evt.Type == "" {
		return nil, ErrWebhookMalformedPayload
	}
	return &evt, nil
}

func (s *webhookService) Process(ctx context.Context, evt *dto.WebhookEvent) error {
	switch evt.Type {
	case "user.created":
		// Redeliveries are acknowledged without a second insert.
		existing, err := s.users.GetByID(ctx, evt.Data.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		username := evt.Data.Username
		if username == "" {
			username = defaultUsername
		}
		err = s.users.Create(ctx, &models.User{
			ID:       evt.Data.ID,
			Username: username,
		})
		// The primary key catches creates racing past the lookup.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	case "user.deleted":
		return s.users.Delete(ctx, evt.Data.ID)
	default:
		// Unrecognized lifecycle events are acknowledged and ignored.
		return nil
	}
}
