package dto

// WebhookEvent is an identity-provider lifecycle notification. Only the
// fields the user sync needs are decoded.
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
