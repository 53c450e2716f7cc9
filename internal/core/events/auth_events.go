package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded  = "auth.login.succeeded"
	EventTypeLoginFailed     = "auth.login.failed"
	EventTypeTokenRefreshed  = "auth.token.refreshed"
	EventTypeRefreshRejected = "auth.refresh.rejected"
	EventTypeLogout          = "auth.logout"
)

// AuthEventTypes lists every event the auth service publishes.
var AuthEventTypes = []string{
	EventTypeLoginSucceeded,
	EventTypeLoginFailed,
	EventTypeTokenRefreshed,
	EventTypeRefreshRejected,
	EventTypeLogout,
}

type AuthEvent struct {
	BaseEvent
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// NewAuthEvent builds an auth lifecycle event. username and reason may be empty.
func NewAuthEvent(eventType, username, reason string) *AuthEvent {
	data := map[string]interface{}{}
	if username != "" {
		data["username"] = username
	}
	if reason != "" {
		data["reason"] = reason
	}

	return &AuthEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		Username: username,
		Reason:   reason,
	}
}
