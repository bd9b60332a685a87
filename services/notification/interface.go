package notification

import (
	"context"
	"errors"
)

// Notifier delivers push notifications to a user's registered device.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string, data map[string]string) error
}

// ErrNoPushTarget is returned when the user has not registered an FCM token.
var ErrNoPushTarget = errors.New("user has no push token")
