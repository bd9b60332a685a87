package notification

import (
	"context"
	"fmt"

	userRepo "coachhub/database/repository/user"
	"coachhub/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// MessageSender is the part of the FCM client used here.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier sends pushes through Firebase Cloud Messaging.
type FCMNotifier struct {
	users  userRepo.UserRepository
	sender MessageSender
}

func NewFCMNotifier(users userRepo.UserRepository, sender MessageSender) *FCMNotifier {
	return &FCMNotifier{users: users, sender: sender}
}

// Notify looks up the user's FCM token and sends a high priority push.
func (n *FCMNotifier) Notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("notify: could not load user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return ErrNoPushTarget
	}

	payload := make(map[string]string, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if _, ok := payload["role"]; !ok {
		payload["role"] = string(u.Role)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: payload,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("notify: failed to send FCM message to %s: %w", userID, err)
	}
	utils.GetLogger().Debug("Push sent", zap.String("userID", userID), zap.String("messageID", id))
	return nil
}

// LogNotifier only logs; it stands in when Firebase is not configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, userID, title, body string, data map[string]string) error {
	utils.GetLogger().Info("Push notification (not sent, FCM disabled)",
		zap.String("userID", userID),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data),
	)
	return nil
}

// New returns an FCM notifier when a messaging client is available and a LogNotifier otherwise.
func New(users userRepo.UserRepository, client *messaging.Client) Notifier {
	if client == nil {
		return LogNotifier{}
	}
	return NewFCMNotifier(users, client)
}
