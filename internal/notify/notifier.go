package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"github.com/ejggaming/jueteng-backend/pkg/mq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Notifier delivers per-user notifications: it stores an in-app row and,
// when a producer is configured, publishes the same payload to the
// notification topic. Both legs are fire-and-forget — a delivery failure
// never reaches the business operation that triggered it.
type Notifier struct {
	notificationRepo repositories.NotificationRepository
	producer         *mq.Producer
}

// NewNotifier creates a Notifier; producer may be nil to disable publishing
func NewNotifier(notificationRepo repositories.NotificationRepository, producer *mq.Producer) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		producer:         producer,
	}
}

// Notify stores and publishes one notification
func (n *Notifier) Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, body string, metadata map[string]interface{}) {
	notification := &models.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Body:     body,
		Metadata: metadata,
		Status:   models.NotificationStatusPending,
	}
	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		slog.Warn("Notification store failed",
			"userId", userID.Hex(), "type", notificationType, "error", err)
		return
	}

	if n.producer == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"notificationId": notification.ID.Hex(),
		"userId":         userID.Hex(),
		"type":           notificationType,
		"title":          title,
		"body":           body,
		"metadata":       metadata,
		"createdAt":      time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Notification payload not serializable", "error", err)
		return
	}
	if err := n.producer.Send(userID.Hex(), payload); err != nil {
		slog.Warn("Notification publish failed",
			"userId", userID.Hex(), "type", notificationType, "error", err)
	}
}
