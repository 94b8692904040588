package notification

import (
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/google/uuid"
)

const (
	// KeyCancelError is the message key of a failed cancellation
	KeyCancelError = "transaction.notification.error.cancel"
	// KeyReplaceError is the message key of a failed speed up
	KeyReplaceError = "transaction.notification.error.replace"

	defaultLocale = "en"
)

var translations = map[string]map[string]string{
	"en": {
		KeyCancelError:  "Unable to cancel transaction",
		KeyReplaceError: "Unable to replace transaction",
	},
	"es": {
		KeyCancelError:  "No se pudo cancelar la transacción",
		KeyReplaceError: "No se pudo reemplazar la transacción",
	},
	"fr": {
		KeyCancelError:  "Impossible d'annuler la transaction",
		KeyReplaceError: "Impossible de remplacer la transaction",
	},
}

// AppNotificationType is the kind of app notification
type AppNotificationType string

const (
	// AppNotificationTypeError is shown when a user action fails
	AppNotificationTypeError AppNotificationType = "error"
)

// AppNotification is a toast shown to the user
type AppNotification struct {
	ID        string              `json:"id"`
	Type      AppNotificationType `json:"type"`
	Key       string              `json:"key"`
	Message   string              `json:"message"`
	ChainID   types.ChainID       `json:"chainId,omitempty"`
	TxHash    string              `json:"txHash,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Notifier keeps the latest app notifications
type Notifier struct {
	cfg           Config
	mu            sync.Mutex
	notifications []AppNotification
	now           func() time.Time
}

func NewNotifier(cfg Config) *Notifier {
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	return &Notifier{cfg: cfg, now: time.Now}
}

// Translate returns the message of key in the configured locale, falling
// back to english and then to the key itself
func (n *Notifier) Translate(key string) string {
	if msg, ok := translations[n.cfg.Locale][key]; ok {
		return msg
	}
	if msg, ok := translations[defaultLocale][key]; ok {
		return msg
	}
	return key
}

// PushError adds a localized error notification about a transaction
func (n *Notifier) PushError(key string, chainID types.ChainID, txHash string) AppNotification {
	notification := AppNotification{
		ID:        uuid.NewString(),
		Type:      AppNotificationTypeError,
		Key:       key,
		Message:   n.Translate(key),
		ChainID:   chainID,
		TxHash:    txHash,
		CreatedAt: n.now(),
	}
	log.Warnf("notification %s: %s (chain %d, tx %s)", notification.ID, notification.Message, chainID, txHash)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	if n.cfg.MaxNotifications > 0 && len(n.notifications) > n.cfg.MaxNotifications {
		n.notifications = n.notifications[len(n.notifications)-n.cfg.MaxNotifications:]
	}
	return notification
}

// Notifications returns the kept notifications, oldest first
func (n *Notifier) Notifications() []AppNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]AppNotification(nil), n.notifications...)
}

// Dismiss removes the notification with id
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, notification := range n.notifications {
		if notification.ID == id {
			n.notifications = append(n.notifications[:i], n.notifications[i+1:]...)
			return
		}
	}
}
