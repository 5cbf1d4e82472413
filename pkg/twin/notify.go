package twin

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

type NotificationKind string

const (
	NotifyHealthChanged   NotificationKind = "HealthChanged"
	NotifyAnomalyRaised   NotificationKind = "AnomalyRaised"
	NotifyCommandUpdated  NotificationKind = "CommandUpdated"
	NotifyCommandTimedOut NotificationKind = "CommandTimedOut"
)

type Notification struct {
	Kind      NotificationKind `json:"kind"`
	TwinID    string           `json:"twin_id,omitempty"`
	DeviceID  string           `json:"device_id,omitempty"`
	CommandID string           `json:"command_id,omitempty"`
	OldState  string           `json:"old_state,omitempty"`
	NewState  string           `json:"new_state,omitempty"`
	Severity  models.Severity  `json:"severity,omitempty"`
	Alarm     bool             `json:"alarm"`
	Message   string           `json:"message,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Hub fans notifications out to subscribers over bounded channels.
// Delivery is at-least-once and a full subscriber drops its oldest
// pending notification rather than blocking a state machine.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]chan Notification
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan Notification)}
}

func (h *Hub) Subscribe(name string, capacity int) <-chan Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	if capacity < 1 {
		capacity = 1
	}
	ch := make(chan Notification, capacity)
	h.subscribers[name] = ch
	return ch
}

func (h *Hub) Unsubscribe(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, exists := h.subscribers[name]; exists {
		close(ch)
		delete(h.subscribers, name)
	}
}

func (h *Hub) Publish(n Notification) {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryNotify),
	)

	h.mu.Lock()
	defer h.mu.Unlock()

	for name, ch := range h.subscribers {
		offer(name, ch, n, logger)
	}
}

func offer(name string, ch chan Notification, n Notification, logger *zap.Logger) {
	for {
		select {
		case ch <- n:
			return
		default:
		}
		// subscriber full, evict its oldest and retry
		select {
		case dropped := <-ch:
			logger.Warn("Subscriber queue full, dropped oldest notification",
				zap.String("subscriber", name),
				zap.Reflect("dropped", dropped))
		default:
		}
	}
}

// LogNotifications drains a hub subscription into the structured log,
// alarms at warn level, until ctx is cancelled or the subscription is
// closed. It is the operator channel when no push transport is wired.
func LogNotifications(ctx context.Context, hub *Hub, name string, capacity int) {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryNotify),
	)

	ch := hub.Subscribe(name, capacity)
	defer hub.Unsubscribe(name)

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			fields := []zap.Field{
				zap.String("kind", string(n.Kind)),
				zap.String("twin_id", n.TwinID),
				zap.String("device_id", n.DeviceID),
				zap.String("command_id", n.CommandID),
				zap.String("old_state", n.OldState),
				zap.String("new_state", n.NewState),
				zap.Time("timestamp", n.Timestamp),
			}
			if n.Alarm {
				logger.Warn("Operator notification", fields...)
			} else {
				logger.Info("Operator notification", fields...)
			}
		}
	}
}
