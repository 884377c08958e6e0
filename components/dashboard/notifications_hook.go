package dashboard

import "context"

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, channel string, event StateEvent) error
}

// NotificationsHook forwards state events to an external notifications client.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
	// Reasons limits forwarding to the listed reasons. Empty forwards everything.
	Reasons []string
}

var _ RefreshHook = (*NotificationsHook)(nil)

// StateChanged publishes events to the configured notifications client.
func (h *NotificationsHook) StateChanged(ctx context.Context, event StateEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if len(h.Reasons) > 0 && !containsString(h.Reasons, event.Reason) {
		return nil
	}
	channel := h.Channel
	if channel == "" {
		channel = "carbon.dashboard." + event.SessionID
	}
	return h.Client.PublishDashboardEvent(ctx, channel, event)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
