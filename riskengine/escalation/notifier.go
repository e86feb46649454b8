package escalation

import (
	"context"
)

// Interface for a type that can handle sending alert notifications
type Notifier interface {
	SendAlert(ctx context.Context, alert *Alert) error
}
