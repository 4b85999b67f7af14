// Package notify sends best-effort desktop notifications. Failures are the
// caller's to log; they must never block or fail event creation.
package notify

import (
	"github.com/gen2brain/beeep"
)

// Send shows a transient system notification.
func Send(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Alert shows a notification with the platform's error urgency.
func Alert(title, message string) error {
	return beeep.Alert(title, message, "")
}
