// Package notify sends fire-and-forget HTTP notifications for controller
// events. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// Notifier posts plain-text HTTP notifications for selected controller events.
type Notifier struct {
	url          string
	title        string
	onComplete   bool
	onDisconnect bool
	client       *http.Client
}

// New creates a Notifier. machine is used as the X-Title header; if empty,
// "NovaMotion" is used instead.
func New(notifURL, machine string, onComplete, onDisconnect bool) *Notifier {
	title := "NovaMotion"
	if machine != "" {
		title = machine
	}
	return &Notifier{
		url:          notifURL,
		title:        title,
		onComplete:   onComplete,
		onDisconnect: onDisconnect,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook inspects one decoded controller event and fires asynchronous POSTs for
// events that match the configured notification flags. It never blocks the
// event path.
func (n *Notifier) Hook(ev protocol.Event) {
	switch ev.Type {
	case protocol.EventCalibrationUpdate:
		if n.onComplete && ev.Calibration != nil && ev.Calibration.Complete() {
			go n.post(completionMessage(ev.Calibration))
		}
	case protocol.EventClosed:
		if n.onDisconnect {
			go n.post(disconnectMessage(ev.Reason))
		}
	}
}

// completionMessage summarizes a terminal calibration update. The attached
// result document may be missing or malformed; the notification still fires.
func completionMessage(u *protocol.CalibrationUpdate) string {
	r, err := calibration.ParseResult(u.Results)
	if err != nil {
		return "Calibration complete"
	}
	s := r.Summary()
	if !s.Success {
		return "Calibration finished: controller reported failure"
	}
	return fmt.Sprintf("Calibration complete: %d parameters tuned", s.Parameters)
}

func disconnectMessage(reason string) string {
	if reason == "" {
		return "Connection to the controller lost"
	}
	return "Connection to the controller lost: " + reason
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never disturb the dashboard.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
