// Package notify carries user-facing notices raised by the journey and
// delivers templated notifications by email or SMS.
package notify

import (
	"context"
	"sync"

	"loan-journey-workers/internal/common/logger"
)

type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

// Notification is a short notice shown to the applicant.
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier receives notices. Delivery is advisory and never gates the
// journey.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Collector keeps notices in memory so a job can return them to the caller.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(_ context.Context, n Notification) error {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
	return nil
}

// Notifications returns everything collected so far.
func (c *Collector) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// LogNotifier writes notices to the log.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("journey notice", map[string]interface{}{
		"title":    n.Title,
		"message":  n.Message,
		"severity": string(n.Severity),
	})
	return nil
}

// Fanout delivers to every notifier and returns the first error.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) error {
	var first error
	for _, nt := range f {
		if err := nt.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
