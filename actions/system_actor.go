package actions

import (
	"context"
	"fmt"
	"log"
	"time"
)

type MonitorType string

const (
	SystemMetric MonitorType = "system"
)

// Action defines the type of action to be taken when a metric reaches its limit
type Action string

const (
	Notify Action = "notify"
)

// SystemNotification is the JSON document sent to webhooks and archived to object storage.
type SystemNotification struct {
	Type      MonitorType `json:"monitor-type"`
	NodeId    string      `json:"node-id"`
	TimeStamp string      `json:"time-stamp"`
	Actions   []Action    `json:"actions"`
	Subject   string      `json:"subject"`
	Message   string      `json:"message"`
}

func NewSystemNotification(nodeId, subject, body string, at time.Time) SystemNotification {
	return SystemNotification{
		Type:      SystemMetric,
		NodeId:    nodeId,
		TimeStamp: at.Format(time.RFC3339),
		Actions:   []Action{Notify},
		Subject:   subject,
		Message:   body,
	}
}

// Sender delivers one notification through one channel (email, webhook, object store).
type Sender interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// Notifier is called by the monitor once per breach. It reports success and
// never returns an error or panics into the caller.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) bool
}

// Actor fans a notification out to every configured sender.
type Actor struct {
	senders []Sender
	timeout time.Duration
}

// NewActor bounds every Send by timeout; zero disables the bound.
func NewActor(timeout time.Duration, senders ...Sender) *Actor {
	return &Actor{senders: senders, timeout: timeout}
}

// Notify returns true only if every sender delivered.
func (a *Actor) Notify(ctx context.Context, subject, body string) bool {
	ok := true
	for _, sender := range a.senders {
		if err := a.send(ctx, sender, subject, body); err != nil {
			log.Printf("[WARN] notification via %s failed: %v", sender.Name(), err)
			ok = false
			continue
		}
		log.Printf("[ACTION] Notify via %s: %s", sender.Name(), subject)
	}
	return ok
}

// send runs the sender on its own goroutine so a sender that ignores its
// context still cannot hold the caller past the timeout.
func (a *Actor) send(ctx context.Context, sender Sender, subject, body string) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- sender.Send(ctx, subject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender only writes the notification to the log. It is used when no
// outbound channel is configured.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(_ context.Context, subject, body string) error {
	log.Printf("Notification: %s\n%s", subject, body)
	return nil
}

var _ Notifier = (*Actor)(nil)
