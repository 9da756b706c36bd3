// Package notify forwards healing outcomes to the external channels a
// SelfHealingPolicy opts into.
package notify

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	goslack "github.com/slack-go/slack"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
)

// SlackNotifier posts healing outcomes to an incoming webhook. Unlike a
// bot-token client it needs no channel argument — the webhook URL
// already encodes the destination channel.
type SlackNotifier struct {
	log logr.Logger
}

// NewSlackNotifier builds a notifier. There is no per-instance webhook
// URL: each call takes the URL from the policy that produced the event,
// since different policies may notify different channels.
func NewSlackNotifier(log logr.Logger) *SlackNotifier {
	return &SlackNotifier{log: log}
}

// Outcome is the subset of a HealingEvent's result a notification cares
// about.
type Outcome struct {
	Namespace   string
	PodName     string
	Success     bool
	RootCause   string
	Message     string
	DurationMs  int64
}

// Notify posts an outcome summary to cfg's configured channels. A nil or
// disabled cfg is a no-op, matching the original's opt-in notification
// behavior.
func (n *SlackNotifier) Notify(ctx context.Context, cfg *v1alpha1.NotificationConfig, outcome Outcome) error {
	if cfg == nil || !cfg.Enabled || cfg.SlackWebhook == nil || *cfg.SlackWebhook == "" {
		return nil
	}

	msg := &goslack.WebhookMessage{
		Text: fmt.Sprintf("%s healing %s/%s: %s", resultEmoji(outcome.Success), outcome.Namespace, outcome.PodName, outcome.Message),
		Attachments: []goslack.Attachment{
			{
				Color: resultColor(outcome.Success),
				Fields: []goslack.AttachmentField{
					{Title: "Root cause", Value: outcome.RootCause, Short: false},
					{Title: "Duration (ms)", Value: fmt.Sprintf("%d", outcome.DurationMs), Short: true},
				},
			},
		},
	}

	if err := goslack.PostWebhookContext(ctx, *cfg.SlackWebhook, msg); err != nil {
		n.log.Error(err, "failed to post slack notification", "namespace", outcome.Namespace, "pod", outcome.PodName)
		return err
	}
	return nil
}

func resultEmoji(success bool) string {
	if success {
		return ":white_check_mark:"
	}
	return ":x:"
}

func resultColor(success bool) string {
	if success {
		return "good"
	}
	return "danger"
}
