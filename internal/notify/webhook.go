// SPDX-License-Identifier: BSD-3-Clause

// Package notify forwards mirror change events to an external HTTP
// endpoint.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ldapmirror/ldapmirror/internal/config"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// WebhookNotifier POSTs one JSON [models.EntryEvent] per mirror change
// to a configured endpoint. It implements the engine's handler
// capabilities for entry events; registration with the session is all
// the wiring it needs.
//
// Delivery is best effort: a failed POST is logged and dropped, never
// fatal to synchronization. Handlers run on the goroutine driving the
// session, so the request timeout bounds how long a slow endpoint can
// stall protocol progress.
type WebhookNotifier struct {
	client *resty.Client
	log    *logger.Logger
}

// NewWebhookNotifier validates cfg.URL and constructs a notifier
// posting to it.
func NewWebhookNotifier(cfg config.Webhook, log *logger.Logger) (*WebhookNotifier, error) {
	endpoint, err := normalizeEndpoint(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}

	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(cfg.Timeout)

	return &WebhookNotifier{client: client, log: log}, nil
}

func normalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("address must include an http or https scheme")
	}
	if u.Host == "" {
		return "", fmt.Errorf("address must include a host")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (n *WebhookNotifier) post(event models.EntryEvent) {
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post("")
	if err != nil {
		n.log.Err(err).
			Str("func", "WebhookNotifier.post").
			Str("kind", string(event.Kind)).
			Str("uuid", event.UUID).
			Msg("webhook delivery failed")
		return
	}
	if resp.IsError() {
		n.log.Error().
			Str("func", "WebhookNotifier.post").
			Str("kind", string(event.Kind)).
			Str("uuid", event.UUID).
			Int("status", resp.StatusCode()).
			Msg("webhook endpoint rejected event")
	}
}

func (n *WebhookNotifier) EntryCreated(e models.Entry) {
	n.post(models.EntryEvent{
		Kind:       models.ChangeCreated,
		UUID:       e.UUID.String(),
		DN:         e.DN,
		Attrs:      e.Attrs,
		ObservedAt: time.Now().UTC(),
	})
}

func (n *WebhookNotifier) EntryUpdated(e models.Entry, old models.Attributes) {
	n.post(models.EntryEvent{
		Kind:       models.ChangeUpdated,
		UUID:       e.UUID.String(),
		DN:         e.DN,
		Attrs:      e.Attrs,
		OldAttrs:   old,
		ObservedAt: time.Now().UTC(),
	})
}

func (n *WebhookNotifier) EntryDeleted(e models.Entry) {
	n.post(models.EntryEvent{
		Kind:       models.ChangeDeleted,
		UUID:       e.UUID.String(),
		DN:         e.DN,
		ObservedAt: time.Now().UTC(),
	})
}

func (n *WebhookNotifier) EntryRenamed(oldDN string, e models.Entry) {
	n.post(models.EntryEvent{
		Kind:       models.ChangeRenamed,
		UUID:       e.UUID.String(),
		DN:         e.DN,
		OldDN:      oldDN,
		ObservedAt: time.Now().UTC(),
	})
}
