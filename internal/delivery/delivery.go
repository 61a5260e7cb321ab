// Package delivery pushes the rendered digest to its destinations: stdout,
// a file, and/or a Slack-style webhook. Destinations are independent; one
// failure does not stop the others.
package delivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"headliner/internal/core"
	"headliner/internal/logger"
	"headliner/internal/render"
)

// Options selects destinations. Empty File and WebhookURL disable those
// targets.
type Options struct {
	Stdout     bool
	File       string
	WebhookURL string
	Timeout    time.Duration
}

// Deliverer sends rendered digests out.
type Deliverer struct {
	opts   Options
	client *http.Client
	out    io.Writer
}

// NewDeliverer creates a deliverer writing stdout output to os.Stdout.
func NewDeliverer(opts Options) *Deliverer {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Deliverer{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		out:    os.Stdout,
	}
}

// Deliver renders and sends the digest to every configured destination.
// The returned error joins per-destination failures; partial delivery is
// still delivery.
func (d *Deliverer) Deliver(ranked []core.RankedCluster, now time.Time) error {
	markdown := render.MarkdownDigest(ranked, now)

	var errs []error

	if d.opts.Stdout {
		if _, err := fmt.Fprint(d.out, markdown); err != nil {
			errs = append(errs, fmt.Errorf("stdout delivery failed: %w", err))
		}
	}

	if d.opts.File != "" {
		if err := d.writeFile(markdown); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Digest written", "path", d.opts.File)
		}
	}

	if d.opts.WebhookURL != "" {
		if err := d.postWebhook(ranked, now); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Digest posted to webhook")
		}
	}

	return errors.Join(errs...)
}

func (d *Deliverer) writeFile(markdown string) error {
	dir := filepath.Dir(d.opts.File)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(d.opts.File, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write digest file: %w", err)
	}
	return nil
}

// webhookPayload is the Slack-compatible message body.
type webhookPayload struct {
	Text string `json:"text"`
}

func (d *Deliverer) postWebhook(ranked []core.RankedCluster, now time.Time) error {
	payload := webhookPayload{Text: render.SlackText(ranked, now, 20)}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := d.client.Post(d.opts.WebhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to post to webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

