// Copyright (c) 2026 Satori HQ. All rights reserved.

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/satori-hq/nft-series/internal/platform/ctxutil"
)

// deliveryTimeout bounds a single webhook round trip. Receivers that take
// longer are treated as having requested a revert.
const deliveryTimeout = 10 * time.Second

// maxResponseBytes caps how much of the receiver's response body is read.
const maxResponseBytes = 1 << 10

// Endpoints resolves the webhook URL registered for an account.
type Endpoints interface {
	Lookup(ctx context.Context, account string) (string, bool, error)
}

// Notification is the JSON body delivered to receiver endpoints.
type Notification struct {
	SenderID        string `json:"sender_id"`
	PreviousOwnerID string `json:"previous_owner_id"`
	TokenID         string `json:"token_id"`
	Msg             string `json:"msg"`
}

// Notifier delivers transfer-call notifications over HTTP.
type Notifier struct {
	endpoints Endpoints
	client    *http.Client
}

// NewNotifier creates a Notifier resolving endpoints via the given directory.
func NewNotifier(endpoints Endpoints) *Notifier {
	return &Notifier{
		endpoints: endpoints,
		client:    &http.Client{Timeout: deliveryTimeout},
	}
}

// OnTransfer notifies the receiving account that a token landed on it.
//
// The returned revert flag is true when the receiver wants the token sent
// back. Missing registrations, delivery failures, non-2xx statuses and
// unparseable responses all count as a revert: an unreachable receiver must
// never keep a token its owner cannot recover.
func (notifier *Notifier) OnTransfer(ctx context.Context, receiver, sender, previousOwner, tokenID, msg string) (bool, error) {
	logger := ctxutil.GetLogger(ctx)

	url, found, err := notifier.endpoints.Lookup(ctx, receiver)
	if err != nil {
		return true, fmt.Errorf("webhook: receiver lookup failed: %w", err)
	}
	if !found {
		logger.WarnContext(ctx, "webhook_receiver_unregistered",
			slog.String("receiver", receiver),
			slog.String("token_id", tokenID),
		)
		return true, nil
	}

	body, err := json.Marshal(Notification{
		SenderID:        sender,
		PreviousOwnerID: previousOwner,
		TokenID:         tokenID,
		Msg:             msg,
	})
	if err != nil {
		return true, fmt.Errorf("webhook: failed to marshal notification: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return true, fmt.Errorf("webhook: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := notifier.client.Do(request)
	if err != nil {
		logger.WarnContext(ctx, "webhook_delivery_failed",
			slog.String("receiver", receiver),
			slog.String("token_id", tokenID),
			slog.Any("error", err),
		)
		return true, nil
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		logger.WarnContext(ctx, "webhook_rejected",
			slog.String("receiver", receiver),
			slog.Int("status", response.StatusCode),
		)
		return true, nil
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return true, nil
	}

	// The receiver must answer with a bare JSON boolean: true to return the
	// token, false to keep it. Anything else reverts.
	var revert bool
	if err := json.Unmarshal(bytes.TrimSpace(raw), &revert); err != nil {
		logger.WarnContext(ctx, "webhook_response_unparseable",
			slog.String("receiver", receiver),
			slog.String("body", string(raw)),
		)
		return true, nil
	}

	return revert, nil
}
