// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package webhook delivers transfer-call notifications to receiving accounts.

An account that wants to react to incoming transfer-calls registers an HTTPS
endpoint in the receiver directory (a Redis hash). When a transfer-call lands
a token on that account, the notifier POSTs the transfer details to the
endpoint and interprets the response as the receiver's verdict: a bare JSON
`true` means "return the token to the previous owner". Any delivery failure
or unparseable response is treated as a revert, so a broken receiver can
never strand a token.
*/
package webhook

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/satori-hq/nft-series/internal/platform/constants"
)

// Directory maps receiving accounts to their registered webhook endpoints.
type Directory struct {
	client *redis.Client
}

// NewDirectory creates a Directory backed by the given Redis client.
func NewDirectory(client *redis.Client) *Directory {
	return &Directory{client: client}
}

// Register stores or replaces the endpoint URL for the account.
func (directory *Directory) Register(ctx context.Context, account, url string) error {
	return directory.client.HSet(ctx, constants.RedisKeyReceivers, account, url).Err()
}

// Lookup returns the endpoint URL registered for the account.
// The second return value is false if the account has no registered endpoint.
func (directory *Directory) Lookup(ctx context.Context, account string) (string, bool, error) {
	url, err := directory.client.HGet(ctx, constants.RedisKeyReceivers, account).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// Unregister removes the endpoint registered for the account.
func (directory *Directory) Unregister(ctx context.Context, account string) error {
	return directory.client.HDel(ctx, constants.RedisKeyReceivers, account).Err()
}
