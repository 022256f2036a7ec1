// ABOUTME: HTTP probe for a site's REST API root.
// ABOUTME: Checks the base URL answers with a JSON descriptor before init saves it.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProbeSite checks that the base URL serves a JSON API descriptor. The context
// allows cancellation when the user quits during the probe.
func ProbeSite(ctx context.Context, baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("site returned %d: %s", resp.StatusCode, string(body))
	}

	var descriptor map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		return fmt.Errorf("base URL does not serve a JSON API descriptor: %w", err)
	}
	return nil
}
