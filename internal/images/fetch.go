// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NewHTTPFetch returns a FetchFunc that downloads persisted image
// content over HTTP. Image storage is public (S3-style), so no auth
// header is attached; caching is bypassed so the re-uploaded content
// matches what the backend currently serves.
func NewHTTPFetch(timeout time.Duration) FetchFunc {
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, url string) ([]byte, string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, "", fmt.Errorf("building image request: %w", err)
		}
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("fetching image: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("fetching image: status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileSize+1))
		if err != nil {
			return nil, "", fmt.Errorf("reading image body: %w", err)
		}
		return data, resp.Header.Get("Content-Type"), nil
	}
}
