package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ngrokProbeAttempts = 10
	ngrokProbeInterval = 3 * time.Second
)

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// detectNgrokURL polls the ngrok local API until a tunnel shows up and
// returns its public URL, preferring HTTPS. Used in development when no
// webhook URL is configured.
func detectNgrokURL(ctx context.Context, apiBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	for attempt := 1; ; attempt++ {
		url, err := probeNgrok(ctx, client, apiBase+"/api/tunnels")
		if err == nil && url != "" {
			return url, nil
		}
		if attempt >= ngrokProbeAttempts {
			if err != nil {
				return "", fmt.Errorf("ngrok API not reachable after %d attempts: %w", ngrokProbeAttempts, err)
			}
			return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", ngrokProbeAttempts)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(ngrokProbeInterval):
		}
	}
}

func probeNgrok(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Tunnels []ngrokTunnel `json:"tunnels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	for _, t := range body.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(body.Tunnels) > 0 {
		return body.Tunnels[0].PublicURL, nil
	}
	return "", nil
}
