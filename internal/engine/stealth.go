package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// UserAgentBot identifies plain API fetches that do not need a browser UA.
const UserAgentBot = "GoYTSum/1.0"

// Re-export stealth retry and header helpers for engine consumers.
var DefaultRetryConfig = stealth.DefaultRetryConfig

func RandomUserAgent() string { return stealth.RandomUserAgent() }

func RetryHTTP(ctx context.Context, rc stealth.RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}
