package llm

import (
	"fmt"
	"net/url"
	"time"
)

// Bounds for common request parameters, validated consistently across
// providers.
const (
	// DefaultMaxTokens caps answer length when the caller sets no limit.
	DefaultMaxTokens = 1024

	// MinTemperature and MaxTemperature bound the sampling temperature.
	// The upper bound is 2.0 to accommodate Gemini.
	MinTemperature = 0.0
	MaxTemperature = 2.0

	// MinTimeout and MaxTimeout bound the per-request deadline.
	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the standardized parameter set extracted from the
// open-ended per-call options map. Unrecognized keys are forwarded
// unchanged through Extra.
type RequestOptions struct {
	// MaxTokens caps the number of generated tokens.
	MaxTokens int
	// Model overrides the client's configured model for one call.
	Model string
	// Temperature controls output randomness; nil uses the provider default.
	Temperature *float64
	// Extra carries backend-specific options not standardized above.
	Extra map[string]any
}

// ParseRequestOptions extracts standardized parameters from an options
// map, falling back to defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens),
		Model:     extractString(opts, "model", defaultModel),
		Extra:     make(map[string]any),
	}

	if temp, ok := extractFloat64(opts, "temperature"); ok && temp >= MinTemperature && temp <= MaxTemperature {
		options.Temperature = &temp
	}

	for k, v := range opts {
		switch k {
		case "max_tokens", "model", "temperature":
			// Standard options, already handled.
		default:
			options.Extra[k] = v
		}
	}

	return options
}

func extractString(opts map[string]any, key, fallback string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func extractInt(opts map[string]any, key string, fallback int) int {
	switch v := opts[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return fallback
}

func extractFloat64(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// ValidateBaseURL checks that an endpoint override is an http(s) URL
// with a host. An empty string is valid and means "use the default".
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout into the [MinTimeout, MaxTimeout]
// range. Zero or negative means the default should be used and returns
// zero.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// clampFloat64 restricts a value to [min, max].
func clampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
