package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured indicates no API credential is configured; callers fall
// back to rule-based narrative text.
var ErrNotConfigured = errors.New("ai client not configured")
