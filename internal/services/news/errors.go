package news

import (
	"fmt"
	"time"
)

// APIError represents an error response from the Naver Open API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("naver API error: %s (status: %d)", e.Message, e.StatusCode)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("naver rate limit exceeded, retry after %v", e.RetryAfter)
}
