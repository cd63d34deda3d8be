package common

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewCorrelationID generates an opaque correlation id for action tracing
func NewCorrelationID() string {
	return uuid.New().String()
}

// URLHash returns the SHA-256 hex digest of a URL, used as a stable item id
func URLHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
