package api

import (
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/ports"
)

// errorEnvelope is the backend's error shape: a single message plus an
// optional field-to-messages map for validation failures.
type errorEnvelope struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// classifyError maps a non-2xx JSON response onto the error taxonomy. The
// original status code and a human-readable message are always preserved.
func classifyError(status int, raw []byte) *ports.APIError {
	var envelope errorEnvelope
	_ = json.Unmarshal(raw, &envelope)

	message := extractMessage(envelope, raw)

	if status == http.StatusUnauthorized {
		return &ports.APIError{Kind: ports.KindAuth, Status: status, Message: message}
	}

	if status == http.StatusUnprocessableEntity || len(envelope.Errors) > 0 {
		return &ports.APIError{
			Kind:    ports.KindValidation,
			Status:  status,
			Message: message,
			Fields:  envelope.Errors,
		}
	}

	return &ports.APIError{Kind: ports.KindServer, Status: status, Message: message}
}

func extractMessage(envelope errorEnvelope, raw []byte) string {
	// Field-level messages win: surface the first one.
	for _, messages := range envelope.Errors {
		if len(messages) > 0 {
			return messages[0]
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	var direct string
	if err := json.Unmarshal(raw, &direct); err == nil && direct != "" {
		return direct
	}
	return "an error occurred"
}
