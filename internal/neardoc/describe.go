package neardoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/neardoc/internal/apiclient"
	"github.com/wolfman30/neardoc/internal/domain"
)

// Describe renders err for display. Business failures keep the server's
// message verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var business *domain.BusinessError
	if errors.As(err, &business) {
		return business.Error()
	}
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		parts := make([]string, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			parts = append(parts, f.String())
		}
		return strings.Join(parts, "; ")
	}

	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, apiclient.ErrInvalidEndpoint):
		return "Invalid URL"
	case errors.Is(err, apiclient.ErrNoData):
		return "No data received"
	case errors.Is(err, apiclient.ErrDecoding):
		return "Failed to decode data"
	case errors.Is(err, apiclient.ErrEncoding):
		return "Failed to encode request"
	case errors.Is(err, apiclient.ErrUnexpectedStatus) && errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Server returned status %d", apiErr.StatusCode)
	case errors.Is(err, apiclient.ErrNetwork):
		return "Network error. Check your connection and try again"
	default:
		return err.Error()
	}
}
