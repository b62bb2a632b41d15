package api

import "fmt"

// APIError is the normalized failure of every REST operation. Status holds
// the HTTP status code, or 0 for network-level failures and 408 for
// client-side timeouts.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// UserMessage resolves the status class into the advisory text shown by the
// session.
func (e *APIError) UserMessage() string {
	switch {
	case e.Status == 0:
		return "Cannot reach the planning service. Check your connection."
	case e.Status == 408:
		return "The request timed out. Please try again."
	case e.Status == 404:
		return "Plan not found."
	case e.Status >= 500:
		return "The planning service ran into a problem. Please try again later."
	default:
		return e.Message
	}
}
