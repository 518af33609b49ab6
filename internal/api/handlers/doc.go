package handlers

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is the body of the probe endpoints. Checks maps each
// readiness dependency to "ok" or its error.
type StatusResponse struct {
	Status string            `json:"status"           example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
