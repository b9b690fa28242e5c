package provider

// ErrorEnvelope is the provider's structured error body. The provider can
// report it with any HTTP status, including 200 for some validation
// failures, so classification works on the body alone.
type ErrorEnvelope struct {
	Error *APIError `json:"error"`
}

// APIError carries the provider-reported failure detail.
type APIError struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}
