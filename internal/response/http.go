package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// WarningResponse is returned when a validation gate rejects input. Fields
// lists the offending form fields.
type WarningResponse struct {
	Success bool     `json:"success"`
	Warning string   `json:"warning"`
	Fields  []string `json:"fields,omitempty"`
}
