package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PageEnvelope is the list payload: a page of rows plus the store's pagination metadata.
type PageEnvelope[T any, P any] struct {
	Data       []T `json:"data"`
	Pagination P   `json:"pagination"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
