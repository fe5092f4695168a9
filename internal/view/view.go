package view

// Response is the uniform success envelope.
type Response[T any] struct {
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the uniform failure envelope. Body echoes the rejected
// request payload when one was parsed.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Body    interface{} `json:"body,omitempty"`
}

// CreateResponse builds the wire envelope for a handler result. When err is
// non-nil the error envelope wins regardless of data.
func CreateResponse[T any](data T, err error, body any, msg string) any {
	if err != nil {
		return ErrorResponse{
			Error:   err.Error(),
			Message: msg,
			Body:    body,
		}
	}
	return Response[T]{
		Data:    data,
		Message: msg,
	}
}
