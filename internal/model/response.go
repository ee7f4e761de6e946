package model

// Envelope messages. Partial means the screen rendered with one of its two calls failed.
const (
	MessageSuccess = "Success"
	MessagePartial = "Partial"
	MessageError   = "Error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Data    any     `json:"data,omitempty"`
	Error   *string `json:"error,omitempty"`
	Message string  `json:"message"`
}

func SuccessResponse(data any) Response {
	return Response{Data: data, Message: MessageSuccess}
}

// ErrorResponse carries errMsg and, when the screen still has something to show, data.
func ErrorResponse(data any, errMsg string) Response {
	return Response{Data: data, Error: &errMsg, Message: MessageError}
}
