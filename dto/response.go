package dto

// Response is the envelope every API handler returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(data interface{}, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error builds an error envelope.
func Error(message string) Response {
	return Response{Success: false, Message: message}
}
