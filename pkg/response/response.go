package response

// Response is the envelope every API endpoint answers with
type Response struct {
	Status     string `json:"status"`      // "success" or "error"
	StatusCode int    `json:"status_code"` // HTTP status code
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

type MessageData struct {
	Message string `json:"message"`
}

func Success(statusCode int, data any) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Message is a success envelope carrying only a human-readable confirmation.
func Message(statusCode int, msg string) Response {
	return Success(statusCode, MessageData{Message: msg})
}

func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
