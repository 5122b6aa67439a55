package serverutils

// ApiResponse is the uniform success envelope for every JSON endpoint.
type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ApiError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Message: message, Data: data}
}

func ErrorResponse(code int, message string) ApiError {
	return ApiError{Success: false, Code: code, Message: message}
}
