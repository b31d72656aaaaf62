package response

// ErrorResponse is the uniform error body for every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

func NewErrorResponse(errName, detail string, statusCode int) ErrorResponse {
	return ErrorResponse{
		Error:      errName,
		Detail:     detail,
		StatusCode: statusCode,
	}
}
