package request

type ProcessAuditRequest struct {
	UserQuery string `json:"user_query"`
}
