package dto

// Action names an operation on the legacy single endpoint.
type Action string

const (
	ActionGetAll Action = "getAll"
	ActionGet    Action = "get"
	ActionStats  Action = "stats"
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionRequest is the POST body of the legacy endpoint.
type ActionRequest struct {
	Action Action `json:"action"`
	ID     ID     `json:"id"`
	TransactionRequest
}
