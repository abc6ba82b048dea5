package request

// RegisterRequest is the request body for registering a participant
type RegisterRequest struct {
	Name string `json:"name"`
}

// SendMessageRequest is the request body for sending or editing a message
type SendMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}
