package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NotificationResponse struct {
	NotificationID string `json:"notification_id"`
	SenderID       string `json:"sender_id,omitempty"`
	Type           string `json:"type"`
	QuestionID     string `json:"question_id,omitempty"`
	AnswerID       string `json:"answer_id,omitempty"`
	VoteAction     string `json:"vote_action,omitempty"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"created_at"`
}

type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	Total       int                    `json:"total"`
	UnreadCount int                    `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}
