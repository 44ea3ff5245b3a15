package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PostAnswerRequest struct {
	Body string `json:"body"`
}

type UpdateAnswerRequest struct {
	Body string `json:"body"`
}

type AnswerResponse struct {
	AnswerID   string `json:"answer_id"`
	QuestionID string `json:"question_id"`
	AuthorID   string `json:"author_id"`
	Body       string `json:"body"`
	Score      int    `json:"score"`
	IsAccepted bool   `json:"is_accepted"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type AnswerListResponse struct {
	Items []AnswerResponse `json:"items"`
	Total int              `json:"total"`
}
