package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AskQuestionRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

type UpdateQuestionRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

type QuestionResponse struct {
	QuestionID        string   `json:"question_id"`
	AuthorID          string   `json:"author_id"`
	Title             string   `json:"title"`
	Body              string   `json:"body"`
	Tags              []string `json:"tags"`
	Score             int      `json:"score"`
	AnswerCount       int      `json:"answer_count"`
	AcceptedAnswerID  string   `json:"accepted_answer_id,omitempty"`
	HasAcceptedAnswer bool     `json:"has_accepted_answer"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type QuestionListResponse struct {
	Items []QuestionResponse `json:"items"`
	Total int                `json:"total"`
}
