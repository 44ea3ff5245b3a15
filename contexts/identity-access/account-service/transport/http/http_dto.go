package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountResponse struct {
	AccountID      string `json:"account_id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Reputation     int    `json:"reputation"`
	QuestionsAsked int    `json:"questions_asked"`
	AnswersGiven   int    `json:"answers_given"`
	CreatedAt      string `json:"created_at"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}
