package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	notificationservice "quorum/contexts/community-experience/notification-service"
	notificationerrors "quorum/contexts/community-experience/notification-service/domain/errors"
	notificationports "quorum/contexts/community-experience/notification-service/ports"
	accountservice "quorum/contexts/identity-access/account-service"
	accounterrors "quorum/contexts/identity-access/account-service/domain/errors"
	accounthttp "quorum/contexts/identity-access/account-service/transport/http"
	answerservice "quorum/contexts/knowledge-base/answer-service"
	answererrors "quorum/contexts/knowledge-base/answer-service/domain/errors"
	answerhttp "quorum/contexts/knowledge-base/answer-service/transport/http"
	questionservice "quorum/contexts/knowledge-base/question-service"
	questionerrors "quorum/contexts/knowledge-base/question-service/domain/errors"
	questionports "quorum/contexts/knowledge-base/question-service/ports"
	questionhttp "quorum/contexts/knowledge-base/question-service/transport/http"
	votingengine "quorum/contexts/knowledge-base/voting-engine"
	votingerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	votinghttp "quorum/contexts/knowledge-base/voting-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "quorum/internal/platform/httpserver/docs"
)

// TokenVerifier resolves a bearer token to the authenticated account ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	tokens        TokenVerifier
	accounts      accountservice.Module
	questions     questionservice.Module
	answers       answerservice.Module
	voting        votingengine.Module
	notifications notificationservice.Module
}

type Modules struct {
	Accounts      accountservice.Module
	Questions     questionservice.Module
	Answers       answerservice.Module
	Voting        votingengine.Module
	Notifications notificationservice.Module
}

func New(modules Modules, tokens TokenVerifier, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		tokens:        tokens,
		accounts:      modules.Accounts,
		questions:     modules.Questions,
		answers:       modules.Answers,
		voting:        modules.Voting,
		notifications: modules.Notifications,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/users/{user_id}", s.handleProfile)

	s.mux.HandleFunc("POST /api/questions", s.handleAskQuestion)
	s.mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	s.mux.HandleFunc("GET /api/questions/{question_id}", s.handleGetQuestion)
	s.mux.HandleFunc("PUT /api/questions/{question_id}", s.handleUpdateQuestion)
	s.mux.HandleFunc("DELETE /api/questions/{question_id}", s.handleDeleteQuestion)

	s.mux.HandleFunc("POST /api/questions/{question_id}/answers", s.handlePostAnswer)
	s.mux.HandleFunc("GET /api/questions/{question_id}/answers", s.handleListAnswers)
	s.mux.HandleFunc("GET /api/answers/{answer_id}", s.handleGetAnswer)
	s.mux.HandleFunc("PUT /api/answers/{answer_id}", s.handleUpdateAnswer)
	s.mux.HandleFunc("DELETE /api/answers/{answer_id}", s.handleDeleteAnswer)

	s.mux.HandleFunc("POST /api/questions/{question_id}/vote", s.handleVoteQuestion)
	s.mux.HandleFunc("POST /api/answers/{answer_id}/vote", s.handleVoteAnswer)
	s.mux.HandleFunc("POST /api/questions/{question_id}/answers/{answer_id}/accept", s.handleAcceptAnswer)

	s.mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	s.mux.HandleFunc("GET /api/notifications/unread-count", s.handleUnreadCount)
	s.mux.HandleFunc("POST /api/notifications/{notification_id}/read", s.handleMarkNotificationRead)
	s.mux.HandleFunc("POST /api/notifications/read-all", s.handleMarkAllNotificationsRead)
}

// authenticate resolves the Authorization header to an account ID. An empty
// string with a nil error means the request carried no credentials.
func (s *Server) authenticate(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	accountID, err := s.tokens.VerifyToken(strings.TrimSpace(token))
	if err != nil {
		return "", err
	}
	return accountID, nil
}

// requireActor is authenticate for endpoints that reject anonymous callers.
func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "bearer token is invalid or expired")
		return "", false
	}
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing_token", "authentication is required")
		return "", false
	}
	return actorID, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "bearer token is invalid or expired")
		return
	}
	resp, err := s.accounts.Handler.ProfileHandler(r.Context(), r.PathValue("user_id"), viewerID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req questionhttp.AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.questions.Handler.AskHandler(r.Context(), actorID, req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := questionports.ListFilter{
		Tag:    query.Get("tag"),
		Limit:  parseIntParam(query.Get("limit")),
		Offset: parseIntParam(query.Get("offset")),
	}
	resp, err := s.questions.Handler.ListHandler(r.Context(), filter)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	resp, err := s.questions.Handler.GetHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req questionhttp.UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.questions.Handler.UpdateHandler(r.Context(), actorID, r.PathValue("question_id"), req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	if err := s.questions.Handler.DeleteHandler(r.Context(), actorID, r.PathValue("question_id")); err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePostAnswer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req answerhttp.PostAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.answers.Handler.PostHandler(r.Context(), actorID, r.PathValue("question_id"), req)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.answers.Handler.ListByQuestionHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnswer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.answers.Handler.GetHandler(r.Context(), r.PathValue("answer_id"))
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req answerhttp.UpdateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.answers.Handler.UpdateHandler(r.Context(), actorID, r.PathValue("answer_id"), req)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	if err := s.answers.Handler.DeleteHandler(r.Context(), actorID, r.PathValue("answer_id")); err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVoteQuestion(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req votinghttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.VoteQuestionHandler(r.Context(), actorID, r.PathValue("question_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteAnswer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req votinghttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.VoteAnswerHandler(r.Context(), actorID, r.PathValue("answer_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptAnswer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.AcceptAnswerHandler(
		r.Context(),
		actorID,
		r.PathValue("question_id"),
		r.PathValue("answer_id"),
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	filter := notificationports.ListFilter{
		UnreadOnly: query.Get("unread") == "true",
		Limit:      parseIntParam(query.Get("limit")),
		Offset:     parseIntParam(query.Get("offset")),
	}
	resp, err := s.notifications.Handler.ListHandler(r.Context(), actorID, filter)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	count, err := s.notifications.Service.UnreadCount(r.Context(), actorID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), actorID, r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkAllReadHandler(r.Context(), actorID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, accounterrors.ErrUsernameTaken),
		errors.Is(err, accounterrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "already_taken", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accounterrors.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeQuestionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionerrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, questionerrors.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "question_not_found", err.Error())
	case errors.Is(err, questionerrors.ErrNotAuthor):
		writeError(w, http.StatusForbidden, "not_author", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAnswerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, answererrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, answererrors.ErrAnswerNotFound):
		writeError(w, http.StatusNotFound, "answer_not_found", err.Error())
	case errors.Is(err, answererrors.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "question_not_found", err.Error())
	case errors.Is(err, answererrors.ErrNotAuthor):
		writeError(w, http.StatusForbidden, "not_author", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// Self-votes map to 400 rather than 403: the route is valid and the caller
// is authenticated, the request itself is malformed for that caller.
func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidVoteAction),
		errors.Is(err, votingerrors.ErrInvalidVoteInput),
		errors.Is(err, votingerrors.ErrInvalidAcceptInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, votingerrors.ErrSelfVoteForbidden):
		writeError(w, http.StatusBadRequest, "self_vote_forbidden", err.Error())
	case errors.Is(err, votingerrors.ErrAnswerMismatch):
		writeError(w, http.StatusBadRequest, "answer_mismatch", err.Error())
	case errors.Is(err, votingerrors.ErrTargetNotFound),
		errors.Is(err, votingerrors.ErrQuestionNotFound),
		errors.Is(err, votingerrors.ErrAnswerNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, votingerrors.ErrNotQuestionAuthor):
		writeError(w, http.StatusForbidden, "not_question_author", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidInput),
		errors.Is(err, notificationerrors.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrNotRecipient):
		writeError(w, http.StatusForbidden, "not_recipient", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
