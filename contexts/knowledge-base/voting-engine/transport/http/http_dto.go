package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VoteRequest carries the requested action. The field name matches the
// public wire contract consumed by existing clients.
type VoteRequest struct {
	VoteType string `json:"voteType"`
}

// VoteResponse returns the recomputed score under the legacy "votes" key.
type VoteResponse struct {
	Votes int `json:"votes"`
}

type AcceptAnswerResponse struct {
	Message string `json:"message"`
}
