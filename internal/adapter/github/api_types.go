package github

// GitHub REST API wire types.
// See: https://docs.github.com/en/rest/issues/comments and
// https://docs.github.com/en/rest/pulls/comments

// User represents a GitHub user in API responses.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"` // "User" or "Bot"
}

// issueCommentResponse is one element of
// GET /repos/{owner}/{repo}/issues/{number}/comments.
type issueCommentResponse struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	User User   `json:"user"`
}

// createIssueCommentRequest is the body for
// POST /repos/{owner}/{repo}/issues/{number}/comments.
type createIssueCommentRequest struct {
	Body string `json:"body"`
}

// reviewCommentResponse is one element of
// GET /repos/{owner}/{repo}/pulls/{number}/comments.
type reviewCommentResponse struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
	User User   `json:"user"`
}

// createReviewCommentRequest is the body for
// POST /repos/{owner}/{repo}/pulls/{number}/comments.
type createReviewCommentRequest struct {
	Body     string `json:"body"`
	CommitID string `json:"commit_id"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Side     string `json:"side"`
}

// pullRequestResponse is the subset of
// GET /repos/{owner}/{repo}/pulls/{number} the adapter needs.
type pullRequestResponse struct {
	Number int `json:"number"`
	Head   struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// apiErrorResponse represents an error response from the GitHub API.
type apiErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
