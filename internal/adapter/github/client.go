package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	acceptJSON = "application/vnd.github+json"
	acceptDiff = "application/vnd.github.v3.diff"

	// perPage is the page size used when listing comments.
	perPage = 100
)

// Client is an HTTP client for the GitHub issue-comment and
// review-comment endpoints.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  httpx.RetryConfig
	logger     httpx.Logger
}

// NewClient creates a GitHub API client. The token is a personal access
// token or the GITHUB_TOKEN provided to a workflow run.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  httpx.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (GitHub Enterprise, tests).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig overrides the default retry behavior.
func (c *Client) SetRetryConfig(conf httpx.RetryConfig) {
	c.retryConf = conf
}

// SetLogger attaches a structured logger for request/response logging.
func (c *Client) SetLogger(logger httpx.Logger) {
	c.logger = logger
}

// GetPullRequest fetches pull-request metadata; the head commit SHA is
// required when creating review comments.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (HeadRef, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	body, err := c.do(ctx, http.MethodGet, url, acceptJSON, nil)
	if err != nil {
		return HeadRef{}, err
	}

	var pr pullRequestResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return HeadRef{}, fmt.Errorf("parse pull request response: %w", err)
	}
	return HeadRef{SHA: pr.Head.SHA}, nil
}

// HeadRef identifies the head commit of a pull request.
type HeadRef struct {
	SHA string
}

// FetchDiff retrieves the full unified diff of a pull request using the
// diff media type.
func (c *Client) FetchDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	body, err := c.do(ctx, http.MethodGet, url, acceptDiff, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListIssueComments returns every conversation-level comment on the
// pull request, following pagination.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]domain.IssueComment, error) {
	var comments []domain.IssueComment

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments?per_page=%d&page=%d",
			c.baseURL, owner, repo, number, perPage, page)

		body, err := c.do(ctx, http.MethodGet, url, acceptJSON, nil)
		if err != nil {
			return nil, err
		}

		var batch []issueCommentResponse
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("parse issue comments response: %w", err)
		}
		for _, item := range batch {
			comments = append(comments, domain.IssueComment{ID: item.ID, Body: item.Body})
		}
		if len(batch) < perPage {
			return comments, nil
		}
	}
}

// CreateIssueComment posts a conversation-level comment.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.baseURL, owner, repo, number)

	_, err := c.do(ctx, http.MethodPost, url, acceptJSON, createIssueCommentRequest{Body: body})
	return err
}

// DeleteIssueComment removes a conversation-level comment by ID.
func (c *Client) DeleteIssueComment(ctx context.Context, owner, repo string, commentID int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/comments/%d", c.baseURL, owner, repo, commentID)

	_, err := c.do(ctx, http.MethodDelete, url, acceptJSON, nil)
	return err
}

// ListReviewComments returns every inline review comment on the pull
// request, following pagination.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]domain.RemoteComment, error) {
	var comments []domain.RemoteComment

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments?per_page=%d&page=%d",
			c.baseURL, owner, repo, number, perPage, page)

		body, err := c.do(ctx, http.MethodGet, url, acceptJSON, nil)
		if err != nil {
			return nil, err
		}

		var batch []reviewCommentResponse
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("parse review comments response: %w", err)
		}
		for _, item := range batch {
			comments = append(comments, domain.RemoteComment{
				ID: item.ID,
				Comment: domain.Comment{
					Path: item.Path,
					Line: item.Line,
					Body: item.Body,
				},
			})
		}
		if len(batch) < perPage {
			return comments, nil
		}
	}
}

// CreateReviewComment posts an inline review comment addressed by the
// new-revision line number on the RIGHT side of the diff.
func (c *Client) CreateReviewComment(ctx context.Context, owner, repo string, number int, commitSHA string, comment domain.Comment) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments", c.baseURL, owner, repo, number)

	_, err := c.do(ctx, http.MethodPost, url, acceptJSON, createReviewCommentRequest{
		Body:     comment.Body,
		CommitID: commitSHA,
		Path:     comment.Path,
		Line:     comment.Line,
		Side:     "RIGHT",
	})
	return err
}

// DeleteReviewComment removes an inline review comment by ID.
func (c *Client) DeleteReviewComment(ctx context.Context, owner, repo string, commentID int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%d", c.baseURL, owner, repo, commentID)

	_, err := c.do(ctx, http.MethodDelete, url, acceptJSON, nil)
	return err
}

// do executes one API call with retry, returning the response body.
// Failures surface as typed httpx errors so the retry loop can tell
// transient from permanent.
func (c *Client) do(ctx context.Context, method, url, accept string, payload interface{}) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = encoded
	}

	var respBody []byte
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if reqBody != nil {
			reader = bytes.NewReader(reqBody)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, url, reader)
		if reqErr != nil {
			return httpx.NewUnknownError(serviceName, reqErr.Error())
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		if c.logger != nil {
			c.logger.LogRequest(ctx, httpx.RequestLog{
				Service:   serviceName,
				Method:    method,
				URL:       url,
				Timestamp: start,
				Token:     c.token,
			})
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			// Could be a timeout or a network error; both are worth retrying.
			apiErr := httpx.NewTimeoutError(serviceName, callErr.Error())
			c.logFailure(ctx, method, url, start, apiErr)
			return apiErr
		}
		defer resp.Body.Close()

		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			apiErr := &httpx.Error{
				Type:       httpx.ErrTypeUnknown,
				Message:    fmt.Sprintf("read response: %v", readErr),
				StatusCode: resp.StatusCode,
				Retryable:  true,
				Service:    serviceName,
			}
			c.logFailure(ctx, method, url, start, apiErr)
			return apiErr
		}

		if resp.StatusCode >= 400 {
			apiErr := MapHTTPError(resp.StatusCode, bodyBytes)
			c.logFailure(ctx, method, url, start, apiErr)
			return apiErr
		}

		if c.logger != nil {
			c.logger.LogResponse(ctx, httpx.ResponseLog{
				Service:    serviceName,
				Method:     method,
				URL:        url,
				Timestamp:  start,
				Duration:   time.Since(start),
				StatusCode: resp.StatusCode,
			})
		}

		respBody = bodyBytes
		return nil
	}, c.retryConf)

	if err != nil {
		return nil, err
	}
	return respBody, nil
}

func (c *Client) logFailure(ctx context.Context, method, url string, start time.Time, apiErr *httpx.Error) {
	if c.logger == nil {
		return
	}
	c.logger.LogError(ctx, httpx.ErrorLog{
		Service:    serviceName,
		Method:     method,
		URL:        url,
		Timestamp:  start,
		Duration:   time.Since(start),
		Error:      apiErr,
		ErrorType:  apiErr.Type,
		StatusCode: apiErr.StatusCode,
		Retryable:  apiErr.Retryable,
	})
}
