package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diff-annotate/internal/adapter/github"
	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*github.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient("test-token")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(httpx.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	})
	return client, server
}

func TestFetchDiff(t *testing.T) {
	const diffText = `diff --git a/lib/main.dart b/lib/main.dart
--- a/lib/main.dart
+++ b/lib/main.dart
@@ -1,1 +1,2 @@
 ctx
+added
`

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/app/pulls/7", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3.diff", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		_, _ = w.Write([]byte(diffText))
	}))

	got, err := client.FetchDiff(context.Background(), "acme", "app", 7)

	require.NoError(t, err)
	assert.Equal(t, diffText, got)
}

func TestListIssueComments_Pagination(t *testing.T) {
	pageSize := 100
	first := make([]map[string]interface{}, pageSize)
	for i := range first {
		first[i] = map[string]interface{}{"id": i + 1, "body": "comment"}
	}
	second := []map[string]interface{}{{"id": 999, "body": "last"}}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			_ = json.NewEncoder(w).Encode(first)
		case "2":
			_ = json.NewEncoder(w).Encode(second)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))

	comments, err := client.ListIssueComments(context.Background(), "acme", "app", 7)

	require.NoError(t, err)
	assert.Len(t, comments, pageSize+1)
	assert.Equal(t, int64(999), comments[pageSize].ID)
}

func TestCreateReviewComment_UsesLineSchema(t *testing.T) {
	var captured map[string]interface{}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/app/pulls/7/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	err := client.CreateReviewComment(context.Background(), "acme", "app", 7, "abc123", domain.Comment{
		Path: "lib/main.dart",
		Line: 10,
		Body: "<table></table>",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", captured["commit_id"])
	assert.Equal(t, "lib/main.dart", captured["path"])
	assert.Equal(t, float64(10), captured["line"])
	assert.Equal(t, "RIGHT", captured["side"])
}

func TestDeleteReviewComment(t *testing.T) {
	deleted := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/repos/acme/app/pulls/comments/42", r.URL.Path)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.DeleteReviewComment(context.Background(), "acme", "app", 42)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestListReviewComments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 5, "path": "lib/main.dart", "line": 10, "body": "b", "user": {"login": "bot"}},
			{"id": 6, "path": "lib/app.dart", "line": null, "body": "legacy", "user": {"login": "bot"}}
		]`))
	}))

	comments, err := client.ListReviewComments(context.Background(), "acme", "app", 7)

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, domain.RemoteComment{
		ID:      5,
		Comment: domain.Comment{Path: "lib/main.dart", Line: 10, Body: "b"},
	}, comments[0])
	// A null line (legacy position comment) decodes to zero.
	assert.Equal(t, 0, comments[1].Line)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.ListIssueComments(context.Background(), "acme", "app", 7)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))

	err := client.CreateIssueComment(context.Background(), "acme", "app", 7, "body")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, &httpx.Error{Type: httpx.ErrTypeInvalidRequest})
}

func TestPullRequest_FetchDiffBuildsFileDiffs(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`diff --git a/lib/main.dart b/lib/main.dart
--- a/lib/main.dart
+++ b/lib/main.dart
@@ -1,1 +1,2 @@
 ctx
+added
`))
	}))

	pr := client.PullRequest("acme", "app", 7)
	d, err := pr.FetchDiff(context.Background())

	require.NoError(t, err)
	require.Len(t, d.Files, 1)
	assert.Equal(t, "lib/main.dart", d.Files[0].Path)
}

func TestPullRequest_CreateReviewCommentResolvesHeadOnce(t *testing.T) {
	headFetches := 0
	creates := 0

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/app/pulls/7":
			headFetches++
			_, _ = w.Write([]byte(`{"number": 7, "head": {"sha": "abc123"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/app/pulls/7/comments":
			creates++
			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "abc123", req["commit_id"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 1}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	pr := client.PullRequest("acme", "app", 7)
	require.NoError(t, pr.CreateReviewComment(context.Background(), domain.Comment{Path: "a", Line: 1, Body: "b"}))
	require.NoError(t, pr.CreateReviewComment(context.Background(), domain.Comment{Path: "a", Line: 2, Body: "c"}))

	assert.Equal(t, 1, headFetches)
	assert.Equal(t, 2, creates)
}
