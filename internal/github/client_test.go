package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticCredentials credentials.Credentials

func (s staticCredentials) Load() (credentials.Credentials, error) {
	return credentials.Credentials(s), nil
}

func newTestClient(t *testing.T, mux *http.ServeMux, creds credentials.Credentials) *Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second},
		staticCredentials(creds), zaptest.NewLogger(t))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

var testCreds = credentials.Credentials{Username: "octocat", Token: "secret"}

func TestClient_NotConfigured(t *testing.T) {
	client := newTestClient(t, http.NewServeMux(), credentials.Credentials{Username: "octocat"})

	_, err := client.ListBranches(context.Background(), "demo")
	require.ErrorIs(t, err, credentials.ErrNotConfigured)
}

func TestClient_CreateRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo", body["name"])
		assert.Equal(t, true, body["private"])
		assert.Equal(t, false, body["auto_init"])

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"name":      "demo",
			"full_name": "octocat/demo",
			"private":   true,
			"html_url":  "https://github.com/octocat/demo",
		})
	})

	client := newTestClient(t, mux, testCreds)

	repo, err := client.CreateRepository(context.Background(), CreateRepositoryRequest{Name: "demo", Private: true})
	require.NoError(t, err)
	assert.Equal(t, "octocat/demo", repo.FullName)
	assert.True(t, repo.Private)
}

func TestClient_ListRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("direction"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "100", q.Get("per_page"))

		writeJSON(t, w, http.StatusOK, []map[string]any{{"name": "a"}, {"name": "b"}})
	})

	client := newTestClient(t, mux, testCreds)

	repos, err := client.ListRepositories(context.Background(), ListRepositoriesRequest{Page: 2, PerPage: 500})
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "a", repos[0].Name)
}

func TestClient_ListBranches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/demo/branches", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"name": "main", "commit": map[string]any{"sha": "abc"}, "protected": true},
		})
	})

	client := newTestClient(t, mux, testCreds)

	branches, err := client.ListBranches(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, []Branch{{Name: "main", SHA: "abc", Protected: true}}, branches)
}

func TestClient_CreateIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octocat/demo/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bug", body["title"])
		assert.NotContains(t, body, "body")

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"number":   7,
			"title":    "Bug",
			"state":    "open",
			"html_url": "https://github.com/octocat/demo/issues/7",
			"labels":   []map[string]any{{"name": "bug"}},
		})
	})

	client := newTestClient(t, mux, testCreds)

	issue, err := client.CreateIssue(context.Background(), CreateIssueRequest{
		Repo:   "demo",
		Title:  "Bug",
		Labels: []string{"bug"},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, issue.Number)
	assert.Equal(t, []string{"bug"}, issue.Labels)
}

func TestClient_PullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/demo/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"number": 1, "head": map[string]any{"ref": "feature"}, "base": map[string]any{"ref": "main"}},
		})
	})
	mux.HandleFunc("POST /repos/octocat/demo/pulls", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Merge feature into main", body["title"])
		assert.Equal(t, "Automated PR: Merging feature into main", body["body"])

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"number": 2,
			"title":  body["title"],
			"head":   map[string]any{"ref": "feature"},
			"base":   map[string]any{"ref": "main"},
		})
	})

	client := newTestClient(t, mux, testCreds)
	ctx := context.Background()

	prs, err := client.ListPullRequests(ctx, "demo", "all")
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, "feature", prs[0].Head)

	pr, err := client.CreatePullRequest(ctx, CreatePullRequestRequest{Repo: "demo", Head: "feature", Base: "main"})
	require.NoError(t, err)
	assert.Equal(t, 2, pr.Number)
	assert.Equal(t, "main", pr.Base)
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/missing/branches", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	mux.HandleFunc("POST /repos/octocat/demo/issues", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{"message": "Validation Failed"})
	})

	client := newTestClient(t, mux, testCreds)
	ctx := context.Background()

	_, err := client.ListBranches(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = client.CreateIssue(ctx, CreateIssueRequest{Repo: "demo", Title: "x"})
	require.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "Validation Failed")
}
