package repos_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/scaffold"
	historyhandler "github.com/gitpilot/gitpilot/internal/server/handlers/history"
	reposhandler "github.com/gitpilot/gitpilot/internal/server/handlers/repos"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type noCredentials struct{}

func (noCredentials) Load() (credentials.Credentials, error) {
	return credentials.Credentials{}, nil
}

type unavailableTemplates struct{}

func (unavailableTemplates) Fetch(_ context.Context, _ string) (string, error) {
	return "", scaffold.ErrTemplateUnavailable
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zaptest.NewLogger(t)
	v := validator.New()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gitSvc := git.NewService(git.Config{
		Author: git.AuthorConfig{Name: "Test Author", Email: "test@example.com"},
	}, logger)
	reposSvc := repos.NewService(repos.Config{WorkspaceDir: t.TempDir()}, gitSvc, noCredentials{}, nil, logger)
	scaffoldSvc := scaffold.NewService(reposSvc, unavailableTemplates{}, logger)
	historySvc := history.NewService(history.Config{}, history.NewRepository(db, history.Config{}), logger)

	app := fiber.New()
	reposhandler.NewHandler(reposSvc, scaffoldSvc, historySvc, v, logger).Register(app)
	historyhandler.NewHandler(historySvc, reposSvc, v, logger).Register(app)

	return app
}

func call(t *testing.T, app *fiber.App, method, target string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(payload))
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if resp.StatusCode < http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}

	return resp.StatusCode, env
}

func TestHandler_Workflow(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/repos/init", map[string]any{"repo_path": "demo"})
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	var initResp reposhandler.InitResponse
	require.NoError(t, json.Unmarshal(env.Data, &initResp))
	assert.True(t, initResp.Created)
	assert.NotEmpty(t, initResp.Warning)

	status, _ = call(t, app, http.MethodPost, "/repos/add-file", map[string]any{
		"repo_path": "demo",
		"file_name": "README.md",
		"content":   "# Demo\n",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, env = call(t, app, http.MethodPost, "/repos/commit", map[string]any{
		"repo_path":      "demo",
		"commit_message": "Add readme",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	var commitResp reposhandler.CommitResponse
	require.NoError(t, json.Unmarshal(env.Data, &commitResp))
	assert.Equal(t, string(repos.CommitCreated), commitResp.Outcome)
	assert.Len(t, commitResp.ShortHash, 7)

	status, env = call(t, app, http.MethodPost, "/repos/commit", map[string]any{
		"repo_path":      "demo",
		"commit_message": "Again",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &commitResp))
	assert.Equal(t, string(repos.NothingToCommit), commitResp.Outcome)

	status, env = call(t, app, http.MethodGet, "/repos/read-file?repo_path=demo&file_name=README.md", nil)
	require.Equal(t, fiber.StatusOK, status)
	var contents reposhandler.ContentsResponse
	require.NoError(t, json.Unmarshal(env.Data, &contents))
	assert.Equal(t, "# Demo\n", contents.Contents)

	status, env = call(t, app, http.MethodGet, "/repos/status?repo_path=demo", nil)
	require.Equal(t, fiber.StatusOK, status)
	var statusResp reposhandler.StatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &statusResp))
	assert.False(t, statusResp.IsDirty)

	status, env = call(t, app, http.MethodGet, "/history?repo_path=demo", nil)
	require.Equal(t, fiber.StatusOK, status)
	var entries []historyhandler.EntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "commit", entries[0].Operation)
	assert.Equal(t, "init", entries[3].Operation)
}

func TestHandler_GenerateGitignoreFallback(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodPost, "/repos/init", map[string]any{"repo_path": "web"})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, http.MethodPost, "/repos/add-file", map[string]any{
		"repo_path": "web",
		"file_name": "package.json",
		"content":   "{}",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, env := call(t, app, http.MethodGet, "/repos/detect-project-type?repo_path=web", nil)
	require.Equal(t, fiber.StatusOK, status)
	var types reposhandler.ProjectTypesResponse
	require.NoError(t, json.Unmarshal(env.Data, &types))
	assert.Equal(t, []string{scaffold.TypeNode}, types.ProjectTypes)

	status, env = call(t, app, http.MethodPost, "/repos/download-gitignore", map[string]any{"repo_path": "web"})
	require.Equal(t, fiber.StatusOK, status)
	var ignore reposhandler.IgnoreResponse
	require.NoError(t, json.Unmarshal(env.Data, &ignore))
	assert.Equal(t, string(scaffold.OriginLocal), ignore.Origin)
	assert.NotEmpty(t, ignore.Warning)
}

func TestHandler_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{name: "missing repo path", method: http.MethodPost, target: "/repos/init", body: map[string]any{}, want: fiber.StatusBadRequest},
		{
			name:   "repository not found",
			method: http.MethodGet,
			target: "/repos/list-files?" + url.Values{"repo_path": {"nowhere"}}.Encode(),
			want:   fiber.StatusNotFound,
		},
		{
			name:   "empty batch",
			method: http.MethodPost,
			target: "/repos/add-files",
			body:   map[string]any{"repo_path": "x", "files": []any{}},
			want:   fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestHandler_CreateBranchOverLocalChanges(t *testing.T) {
	app := newTestApp(t)

	steps := []struct {
		target string
		body   map[string]any
	}{
		{target: "/repos/init", body: map[string]any{"repo_path": "demo"}},
		{target: "/repos/add-file", body: map[string]any{"repo_path": "demo", "file_name": "README.md", "content": "# Demo\n"}},
		{target: "/repos/commit", body: map[string]any{"repo_path": "demo", "commit_message": "Add readme"}},
		{target: "/repos/create-branch", body: map[string]any{"repo_path": "demo", "branch_name": "base"}},
		{target: "/repos/create-branch", body: map[string]any{"repo_path": "demo", "branch_name": "feature"}},
		{target: "/repos/add-file", body: map[string]any{"repo_path": "demo", "file_name": "f.txt", "content": "feature"}},
		{target: "/repos/commit", body: map[string]any{"repo_path": "demo", "commit_message": "Add f.txt"}},
		{target: "/repos/add-file", body: map[string]any{"repo_path": "demo", "file_name": "README.md", "content": "# Edited\n"}},
	}
	for _, step := range steps {
		status, _ := call(t, app, http.MethodPost, step.target, step.body)
		require.Equal(t, fiber.StatusOK, status, step.target)
	}

	status, _ := call(t, app, http.MethodPost, "/repos/create-branch", map[string]any{
		"repo_path":   "demo",
		"branch_name": "base",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, env := call(t, app, http.MethodGet, "/repos/status?repo_path=demo", nil)
	require.Equal(t, fiber.StatusOK, status)
	var statusResp reposhandler.StatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &statusResp))
	assert.Equal(t, "feature", statusResp.CurrentBranch)
	assert.True(t, statusResp.IsDirty)
}
