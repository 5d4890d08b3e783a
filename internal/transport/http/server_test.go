package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsvc "learningpal/internal/app"
	"learningpal/internal/bootstrap"
	"learningpal/internal/config"
	"learningpal/internal/learning"
	"learningpal/internal/llm"
	"learningpal/internal/platform/logger"
	"learningpal/internal/repository"
	httptransport "learningpal/internal/transport/http"
	"learningpal/internal/transport/http/response"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	provider *llm.MockProvider
	app      *bootstrap.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "server.db"))
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("GIN_MODE", gin.TestMode)
	t.Setenv("APP_STATIC_DIR", "")
	t.Setenv("TRACING_EXPORTER", "none")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("MFA_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	a, err := bootstrap.New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	provider := llm.NewMockProvider()
	a.LearningService = appsvc.NewLearningService(
		repository.NewLearningSessionRepository(a.DB),
		provider,
		learning.NewNormalizer(),
		appsvc.LearningOptions{},
		logger.NewNop(),
	)

	return &testServer{t: t, router: httptransport.NewRouter(a), provider: provider, app: a}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) (int, envelope) {
	s.t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(s.t, http.StatusOK, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func generateBody() map[string]string {
	return map[string]string{
		"topic":         "Go channels",
		"goal":          "Pass the concurrency interview",
		"level":         "Intermediate",
		"learningStyle": "Practice Quizzes",
	}
}

type generateData struct {
	SessionID string            `json:"session_id"`
	Content   learning.Material `json:"content"`
	Error     bool              `json:"error"`
	Stage     string            `json:"stage"`
}

func TestLearningSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner")
	other := s.register("other")

	s.provider.AddResponse(llm.MockResponse{
		Text: "```json\n" + `{"flashcards":[{"question":"Q","answer":"A"},],"quiz":[],"studyGuide":"S","assignment":"X"}` + "\n```",
	})
	status, env := s.do(http.MethodPost, "/api/v1/learning/generate", owner, generateBody())
	require.Equal(t, http.StatusOK, status, env.Message)

	var created generateData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.SessionID)
	assert.False(t, created.Error)
	assert.Equal(t, string(learning.StageRepaired), created.Stage)
	assert.Equal(t, []learning.Flashcard{{Question: "Q", Answer: "A"}}, created.Content.Flashcards)
	assert.Equal(t, "S", created.Content.StudyGuide)

	status, env = s.do(http.MethodGet, "/api/v1/learning/sessions", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Sessions []struct {
			SessionID     string `json:"session_id"`
			Topic         string `json:"topic"`
			LearningStyle string `json:"learning_style"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, created.SessionID, list.Sessions[0].SessionID)
	assert.Equal(t, "Practice Quizzes", list.Sessions[0].LearningStyle)

	status, env = s.do(http.MethodGet, "/api/v1/learning/sessions/"+created.SessionID, owner, nil)
	require.Equal(t, http.StatusOK, status)
	var fetched generateData
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created.Content, fetched.Content)

	status, env = s.do(http.MethodGet, "/api/v1/learning/sessions/"+created.SessionID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeSessionNotFound, env.Code)

	status, _ = s.do(http.MethodDelete, "/api/v1/learning/sessions/"+created.SessionID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodDelete, "/api/v1/learning/sessions/"+created.SessionID, owner, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/learning/sessions/"+created.SessionID, owner, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeSessionNotFound, env.Code)
}

func TestGenerateUpstreamFailureReturnsErrorMaterial(t *testing.T) {
	s := newTestServer(t)
	token := s.register("learner")

	// The mock has no queued response, so the call fails like a network error.
	status, env := s.do(http.MethodPost, "/api/v1/learning/generate", token, generateBody())
	require.Equal(t, http.StatusOK, status, env.Message)

	var created generateData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Error)
	assert.Equal(t, string(learning.StageUpstreamError), created.Stage)
	assert.Equal(t, learning.UpstreamFailureMaterial(), created.Content)
}

func TestGenerateRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)
	token := s.register("learner")

	body := generateBody()
	delete(body, "goal")
	status, env := s.do(http.MethodPost, "/api/v1/learning/generate", token, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.CodeBadRequest, env.Code)
	assert.Contains(t, env.Message, "goal")
	assert.Zero(t, s.provider.CallCount())
}

func TestLearningRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/learning/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, response.CodeUnauthorized, env.Code)
}

func TestAuthMe(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ada")

	status, env := s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ada", me.Username)

	status, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ada", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, response.CodeInvalidCredentials, env.Code)

	status, env = s.do(http.MethodPost, "/api/v1/auth/mfa/verify", "", map[string]string{"mfa_token": "x", "code": "123456"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, response.CodeMFADisabled, env.Code)
}

func TestSourceDocumentUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.register("reader")

	upload := func(filename, content string) (int, envelope) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/learning/source-document", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		return s.serve(req)
	}

	status, env := upload("notes.txt", "Channels block.\n\n\nSelect multiplexes.")
	require.Equal(t, http.StatusOK, status, env.Message)
	var data struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Channels block.\n\nSelect multiplexes.", data.Text)

	status, env = upload("notes.docx", "x")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.CodeUnsupportedFile, env.Code)

	status, _ = upload("empty.txt", "   ")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Dependencies map[string]struct {
			OK      bool   `json:"ok"`
			Message string `json:"message"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Dependencies["database"].OK)
	assert.Equal(t, "disabled", body.Dependencies["redis"].Message)
	assert.Equal(t, "disabled", body.Dependencies["rabbitmq"].Message)
}
