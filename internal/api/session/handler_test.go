package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/formatter"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/futig/code-companion/internal/repository"
	"github.com/futig/code-companion/internal/usecase/companion"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var csharp = entity.SourceLanguage{Name: "C#", FenceTag: "csharp", Extension: ".cs", TestFramework: "xUnit"}

type stubCompletion struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubCompletion) Complete(_ context.Context, p entity.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "```csharp\n// commented\nclass A {}\n```", nil
}

func (s *stubCompletion) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestRouter(t *testing.T, llm companion.CompletionClient) http.Handler {
	t.Helper()

	uploadCfg := config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20}
	uc := companion.NewUsecase(repository.NewSessionMemory(0, time.Minute), llm, csharp, uploadCfg.MaxFileSize, zap.NewNop())
	h := NewHandler(uc, uploadCfg, validator.NewFileValidator(uploadCfg, ".cs"), formatter.NewFactory(".cs"), nil)

	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

type upload struct {
	name    string
	content string
}

func multipartBody(t *testing.T, files ...upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile(uploadField, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func createSession(t *testing.T, router http.Handler) entity.SessionDTO {
	t.Helper()

	body, contentType := multipartBody(t, upload{"Program.cs", "class A {}"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto entity.SessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func runAction(router http.Handler, sessionID string, action entity.ActionKind) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/actions/%s", sessionID, action), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateSession(t *testing.T) {
	router := newTestRouter(t, &stubCompletion{})

	t.Run("single source file", func(t *testing.T) {
		dto := createSession(t, router)
		assert.NotEmpty(t, dto.ID)
		assert.Equal(t, "Program.cs", dto.Filename)
		assert.Equal(t, "C#", dto.Language)
		assert.Equal(t, "class A {}", dto.Source)
		assert.Empty(t, dto.CachedActions)
	})

	tests := []struct {
		name  string
		files []upload
	}{
		{"multiple files", []upload{{"A.cs", "class A {}"}, {"B.cs", "class B {}"}}},
		{"wrong extension", []upload{{"main.go", "package main"}}},
		{"empty file", []upload{{"A.cs", ""}}},
		{"no file", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.files...)
			req := httptest.NewRequest(http.MethodPost, "/sessions/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestRunAction(t *testing.T) {
	llm := &stubCompletion{}
	router := newTestRouter(t, llm)
	session := createSession(t, router)

	t.Run("first call computes, second is cached", func(t *testing.T) {
		rec := runAction(router, session.ID, entity.ActionAddComments)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var first entity.ActionResultDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
		assert.False(t, first.Cached)
		assert.Equal(t, entity.OutputCode, first.Format)
		assert.Equal(t, "csharp", first.Language)
		assert.Equal(t, "// commented\nclass A {}", first.Result)
		assert.Empty(t, first.HTML)

		rec = runAction(router, session.ID, entity.ActionAddComments)
		require.Equal(t, http.StatusOK, rec.Code)

		var second entity.ActionResultDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
		assert.True(t, second.Cached)
		assert.Equal(t, first.Result, second.Result)
		assert.Equal(t, 1, llm.count())
	})

	t.Run("markdown result carries html", func(t *testing.T) {
		rec := runAction(router, session.ID, entity.ActionExplain)
		require.Equal(t, http.StatusOK, rec.Code)

		var dto entity.ActionResultDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, entity.OutputMarkdown, dto.Format)
		assert.Contains(t, dto.HTML, "<pre><code")
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := runAction(router, session.ID, "refactor")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := runAction(router, "missing", entity.ActionExplain)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRunAction_ServiceErrorIsRetried(t *testing.T) {
	llm := &stubCompletion{err: fmt.Errorf("%w: %w", entity.ErrServiceError, errors.New("connection refused"))}
	router := newTestRouter(t, llm)
	session := createSession(t, router)

	rec := runAction(router, session.ID, entity.ActionSuggestImprovements)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Details, "connection refused")

	llm.mu.Lock()
	llm.err = nil
	llm.mu.Unlock()

	rec = runAction(router, session.ID, entity.ActionSuggestImprovements)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, llm.count())
}

func TestUploadSource_ClearsCachedActions(t *testing.T) {
	llm := &stubCompletion{}
	router := newTestRouter(t, llm)
	session := createSession(t, router)

	require.Equal(t, http.StatusOK, runAction(router, session.ID, entity.ActionGenerateTests).Code)

	body, contentType := multipartBody(t, upload{"Other.cs", "class B {}"})
	req := httptest.NewRequest(http.MethodPut, "/sessions/"+session.ID+"/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto entity.SessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "Other.cs", dto.Filename)
	assert.Empty(t, dto.CachedActions)

	require.Equal(t, http.StatusOK, runAction(router, session.ID, entity.ActionGenerateTests).Code)
	assert.Equal(t, 2, llm.count())
}

func TestExportResult(t *testing.T) {
	router := newTestRouter(t, &stubCompletion{})
	session := createSession(t, router)

	export := func(action entity.ActionKind, format string) *httptest.ResponseRecorder {
		url := fmt.Sprintf("/sessions/%s/actions/%s/export?format=%s", session.ID, action, format)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		return rec
	}

	assert.Equal(t, http.StatusNotFound, export(entity.ActionAddComments, "source").Code)

	require.Equal(t, http.StatusOK, runAction(router, session.ID, entity.ActionAddComments).Code)
	require.Equal(t, http.StatusOK, runAction(router, session.ID, entity.ActionExplain).Code)

	rec := export(entity.ActionAddComments, "source")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "// commented\nclass A {}\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".cs")

	rec = export(entity.ActionAddComments, "markdown")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "```csharp")

	assert.Equal(t, http.StatusBadRequest, export(entity.ActionExplain, "source").Code)
	assert.Equal(t, http.StatusBadRequest, export(entity.ActionExplain, "html").Code)
}

func TestResetAndDeleteSession(t *testing.T) {
	router := newTestRouter(t, &stubCompletion{})
	session := createSession(t, router)
	require.Equal(t, http.StatusOK, runAction(router, session.ID, entity.ActionExplain).Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+session.ID+"/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto entity.SessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Empty(t, dto.CachedActions)
	assert.Equal(t, "class A {}", dto.Source)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+session.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+session.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
