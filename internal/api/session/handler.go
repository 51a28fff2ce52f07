package session

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/formatter"
	"github.com/futig/code-companion/internal/pkg/logger"
	"github.com/futig/code-companion/internal/pkg/response"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const uploadField = "file"

type Handler struct {
	usecase   CompanionUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
	formats   *formatter.Factory
	warnings  []string
}

func NewHandler(
	usecase CompanionUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
	formats *formatter.Factory,
	warnings []string,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
		formats:   formats,
		warnings:  warnings,
	}
}

// CreateSession handles POST /sessions - upload a source file and start a session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	header, ok := h.readUpload(ctx, w, r)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	filename := validator.SanitizeFilename(header.Filename)
	ctxzap.Info(ctx, "creating session",
		zap.String("filename", filename),
		zap.Int64("size_bytes", header.Size),
	)

	session, err := h.usecase.CreateSession(ctx, filename, file)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dto := toSessionDTO(session, h.usecase.Language())
	dto.Warnings = h.warnings
	h.respondJSON(w, http.StatusCreated, dto)
}

// GetSession handles GET /sessions/{id} - uploaded file and cached actions
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	ctxzap.Debug(ctx, "fetching session")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session, h.usecase.Language()))
}

// UploadSource handles PUT /sessions/{id}/file - replace the file and clear all results
func (h *Handler) UploadSource(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "UploadSource"),
	)

	header, ok := h.readUpload(ctx, w, r)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	filename := validator.SanitizeFilename(header.Filename)
	ctxzap.Info(ctx, "replacing session file", zap.String("filename", filename))

	session, err := h.usecase.UploadSource(ctx, sessionID, filename, file)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session, h.usecase.Language()))
}

// ResetSession handles POST /sessions/{id}/reset - clear results, keep the file
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ResetSession"),
	)

	session, err := h.usecase.ResetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session, h.usecase.Language()))
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteSession"),
	)

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session deleted successfully")
	h.respondJSON(w, http.StatusOK, entity.DeleteSessionResponse{Status: "deleted"})
}

// RunAction handles POST /sessions/{id}/actions/{action} - cached result or a fresh completion
func (h *Handler) RunAction(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "RunAction"),
	)

	action, err := entity.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.RunAction(ctx, sessionID, action)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dto, err := toActionResultDTO(result, h.usecase.Language())
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render result", err)
		return
	}

	ctxzap.Info(ctx, "action completed",
		zap.String("action_kind", string(action)),
		zap.Bool("cached", result.Cached),
	)
	h.respondJSON(w, http.StatusOK, dto)
}

// ExportResult handles GET /sessions/{id}/actions/{action}/export - download a cached result
func (h *Handler) ExportResult(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ExportResult"),
	)

	action, err := entity.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.ExportMarkdown)
	}

	format := entity.ExportFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("format must be one of: markdown, source, pdf, docx"))
		return
	}

	result, err := h.usecase.GetResult(ctx, sessionID, action)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	fmtr, err := h.formats.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	body, err := fmtr.Format(formatter.NewDocument(action, h.usecase.Language(), result.Text))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "result exported", zap.String("format", string(format)))
	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s-%s%s\"", action, sessionID, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// readUpload parses the multipart body and returns the single validated file header
func (h *Handler) readUpload(ctx context.Context, w http.ResponseWriter, r *http.Request) (*multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return nil, false
	}

	files := r.MultipartForm.File[uploadField]
	if err := h.validator.ValidateUpload(files); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return nil, false
	}

	return files[0], true
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message, err)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrResultNotReady):
		h.respondError(ctx, w, http.StatusNotFound, "result not computed yet", err)
	case errors.Is(err, entity.ErrServiceError):
		h.respondError(ctx, w, http.StatusBadGateway, "completion service error", err)
	case errors.Is(err, entity.ErrInvalidAction),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrTooManyFiles),
		errors.Is(err, entity.ErrEmptyFile),
		errors.Is(err, entity.ErrInvalidEncoding):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
