package session

import (
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/formatter"
)

// toSessionDTO converts Session entity to SessionDTO
func toSessionDTO(session *entity.Session, lang entity.SourceLanguage) *entity.SessionDTO {
	return &entity.SessionDTO{
		ID:            session.ID,
		Filename:      session.Filename,
		Language:      lang.Name,
		Source:        session.Source,
		CachedActions: session.CachedActions(),
		CreatedAt:     session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     session.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toActionResultDTO converts an action result; markdown results also carry rendered HTML
func toActionResultDTO(result *entity.ActionResult, lang entity.SourceLanguage) (*entity.ActionResultDTO, error) {
	dto := &entity.ActionResultDTO{
		SessionID: result.SessionID,
		Action:    result.Action,
		Title:     result.Action.Title(),
		Format:    result.Action.Format(),
		Result:    result.Text,
		Cached:    result.Cached,
	}

	if dto.Format == entity.OutputCode {
		dto.Language = lang.FenceTag
		return dto, nil
	}

	html, err := formatter.RenderHTML(result.Text)
	if err != nil {
		return nil, err
	}
	dto.HTML = html

	return dto, nil
}
