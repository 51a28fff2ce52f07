package keyboard

import (
	"github.com/futig/code-companion/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

var actionLabels = map[entity.ActionKind]string{
	entity.ActionAddComments:         "📝 Add comments",
	entity.ActionExplain:             "💡 Explain",
	entity.ActionSuggestImprovements: "🛠 Suggest improvements",
	entity.ActionGenerateTests:       "🧪 Generate tests",
}

// ActionLabel returns the button text for an action
func ActionLabel(action entity.ActionKind) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return string(action)
}

// ActionsKeyboard shows the four actions two per row, marking cached ones, plus a "new file" button
func (b *Builder) ActionsKeyboard(cached []entity.ActionKind) tgbotapi.InlineKeyboardMarkup {
	done := make(map[entity.ActionKind]bool, len(cached))
	for _, a := range cached {
		done[a] = true
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	var row []tgbotapi.InlineKeyboardButton
	for _, action := range entity.AllActions {
		label := ActionLabel(action)
		if done[action] {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(CallbackAction, string(action))))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📂 New file", EncodeCallback(CallbackFile, FileValueNew)),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
