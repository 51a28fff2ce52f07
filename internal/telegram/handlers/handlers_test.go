package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/futig/code-companion/internal/repository"
	"github.com/futig/code-companion/internal/telegram/keyboard"
	"github.com/futig/code-companion/internal/telegram/state"
	"github.com/futig/code-companion/internal/usecase/companion"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var csharp = entity.SourceLanguage{Name: "C#", FenceTag: "csharp", Extension: ".cs", TestFramework: "xUnit"}

type fakeBot struct {
	mu     sync.Mutex
	sent   []tgbotapi.Chattable
	nextID int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *fakeBot) documents() []tgbotapi.DocumentConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range b.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
}

type fakeDownloader struct {
	files     map[string]string
	downloads int
}

func (d *fakeDownloader) Download(_ context.Context, url string, limit int64) ([]byte, error) {
	d.downloads++
	content, ok := d.files[strings.TrimPrefix(url, "https://files.example/")]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(content), nil
}

type fakeCompletion struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCompletion) Complete(_ context.Context, p entity.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "```csharp\n/// <summary>A</summary>\nclass A {}\n```", nil
}

type fixture struct {
	bot        *fakeBot
	downloader *fakeDownloader
	llm        *fakeCompletion
	states     *state.Manager
	document   *DocumentHandler
	callback   *CallbackHandler
	command    *CommandHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	uploadCfg := config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20}
	f := &fixture{
		bot: &fakeBot{},
		downloader: &fakeDownloader{files: map[string]string{
			"f1": "class A {}",
			"f2": "class B {}",
		}},
		llm:    &fakeCompletion{},
		states: state.NewManager(state.NewMemoryStorage(0, time.Minute)),
	}

	uc := companion.NewUsecase(repository.NewSessionMemory(0, time.Minute), f.llm, csharp, uploadCfg.MaxFileSize, zap.NewNop())
	kb := keyboard.NewBuilder()
	logger := zap.NewNop()

	f.document = NewDocumentHandler(f.bot, f.states, uc, validator.NewFileValidator(uploadCfg, ".cs"), f.downloader, uploadCfg.MaxFileSize, kb, csharp, logger)
	f.callback = NewCallbackHandler(f.bot, f.states, uc, kb, csharp, logger)
	f.command = NewCommandHandler(f.bot, f.states, uc, kb, csharp, []string{"AZURE_OPENAI_API_KEY not set. Please set this environment variable and restart the app."}, logger)

	return f
}

func (f *fixture) upload(t *testing.T, fileID, name string) {
	t.Helper()
	err := f.document.Handle(context.Background(), &Message{
		ChatID:   1,
		UserID:   2,
		Document: &tgbotapi.Document{FileID: fileID, FileName: name, FileSize: 10},
	})
	require.NoError(t, err)
}

func (f *fixture) press(t *testing.T, data string) {
	t.Helper()
	err := f.callback.Handle(context.Background(), &Message{ChatID: 1, UserID: 2, CallbackData: data})
	require.NoError(t, err)
}

func TestDocumentHandler_CreatesSession(t *testing.T) {
	f := newFixture(t)

	f.upload(t, "f1", "A.cs")

	texts := f.bot.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "A.cs loaded (1 lines)")

	sessionID, err := f.states.SessionID(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	chat, err := f.states.GetSession(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, chat.LastMessageID)
}

func TestDocumentHandler_RejectsWrongExtension(t *testing.T) {
	f := newFixture(t)

	f.upload(t, "f1", "notes.txt")

	assert.Equal(t, []string{"❌ Only .cs files are supported."}, f.bot.texts())
	assert.Equal(t, 0, f.downloader.downloads)
}

func TestCallbackHandler_RunsActionOnce(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "f1", "A.cs")
	f.bot.reset()

	f.press(t, "act:add-comments")

	docs := f.bot.documents()
	require.Len(t, docs, 1)
	file, ok := docs[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "A.commented.cs", file.Name)
	assert.Equal(t, "/// <summary>A</summary>\nclass A {}\n", string(file.Bytes))
	assert.Equal(t, "✨ Source code with documentation comments", docs[0].Caption)

	f.press(t, "act:add-comments")
	docs = f.bot.documents()
	require.Len(t, docs, 2)
	assert.Contains(t, docs[1].Caption, "Cached result")
	assert.Equal(t, 1, f.llm.calls)
}

func TestCallbackHandler_MarkdownAsText(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "f1", "A.cs")
	f.bot.reset()

	f.press(t, "act:explain")

	texts := f.bot.texts()
	require.Len(t, texts, 2)
	assert.True(t, strings.HasPrefix(texts[0], "✨ Code explanation\n\n```csharp"))
	assert.Equal(t, msgChooseNext, texts[1])
	assert.Empty(t, f.bot.documents())
}

func TestCallbackHandler_NewUploadClearsResults(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "f1", "A.cs")
	f.press(t, "act:generate-tests")

	f.upload(t, "f2", "B.cs")
	texts := f.bot.texts()
	assert.Contains(t, texts[len(texts)-1], "B.cs replaced, previous results cleared")

	f.press(t, "act:generate-tests")
	assert.Equal(t, 2, f.llm.calls)

	docs := f.bot.documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "BTests.cs", docs[1].File.(tgbotapi.FileBytes).Name)
}

func TestCallbackHandler_ServiceError(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "f1", "A.cs")
	f.bot.reset()

	f.llm.err = fmt.Errorf("%w: 401 Unauthorized", entity.ErrServiceError)
	f.press(t, "act:suggest-improvements")

	texts := f.bot.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "401 Unauthorized")

	f.llm.err = nil
	f.press(t, "act:suggest-improvements")
	assert.Equal(t, 2, f.llm.calls)
}

func TestCallbackHandler_NoSession(t *testing.T) {
	f := newFixture(t)

	f.press(t, "act:explain")

	assert.Equal(t, []string{"❌ No file loaded yet. Send a .cs file first."}, f.bot.texts())
	assert.Equal(t, 0, f.llm.calls)
}

func TestCallbackHandler_NewFile(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "f1", "A.cs")

	f.press(t, "file:new")

	sessionID, err := f.states.SessionID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, sessionID)

	err = f.callback.Handle(context.Background(), &Message{ChatID: 1, CallbackData: "bogus:value"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestCommandHandler_Start(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.command.Handle(context.Background(), &Message{ChatID: 1, Command: "start"}))

	texts := f.bot.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "C# source file (.cs)")
	assert.Contains(t, texts[1], "AZURE_OPENAI_API_KEY not set")
	assert.Equal(t, "📂 Send me a .cs file to get started.", texts[2])
}

func TestResultFilename(t *testing.T) {
	assert.Equal(t, "ProgramTests.cs", resultFilename("Program.cs", entity.ActionGenerateTests, ".cs"))
	assert.Equal(t, "Program.commented.cs", resultFilename("Program.cs", entity.ActionAddComments, ".cs"))
	assert.Equal(t, "source.explain.cs", resultFilename("", entity.ActionExplain, ".cs"))
}
