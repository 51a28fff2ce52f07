package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/integration/common"
	pkgRetry "github.com/futig/code-companion/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Connector calls an Azure OpenAI chat completion deployment
type Connector struct {
	client     openai.Client
	deployment string
	cfg        config.LLMConnectorConfig
	missing    error
	logger     *zap.Logger
}

// NewConnector builds the connector. Incomplete Azure settings do not fail
// construction; every Complete call then fails with ErrConfigMissing.
func NewConnector(
	azureCfg config.AzureOpenAIConfig,
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	c := &Connector{
		deployment: azureCfg.Deployment,
		cfg:        cfg,
		logger:     logger,
	}

	if missing := azureCfg.Missing(); len(missing) > 0 {
		c.missing = fmt.Errorf("%w: %v", entity.ErrConfigMissing, missing)
		logger.Warn("completion client is not configured", zap.Strings("missing", missing))
		return c
	}

	httpConn := common.NewBaseConnector(cfg.HTTPClientConfig, logger)

	c.client = openai.NewClient(
		azure.WithEndpoint(azureCfg.Endpoint, azureCfg.APIVersion),
		azure.WithAPIKey(azureCfg.APIKey),
		option.WithHTTPClient(httpConn.Client()),
		// Retries are owned by pkgRetry so a failed call surfaces exactly once by default.
		option.WithMaxRetries(0),
	)

	return c
}

// Complete sends the system and user messages and returns the generated text
func (c *Connector) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	if c.missing != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrServiceError, c.missing)
	}

	ctxzap.Info(ctx, "requesting completion",
		zap.String("deployment", c.deployment),
		zap.Int("user_prompt_length", len(prompt.User)),
	)

	text, err := pkgRetry.Do(ctx, &c.cfg.Retry, isRetryable, func() (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrServiceError, err)
	}

	ctxzap.Info(ctx, "completion received", zap.Int("result_length", len(text)))

	return text, nil
}

func (c *Connector) complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		// Azure routes by deployment name passed as the model
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}

	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}

	if c.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(c.cfg.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// isRetryable limits retries to transport failures and server side errors
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}
