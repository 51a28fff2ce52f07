package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/code-companion/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers locally without calling the completion service
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Complete echoes the fenced source of the user prompt back with a short preamble
func (m *MockConnector) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting completion")

	var sb strings.Builder
	switch {
	case strings.Contains(prompt.System, "documentation comments"):
		sb.WriteString("```\n// Documented by mock completion client\n")
		sb.WriteString(extractFenced(prompt.User))
		sb.WriteString("\n```")
	case strings.Contains(prompt.System, "unit tests"):
		sb.WriteString("```\n// Tests generated by mock completion client\n")
		sb.WriteString("public class GeneratedTests { }\n```")
	default:
		sb.WriteString("# Mock response\n\n")
		fmt.Fprintf(&sb, "The submitted source has %d lines.\n", strings.Count(extractFenced(prompt.User), "\n")+1)
	}

	result := sb.String()
	ctxzap.Info(ctx, "[MOCK] completion received", zap.Int("result_length", len(result)))
	return result, nil
}

func extractFenced(user string) string {
	start := strings.Index(user, "```")
	if start < 0 {
		return user
	}
	body := user[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimRight(body, "\n")
}
