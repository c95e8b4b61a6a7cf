package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/config"
)

const systemPrompt = "You are a helpful workplace assistant for employees. " +
	"Answer questions clearly and concisely."

// ArkClient completes prompts through an Ark chat model.
type ArkClient struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkClient compiles the prompt chain against the configured chat model.
func NewArkClient(ctx context.Context, cfg config.ArkConfig) (*ArkClient, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	return &ArkClient{chain: runnable}, nil
}

// Complete runs the chain once and returns the generated text, trimmed.
func (c *ArkClient) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := c.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run completion chain: %w", err)
	}
	return strings.TrimSpace(response.Content), nil
}
