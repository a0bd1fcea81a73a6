package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/config"
	"github.com/sashabaranov/go-openai"
)

// AIService provides methods for interacting with AI models.
type AIService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// NewAIService creates a new AIService.
func NewAIService(cfg *config.Config) (*AIService, error) {
	openaiConfig := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		openaiConfig.BaseURL = cfg.AI.BaseURL
	}

	client := openai.NewClientWithConfig(openaiConfig)

	timeout := time.Duration(cfg.AI.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AIService{
		client:      client,
		model:       cfg.AI.Model,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
		timeout:     timeout,
	}, nil
}

// SuggestTags 根据主题标题和内容生成标签建议，返回去重后的标签名列表。
// 建议仅供前端展示，采纳与否由用户决定，不直接写库
func (s *AIService) SuggestTags(ctx context.Context, title, content string) ([]string, error) {
	prompt := fmt.Sprintf("请为以下论坛主题推荐3到5个标签，只输出标签名，用逗号分隔，不要编号和解释：\n\n标题：%s\n内容：%s", title, content)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.model,
			MaxTokens:   s.maxTokens,
			Temperature: float32(s.temperature),
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no tag suggestion generated")
	}

	return parseTagList(resp.Choices[0].Message.Content), nil
}

// parseTagList 把模型输出的逗号分隔文本解析为去重的标签名列表，
// 同时兼容中文逗号和换行分隔
func parseTagList(text string) []string {
	text = strings.NewReplacer("，", ",", "\n", ",").Replace(text)

	seen := make(map[string]bool)
	tags := []string{}
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		name = strings.TrimPrefix(name, "#")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}
