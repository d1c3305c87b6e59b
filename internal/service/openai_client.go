package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrAIAPIKeyMissing 表示构造客户端时未提供 API Key。
var ErrAIAPIKeyMissing = errors.New("openai api key is missing")

// OpenAIStreamer 基于 chat completions 流式接口实现 CompletionStreamer。
type OpenAIStreamer struct {
	client *openai.Client
	model  string
}

// NewOpenAIStreamer 构造 OpenAI 流式客户端。baseURL 为空时使用官方地址，
// 便于指向兼容 OpenAI 协议的代理或自建网关。
func NewOpenAIStreamer(apiKey, baseURL, model string) (*OpenAIStreamer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAIAPIKeyMissing
	}

	cfg := openai.DefaultConfig(apiKey)
	if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
		cfg.BaseURL = trimmed
	}

	return &OpenAIStreamer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// StreamCompletion 以流式模式请求补全，每个增量片段交给 onDelta。
// 返回已接收片段拼接出的全文；流中途失败时全文只是失败前的前缀。
func (c *OpenAIStreamer) StreamCompletion(ctx context.Context, prompt string, onDelta func(chunk string) error) (string, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return "", fmt.Errorf("创建补全流失败: %w", err)
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return builder.String(), fmt.Errorf("读取补全流失败: %w", recvErr)
		}

		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		builder.WriteString(delta)
		if onDelta != nil {
			if cbErr := onDelta(delta); cbErr != nil {
				return builder.String(), cbErr
			}
		}
	}

	return builder.String(), nil
}
