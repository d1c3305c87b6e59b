package service

import (
	"context"
	"fmt"
)

// GenerationInput 描述一次生成请求的原始输入。
// Prompt 与 Tone 原样拼进指令，不做服务端校验，空值同样透传给模型。
type GenerationInput struct {
	Prompt string
	Tone   string
}

// CompletionStreamer 抽象流式补全能力，便于在业务层注入不同实现与 Mock。
// onDelta 在每个增量片段到达时被调用一次，返回错误会中断整个流。
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, prompt string, onDelta func(chunk string) error) (string, error)
}

// GenerationService 负责把用户输入组装成单条指令并转发给流式补全客户端。
type GenerationService struct {
	streamer CompletionStreamer
}

// NewGenerationService 构造默认的 GenerationService。
func NewGenerationService(streamer CompletionStreamer) *GenerationService {
	return &GenerationService{streamer: streamer}
}

// Generate 发起一次流式生成。增量片段通过 onDelta 依次交给调用方，
// 返回值是已经拼接完成的全文；上游失败时返回错误以及失败前收到的前缀。
func (s *GenerationService) Generate(ctx context.Context, input GenerationInput, onDelta func(chunk string) error) (string, error) {
	prompt := BuildPostPrompt(input.Tone, input.Prompt)
	logGeneration("prompt", prompt)

	text, err := s.streamer.StreamCompletion(ctx, prompt, onDelta)
	if err != nil {
		return text, err
	}

	logGeneration("response", text)
	return text, nil
}

// BuildPostPrompt 把语气与主题嵌入固定的指令模板。
func BuildPostPrompt(tone, topic string) string {
	return fmt.Sprintf("Write a %s social media post about: %s. Use appropriate emojis.", tone, topic)
}
