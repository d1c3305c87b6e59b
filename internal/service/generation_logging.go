package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxGenerationLogRunes = 1024

// logGeneration 记录生成链路的提示词与产出，方便排查模型行为。
// 文案可能很长，只保留前缀。
func logGeneration(phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[GENERATE] %s: <empty>", phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxGenerationLogRunes {
		snippet = string([]rune(trimmed)[:maxGenerationLogRunes]) + "…(truncated)"
	}
	log.Printf("[GENERATE] %s (runes=%d): %s", phase, runeCount, snippet)
}
