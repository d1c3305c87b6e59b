package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketerai/internal/service"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Tone   string `json:"tone"`
}

// Generate 处理流式生成请求：把模型的增量输出原样透传给浏览器并逐块 flush。
// 这条链路不做服务端校验，空 prompt 与任意语气都原样交给模型。
func (a *API) Generate(c *gin.Context) {
	var req generateRequest
	if !bindJSON(c, &req, "无效的生成参数") {
		return
	}

	// 为本次生成下发幂等令牌，前端保存时原样带回
	c.Header("X-Generation-Id", uuid.NewString())

	wroteAny := false
	_, err := a.generator.Generate(c.Request.Context(), service.GenerationInput{
		Prompt: req.Prompt,
		Tone:   req.Tone,
	}, func(chunk string) error {
		if !wroteAny {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Header("Cache-Control", "no-cache")
			c.Status(http.StatusOK)
			wroteAny = true
		}
		if _, werr := c.Writer.WriteString(chunk); werr != nil {
			return werr
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		if !wroteAny {
			log.Printf("[GENERATE] upstream failed before first chunk: %v", err)
			respondError(c, http.StatusBadGateway, "生成失败，请稍后重试")
			return
		}
		// 部分内容已经发出，此时唯一的失败信号是传输层中断：
		// 抛出 ErrAbortHandler 让 net/http 直接掐断连接，
		// 客户端读到的是传输错误而不是干净的流结束
		log.Printf("[GENERATE] stream aborted after partial output: %v", err)
		panic(http.ErrAbortHandler)
	}
}
