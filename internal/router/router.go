package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/marketerai/internal/handler"
)

// recoverExceptAbort 与 gin.Recovery 类似，但放行 http.ErrAbortHandler：
// 流式响应中途失败时靠它中断连接，恢复中间件吞掉会让客户端误判流已正常结束。
func recoverExceptAbort() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}
				log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), recoverExceptAbort())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("marketerai_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)

	apiGroup := r.Group("/api")
	{
		// 生成接口与原始设计保持一致，不要求登录
		apiGroup.POST("/generate", api.Generate)

		// 保存与历史记录需要有效会话
		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/me", api.Me)
			auth.POST("/posts", api.SavePost)
			auth.GET("/history", api.GetHistory)
		}
	}

	return r
}
