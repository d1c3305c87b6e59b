package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/marketerai/internal/db"
	"github.com/marketerai/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderDraftHTML 把生成文案按 Markdown 渲染并消毒，供历史列表直接展示。
func renderDraftHTML(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

type postView struct {
	ID        uint          `json:"id"`
	Content   string        `json:"content"`
	HTML      template.HTML `json:"html"`
	Tone      string        `json:"tone"`
	CreatedAt time.Time     `json:"created_at"`
}

func newPostView(post *db.Post) postView {
	return postView{
		ID:        post.ID,
		Content:   post.Content,
		HTML:      renderDraftHTML(post.Content),
		Tone:      post.Tone,
		CreatedAt: post.CreatedAt,
	}
}

type savePostRequest struct {
	Content   string `json:"content"`
	Tone      string `json:"tone"`
	RequestID string `json:"request_id"`
}

// SavePost 由前端在生成流正常结束后调用一次，把完整文案落库。
func (a *API) SavePost(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	var req savePostRequest
	if !bindJSON(c, &req, "无效的保存参数") {
		return
	}

	post, err := a.posts.Save(service.SavePostInput{
		Content:   req.Content,
		Tone:      req.Tone,
		UserID:    userID,
		RequestID: req.RequestID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondError(c, http.StatusUnauthorized, "未登录")
		case errors.Is(err, service.ErrContentEmpty):
			respondError(c, http.StatusBadRequest, "内容不能为空")
		case errors.Is(err, service.ErrToneUnknown):
			respondError(c, http.StatusBadRequest, "不支持的语气")
		default:
			// 日志只记录定位问题所需的上下文，不输出原文
			log.Printf("[POST SAVE] failed user=%d tone=%q content_runes=%d: %v",
				userID, req.Tone, utf8.RuneCountInString(req.Content), err)
			respondError(c, http.StatusInternalServerError, "保存失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": newPostView(post)})
}

// GetHistory 返回当前用户最近 10 条生成记录，按创建时间倒序。
func (a *API) GetHistory(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	posts, err := a.posts.Recent(userID, service.DefaultHistoryLimit)
	if err != nil {
		// 读失败时降级为空列表加提示，不让前端崩掉
		log.Printf("[HISTORY] fetch failed user=%d: %v", userID, err)
		c.JSON(http.StatusOK, gin.H{"posts": []postView{}, "error": "获取历史记录失败"})
		return
	}

	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, newPostView(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}
