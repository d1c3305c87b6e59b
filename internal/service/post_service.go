package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marketerai/internal/db"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("user identity required")
	ErrContentEmpty = errors.New("content is empty")
	ErrToneUnknown  = errors.New("tone is not in the allowed set")
)

// DefaultHistoryLimit 是历史列表的固定窗口大小。
const DefaultHistoryLimit = 10

// AllowedTones 是界面提供的语气选项。持久化边界强制校验该集合，
// 生成链路不校验，任意语气字符串都会原样透传给模型。
var AllowedTones = []string{
	"Professional",
	"Witty & Sarcastic",
	"Bold & Viral",
	"Empathetic",
}

// IsAllowedTone 判断语气是否属于允许集合。
func IsAllowedTone(tone string) bool {
	for _, allowed := range AllowedTones {
		if tone == allowed {
			return true
		}
	}
	return false
}

// StoreError 包装持久层失败并标记是否可重试：
// 约束冲突属于永久失败，连接类问题视为瞬时失败。
type StoreError struct {
	Transient bool
	Err       error
}

func (e *StoreError) Error() string {
	if e.Transient {
		return fmt.Sprintf("store error (transient): %v", e.Err)
	}
	return fmt.Sprintf("store error (permanent): %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PostService wraps generated-post related database operations.
type PostService struct {
	db *gorm.DB
}

// SavePostInput 描述完成回调要落库的一条生成结果。
type SavePostInput struct {
	Content string
	Tone    string
	UserID  uint
	// RequestID 是生成接口下发的幂等令牌；为空时退回历史上的
	// 非幂等行为，重复保存会产生两条记录。
	RequestID string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Save 持久化一条完成的生成结果并返回创建的行。
// 未解析出用户身份时直接拒绝，不产生任何写入；
// 携带已存在的 RequestID 时返回既有行而不是插入第二条。
func (s *PostService) Save(input SavePostInput) (*db.Post, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentEmpty
	}
	if !IsAllowedTone(input.Tone) {
		return nil, ErrToneUnknown
	}

	post := db.Post{
		Content: input.Content,
		Tone:    input.Tone,
		UserID:  input.UserID,
	}

	requestID := strings.TrimSpace(input.RequestID)
	if requestID != "" {
		post.RequestID = &requestID

		var existing db.Post
		err := s.db.Where("request_id = ?", requestID).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, classifyStoreError(err)
		}
	}

	if err := s.db.Create(&post).Error; err != nil {
		// 并发双写撞上唯一索引时，兜底返回已落库的那条
		if requestID != "" && isUniqueViolation(err) {
			var existing db.Post
			if lookupErr := s.db.Where("request_id = ?", requestID).First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
		}
		return nil, classifyStoreError(err)
	}

	return &post, nil
}

// Recent 返回指定用户最近的 limit 条记录，按创建时间倒序。
func (s *PostService) Recent(userID uint, limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var posts []db.Post
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return posts, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func classifyStoreError(err error) error {
	if isUniqueViolation(err) || strings.Contains(err.Error(), "constraint failed") {
		return &StoreError{Transient: false, Err: err}
	}
	return &StoreError{Transient: true, Err: err}
}
