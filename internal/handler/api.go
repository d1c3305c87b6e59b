package handler

import (
	"github.com/marketerai/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	posts     *service.PostService
	generator *service.GenerationService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, streamer service.CompletionStreamer) *API {
	return &API{
		db:        gdb,
		posts:     service.NewPostService(gdb),
		generator: service.NewGenerationService(streamer),
	}
}
