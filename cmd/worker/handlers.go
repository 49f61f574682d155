package main

import (
	"github.com/hibiken/asynq"

	"invitation-backend/internal/domains/invitation/job"
	"invitation-backend/internal/domains/invitation/service"
	"invitation-backend/internal/domains/invitation/tasks"
	"invitation-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	generate *job.GenerateHandler
}

// initializeHandlers creates job handlers with their dependencies.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	uploader := service.NewUploader(c.Storage, c.InvitationRepo, c.Progress)

	return &HandlerRegistry{
		generate: job.NewGenerateHandler(c.Channel, uploader, c.Progress),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeGenerate, h.generate.ProcessTask)
}
