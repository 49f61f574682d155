package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"invitation-backend/pkg/container"
)

// asynqServer wraps asynq.Server so shutdown lives next to startup.
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
			},
			Concurrency: c.Config.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown stops taking new tasks and waits for in-flight uploads to
// finish or fail. Generation tasks have no retry, so killing one
// mid-flight would strand the job in a non-terminal stage.
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Println("[Worker] Stopped")
}
