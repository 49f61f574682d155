package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"invitation-backend/pkg/container"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("[Container] Failed to initialize: %v", err)
	}
	defer c.Cleanup()

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)

	go startHealthCheckServer(c)

	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[Shutdown] Gracefully stopping...")
	srv.Shutdown()
	log.Println("[Shutdown] Stopped")
}
