package main

import (
	"log"
	"net/http"

	"invitation-backend/pkg/container"
)

// startHealthCheckServer exposes liveness/readiness probes for the
// worker process, which otherwise has no listening port.
func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"invitation-worker"}`))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.Cache.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"NOT_READY"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	log.Println("[Health] Starting health check server on :9999")
	if err := http.ListenAndServe(":9999", mux); err != nil {
		log.Printf("[Health] Failed to start: %v", err)
	}
}
