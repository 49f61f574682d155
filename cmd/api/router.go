package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invitation-backend/internal/shared/middleware"
	"invitation-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupDraftRoutes(v1, c)
		setupGenerationRoutes(v1, c)
		setupInvitationRoutes(v1, c)
	}

	return router
}

// Draft routes cover the authoring session: field edits, media, story
// cards, the review gate and the preview render.
func setupDraftRoutes(v1 *gin.RouterGroup, c *container.Container) {
	drafts := v1.Group("/drafts")
	{
		drafts.POST("", c.InvitationHandler.CreateDraft)
		drafts.GET("/:id", c.InvitationHandler.GetDraft)
		drafts.PATCH("/:id", c.InvitationHandler.UpdateDraft)
		drafts.PUT("/:id/sections/:section", c.InvitationHandler.UpdateSection)
		drafts.POST("/:id/story-cards", c.InvitationHandler.AppendStoryCard)
		drafts.PUT("/:id/story-cards/:index", c.InvitationHandler.UpdateStoryCard)
		drafts.DELETE("/:id/story-cards/:index", c.InvitationHandler.RemoveStoryCard)
		drafts.POST("/:id/media/:slot", c.InvitationHandler.AttachMedia)
		drafts.POST("/:id/gallery", c.InvitationHandler.AppendGallery)
		drafts.DELETE("/:id/gallery/:index", c.InvitationHandler.RemoveGalleryImage)
		drafts.POST("/:id/review", c.InvitationHandler.Review)
		drafts.POST("/:id/confirm", c.InvitationHandler.Confirm)
		drafts.GET("/:id/preview", c.InvitationHandler.PreviewDocument)
		drafts.POST("/:id/generate", c.InvitationHandler.Generate)
	}
}

func setupGenerationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/generation/:id", c.InvitationHandler.GenerationStatus)
}

// Invitation routes are the public, unauthenticated surface guests hit.
func setupInvitationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/template", c.InvitationHandler.Template)

	invitations := v1.Group("/invitations")
	{
		invitations.GET("/:id", c.InvitationHandler.GetInvitation)
		invitations.GET("/:id/document", c.InvitationHandler.PublicDocument)
		invitations.GET("/:id/share", c.InvitationHandler.Share)
		invitations.GET("/:id/calendar.ics", c.InvitationHandler.CalendarICS)
		invitations.GET("/:id/calendar-link", c.InvitationHandler.CalendarLink)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		storageStatus := "ok"
		if err := appCtx.Storage.HealthCheck(ctx); err != nil {
			storageStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
