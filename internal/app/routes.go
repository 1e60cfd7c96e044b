package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/auth"
	"github.com/ogonek-app/backend/internal/comments"
	"github.com/ogonek-app/backend/internal/files"
	"github.com/ogonek-app/backend/internal/lessons"
	"github.com/ogonek-app/backend/internal/middleware"
	"github.com/ogonek-app/backend/internal/recommendations"
	"github.com/ogonek-app/backend/internal/tasks"
)

// RegisterRoutes builds every feature's repository/service/handler chain
// and mounts its routes. This is the single place where all routes are
// aggregated.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// --- Operational endpoints (exempt from the API key gate) ---

	e.GET("/healthz", a.healthz)
	e.GET("/metrics", middleware.MetricsHandler(a.registry))

	// --- Auth ---

	sessions := auth.NewRedisSessionStore(a.Redis, a.Config.Auth.SessionTTL)
	authService := auth.NewAuthService(auth.NewUserRepository(a.DB), sessions)
	authHandler := auth.NewHandler(authService, sessions, a.Config.Auth.SessionTTL)

	// Authenticated route group: every route below requires a valid
	// session cookie and, on state-changing methods, the CSRF header.
	authed := e.Group("", auth.RequireSession(sessions), auth.RequireCSRF(sessions))

	authHandler.RegisterRoutes(e, authed)

	// --- Owned resources ---

	tasks.NewHandler(tasks.NewTaskService(tasks.NewTaskRepository(a.DB))).RegisterRoutes(authed)
	lessons.NewHandler(lessons.NewLessonService(lessons.NewLessonRepository(a.DB))).RegisterRoutes(authed)
	comments.NewHandler(comments.NewCommentService(comments.NewCommentRepository(a.DB))).RegisterRoutes(authed)
	recommendations.NewHandler(recommendations.NewRecommendationService(recommendations.NewRecommendationRepository(a.DB))).RegisterRoutes(authed)

	// --- File attachments ---

	blobs, err := files.NewDiskStore(a.Config.Upload.MediaPath)
	if err != nil {
		return fmt.Errorf("initializing blob store: %w", err)
	}
	fileService := files.NewFileService(files.NewFileRepository(a.DB), blobs, a.Config.Upload.MaxSize)
	files.NewHandler(fileService).RegisterRoutes(authed)

	return nil
}

// healthz reports liveness. It pings both backing stores so a wedged
// pool shows up in orchestrator health checks instead of request errors.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
