package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/backend"
	"github.com/agrimart/agrimart-gateway/internal/catalog"
	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/pkg/logger"
)

// Dashboard is the role-agnostic surface a catalog engine exposes to HTTP.
// Every dashboard screen is one named instance of the same generic engine.
type Dashboard interface {
	EnsureLoaded(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot(ctx context.Context, f catalog.FilterState, page int) catalog.ViewPayload
	Dispatch(ctx context.Context, id uint, action model.Action) error
}

// Handler serves the dashboard catalog routes.
type Handler struct {
	dashboards map[string]Dashboard
}

// New creates a Handler over the named dashboards.
func New(dashboards map[string]Dashboard) *Handler {
	return &Handler{dashboards: dashboards}
}

// GetCatalog handles GET /api/:collection/catalog. Query parameters: search,
// category, page, and refresh=true to force a refetch.
func (h *Handler) GetCatalog(c echo.Context) error {
	log := logger.FromEcho(c)
	name := c.Param("collection")

	dash, ok := h.dashboards[name]
	if !ok {
		log.Warn("Unknown dashboard collection", zap.String("collection", name))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown collection"})
	}

	ctx := c.Request().Context()
	var err error
	if c.QueryParam("refresh") == "true" {
		err = dash.Refresh(ctx)
	} else {
		err = dash.EnsureLoaded(ctx)
	}
	if err != nil {
		status, msg := httpError(err)
		log.Error("Catalog fetch failed",
			zap.String("collection", name),
			zap.Int("status", status),
			zap.Error(err))
		return c.JSON(status, echo.Map{"error": msg})
	}

	page := 1
	if p := c.QueryParam("page"); p != "" {
		if n, convErr := strconv.Atoi(p); convErr == nil {
			page = n
		}
	}
	payload := dash.Snapshot(ctx, catalog.FilterState{
		SearchTerm: c.QueryParam("search"),
		Category:   c.QueryParam("category"),
	}, page)

	return c.JSON(http.StatusOK, payload)
}

// Mutate handles POST /api/:collection/catalog/:id/:action.
func (h *Handler) Mutate(c echo.Context) error {
	log := logger.FromEcho(c)
	name := c.Param("collection")

	dash, ok := h.dashboards[name]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown collection"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}

	action, ok := model.ParseAction(c.Param("action"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	}

	if err := dash.Dispatch(c.Request().Context(), uint(id), action); err != nil {
		var sverr *catalog.StaleViewError
		if errors.As(err, &sverr) {
			// the action is committed; only the follow-up refetch failed
			log.Warn("Mutation applied but catalog refresh failed",
				zap.String("collection", name),
				zap.Uint64("record_id", id),
				zap.String("action", string(action)),
				zap.Error(sverr.Err))
			return c.JSON(http.StatusOK, echo.Map{
				"message": "ok",
				"warning": "catalog refresh failed, data may be stale",
			})
		}

		var terr *model.TransitionError
		switch {
		case errors.Is(err, catalog.ErrUnknownRecord):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		case errors.As(err, &terr):
			return c.JSON(http.StatusConflict, echo.Map{"error": terr.Error()})
		}
		status, msg := httpError(err)
		log.Error("Mutation failed",
			zap.String("collection", name),
			zap.Uint64("record_id", id),
			zap.String("action", string(action)),
			zap.Error(err))
		return c.JSON(status, echo.Map{"error": msg})
	}

	log.Info("Mutation applied",
		zap.String("collection", name),
		zap.Uint64("record_id", id),
		zap.String("action", string(action)))
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// httpError maps the backend error taxonomy onto HTTP statuses and a
// user-facing message for each class.
func httpError(err error) (int, string) {
	var perr *backend.PreconditionError
	if errors.As(err, &perr) {
		return http.StatusUnauthorized, perr.Reason
	}
	var verr *backend.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}
	var nerr *backend.NetworkError
	if errors.As(err, &nerr) {
		if nerr.Timeout {
			return http.StatusGatewayTimeout, "marketplace backend timed out"
		}
		return http.StatusBadGateway, "marketplace backend unreachable"
	}
	var serr *backend.ServerError
	if errors.As(err, &serr) {
		return http.StatusBadGateway, serr.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
