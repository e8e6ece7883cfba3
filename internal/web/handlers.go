package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xaenox/datalake-chat/internal/dispatch"
	"github.com/xaenox/datalake-chat/internal/models"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// Dispatcher runs interactions and lists past ones
type Dispatcher interface {
	Run(ctx context.Context, req dispatch.Request) (*dispatch.Outcome, error)
	History(ctx context.Context, limit int) ([]*models.Interaction, error)
}

type Handler struct {
	dispatcher Dispatcher
	version    string
	logger     *zap.Logger
}

func NewHandler(dispatcher Dispatcher, version string, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		version:    version,
		logger:     logger,
	}
}

type interactRequest struct {
	Folder   string `json:"folder"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// HandleInteract runs one interaction. The category accepts "CSV" or "Excel" and defaults
// to CSV like the radio selector.
func (h *Handler) HandleInteract(c echo.Context) error {
	var body interactRequest
	if err := c.Bind(&body); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	category := models.CategoryCSV
	if body.Category != "" {
		parsed, err := models.ParseCategory(body.Category)
		if err != nil {
			return NewValidationError("category", err)
		}
		category = parsed
	}

	out, err := h.dispatcher.Run(c.Request().Context(), dispatch.Request{
		Folder:   body.Folder,
		Category: category,
		Question: body.Question,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &APIError{
				Status:  http.StatusGatewayTimeout,
				Code:    "TIMEOUT",
				Message: "the question took too long to answer",
				Details: err.Error(),
			}
		}
		return NewUpstreamError("failed to answer question", err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *Handler) HandleHistory(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("limit", err)
		}
		limit = n
	}

	interactions, err := h.dispatcher.History(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to load history", err)
	}
	if interactions == nil {
		interactions = []*models.Interaction{}
	}
	return c.JSON(http.StatusOK, interactions)
}

func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}
