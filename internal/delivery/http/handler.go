package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/macrolens/diary/internal/usecase"
)

const serviceName = "macrolens-diary"

// Version is reported by the health endpoint; overridden at link time.
var Version = "dev"

// Services bundles the usecases the HTTP layer exposes
type Services struct {
	Catalog     *usecase.CatalogService
	Diary       *usecase.DiaryService
	Summary     *usecase.SummaryService
	Targets     *usecase.TargetService
	BodyMetrics *usecase.BodyMetricService

	// Ping reports storage health; nil skips the check
	Ping func(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog     *usecase.CatalogService
	diary       *usecase.DiaryService
	summary     *usecase.SummaryService
	targets     *usecase.TargetService
	bodyMetrics *usecase.BodyMetricService
	ping        func(ctx context.Context) error
	now         func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	return &Handler{
		catalog:     s.Catalog,
		diary:       s.Diary,
		summary:     s.Summary,
		targets:     s.Targets,
		bodyMetrics: s.BodyMetrics,
		ping:        s.Ping,
		now:         time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": serviceName,
		"version": Version,
	})
}

// MealSlots lists the meal-slot catalog in display order
func (h *Handler) MealSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mealSlots": domain.MealSlots})
}

// ActivityLevels lists the activity catalog
func (h *Handler) ActivityLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activityLevels": domain.ActivityLevels})
}

// today is midnight UTC of the handler clock
func (h *Handler) today() time.Time {
	return domain.DateOf(h.now().UTC())
}

// dateQuery parses a YYYY-MM-DD query parameter, defaulting to today
func (h *Handler) dateQuery(c *gin.Context, key string) (time.Time, error) {
	return h.optionalDate(c.Query(key), key)
}

func (h *Handler) optionalDate(raw, field string) (time.Time, error) {
	if raw == "" {
		return h.today(), nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidArgument, field)
	}
	return date, nil
}

func uuidParam(c *gin.Context, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", domain.ErrInvalidArgument, key)
	}
	return id, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, key)
	}
	return n, nil
}

// foodQuery reads q, limit and offset
func foodQuery(c *gin.Context) (domain.FoodQuery, error) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return domain.FoodQuery{}, err
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		return domain.FoodQuery{}, err
	}
	return domain.FoodQuery{Name: c.Query("q"), Limit: limit, Offset: offset}, nil
}

// bindJSON decodes the request body, reporting malformed JSON as a bad request
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
