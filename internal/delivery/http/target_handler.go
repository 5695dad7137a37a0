package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/diary/internal/domain"
	"github.com/macrolens/diary/internal/usecase"
	"github.com/shopspring/decimal"
)

// TargetRequest is a user-entered nutrition target
type TargetRequest struct {
	EffectiveFrom string          `json:"effectiveFrom"`
	Calories      int64           `json:"calories"`
	Protein       decimal.Decimal `json:"protein"`
	Carbohydrates decimal.Decimal `json:"carbohydrates"`
	Fat           decimal.Decimal `json:"fat"`
	Rationale     string          `json:"rationale"`
}

// SuggestTargetRequest feeds the suggestion engine
type SuggestTargetRequest struct {
	domain.SuggestionInput
	EffectiveFrom string `json:"effectiveFrom"`
}

// BodyMetricRequest appends a measurement and carries profile values for the
// returned suggestion
type BodyMetricRequest struct {
	MeasuredOn   string           `json:"measuredOn"`
	WeightKg     *decimal.Decimal `json:"weightKg"`
	HeightCm     *decimal.Decimal `json:"heightCm"`
	WaistCm      *decimal.Decimal `json:"waistCm"`
	HipCm        *decimal.Decimal `json:"hipCm"`
	AgeYears     *int             `json:"ageYears"`
	Sex          string           `json:"sex"`
	ActivityCode string           `json:"activityCode"`
	GoalCode     string           `json:"goalCode"`
}

// CurrentTarget handles GET /nutrition-targets/current?date=
func (h *Handler) CurrentTarget(c *gin.Context) {
	asOf, err := h.dateQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	target, err := h.targets.CurrentTarget(c.Request.Context(), currentUser(c), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// CreateTarget handles POST /nutrition-targets
func (h *Handler) CreateTarget(c *gin.Context) {
	var req TargetRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	effective, err := h.optionalDate(req.EffectiveFrom, "effectiveFrom")
	if err != nil {
		respondError(c, err)
		return
	}

	target, err := h.targets.CreateTarget(c.Request.Context(), domain.CreateTargetRequest{
		UserID:        currentUser(c),
		EffectiveFrom: effective,
		Calories:      req.Calories,
		Protein:       req.Protein,
		Carbohydrates: req.Carbohydrates,
		Fat:           req.Fat,
		Rationale:     req.Rationale,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, target)
}

// SuggestTarget handles POST /nutrition-targets/suggest. With ?apply=true
// the suggestion is also recorded as the user's target.
func (h *Handler) SuggestTarget(c *gin.Context) {
	var req SuggestTargetRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	apply, _ := strconv.ParseBool(c.Query("apply"))
	if !apply {
		c.JSON(http.StatusOK, gin.H{"suggestion": usecase.SuggestTarget(req.SuggestionInput)})
		return
	}

	effective, err := h.optionalDate(req.EffectiveFrom, "effectiveFrom")
	if err != nil {
		respondError(c, err)
		return
	}
	target, suggestion, err := h.targets.ApplySuggestion(c.Request.Context(), currentUser(c), req.SuggestionInput, effective)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"target": target, "suggestion": suggestion})
}

// AddBodyMetric handles POST /body-metrics
func (h *Handler) AddBodyMetric(c *gin.Context) {
	var req BodyMetricRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	var measuredOn *time.Time
	if req.MeasuredOn != "" {
		date, err := h.optionalDate(req.MeasuredOn, "measuredOn")
		if err != nil {
			respondError(c, err)
			return
		}
		measuredOn = &date
	}

	metric, suggestion, err := h.bodyMetrics.AddBodyMetric(c.Request.Context(), domain.AddBodyMetricRequest{
		UserID:       currentUser(c),
		MeasuredOn:   measuredOn,
		WeightKg:     req.WeightKg,
		HeightCm:     req.HeightCm,
		WaistCm:      req.WaistCm,
		HipCm:        req.HipCm,
		AgeYears:     req.AgeYears,
		Sex:          req.Sex,
		ActivityCode: req.ActivityCode,
		GoalCode:     req.GoalCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"metric": metric, "suggestion": suggestion})
}

// LatestBodyMetric handles GET /body-metrics/latest
func (h *Handler) LatestBodyMetric(c *gin.Context) {
	metric, err := h.bodyMetrics.LatestMetric(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}
