package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

// DiaryEntryRequest logs a quantity of a food, custom dish or recipe
type DiaryEntryRequest struct {
	Date       string          `json:"date"` // YYYY-MM-DD, defaults to today
	MealSlot   string          `json:"mealSlot" binding:"required"`
	SourceKind string          `json:"sourceKind" binding:"required"`
	ItemID     uuid.UUID       `json:"itemId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// UpdateDiaryEntryRequest changes the quantity and optionally the meal slot
type UpdateDiaryEntryRequest struct {
	MealSlot string          `json:"mealSlot"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PortionPreviewRequest describes a prospective entry
type PortionPreviewRequest struct {
	SourceKind string          `json:"sourceKind" binding:"required"`
	ItemID     uuid.UUID       `json:"itemId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ListDiaryEntries handles GET /diary?date=
func (h *Handler) ListDiaryEntries(c *gin.Context) {
	date, err := h.dateQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.diary.ListEntries(c.Request.Context(), currentUser(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "entries": entries})
}

// CreateDiaryEntry handles POST /diary
func (h *Handler) CreateDiaryEntry(c *gin.Context) {
	var req DiaryEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	date, err := h.optionalDate(req.Date, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.diary.CreateEntry(c.Request.Context(), domain.CreateEntryRequest{
		UserID:     currentUser(c),
		Date:       date,
		MealSlot:   req.MealSlot,
		SourceKind: req.SourceKind,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateDiaryEntry handles PUT /diary/:id
func (h *Handler) UpdateDiaryEntry(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateDiaryEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.diary.UpdateEntry(c.Request.Context(), currentUser(c), id, domain.UpdateEntryRequest{
		MealSlot: req.MealSlot,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteDiaryEntry handles DELETE /diary/:id
func (h *Handler) DeleteDiaryEntry(c *gin.Context) {
	h.deleteOwned(c, func(owner, id uuid.UUID) error {
		return h.diary.DeleteEntry(c.Request.Context(), owner, id)
	})
}

// PreviewPortion handles POST /portions/preview
func (h *Handler) PreviewPortion(c *gin.Context) {
	var req PortionPreviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	preview, err := h.diary.PreviewPortion(c.Request.Context(), currentUser(c), req.SourceKind, req.ItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// DaySummary handles GET /summary/day?date=
func (h *Handler) DaySummary(c *gin.Context) {
	date, err := h.dateQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	totals, err := h.summary.DaySummary(c.Request.Context(), currentUser(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// WeekSummary handles GET /summary/week?date=
func (h *Handler) WeekSummary(c *gin.Context) {
	date, err := h.dateQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	week, err := h.summary.WeekSummary(c.Request.Context(), currentUser(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}
