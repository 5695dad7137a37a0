package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
	"github.com/shopspring/decimal"
)

// DiaryService builds, validates and persists diary entries with frozen
// nutrient values.
type DiaryService struct {
	resolver *SourceResolver
	entries  domain.DiaryRepository
	now      func() time.Time
}

// NewDiaryService creates a diary service
func NewDiaryService(resolver *SourceResolver, entries domain.DiaryRepository) *DiaryService {
	return &DiaryService{
		resolver: resolver,
		entries:  entries,
		now:      time.Now,
	}
}

// CreateEntry validates the request, resolves the source density, scales it to
// the requested quantity and stores one entry. Either exactly one record is
// written or the call fails; a duplicate tuple yields domain.ErrConflict.
func (s *DiaryService) CreateEntry(ctx context.Context, req domain.CreateEntryRequest) (*domain.DiaryEntry, error) {
	slot, ok := domain.LookupMealSlot(req.MealSlot)
	if !ok {
		return nil, fmt.Errorf("%w: unknown meal slot %q", domain.ErrInvalidArgument, req.MealSlot)
	}

	quantity, err := normalizeQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	kind, err := domain.ParseSourceKind(req.SourceKind)
	if err != nil {
		return nil, err
	}

	density, err := s.resolver.Resolve(ctx, kind, req.ItemID, req.UserID)
	if err != nil {
		return nil, err
	}

	amount, err := ComputePortion(density, quantity)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	entry := &domain.DiaryEntry{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Date:       domain.DateOf(date),
		MealSlot:   slot.Code,
		SourceKind: kind,
		ItemID:     req.ItemID,
		Quantity:   quantity,
		Nutrients:  amount,
		CreatedAt:  s.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			applog.Info(ctx, "[diary] duplicate entry rejected",
				"user", entry.UserID, "date", entry.Date.Format(time.DateOnly),
				"meal", entry.MealSlot, "source", entry.SourceKind, "item", entry.ItemID)
		}
		return nil, err
	}

	applog.Debug(ctx, "[diary] entry created", "id", entry.ID, "calories", entry.Nutrients.Calories.String())
	return entry, nil
}

// UpdateEntry replaces quantity (and optionally meal slot) of an entry. The
// source is resolved again against the current catalog and the frozen values
// are replaced as a whole.
func (s *DiaryService) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, req domain.UpdateEntryRequest) (*domain.DiaryEntry, error) {
	existing, err := s.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	slotCode := existing.MealSlot
	if req.MealSlot != "" {
		slot, ok := domain.LookupMealSlot(req.MealSlot)
		if !ok {
			return nil, fmt.Errorf("%w: unknown meal slot %q", domain.ErrInvalidArgument, req.MealSlot)
		}
		slotCode = slot.Code
	}

	quantity, err := normalizeQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	density, err := s.resolver.Resolve(ctx, existing.SourceKind, existing.ItemID, userID)
	if err != nil {
		return nil, err
	}
	amount, err := ComputePortion(density, quantity)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.MealSlot = slotCode
	updated.Quantity = quantity
	updated.Nutrients = amount
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.entries.UpdateEntry(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteEntry removes an entry owned by userID.
func (s *DiaryService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return s.entries.DeleteEntry(ctx, userID, entryID)
}

// ListEntries returns a day's entries ordered by meal slot, then creation time.
func (s *DiaryService) ListEntries(ctx context.Context, userID uuid.UUID, date time.Time) ([]domain.DiaryEntry, error) {
	date = domain.DateOf(date)
	entries, err := s.entries.ListEntries(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		oi, oj := slotOrder(entries[i].MealSlot), slotOrder(entries[j].MealSlot)
		if oi != oj {
			return oi < oj
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// PortionPreview is the result of resolving and scaling without persisting
type PortionPreview struct {
	SourceKind domain.SourceKind `json:"sourceKind"`
	ItemID     uuid.UUID         `json:"itemId"`
	Quantity   decimal.Decimal   `json:"quantity"`
	Density    domain.Nutrients  `json:"density"`
	Amount     domain.Nutrients  `json:"amount"`
}

// PreviewPortion runs the resolver and portion calculator for a prospective
// entry without writing anything.
func (s *DiaryService) PreviewPortion(
	ctx context.Context,
	userID uuid.UUID,
	sourceKind string,
	itemID uuid.UUID,
	quantity decimal.Decimal,
) (*PortionPreview, error) {
	quantity, err := normalizeQuantity(quantity)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseSourceKind(sourceKind)
	if err != nil {
		return nil, err
	}
	density, err := s.resolver.Resolve(ctx, kind, itemID, userID)
	if err != nil {
		return nil, err
	}
	amount, err := ComputePortion(density, quantity)
	if err != nil {
		return nil, err
	}

	return &PortionPreview{
		SourceKind: kind,
		ItemID:     itemID,
		Quantity:   quantity,
		Density:    density.Round2(),
		Amount:     amount,
	}, nil
}

// normalizeQuantity rounds to the stored precision and requires a result in
// (0, MaxQuantity].
func normalizeQuantity(q decimal.Decimal) (decimal.Decimal, error) {
	q = domain.Round2(q)
	if !q.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}
	if q.GreaterThan(domain.MaxQuantity) {
		return decimal.Zero, fmt.Errorf("%w: quantity must not exceed %s", domain.ErrInvalidArgument, domain.MaxQuantity)
	}
	return q, nil
}

func slotOrder(code string) int {
	if slot, ok := domain.LookupMealSlot(code); ok {
		return slot.Order
	}
	return len(domain.MealSlots) + 1
}
