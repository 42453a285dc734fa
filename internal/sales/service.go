package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
)

type Service struct {
	logger   *slog.Logger
	repo     Repository
	recorder systemlog.Recorder
}

func NewService(logger *slog.Logger, repo Repository, recorder systemlog.Recorder) *Service {
	if recorder == nil {
		recorder = systemlog.Noop{}
	}
	return &Service{logger: logger, repo: repo, recorder: recorder}
}

// scopeToActor pins guide actors to their own sales. Admin and standard
// users see everything.
func scopeToActor(actor rbac.Actor, filters Filters) Filters {
	if actor.Role == rbac.RoleGuide && actor.GuideID != nil {
		filters.GuideID = actor.GuideID
	}
	return filters
}

// pinToActor forces guide actors to write sales under their own guide
// registry entry. A guide account without a linked entry cannot write at all.
func pinToActor(actor rbac.Actor, sale Sale) (Sale, error) {
	if actor.Role != rbac.RoleGuide {
		return sale, nil
	}
	if actor.GuideID == nil {
		return Sale{}, fmt.Errorf("%w: guide account has no linked registry entry", httpx.ErrForbidden)
	}
	sale.GuideID = *actor.GuideID
	return sale, nil
}

// guardSale enforces the ownership invariant: a guide actor touching a sale
// assigned to another guide gets not-found, never forbidden, so foreign
// sale IDs stay unguessable.
func (s *Service) guardSale(ctx context.Context, actor rbac.Actor, saleID int64) (Sale, error) {
	sale, err := s.repo.Get(ctx, saleID)
	if err != nil {
		return Sale{}, err
	}
	if actor.Role == rbac.RoleGuide {
		if actor.GuideID == nil || sale.GuideID != *actor.GuideID {
			return Sale{}, httpx.ErrNotFound
		}
	}
	return sale, nil
}

func (s *Service) guardItem(ctx context.Context, actor rbac.Actor, itemID int64) (GuideItem, error) {
	item, err := s.repo.GetGuideItem(ctx, itemID)
	if err != nil {
		return GuideItem{}, err
	}
	if _, err := s.guardSale(ctx, actor, item.SaleID); err != nil {
		return GuideItem{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, actor rbac.Actor, filters Filters) ([]SaleDetail, int, error) {
	return s.repo.List(ctx, scopeToActor(actor, filters))
}

func (s *Service) Get(ctx context.Context, actor rbac.Actor, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, fmt.Errorf("%w: invalid sale id", httpx.ErrValidation)
	}
	return s.guardSale(ctx, actor, id)
}

func (s *Service) Create(ctx context.Context, actor rbac.Actor, sale Sale) (Sale, error) {
	sale, err := pinToActor(actor, sale)
	if err != nil {
		return Sale{}, err
	}
	if err := validateSale(sale); err != nil {
		return Sale{}, err
	}
	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	s.record(ctx, actor, "sale.create", created.ID, true)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor rbac.Actor, id int64, sale Sale) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid sale id", httpx.ErrValidation)
	}
	sale, err := pinToActor(actor, sale)
	if err != nil {
		return err
	}
	if err := validateSale(sale); err != nil {
		return err
	}
	if _, err := s.guardSale(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, sale); err != nil {
		return err
	}
	s.record(ctx, actor, "sale.update", id, true)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid sale id", httpx.ErrValidation)
	}
	if _, err := s.guardSale(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "sale.delete", id, true)
	return nil
}

func (s *Service) GuideItems(ctx context.Context, actor rbac.Actor, saleID int64) ([]GuideItem, error) {
	if _, err := s.guardSale(ctx, actor, saleID); err != nil {
		return nil, err
	}
	return s.repo.ListGuideItems(ctx, saleID)
}

// ReplaceGuideItems swaps the full guide-side item set for a sale. New
// items default to pending; submitted statuses must be valid enum values.
func (s *Service) ReplaceGuideItems(ctx context.Context, actor rbac.Actor, saleID int64, items []GuideItem) error {
	if _, err := s.guardSale(ctx, actor, saleID); err != nil {
		return err
	}
	for i := range items {
		if items[i].Status == "" {
			items[i].Status = StatusPending
		}
		if !ValidStatus(items[i].Status) {
			return fmt.Errorf("%w: unknown item status %q", httpx.ErrValidation, items[i].Status)
		}
		if items[i].ProductID <= 0 {
			return fmt.Errorf("%w: product is required", httpx.ErrValidation)
		}
		if items[i].Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
		}
		if items[i].UnitPrice.IsNegative() {
			return fmt.Errorf("%w: unit price cannot be negative", httpx.ErrValidation)
		}
	}
	if err := s.repo.ReplaceGuideItems(ctx, saleID, items); err != nil {
		s.record(ctx, actor, "sale.items.replace", saleID, false)
		return err
	}
	s.record(ctx, actor, "sale.items.replace", saleID, true)
	return nil
}

func (s *Service) DeleteGuideItem(ctx context.Context, actor rbac.Actor, itemID int64) error {
	if _, err := s.guardItem(ctx, actor, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteGuideItem(ctx, itemID); err != nil {
		return err
	}
	s.record(ctx, actor, "sale.item.delete", itemID, true)
	return nil
}

// UpdateGuideItemStatus moves a pending item to approved or cancelled.
// Terminal statuses never change again.
func (s *Service) UpdateGuideItemStatus(ctx context.Context, actor rbac.Actor, itemID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown item status %q", httpx.ErrValidation, status)
	}
	item, err := s.guardItem(ctx, actor, itemID)
	if err != nil {
		return err
	}
	if !CanTransition(item.Status, status) {
		return fmt.Errorf("%w: cannot move item from %q to %q", httpx.ErrValidation, item.Status, status)
	}
	if err := s.repo.UpdateGuideItemStatus(ctx, itemID, status); err != nil {
		return err
	}
	s.record(ctx, actor, "sale.item.status", itemID, true)
	return nil
}

// GuideSummary aggregates a guide's own items by status.
func (s *Service) GuideSummary(ctx context.Context, actor rbac.Actor, guideID int64) (Summary, error) {
	if actor.Role == rbac.RoleGuide {
		if actor.GuideID == nil {
			return Summary{}, httpx.ErrNotFound
		}
		guideID = *actor.GuideID
	}
	if guideID <= 0 {
		return Summary{}, fmt.Errorf("%w: invalid guide id", httpx.ErrValidation)
	}
	items, err := s.repo.ListGuideItemsByGuide(ctx, guideID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

func (s *Service) StoreItems(ctx context.Context, actor rbac.Actor, saleID int64) ([]StoreItem, error) {
	if _, err := s.guardSale(ctx, actor, saleID); err != nil {
		return nil, err
	}
	return s.repo.ListStoreItems(ctx, saleID)
}

func (s *Service) ReplaceStoreItems(ctx context.Context, actor rbac.Actor, saleID int64, items []StoreItem) error {
	if _, err := s.guardSale(ctx, actor, saleID); err != nil {
		return err
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product is required", httpx.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: unit price cannot be negative", httpx.ErrValidation)
		}
	}
	if err := s.repo.ReplaceStoreItems(ctx, saleID, items); err != nil {
		s.record(ctx, actor, "sale.store_items.replace", saleID, false)
		return err
	}
	s.record(ctx, actor, "sale.store_items.replace", saleID, true)
	return nil
}

func validateSale(sale Sale) error {
	if sale.SaleDate.IsZero() {
		return fmt.Errorf("%w: sale date is required", httpx.ErrValidation)
	}
	if sale.CompanyID <= 0 || sale.StoreID <= 0 || sale.OperatorID <= 0 || sale.TourID <= 0 || sale.GuideID <= 0 {
		return fmt.Errorf("%w: company, store, operator, tour and guide are required", httpx.ErrValidation)
	}
	if sale.GroupPax < 0 || sale.StorePax < 0 {
		return fmt.Errorf("%w: group sizes cannot be negative", httpx.ErrValidation)
	}
	if sale.StorePax > sale.GroupPax && sale.GroupPax > 0 {
		return fmt.Errorf("%w: store visitors cannot exceed the group size", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actor rbac.Actor, action string, entityID int64, success bool) {
	entry := systemlog.Entry{
		ActorID:    &actor.ProfileID,
		Action:     action,
		Entity:     "satislar",
		EntityID:   strconv.FormatInt(entityID, 10),
		Success:    success,
		OccurredAt: time.Now(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("record system log", slog.Any("error", err), slog.String("action", action))
	}
}
