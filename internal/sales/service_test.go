package sales

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
)

type memorySalesRepo struct {
	sales      map[int64]Sale
	guideItems map[int64][]GuideItem
	nextSaleID int64
	nextItemID int64
	failInsert bool
}

func newMemorySalesRepo() *memorySalesRepo {
	return &memorySalesRepo{
		sales:      make(map[int64]Sale),
		guideItems: make(map[int64][]GuideItem),
	}
}

func (r *memorySalesRepo) List(ctx context.Context, filters Filters) ([]SaleDetail, int, error) {
	var result []SaleDetail
	for _, s := range r.sales {
		if filters.GuideID != nil && s.GuideID != *filters.GuideID {
			continue
		}
		result = append(result, SaleDetail{Sale: s})
	}
	return result, len(result), nil
}

func (r *memorySalesRepo) Get(ctx context.Context, id int64) (Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return Sale{}, httpx.ErrNotFound
	}
	return s, nil
}

func (r *memorySalesRepo) Create(ctx context.Context, sale Sale) (Sale, error) {
	r.nextSaleID++
	sale.ID = r.nextSaleID
	r.sales[sale.ID] = sale
	return sale, nil
}

func (r *memorySalesRepo) Update(ctx context.Context, id int64, sale Sale) error {
	if _, ok := r.sales[id]; !ok {
		return httpx.ErrNotFound
	}
	sale.ID = id
	r.sales[id] = sale
	return nil
}

func (r *memorySalesRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.sales[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *memorySalesRepo) ListGuideItems(ctx context.Context, saleID int64) ([]GuideItem, error) {
	return r.guideItems[saleID], nil
}

func (r *memorySalesRepo) ListGuideItemsByGuide(ctx context.Context, guideID int64) ([]GuideItem, error) {
	var items []GuideItem
	for saleID, list := range r.guideItems {
		if r.sales[saleID].GuideID == guideID {
			items = append(items, list...)
		}
	}
	return items, nil
}

func (r *memorySalesRepo) GetGuideItem(ctx context.Context, itemID int64) (GuideItem, error) {
	for _, list := range r.guideItems {
		for _, item := range list {
			if item.ID == itemID {
				return item, nil
			}
		}
	}
	return GuideItem{}, httpx.ErrNotFound
}

func (r *memorySalesRepo) ReplaceGuideItems(ctx context.Context, saleID int64, items []GuideItem) error {
	if r.failInsert {
		return errors.New("insert failed")
	}
	replacement := make([]GuideItem, 0, len(items))
	for _, item := range items {
		r.nextItemID++
		item.ID = r.nextItemID
		item.SaleID = saleID
		replacement = append(replacement, item)
	}
	r.guideItems[saleID] = replacement
	return nil
}

func (r *memorySalesRepo) DeleteGuideItem(ctx context.Context, itemID int64) error {
	for saleID, list := range r.guideItems {
		for i, item := range list {
			if item.ID == itemID {
				r.guideItems[saleID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return httpx.ErrNotFound
}

func (r *memorySalesRepo) UpdateGuideItemStatus(ctx context.Context, itemID int64, status string) error {
	for saleID, list := range r.guideItems {
		for i, item := range list {
			if item.ID == itemID {
				r.guideItems[saleID][i].Status = status
				return nil
			}
		}
	}
	return httpx.ErrNotFound
}

func (r *memorySalesRepo) ListStoreItems(ctx context.Context, saleID int64) ([]StoreItem, error) {
	return nil, nil
}

func (r *memorySalesRepo) ReplaceStoreItems(ctx context.Context, saleID int64, items []StoreItem) error {
	return nil
}

func testService(repo Repository) *Service {
	return NewService(slog.Default(), repo, nil)
}

func adminActor() rbac.Actor {
	return rbac.Actor{ProfileID: 1, Role: rbac.RoleAdmin}
}

func guideActor(guideID int64) rbac.Actor {
	return rbac.Actor{ProfileID: 2, Role: rbac.RoleGuide, GuideID: &guideID}
}

func seedSale(repo *memorySalesRepo, guideID int64) Sale {
	sale, _ := repo.Create(context.Background(), Sale{
		SaleDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CompanyID:  1, StoreID: 1, OperatorID: 1, TourID: 1, GuideID: guideID,
		GroupPax: 20, StorePax: 15,
	})
	return sale
}

func TestReplaceGuideItemsEmptySetLeavesZeroItems(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	err := svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, []GuideItem{
		{ProductID: 1, Quantity: 2, UnitPrice: price("50")},
		{ProductID: 2, Quantity: 1, UnitPrice: price("10")},
	})
	require.NoError(t, err)
	require.Len(t, repo.guideItems[sale.ID], 2)

	err = svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, nil)
	require.NoError(t, err)
	require.Empty(t, repo.guideItems[sale.ID])
}

func TestReplaceGuideItemsDefaultsToPending(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	err := svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, []GuideItem{
		{ProductID: 1, Quantity: 1, UnitPrice: price("25")},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, repo.guideItems[sale.ID][0].Status)
}

func TestReplaceGuideItemsRejectsUnknownStatus(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	err := svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, []GuideItem{
		{ProductID: 1, Quantity: 1, UnitPrice: price("25"), Status: "bilinmiyor"},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGuideCannotTouchForeignSale(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	// Another guide gets not-found, never forbidden.
	_, err := svc.Get(context.Background(), guideActor(9), sale.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	err = svc.ReplaceGuideItems(context.Background(), guideActor(9), sale.ID, nil)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Get(context.Background(), adminActor(), sale.ID)
	require.NoError(t, err)
}

func TestGuideListIsScopedToOwnSales(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	seedSale(repo, 7)
	seedSale(repo, 9)

	result, total, err := svc.List(context.Background(), guideActor(7), Filters{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, result, 1)
	require.Equal(t, int64(7), result[0].GuideID)

	_, total, err = svc.List(context.Background(), adminActor(), Filters{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestUpdateGuideItemStatusEnforcesTransitions(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	require.NoError(t, svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, []GuideItem{
		{ProductID: 1, Quantity: 1, UnitPrice: price("25")},
	}))
	itemID := repo.guideItems[sale.ID][0].ID

	require.NoError(t, svc.UpdateGuideItemStatus(context.Background(), adminActor(), itemID, StatusApproved))

	// Approved is terminal.
	err := svc.UpdateGuideItemStatus(context.Background(), adminActor(), itemID, StatusCancelled)
	require.ErrorIs(t, err, httpx.ErrValidation)
	err = svc.UpdateGuideItemStatus(context.Background(), adminActor(), itemID, StatusPending)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGuideSummaryMatchesItems(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	require.NoError(t, svc.ReplaceGuideItems(context.Background(), guideActor(7), sale.ID, []GuideItem{
		{ProductID: 1, Quantity: 2, UnitPrice: price("100.50"), Status: StatusApproved},
		{ProductID: 2, Quantity: 3, UnitPrice: price("10.00")},
		{ProductID: 3, Quantity: 1, UnitPrice: price("500.00"), Status: StatusCancelled},
	}))

	summary, err := svc.GuideSummary(context.Background(), guideActor(7), 0)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Approved.Count)
	require.True(t, summary.Approved.Amount.Equal(price("201.00")))
	require.Equal(t, 1, summary.Pending.Count)
	require.True(t, summary.Pending.Amount.Equal(price("30.00")))
	require.Equal(t, 1, summary.Cancelled.Count)
	require.True(t, summary.Cancelled.Amount.Equal(price("500.00")))
}

func TestValidateSaleRejectsBadGroupSizes(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)

	_, err := svc.Create(context.Background(), adminActor(), Sale{
		SaleDate:  time.Now(),
		CompanyID: 1, StoreID: 1, OperatorID: 1, TourID: 1, GuideID: 1,
		GroupPax: 10, StorePax: 12,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreatePinsGuideToOwnRegistryEntry(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)

	// The submitted guide_id is ignored for guide actors.
	created, err := svc.Create(context.Background(), guideActor(9), Sale{
		SaleDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CompanyID: 1, StoreID: 1, OperatorID: 1, TourID: 1, GuideID: 7,
		GroupPax: 20, StorePax: 15,
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), created.GuideID)
	require.Equal(t, int64(9), repo.sales[created.ID].GuideID)
}

func TestUpdateCannotReassignGuideSale(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)
	sale := seedSale(repo, 7)

	reassigned := sale
	reassigned.GuideID = 9
	require.NoError(t, svc.Update(context.Background(), guideActor(7), sale.ID, reassigned))
	require.Equal(t, int64(7), repo.sales[sale.ID].GuideID)

	// Back office may reassign.
	require.NoError(t, svc.Update(context.Background(), adminActor(), sale.ID, reassigned))
	require.Equal(t, int64(9), repo.sales[sale.ID].GuideID)
}

func TestUnlinkedGuideCannotWriteSales(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := testService(repo)

	actor := rbac.Actor{ProfileID: 3, Role: rbac.RoleGuide}
	_, err := svc.Create(context.Background(), actor, Sale{
		SaleDate:  time.Now(),
		CompanyID: 1, StoreID: 1, OperatorID: 1, TourID: 1, GuideID: 7,
		GroupPax: 10, StorePax: 5,
	})
	require.ErrorIs(t, err, httpx.ErrForbidden)
	require.Empty(t, repo.sales)
}
