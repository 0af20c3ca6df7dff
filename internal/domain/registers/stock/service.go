package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000

	productPageSize = 500
)

// Service computes stock levels from the ledger. It never writes.
type Service struct {
	repo     Repository
	products product.Repository
}

// NewService creates a new stock projection service.
func NewService(repo Repository, products product.Repository) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

// ProductStock is a product with its current product-wide total.
type ProductStock struct {
	Product    *product.Product `json:"product"`
	Total      types.Quantity   `json:"total"`
	LowStock   bool             `json:"lowStock"`
	OutOfStock bool             `json:"outOfStock"`
}

// GetStockLevel returns the quantity of a product, optionally narrowed to a warehouse and location.
// While the product has no ledger entries the product-wide level is its initial stock; narrowed levels are zero.
func (s *Service) GetStockLevel(ctx context.Context, productID id.ID, warehouseID, locationID *id.ID) (types.Quantity, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	scope := Scope{ProductID: productID, WarehouseID: warehouseID, LocationID: locationID}
	sum, err := s.repo.SumQuantity(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}

	if scope.IsProductWide() {
		return productTotal(p, sum), nil
	}
	return sum.Quantity, nil
}

func productTotal(p *product.Product, sum Sum) types.Quantity {
	if sum.Entries == 0 {
		return p.InitialStock
	}
	return sum.Quantity
}

// Breakdown returns the non-zero balances of a product per warehouse and location.
func (s *Service) Breakdown(ctx context.Context, productID id.ID) ([]entity.StockBalance, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.GetBalances(ctx, BalanceFilter{ProductID: &productID, ExcludeZero: true})
}

// WarehouseStock returns the non-zero balances held by a warehouse.
func (s *Service) WarehouseStock(ctx context.Context, warehouseID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalances(ctx, BalanceFilter{WarehouseID: &warehouseID, ExcludeZero: true})
}

// Levels returns every active product with its total, ordered by SKU.
func (s *Service) Levels(ctx context.Context) ([]ProductStock, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.ProductTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}

	levels := make([]ProductStock, 0, len(products))
	for _, p := range products {
		total := productTotal(p, totals[p.ID])
		levels = append(levels, ProductStock{
			Product:    p,
			Total:      total,
			LowStock:   p.IsLowStock(total),
			OutOfStock: p.IsOutOfStock(total),
		})
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Product.SKU < levels[j].Product.SKU
	})
	return levels, nil
}

// LowStock returns active products whose total is at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]ProductStock, error) {
	return s.filterLevels(ctx, func(ps ProductStock) bool { return ps.LowStock })
}

// OutOfStock returns active products with nothing on hand.
func (s *Service) OutOfStock(ctx context.Context) ([]ProductStock, error) {
	return s.filterLevels(ctx, func(ps ProductStock) bool { return ps.OutOfStock })
}

func (s *Service) filterLevels(ctx context.Context, keep func(ProductStock) bool) ([]ProductStock, error) {
	levels, err := s.Levels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductStock, 0)
	for _, l := range levels {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// StockValue sums total × cost over active products. Negative totals contribute nothing.
func (s *Service) StockValue(ctx context.Context) (types.Money, error) {
	levels, err := s.Levels(ctx)
	if err != nil {
		return types.ZeroMoney(), err
	}
	value := types.ZeroMoney()
	for _, l := range levels {
		if l.Total.IsPositive() {
			value = value.Add(l.Total.MulMoney(l.Product.Cost))
		}
	}
	return value, nil
}

// History returns ledger entries newest first.
func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]entity.LedgerEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}
	if filter.TransactionType != nil && !filter.TransactionType.IsValid() {
		return nil, apperror.NewValidation("invalid transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", string(*filter.TransactionType))
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.NewValidation("from must be before to").
			WithDetail("field", "from")
	}
	return s.repo.ListEntries(ctx, filter)
}

// ProductHistory returns the latest entries of one product.
func (s *Service) ProductHistory(ctx context.Context, productID id.ID, limit int) ([]entity.LedgerEntry, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.History(ctx, HistoryFilter{ProductID: &productID, Limit: limit})
}

func (s *Service) activeProducts(ctx context.Context) ([]*product.Product, error) {
	var all []*product.Product
	filter := domain.ListFilter{Limit: productPageSize, OrderBy: "sku"}
	for {
		page, err := s.products.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		all = append(all, page.Items...)
		filter.Offset += len(page.Items)
		if len(page.Items) == 0 || int64(filter.Offset) >= page.TotalCount {
			break
		}
	}
	return all, nil
}
