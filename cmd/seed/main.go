// Package main provides a CLI tool for seeding a fresh database with demo inventory.
// It goes through the domain services, so every demo movement lands in the ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ravikhokle/oddostock/internal/app"
	"github.com/ravikhokle/oddostock/internal/config"
	"github.com/ravikhokle/oddostock/internal/core/apperror"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/auth"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

// seedUserID owns every demo document.
var seedUserID = id.MustParse("00000000-0000-7000-8000-000000000001")

type demoProduct struct {
	sku, name string
	unit      product.UnitOfMeasure
	cost      string
	reorder   int64
	received  int64
}

var demoProducts = []demoProduct{
	{sku: "DESK-001", name: "Office Desk", unit: product.UnitPieces, cost: "120.00", reorder: 5, received: 20},
	{sku: "CHAIR-001", name: "Office Chair", unit: product.UnitPieces, cost: "45.50", reorder: 10, received: 8},
	{sku: "STEEL-ROD", name: "Steel Rod", unit: product.UnitKg, cost: "2.75", reorder: 100, received: 250},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: seedUserID,
		Email:  "seed@oddostock.local",
		Roles:  []string{"admin"},
	})

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services := app.New(backend.Repos, backend.Publisher)

	if err := seedDemoData(ctx, services, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	if cfg.JWT.Secret != "" {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		token, expires, err := auth.NewJWTService(jwtConfig).
			GenerateAccessToken(seedUserID, "seed@oddostock.local", []string{"admin"})
		if err != nil {
			log.Fatalw("failed to issue token", "error", err)
		}
		log.Infow("issued admin access token", "expires_at", expires)
		fmt.Println(token)
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, svc *app.Services, log *logger.Logger) error {
	if _, err := svc.Products.GetBySKU(ctx, demoProducts[0].sku); err == nil {
		log.Info("demo data already present, skipping")
		return nil
	} else if !apperror.IsNotFound(err) {
		return fmt.Errorf("check demo data: %w", err)
	}

	wh := warehouse.NewWarehouse("MAIN", "Main Warehouse")
	wh.Address = "1 Depot Road"
	if err := svc.Warehouses.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	stockLoc := location.NewLocation(wh.ID, "Stock")
	if err := svc.Locations.Create(ctx, stockLoc); err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	shelf := location.NewLocation(wh.ID, "Shelf A")
	shelf.ParentID = &stockLoc.ID
	if err := svc.Locations.Create(ctx, shelf); err != nil {
		return fmt.Errorf("create location: %w", err)
	}

	rcp := receipt.NewReceipt(seedUserID, wh.ID, stockLoc.ID, entity.Partner{Name: "Demo Supplier"})
	rcp.Notes = "Opening stock"
	for _, d := range demoProducts {
		p := product.NewProduct(d.sku, d.name)
		p.UnitOfMeasure = d.unit
		p.Cost = types.MustMoney(d.cost)
		p.ReorderLevel = types.NewQuantity(d.reorder)
		if err := svc.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", d.sku, err)
		}
		qty := types.NewQuantity(d.received)
		rcp.AddLine(p.ID, qty, qty, p.Cost)
	}

	if err := svc.Receipts.Create(ctx, rcp); err != nil {
		return fmt.Errorf("create receipt: %w", err)
	}
	if _, err := svc.Receipts.Validate(ctx, rcp.ID, seedUserID); err != nil {
		return fmt.Errorf("validate receipt: %w", err)
	}

	log.Infow("demo data seeded",
		"warehouse", wh.Code,
		"products", len(demoProducts),
		"receipt", rcp.Number,
	)
	return nil
}
