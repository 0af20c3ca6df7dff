package handlers

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

const (
	ledgerSheet       = "Ledger"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ledgerExportTitle = "ledger"
)

var ledgerColumns = []any{
	"Date", "Product", "Warehouse", "Location", "Type",
	"Quantity", "Running balance", "Reference", "Reference type", "User", "Note",
}

// LedgerHandler serves move history.
type LedgerHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *stock.Service) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: base,
		service:     service,
	}
}

// History handles GET /ledger - newest entries first, 100 by default.
func (h *LedgerHandler) History(c *gin.Context) {
	entries, ok := h.load(c, 0)
	if !ok {
		return
	}
	h.OK(c, dto.NewItemsResponse(entries))
}

// ProductHistory handles GET /products/:id/history
func (h *LedgerHandler) ProductHistory(c *gin.Context) {
	productID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.ProductHistory(c.Request.Context(), productID, h.ParseIntQuery(c, "limit", 0))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(entries))
}

// Export handles GET /ledger/export - the filtered history as an xlsx workbook.
func (h *LedgerHandler) Export(c *gin.Context) {
	entries, ok := h.load(c, stock.MaxHistoryLimit)
	if !ok {
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", ledgerExportTitle, time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteLedgerWorkbook(c.Writer, entries); err != nil {
		h.Error(c, err)
		return
	}
}

func (h *LedgerHandler) load(c *gin.Context, defaultLimit int) ([]entity.LedgerEntry, bool) {
	var q dto.HistoryQuery
	if !h.BindQuery(c, &q) {
		return nil, false
	}
	filter := q.ToFilter()
	if filter.Limit == 0 {
		filter.Limit = defaultLimit
	}

	entries, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return entries, true
}

// WriteLedgerWorkbook renders entries as a single-sheet workbook.
func WriteLedgerWorkbook(w io.Writer, entries []entity.LedgerEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ProductID.String(),
			e.WarehouseID.String(),
			e.LocationID.String(),
			string(e.TransactionType),
			e.Quantity.Float64(),
			e.RunningBalance.Float64(),
			e.ReferenceNumber,
			e.ReferenceType,
			e.UserID.String(),
			e.Note,
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
