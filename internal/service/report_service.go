package service

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"shopflow/internal/apperr"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
	"shopflow/internal/repository"
)

const (
	SheetProducts = "Products"
	SheetLowStock = "Low stock"
)

type ReportService interface {
	// InventoryWorkbook renders the catalogue and the low stock set as .xlsx.
	InventoryWorkbook(ctx context.Context) ([]byte, error)
}

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

func (s *reportService) InventoryWorkbook(ctx context.Context) ([]byte, error) {
	products, err := s.store.Products().List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, storeErr(err, "")
	}
	display := prefs.From(ctx).Display()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetProducts); err != nil {
		return nil, apperr.Internal("Failed to build report", err)
	}
	if _, err := f.NewSheet(SheetLowStock); err != nil {
		return nil, apperr.Internal("Failed to build report", err)
	}

	header := []interface{}{"ID", "SKU", "Name", "Category", "Supplier", "Quantity", "Threshold", "Price", "Stock value"}
	lowHeader := []interface{}{"ID", "SKU", "Name", "Quantity", "Threshold", "Missing", "Supplier"}
	if err := f.SetSheetRow(SheetProducts, "A1", &header); err != nil {
		return nil, apperr.Internal("Failed to build report", err)
	}
	if err := f.SetSheetRow(SheetLowStock, "A1", &lowHeader); err != nil {
		return nil, apperr.Internal("Failed to build report", err)
	}

	row, lowRow := 2, 2
	for i := range products {
		p := &products[i]
		category, supplier, price, value := "", "", "", ""
		if p.Category != nil {
			category = p.Category.Name
		}
		if p.Supplier != nil {
			supplier = *p.Supplier
		}
		if p.Price != nil {
			price = display.Format(money.Amount(*p.Price))
			value = display.Format(money.Amount(*p.Price * int64(p.Quantity)))
		}

		excelRow := []interface{}{p.ID, p.SKU, p.Name, category, supplier, p.Quantity, p.LowStockThreshold, price, value}
		if err := setRow(f, SheetProducts, row, excelRow); err != nil {
			return nil, apperr.Internal("Failed to build report", err)
		}
		row++

		if p.IsLowStock() {
			lowExcelRow := []interface{}{p.ID, p.SKU, p.Name, p.Quantity, p.LowStockThreshold, p.LowStockThreshold - p.Quantity, supplier}
			if err := setRow(f, SheetLowStock, lowRow, lowExcelRow); err != nil {
				return nil, apperr.Internal("Failed to build report", err)
			}
			lowRow++
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, apperr.Internal("Failed to write report", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &values), "row %d", row)
}
