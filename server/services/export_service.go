package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"portalserver/database"
	apperrors "portalserver/server/errors"
)

// Поддерживаемые форматы экспорта
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// ExportFile готовый к отдаче файл экспорта
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService выгрузка записей портала в CSV и Excel
type ExportService struct {
	products      *database.ProductDB
	manufacturers *database.ManufacturerDB
	orders        *database.OrderDB
	tasks         *database.TaskDB
}

// NewExportService создает сервис экспорта
func NewExportService(
	products *database.ProductDB,
	manufacturers *database.ManufacturerDB,
	orders *database.OrderDB,
	tasks *database.TaskDB,
) *ExportService {
	return &ExportService{
		products:      products,
		manufacturers: manufacturers,
		orders:        orders,
		tasks:         tasks,
	}
}

// Export выгружает записи указанного вида в указанном формате
func (s *ExportService) Export(ctx context.Context, kind, format string) (*ExportFile, error) {
	var header []string
	var rows [][]string

	switch kind {
	case "products":
		products, err := s.products.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load products for export", err)
		}
		header = []string{"ID", "Name", "Subtypes", "Unit", "Notes", "Created At"}
		for _, p := range products {
			rows = append(rows, []string{
				p.ID, p.Name, strings.Join(p.Subtypes, "; "), p.Unit, p.Notes,
				p.CreatedAt.Format(time.RFC3339),
			})
		}
	case "manufacturers":
		manufacturers, err := s.manufacturers.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load manufacturers for export", err)
		}
		header = []string{"ID", "Name", "Location", "Contact", "Products Offered", "Verified At", "Created At"}
		for _, m := range manufacturers {
			verified := ""
			if m.VerifiedAt != nil {
				verified = m.VerifiedAt.Format(time.RFC3339)
			}
			rows = append(rows, []string{
				m.ID, m.Name, m.Location, m.Contact, strings.Join(offerLabels(m.ProductsOffered), "; "),
				verified, m.CreatedAt.Format(time.RFC3339),
			})
		}
	case "orders":
		orders, err := s.orders.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load orders for export", err)
		}
		header = []string{"ID", "Manufacturer", "Product", "Product Type", "Quantity",
			"From", "To", "Material Cost", "Transport Cost", "Total Cost", "Status", "Created At"}
		for _, o := range orders {
			rows = append(rows, []string{
				o.ID, o.Manufacturer, o.Product, o.ProductType,
				strconv.FormatFloat(o.Quantity, 'f', -1, 64),
				o.FromLocation, o.ToLocation,
				strconv.FormatFloat(o.MaterialCost, 'f', 2, 64),
				strconv.FormatFloat(o.TransportCost, 'f', 2, 64),
				strconv.FormatFloat(o.TotalCost, 'f', 2, 64),
				o.Status, o.CreatedAt.Format(time.RFC3339),
			})
		}
	case "tasks":
		tasks, err := s.tasks.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load tasks for export", err)
		}
		header = []string{"ID", "Assigned To", "Date", "Text", "Done", "Created At"}
		for _, t := range tasks {
			rows = append(rows, []string{
				t.ID, t.AssignedTo, t.TaskDate.Format("2006-01-02"), t.TaskText,
				strconv.FormatBool(t.Done), t.CreatedAt.Format(time.RFC3339),
			})
		}
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown export kind %q", kind), nil)
	}

	switch format {
	case FormatCSV:
		content, err := renderCSV(header, rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to render csv", err)
		}
		return &ExportFile{
			Filename:    kind + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatExcel:
		content, err := renderExcel(kind, header, rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to render excel", err)
		}
		return &ExportFile{
			Filename:    kind + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format), nil)
	}
}

// offerLabels переводит предложения производителя в строки вида "тип (цена)"
func offerLabels(offers []database.Offer) []string {
	labels := make([]string, 0, len(offers))
	for _, o := range offers {
		labels = append(labels, fmt.Sprintf("%s (%.2f)", o.ProductType, o.Price))
	}
	return labels
}

// renderCSV сериализует строки в CSV с заголовком
func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderExcel строит книгу Excel с одним листом данных
func renderExcel(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
