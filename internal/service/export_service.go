package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportLinkTTL is how long a download link for a stored export stays valid
const ExportLinkTTL = 15 * time.Minute

// ExportFormat is the file type of an expense export
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a format name; empty means xlsx
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return ExportXLSX, nil
	case ExportXLSX, ExportPDF, ExportCSV:
		return f, nil
	default:
		return "", domain.ErrUnsupportedFormat
	}
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportCSV:
		return "text/csv"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// ExportFile is a rendered export ready to be sent
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportLink points at an export stored in object storage
type ExportLink struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService renders expenses and their summary as downloadable files
type ExportService struct {
	reports      *ReportService
	settingsRepo domain.SettingsRepository
	storage      storage.ObjectStore
	now          func() time.Time
}

// NewExportService creates a new ExportService; a nil store disables link delivery
func NewExportService(reports *ReportService, settingsRepo domain.SettingsRepository, store storage.ObjectStore) *ExportService {
	return &ExportService{
		reports:      reports,
		settingsRepo: settingsRepo,
		storage:      store,
		now:          time.Now,
	}
}

// LinksEnabled reports whether exports can be delivered as links
func (s *ExportService) LinksEnabled() bool {
	return s.storage != nil
}

// Export renders the user's expenses in [from, to] (default current month)
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID, format ExportFormat, from, to *time.Time) (*ExportFile, error) {
	summary, expenses, err := s.reports.SummaryWithExpenses(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	currency := domain.DefaultCurrency
	if settings, err := s.settingsRepo.Get(ctx, userID); err == nil {
		currency = settings.Currency
	}

	var data []byte
	switch format {
	case ExportXLSX:
		data, err = renderXLSX(summary, expenses, currency)
	case ExportPDF:
		data, err = renderPDF(summary, expenses, currency)
	case ExportCSV:
		data, err = renderCSV(expenses)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	return &ExportFile{
		Filename: fmt.Sprintf("expenses_%s_%s.%s",
			summary.From.Format(util.DateLayout), summary.To.Format(util.DateLayout), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// ExportToStorage renders the export, uploads it and returns a short-lived link
func (s *ExportService) ExportToStorage(ctx context.Context, userID uuid.UUID, format ExportFormat, from, to *time.Time) (*ExportLink, error) {
	if !s.LinksEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	file, err := s.Export(ctx, userID, format, from, to)
	if err != nil {
		return nil, err
	}

	key := storage.ExportPath(userID, file.Filename)
	if _, err := s.storage.Upload(ctx, key, bytes.NewReader(file.Data), file.ContentType, int64(len(file.Data))); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.storage.GeneratePresignedURL(ctx, key, ExportLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export url: %w", err)
	}

	log.Info().Str("user_id", userID.String()).Str("key", key).Msg("export stored")
	return &ExportLink{
		URL:       url,
		Filename:  file.Filename,
		ExpiresAt: s.now().Add(ExportLinkTTL).UTC(),
	}, nil
}

var (
	expenseColumns = []string{"Date", "Category", "Description", "Amount"}
	hundred        = decimal.NewFromInt(100)
)

func renderCSV(expenses []*domain.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(expenseColumns); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		record := []string{
			e.Date.Format(util.DateLayout),
			csvText(e.Category),
			csvText(e.Description),
			e.Amount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvText quotes user text that a spreadsheet would otherwise evaluate as a formula
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func renderXLSX(summary *domain.ReportSummary, expenses []*domain.Expense, currency string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const expensesSheet, summarySheet = "Expenses", "Summary"
	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(expenseColumns))
	for i, col := range expenseColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(expensesSheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(expensesSheet, "A1", "D1", bold); err != nil {
		return nil, err
	}

	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		amount, _ := e.Amount.Float64()
		row := []interface{}{e.Date.Format(util.DateLayout), e.Category, e.Description, amount}
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(expensesSheet, "A", "B", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(expensesSheet, "C", "C", 40); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Period", summary.From.Format(util.DateLayout) + " to " + summary.To.Format(util.DateLayout)},
		{"Currency", currency},
		{"Income", summary.Income.StringFixed(2)},
		{"Total spent", summary.TotalSpent.StringFixed(2)},
		{"Savings", summary.Savings.StringFixed(2)},
		{"Savings rate", summary.SavingsRate.Mul(hundred).StringFixed(1) + "%"},
		{"Expenses", summary.ExpenseCount},
		{},
		{"Category", "Budgeted", "Spent", "Utilization", "Count"},
	}
	for _, c := range summary.Categories {
		rows = append(rows, []interface{}{
			c.Category,
			c.Budgeted.StringFixed(2),
			c.Spent.StringFixed(2),
			c.Utilization.Mul(hundred).StringFixed(1) + "%",
			c.Count,
		})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A7", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A9", "E9", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(summary *domain.ReportSummary, expenses []*domain.Expense, currency string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Expense report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s to %s (%s)",
		summary.From.Format(util.DateLayout), summary.To.Format(util.DateLayout), currency))
	pdf.Ln(10)

	widths := []float64{28, 40, 92, 30}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range expenseColumns {
		align := "L"
		if i == len(expenseColumns)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, e := range expenses {
		pdf.CellFormat(widths[0], 6, e.Date.Format(util.DateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(e.Category, 24)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(truncate(e.Description, 56)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[3], 7, summary.TotalSpent.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		"Income: " + summary.Income.StringFixed(2),
		"Savings: " + summary.Savings.StringFixed(2),
		"Savings rate: " + summary.SavingsRate.Mul(hundred).StringFixed(1) + "%",
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
