package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExportService(store storage.ObjectStore) (*ExportService, *reportFixture) {
	f := newReportFixture()
	f.seedMarch()
	service := NewExportService(f.service, f.settings, store)
	service.now = f.service.now
	return service, f
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want ExportFormat
		err  error
	}{
		{"", ExportXLSX, nil},
		{"XLSX", ExportXLSX, nil},
		{" pdf ", ExportPDF, nil},
		{"csv", ExportCSV, nil},
		{"docx", "", domain.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.ErrorIs(t, err, tt.err)
	}
}

func TestExport_CSV(t *testing.T) {
	service, f := newTestExportService(nil)

	file, err := service.Export(context.Background(), f.userID, ExportCSV, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "expenses_2026-03-01_2026-03-31.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Date", "Category", "Description", "Amount"}, records[0])
	assert.Equal(t, "2026-03-17", records[1][0], "newest first")
	assert.Equal(t, "260.00", records[1][3])
}

func TestRenderCSV_NeutralizesFormulas(t *testing.T) {
	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	expenses := []*domain.Expense{
		{Date: date, Category: "=Food", Description: `=HYPERLINK("http://evil.test")`, Amount: decimal.NewFromInt(5)},
		{Date: date, Category: "+Gifts", Description: "-2+3", Amount: decimal.NewFromInt(6)},
		{Date: date, Category: "@Rent", Description: "\tcmd", Amount: decimal.NewFromInt(7)},
		{Date: date, Category: "Food", Description: "plain - text", Amount: decimal.NewFromInt(8)},
	}

	data, err := renderCSV(expenses)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"'=Food", `'=HYPERLINK("http://evil.test")`}, records[1][1:3])
	assert.Equal(t, []string{"'+Gifts", "'-2+3"}, records[2][1:3])
	assert.Equal(t, []string{"'@Rent", "'\tcmd"}, records[3][1:3])
	assert.Equal(t, []string{"Food", "plain - text"}, records[4][1:3])
	assert.Equal(t, "5.00", records[1][3], "amounts are left numeric")
}

func TestExport_XLSX(t *testing.T) {
	service, f := newTestExportService(nil)

	file, err := service.Export(context.Background(), f.userID, ExportXLSX, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Expenses", "Summary"}, wb.GetSheetList())

	rows, err := wb.GetRows("Expenses")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, "Category", rows[0][1])

	spent, err := wb.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "345.00", spent)
}

func TestExport_PDF(t *testing.T) {
	service, f := newTestExportService(nil)

	file, err := service.Export(context.Background(), f.userID, ExportPDF, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}

func TestExport_InvalidRange(t *testing.T) {
	service, f := newTestExportService(nil)
	from, to := day(3, 10), day(3, 1)

	_, err := service.Export(context.Background(), f.userID, ExportCSV, &from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestExportToStorage(t *testing.T) {
	store := testutil.NewMockObjectStore()
	service, f := newTestExportService(store)

	link, err := service.ExportToStorage(context.Background(), f.userID, ExportCSV, nil, nil)
	require.NoError(t, err)

	require.Len(t, store.Objects, 1)
	for key := range store.Objects {
		assert.True(t, strings.HasPrefix(key, "exports/"+f.userID.String()+"/"))
		assert.True(t, strings.HasSuffix(key, link.Filename))
		assert.Equal(t, "text/csv", store.ContentTypes[key])
	}
	assert.Contains(t, link.URL, "expires=900")
	assert.Equal(t, f.service.now().Add(ExportLinkTTL).UTC(), link.ExpiresAt)
}

func TestExportToStorage_NotConfigured(t *testing.T) {
	service, _ := newTestExportService(nil)

	_, err := service.ExportToStorage(context.Background(), uuid.New(), ExportCSV, nil, nil)
	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)
	assert.False(t, service.LinksEnabled())
}
