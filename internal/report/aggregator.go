package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"sinarabadi/backend/internal/cache"
	"sinarabadi/backend/internal/domain"
	"sinarabadi/backend/internal/receipt"
	"sinarabadi/backend/internal/store"
)

const (
	ModeDaily   = "daily"
	ModeMonthly = "monthly"
	ModeYearly  = "yearly"
)

// Window selects ledger entries by calendar fields, not by instant
// arithmetic: a daily window matches year+month+day, a monthly window
// year+month, a yearly window year only.
type Window struct {
	Mode   string
	Anchor time.Time
}

// ParseWindow accepts "2006-01-02" for daily, "2006-01" for monthly and
// "2006" for yearly anchors.
func ParseWindow(mode string, anchor string) (Window, error) {
	layout := ""
	switch mode {
	case ModeDaily:
		layout = "2006-01-02"
	case ModeMonthly:
		layout = "2006-01"
	case ModeYearly:
		layout = "2006"
	default:
		return Window{}, fmt.Errorf("%w: unsupported report mode %q", store.ErrValidation, mode)
	}

	parsed, err := time.Parse(layout, anchor)
	if err != nil {
		return Window{}, fmt.Errorf("%w: anchor %q does not match %s", store.ErrValidation, anchor, layout)
	}
	return Window{Mode: mode, Anchor: parsed.UTC()}, nil
}

func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	switch w.Mode {
	case ModeDaily:
		return t.Year() == w.Anchor.Year() && t.Month() == w.Anchor.Month() && t.Day() == w.Anchor.Day()
	case ModeMonthly:
		return t.Year() == w.Anchor.Year() && t.Month() == w.Anchor.Month()
	case ModeYearly:
		return t.Year() == w.Anchor.Year()
	default:
		return false
	}
}

// cacheKey includes the ledger revision, so any mutation that could
// change a summary moves every window to a fresh key and the old entry
// just ages out of redis.
func (w Window) cacheKey(rev uint64) string {
	anchor := ""
	switch w.Mode {
	case ModeDaily:
		anchor = w.Anchor.Format("2006-01-02")
	case ModeMonthly:
		anchor = w.Anchor.Format("2006-01")
	case ModeYearly:
		anchor = w.Anchor.Format("2006")
	}
	return "pos:report:summary:r" + strconv.FormatUint(rev, 10) + ":" + w.Mode + ":" + anchor
}

// Aggregator derives every report from the ledger on demand. Summaries
// for fixed windows go through the cache; everything else is computed
// per request.
type Aggregator struct {
	repo     store.Repository
	cache    cache.ReportCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewAggregator(repo store.Repository, cacheStore cache.ReportCache, cacheTTL time.Duration, logger zerolog.Logger) *Aggregator {
	if cacheStore == nil {
		cacheStore = cache.NoopReportCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &Aggregator{
		repo:     repo,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
		log:      logger.With().Str("component", "report").Logger(),
	}
}

// LedgerSummary computes revenue, cost of goods sold and gross margin
// for one window. Cancelled transactions never count. COGS matches each
// sold line to the current catalog by product name; a line whose name no
// longer matches contributes zero cost.
func (a *Aggregator) LedgerSummary(ctx context.Context, w Window) (domain.LedgerSummary, error) {
	rev, err := a.repo.LedgerRevision(ctx)
	if err != nil {
		return domain.LedgerSummary{}, err
	}

	key := w.cacheKey(rev)
	if cached, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
	}

	transactions, err := a.repo.ListTransactions(ctx)
	if err != nil {
		return domain.LedgerSummary{}, err
	}
	costByName, err := a.costByName(ctx)
	if err != nil {
		return domain.LedgerSummary{}, err
	}

	summary := domain.LedgerSummary{
		Mode:   w.Mode,
		Anchor: w.Anchor.Format("2006-01-02"),
	}
	for _, tx := range transactions {
		if tx.Status == domain.TxStatusCancelled || !w.Contains(tx.Date) {
			continue
		}
		summary.Transactions++
		summary.Revenue += tx.Total
		for _, item := range tx.Items {
			if cost, ok := costByName[item.Name]; ok {
				summary.COGS += cost * int64(item.Quantity)
			}
		}
	}
	summary.GrossMargin = summary.Revenue - summary.COGS

	if err := a.cache.Set(ctx, key, &summary, a.cacheTTL); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
	return summary, nil
}

// ProductSales builds the per-product sales summary over an optional
// date range (inclusive on both ends, whole days). Rows are ordered
// best sellers first; ties keep ledger order, so the most recently
// sold product wins and each row's details run newest-first. Initial
// stock is reconstructed as current stock plus the quantity sold in
// range.
func (a *Aggregator) ProductSales(ctx context.Context, from *time.Time, to *time.Time) ([]domain.ProductSalesRow, error) {
	transactions, err := a.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	products, err := a.repo.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	stockByName := make(map[string]int, len(products))
	for _, p := range products {
		stockByName[p.Name] = p.Stock
	}

	rows := make([]domain.ProductSalesRow, 0, len(products))
	indexByName := make(map[string]int, len(products))

	for _, tx := range transactions {
		if tx.Status == domain.TxStatusCancelled || !inDateRange(tx.Date, from, to) {
			continue
		}
		for _, item := range tx.Items {
			idx, seen := indexByName[item.Name]
			if !seen {
				idx = len(rows)
				indexByName[item.Name] = idx
				rows = append(rows, domain.ProductSalesRow{Name: item.Name, LastSaleDate: tx.Date})
			}
			rows[idx].TotalSold += item.Quantity
			if tx.Date.After(rows[idx].LastSaleDate) {
				rows[idx].LastSaleDate = tx.Date
			}
			rows[idx].Details = append(rows[idx].Details, domain.SaleDetail{
				Date:          tx.Date,
				Quantity:      item.Quantity,
				TransactionID: tx.ID,
			})
		}
	}

	for i := range rows {
		current, known := stockByName[rows[i].Name]
		if known {
			rows[i].InitialStock = current + rows[i].TotalSold
		} else {
			rows[i].InitialStock = rows[i].TotalSold
		}
		rows[i].RemainingStock = rows[i].InitialStock - rows[i].TotalSold
	}

	slices.SortStableFunc(rows, func(x, y domain.ProductSalesRow) int {
		return y.TotalSold - x.TotalSold
	})
	return rows, nil
}

// PurchaseReport flattens every purchase in the window into one row per
// line item, with the window's grand total across whole purchases.
func (a *Aggregator) PurchaseReport(ctx context.Context, w Window) (domain.PurchaseReport, error) {
	purchases, err := a.repo.ListPurchases(ctx)
	if err != nil {
		return domain.PurchaseReport{}, err
	}

	report := domain.PurchaseReport{Rows: make([]domain.PurchaseReportRow, 0, len(purchases))}
	for _, p := range purchases {
		if !w.Contains(p.Date) {
			continue
		}
		report.GrandTotal += p.TotalPurchaseCost
		for _, item := range p.Items {
			report.Rows = append(report.Rows, domain.PurchaseReportRow{
				PurchaseID:   p.ID,
				Date:         p.Date,
				SupplierName: p.SupplierName,
				ProductName:  item.ProductName,
				Quantity:     item.Quantity,
				CostPrice:    item.CostPrice,
				TotalCost:    item.TotalCost,
			})
		}
	}
	return report, nil
}

// WriteProductSalesCSV renders the sales summary as the downloadable
// report, one row per product plus a numbering column.
func (a *Aggregator) WriteProductSalesCSV(w io.Writer, rows []domain.ProductSalesRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"No.", "Nama Barang", "Tanggal Penjualan Terakhir", "Stok Awal", "Total Terjual", "Sisa Stok"}); err != nil {
		return err
	}
	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.Name,
			receipt.FormatDateMedium(row.LastSaleDate),
			strconv.Itoa(row.InitialStock),
			strconv.Itoa(row.TotalSold),
			strconv.Itoa(row.RemainingStock),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (a *Aggregator) costByName(ctx context.Context) (map[string]int64, error) {
	products, err := a.repo.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	costs := make(map[string]int64, len(products))
	for _, p := range products {
		costs[p.Name] = p.CostPrice
	}
	return costs, nil
}

func inDateRange(t time.Time, from *time.Time, to *time.Time) bool {
	t = t.UTC()
	if from != nil {
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		if t.Before(start) {
			return false
		}
	}
	if to != nil {
		end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		if t.After(end) {
			return false
		}
	}
	return true
}
