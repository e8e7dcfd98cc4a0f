package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sinarabadi/backend/internal/domain"
	"sinarabadi/backend/internal/store"
	"sinarabadi/backend/internal/store/memory"
)

func newTestRepo(t *testing.T) *memory.Store {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash test password: %v", err)
	}
	return memory.NewSeeded(domain.Credentials{Username: "basri-test", PasswordHash: string(hash)})
}

func newTestAggregator(t *testing.T) (*Aggregator, *memory.Store) {
	t.Helper()
	repo := newTestRepo(t)
	return NewAggregator(repo, nil, 0, zerolog.Nop()), repo
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow(ModeDaily, "2024-05-20")
	if err != nil {
		t.Fatalf("parse daily window: %v", err)
	}
	if !w.Contains(time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("expected daily window to contain same calendar day")
	}
	if w.Contains(time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected daily window to exclude the next day")
	}

	w, err = ParseWindow(ModeMonthly, "2024-05")
	if err != nil {
		t.Fatalf("parse monthly window: %v", err)
	}
	if !w.Contains(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) || w.Contains(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("monthly window boundaries wrong")
	}

	w, err = ParseWindow(ModeYearly, "2024")
	if err != nil {
		t.Fatalf("parse yearly window: %v", err)
	}
	if !w.Contains(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) || w.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("yearly window boundaries wrong")
	}
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	if _, err := ParseWindow("weekly", "2024-05-20"); err == nil {
		t.Fatalf("expected unsupported mode to fail")
	}
	if _, err := ParseWindow(ModeDaily, "20-05-2024"); err == nil {
		t.Fatalf("expected malformed anchor to fail")
	}
}

func TestLedgerSummaryDaily(t *testing.T) {
	agg, _ := newTestAggregator(t)

	w, _ := ParseWindow(ModeDaily, "2024-05-20")
	summary, err := agg.LedgerSummary(context.Background(), w)
	if err != nil {
		t.Fatalf("ledger summary failed: %v", err)
	}

	// tx-001 and tx-002 fall on 2024-05-20. Revenue 230000 + 250000.
	// COGS: 2x50000 + 1x110000 + 10x22000 = 430000.
	if summary.Transactions != 2 {
		t.Fatalf("expected 2 transactions, got %d", summary.Transactions)
	}
	if summary.Revenue != 480000 {
		t.Fatalf("expected revenue 480000, got %d", summary.Revenue)
	}
	if summary.COGS != 430000 {
		t.Fatalf("expected COGS 430000, got %d", summary.COGS)
	}
	if summary.GrossMargin != 50000 {
		t.Fatalf("expected gross margin 50000, got %d", summary.GrossMargin)
	}
}

func TestLedgerSummaryExcludesCancelled(t *testing.T) {
	agg, repo := newTestAggregator(t)
	ctx := context.Background()

	if _, err := repo.CancelTransaction(ctx, "tx-002"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	w, _ := ParseWindow(ModeDaily, "2024-05-20")
	summary, err := agg.LedgerSummary(ctx, w)
	if err != nil {
		t.Fatalf("ledger summary failed: %v", err)
	}
	if summary.Transactions != 1 {
		t.Fatalf("expected cancelled transaction excluded, got %d", summary.Transactions)
	}
	if summary.Revenue != 230000 {
		t.Fatalf("expected revenue 230000, got %d", summary.Revenue)
	}
}

func TestLedgerSummaryUnmatchedProductNameCostsZero(t *testing.T) {
	agg, repo := newTestAggregator(t)
	ctx := context.Background()

	// Rename the pipe product so tx-002's line no longer matches the
	// catalog; its cost contribution drops to zero.
	product, err := repo.GetProduct(ctx, "prd-004")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	product.Name = "Pipa PVC 4 inch (baru)"
	if _, err := repo.UpdateProduct(ctx, *product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	w, _ := ParseWindow(ModeDaily, "2024-05-20")
	summary, err := agg.LedgerSummary(ctx, w)
	if err != nil {
		t.Fatalf("ledger summary failed: %v", err)
	}
	if summary.COGS != 210000 {
		t.Fatalf("expected COGS 210000 with unmatched line, got %d", summary.COGS)
	}
	if summary.Revenue != 480000 {
		t.Fatalf("expected revenue unchanged at 480000, got %d", summary.Revenue)
	}
}

func TestLedgerSummaryYearly(t *testing.T) {
	agg, _ := newTestAggregator(t)

	w, _ := ParseWindow(ModeYearly, "2024")
	summary, err := agg.LedgerSummary(context.Background(), w)
	if err != nil {
		t.Fatalf("ledger summary failed: %v", err)
	}
	if summary.Transactions != 3 {
		t.Fatalf("expected all 3 seed transactions in 2024, got %d", summary.Transactions)
	}
	if summary.Revenue != 1015000 {
		t.Fatalf("expected revenue 1015000, got %d", summary.Revenue)
	}
}

func TestProductSalesOrdering(t *testing.T) {
	agg, _ := newTestAggregator(t)

	rows, err := agg.ProductSales(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("product sales failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].Name != "Bata Merah Super" || rows[0].TotalSold != 500 {
		t.Fatalf("expected Bata Merah Super first with 500 sold, got %s/%d", rows[0].Name, rows[0].TotalSold)
	}
	if rows[1].Name != "Pipa PVC 4 inch" || rows[1].TotalSold != 10 {
		t.Fatalf("expected Pipa PVC second, got %s/%d", rows[1].Name, rows[1].TotalSold)
	}

	// Initial stock is reconstructed from current stock plus sold.
	if rows[0].InitialStock != 10500 || rows[0].RemainingStock != 10000 {
		t.Fatalf("unexpected stock reconstruction %d/%d", rows[0].InitialStock, rows[0].RemainingStock)
	}
}

func TestProductSalesDateRange(t *testing.T) {
	agg, _ := newTestAggregator(t)

	from := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	rows, err := agg.ProductSales(context.Background(), &from, nil)
	if err != nil {
		t.Fatalf("product sales failed: %v", err)
	}
	// tx-003 (2024-05-19) is excluded, leaving 3 distinct products.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows from 2024-05-20 on, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Name == "Keramik 40x40 Putih Polos" || row.Name == "Bata Merah Super" {
			t.Fatalf("expected %s to be outside the range", row.Name)
		}
	}
}

func TestProductSalesExcludesCancelled(t *testing.T) {
	agg, repo := newTestAggregator(t)
	ctx := context.Background()

	if _, err := repo.CancelTransaction(ctx, "tx-003"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	rows, err := agg.ProductSales(ctx, nil, nil)
	if err != nil {
		t.Fatalf("product sales failed: %v", err)
	}
	for _, row := range rows {
		if row.Name == "Bata Merah Super" {
			t.Fatalf("expected cancelled transaction's products to vanish from the summary")
		}
	}
}

func TestProductSalesTiesListMostRecentFirst(t *testing.T) {
	agg, repo := newTestAggregator(t)
	ctx := context.Background()

	// A later sale of one more can of paint ties it with the cement at
	// 2 sold. The ledger is scanned newest-first, so the paint row sorts
	// ahead of the cement and its details run newest-first.
	_, err := repo.SaveTransaction(ctx, domain.Transaction{
		ID:     "tx-010",
		Date:   time.Date(2024, 5, 21, 9, 0, 0, 0, time.UTC),
		Items:  []domain.TransactionItem{{ID: "itm-010", Name: "Cat Dinding Avitex 5kg", Quantity: 1, UnitPrice: 120000, Total: 120000}},
		Total:  120000,
		Status: domain.TxStatusPaid,
	}, "")
	if err != nil {
		t.Fatalf("save transaction: %v", err)
	}

	rows, err := agg.ProductSales(ctx, nil, nil)
	if err != nil {
		t.Fatalf("product sales failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[3].Name != "Cat Dinding Avitex 5kg" || rows[3].TotalSold != 2 {
		t.Fatalf("expected the recently sold paint to win the tie, got %s/%d", rows[3].Name, rows[3].TotalSold)
	}
	if rows[4].Name != "Semen Tiga Roda 40kg" || rows[4].TotalSold != 2 {
		t.Fatalf("expected the cement after the tie, got %s/%d", rows[4].Name, rows[4].TotalSold)
	}

	details := rows[3].Details
	if len(details) != 2 {
		t.Fatalf("expected 2 detail rows for the paint, got %d", len(details))
	}
	if details[0].TransactionID != "tx-010" || details[1].TransactionID != "tx-001" {
		t.Fatalf("expected details newest-first, got %s then %s", details[0].TransactionID, details[1].TransactionID)
	}
}

func TestPurchaseReportMonthly(t *testing.T) {
	agg, _ := newTestAggregator(t)

	w, _ := ParseWindow(ModeMonthly, "2024-05")
	result, err := agg.PurchaseReport(context.Background(), w)
	if err != nil {
		t.Fatalf("purchase report failed: %v", err)
	}
	// pur-001 has 1 line, pur-002 has 2 lines.
	if len(result.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(result.Rows))
	}
	if result.GrandTotal != 5305000 {
		t.Fatalf("expected grand total 5305000, got %d", result.GrandTotal)
	}
}

func TestPurchaseReportEmptyWindow(t *testing.T) {
	agg, _ := newTestAggregator(t)

	w, _ := ParseWindow(ModeMonthly, "2023-01")
	result, err := agg.PurchaseReport(context.Background(), w)
	if err != nil {
		t.Fatalf("purchase report failed: %v", err)
	}
	if len(result.Rows) != 0 || result.GrandTotal != 0 {
		t.Fatalf("expected empty report, got %d rows total %d", len(result.Rows), result.GrandTotal)
	}
}

func TestWriteProductSalesCSV(t *testing.T) {
	agg, _ := newTestAggregator(t)

	rows := []domain.ProductSalesRow{
		{Name: "Bata Merah Super", TotalSold: 500, InitialStock: 10500, RemainingStock: 10000, LastSaleDate: time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := agg.WriteProductSalesCSV(&buf, rows); err != nil {
		t.Fatalf("write csv failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if lines[0] != "No.,Nama Barang,Tanggal Penjualan Terakhir,Stok Awal,Total Terjual,Sisa Stok" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "1,Bata Merah Super,19 Mei 2024,10500,500,10000" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

// recordingCache captures writes and serves them back, so the test can
// prove the summary path goes through the cache.
type recordingCache struct {
	mu      sync.Mutex
	entries map[string]*domain.LedgerSummary
	sets    int
	hits    int
}

func (c *recordingCache) Get(_ context.Context, key string) (*domain.LedgerSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v, true, nil
	}
	return nil, false, nil
}

func (c *recordingCache) Set(_ context.Context, key string, value *domain.LedgerSummary, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]*domain.LedgerSummary)
	}
	c.entries[key] = value
	c.sets++
	return nil
}

func TestLedgerSummaryUsesCache(t *testing.T) {
	repo := newTestRepo(t)
	cacheStore := &recordingCache{}
	agg := NewAggregator(repo, cacheStore, time.Minute, zerolog.Nop())
	ctx := context.Background()

	w, _ := ParseWindow(ModeDaily, "2024-05-20")
	first, err := agg.LedgerSummary(ctx, w)
	if err != nil {
		t.Fatalf("first summary failed: %v", err)
	}
	if cacheStore.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cacheStore.sets)
	}

	// With nothing mutated, the repeat call is served from the cache.
	second, err := agg.LedgerSummary(ctx, w)
	if err != nil {
		t.Fatalf("second summary failed: %v", err)
	}
	if cacheStore.hits != 1 || cacheStore.sets != 1 {
		t.Fatalf("expected one hit and one set, got %d/%d", cacheStore.hits, cacheStore.sets)
	}
	if second.Revenue != first.Revenue {
		t.Fatalf("expected cached revenue %d, got %d", first.Revenue, second.Revenue)
	}
}

func TestLedgerSummaryRecomputedAfterCancel(t *testing.T) {
	repo := newTestRepo(t)
	cacheStore := &recordingCache{}
	agg := NewAggregator(repo, cacheStore, time.Minute, zerolog.Nop())
	ctx := context.Background()

	w, _ := ParseWindow(ModeDaily, "2024-05-20")
	if _, err := agg.LedgerSummary(ctx, w); err != nil {
		t.Fatalf("first summary failed: %v", err)
	}

	// Cancelling moves the ledger revision, so the stale entry's key no
	// longer matches and the summary is recomputed without tx-002.
	if _, err := repo.CancelTransaction(ctx, "tx-002"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	summary, err := agg.LedgerSummary(ctx, w)
	if err != nil {
		t.Fatalf("summary after cancel failed: %v", err)
	}
	if cacheStore.sets != 2 {
		t.Fatalf("expected a second cache write after the mutation, got %d", cacheStore.sets)
	}
	if summary.Transactions != 1 || summary.Revenue != 230000 {
		t.Fatalf("expected cancelled revenue dropped (1 tx, 230000), got %d tx, %d", summary.Transactions, summary.Revenue)
	}
}

func TestWindowValidationErrorWrapsSentinel(t *testing.T) {
	_, err := ParseWindow("weekly", "2024")
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation sentinel, got %v", err)
	}
}
