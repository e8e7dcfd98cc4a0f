package receipt

import (
	"strings"
	"testing"
	"time"

	"sinarabadi/backend/internal/domain"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Nol Rupiah"},
		{7, "Tujuh Rupiah"},
		{11, "Sebelas Rupiah"},
		{17, "Tujuh belas Rupiah"},
		{21, "Dua puluh satu Rupiah"},
		{100, "Seratus Rupiah"},
		{305, "Tiga ratus lima Rupiah"},
		{1000, "Seribu Rupiah"},
		{1500, "Seribu lima ratus Rupiah"},
		{2000, "Dua ribu Rupiah"},
		{230000, "Dua ratus tiga puluh ribu Rupiah"},
		{535000, "Lima ratus tiga puluh lima ribu Rupiah"},
		{2500000, "Dua juta lima ratus ribu Rupiah"},
		{1000000000, "Satu milyar Rupiah"},
		{1000000000000, "Satu trilyun Rupiah"},
		{1000000000000000, "Seribu trilyun Rupiah"},
		{2000000000000000, "Dua ribu trilyun Rupiah"},
		{1234000000000000000, "Satu juta dua ratus tiga puluh empat ribu trilyun Rupiah"},
		{-5000, "Minus lima ribu Rupiah"},
	}

	for _, tc := range cases {
		if got := AmountInWords(tc.amount); got != tc.want {
			t.Fatalf("AmountInWords(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(230000); got != "Rp230.000" {
		t.Fatalf("expected Rp230.000, got %q", got)
	}
	if got := FormatRupiah(1234567); got != "Rp1.234.567" {
		t.Fatalf("expected Rp1.234.567, got %q", got)
	}
	if got := FormatRupiah(0); got != "Rp0" {
		t.Fatalf("expected Rp0, got %q", got)
	}
	if got := FormatRupiah(-5000); got != "-Rp5.000" {
		t.Fatalf("expected -Rp5.000, got %q", got)
	}
}

func TestFormatDates(t *testing.T) {
	date := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	if got := FormatDateLong(date); got != "20 Mei 2024" {
		t.Fatalf("expected 20 Mei 2024, got %q", got)
	}
	if got := FormatDateMedium(time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC)); got != "3 Agu 2024" {
		t.Fatalf("expected 3 Agu 2024, got %q", got)
	}
	if got := FormatDateTimeMedium(date); got != "20 Mei 2024 10.00" {
		t.Fatalf("expected 20 Mei 2024 10.00, got %q", got)
	}
}

func testFormatter() *Formatter {
	return NewFormatter(
		domain.StoreInfo{
			Name: "Toko Sinar Abadi",
			Address: domain.Address{
				Street: "Jl. Raya Pembangunan No. 123",
				City:   "Kota Bogor",
			},
			Phone: "(021) 123-4567",
			Email: "info@sinarabadi.com",
		},
		domain.BankInfo{BankName: "BCA", AccountName: "Basri", AccountNumber: "123-456-7890"},
		"https://example.com/logo.png",
	)
}

func TestBuildDocumentWithBreakdown(t *testing.T) {
	f := testFormatter()

	tx := domain.Transaction{
		ID:   "tx-042",
		Date: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
		Items: []domain.TransactionItem{
			{Name: "Semen Tiga Roda 40kg", Quantity: 2, UnitPrice: 55000, Total: 110000},
		},
		Amounts:     &domain.AmountBreakdown{Subtotal: 110000, Discount: 10000, Tax: 11000},
		Total:       111000,
		Status:      domain.TxStatusPaid,
		BuyerName:   "Bapak Budi",
		CashierName: "Andi Wijaya",
	}

	doc := f.BuildDocument(tx, 150000, 39000)

	if doc.Invoice.Number != "#tx-042" {
		t.Fatalf("unexpected invoice number %q", doc.Invoice.Number)
	}
	if doc.Invoice.Subtotal != "Rp110.000" || doc.Invoice.Discount != "Rp10.000" || doc.Invoice.Tax != "Rp11.000" {
		t.Fatalf("unexpected breakdown %q / %q / %q", doc.Invoice.Subtotal, doc.Invoice.Discount, doc.Invoice.Tax)
	}
	if doc.Invoice.Change != "Rp39.000" {
		t.Fatalf("unexpected change %q", doc.Invoice.Change)
	}
	if !strings.Contains(doc.Invoice.TransferNote, "BCA") || !strings.Contains(doc.Invoice.TransferNote, "a/n Basri") {
		t.Fatalf("unexpected transfer note %q", doc.Invoice.TransferNote)
	}
	if doc.Kwitansi.Signer != "Andi Wijaya" {
		t.Fatalf("unexpected signer %q", doc.Kwitansi.Signer)
	}
	if doc.Kwitansi.PlaceAndDate != "Kota Bogor, 20 Mei 2024" {
		t.Fatalf("unexpected place and date %q", doc.Kwitansi.PlaceAndDate)
	}
	if doc.Kwitansi.AmountBox != "Rp111.000,-" {
		t.Fatalf("unexpected amount box %q", doc.Kwitansi.AmountBox)
	}
}

func TestBuildDocumentZeroDiscountAndTaxAreOmitted(t *testing.T) {
	f := testFormatter()

	tx := domain.Transaction{
		ID:      "tx-043",
		Date:    time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Items:   []domain.TransactionItem{{Name: "Bata Merah Super", Quantity: 10, UnitPrice: 800, Total: 8000}},
		Amounts: &domain.AmountBreakdown{Subtotal: 8000, Discount: 0, Tax: 0},
		Total:   8000,
	}

	doc := f.BuildDocument(tx, 8000, 0)
	if doc.Invoice.Subtotal != "Rp8.000" {
		t.Fatalf("expected subtotal shown, got %q", doc.Invoice.Subtotal)
	}
	if doc.Invoice.Discount != "" || doc.Invoice.Tax != "" {
		t.Fatalf("expected zero discount and tax omitted, got %q / %q", doc.Invoice.Discount, doc.Invoice.Tax)
	}
}

func TestBuildDocumentFallbacks(t *testing.T) {
	f := testFormatter()

	tx := domain.Transaction{
		ID:    "tx-044",
		Date:  time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Items: []domain.TransactionItem{{Name: "Bata Merah Super", Quantity: 10, UnitPrice: 800, Total: 8000}},
		Total: 8000,
	}

	doc := f.BuildDocument(tx, 8000, 0)
	if doc.Invoice.BilledTo != "Pelanggan Umum" {
		t.Fatalf("expected anonymous buyer fallback, got %q", doc.Invoice.BilledTo)
	}
	if doc.Kwitansi.Signer != "Toko Sinar Abadi" {
		t.Fatalf("expected store name signer fallback, got %q", doc.Kwitansi.Signer)
	}
	if doc.Invoice.Subtotal != "" {
		t.Fatalf("expected no breakdown without amounts, got %q", doc.Invoice.Subtotal)
	}
}

func TestRenderTextContainsBothDocuments(t *testing.T) {
	f := testFormatter()

	tx := domain.Transaction{
		ID:        "tx-045",
		Date:      time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Items:     []domain.TransactionItem{{Name: "Bata Merah Super", Quantity: 10, UnitPrice: 800, Total: 8000}},
		Total:     8000,
		BuyerName: "Ibu Retno",
	}

	text := f.RenderText(f.BuildDocument(tx, 10000, 2000))
	for _, want := range []string{"INVOICE #tx-045", "KWITANSI #tx-045", "Delapan ribu Rupiah", "Kembalian: Rp2.000"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected rendered text to contain %q:\n%s", want, text)
		}
	}
}
