// Package receipt renders ledger entries as printable invoice and
// kwitansi documents, including the Indonesian spelled-out amount.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sinarabadi/backend/internal/domain"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthNamesShort = []string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var digitWords = []string{
	"", "satu", "dua", "tiga", "empat", "lima",
	"enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas",
}

// AmountInWords spells an integer Rupiah amount the way an Indonesian
// kwitansi does: "Dua ratus tiga puluh ribu Rupiah". Zero is "Nol
// Rupiah", negatives get a "Minus" prefix. Any int64 amount spells out;
// past the trilyun band the bands compound ("Dua ribu trilyun").
func AmountInWords(n int64) string {
	if n == 0 {
		return "Nol Rupiah"
	}

	words := make([]string, 0, 16)
	if n < 0 {
		words = append(words, "minus")
		n = -n
	}
	words = append(words, amountWords(n)...)

	spelled := strings.Join(words, " ")
	return strings.ToUpper(spelled[:1]) + spelled[1:] + " Rupiah"
}

var amountBands = []struct {
	value int64
	name  string
}{
	{1_000_000_000_000, "trilyun"},
	{1_000_000_000, "milyar"},
	{1_000_000, "juta"},
	{1_000, "ribu"},
}

// amountWords recurses through the bands so quotients above 999 (seribu
// trilyun and up) spell out instead of overrunning the digit table.
func amountWords(n int64) []string {
	if n < 1000 {
		return subThousand(n)
	}

	for _, band := range amountBands {
		if n < band.value {
			continue
		}
		q := n / band.value
		rem := n % band.value

		var words []string
		if band.value == 1_000 && q == 1 {
			words = append(words, "seribu")
		} else {
			words = append(append(words, amountWords(q)...), band.name)
		}
		if rem > 0 {
			words = append(words, amountWords(rem)...)
		}
		return words
	}
	return subThousand(n)
}

// subThousand spells 1..999 as lowercase word tokens. The irregular
// forms live here: sepuluh, sebelas, the -belas teens, and seratus.
func subThousand(n int64) []string {
	words := make([]string, 0, 4)

	if h := n / 100; h > 0 {
		if h == 1 {
			words = append(words, "seratus")
		} else {
			words = append(words, digitWords[h], "ratus")
		}
		n %= 100
	}

	switch {
	case n == 0:
	case n < 12:
		words = append(words, digitWords[n])
	case n < 20:
		words = append(words, digitWords[n-10], "belas")
	default:
		words = append(words, digitWords[n/10], "puluh")
		if unit := n % 10; unit > 0 {
			words = append(words, digitWords[unit])
		}
	}
	return words
}

// FormatRupiah renders an amount with id-ID digit grouping: Rp230.000.
func FormatRupiah(v int64) string {
	if v < 0 {
		return "-Rp" + rupiahPrinter.Sprintf("%d", -v)
	}
	return "Rp" + rupiahPrinter.Sprintf("%d", v)
}

// FormatDateLong renders "20 Mei 2024".
func FormatDateLong(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatDateMedium renders "20 Mei 2024" with the short month name.
func FormatDateMedium(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNamesShort[t.Month()-1], t.Year())
}

// FormatDateTimeMedium renders "20 Mei 2024 10.00".
func FormatDateTimeMedium(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d.%02d", t.Day(), monthNamesShort[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

const fallbackBuyerName = "Pelanggan Umum"

type InvoiceLine struct {
	No        int    `json:"no"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

type Invoice struct {
	StoreName    string        `json:"store_name"`
	StoreAddress string        `json:"store_address"`
	StoreContact string        `json:"store_contact"`
	LogoURL      string        `json:"logo_url"`
	Number       string        `json:"number"`
	Date         string        `json:"date"`
	BilledTo     string        `json:"billed_to"`
	BilledAddr   string        `json:"billed_address,omitempty"`
	Lines        []InvoiceLine `json:"lines"`
	Subtotal     string        `json:"subtotal,omitempty"`
	Discount     string        `json:"discount,omitempty"`
	Tax          string        `json:"tax,omitempty"`
	Total        string        `json:"total"`
	Cash         string        `json:"cash"`
	Change       string        `json:"change"`
	TransferNote string        `json:"transfer_note"`
	ThanksNote   string        `json:"thanks_note"`
}

type Kwitansi struct {
	StoreName     string `json:"store_name"`
	StoreAddress  string `json:"store_address"`
	Number        string `json:"number"`
	ReceivedFrom  string `json:"received_from"`
	AmountInWords string `json:"amount_in_words"`
	PaymentFor    string `json:"payment_for"`
	AmountBox     string `json:"amount_box"`
	PlaceAndDate  string `json:"place_and_date"`
	Signer        string `json:"signer"`
	SignerRole    string `json:"signer_role"`
}

type Document struct {
	Invoice  Invoice  `json:"invoice"`
	Kwitansi Kwitansi `json:"kwitansi"`
}

// Formatter builds documents from the current store configuration. It
// only reads; the ledger is never touched.
type Formatter struct {
	store   domain.StoreInfo
	bank    domain.BankInfo
	logoURL string
}

func NewFormatter(store domain.StoreInfo, bank domain.BankInfo, logoURL string) *Formatter {
	return &Formatter{store: store, bank: bank, logoURL: logoURL}
}

func (f *Formatter) BuildDocument(tx domain.Transaction, cash int64, change int64) Document {
	buyer := strings.TrimSpace(tx.BuyerName)
	if buyer == "" {
		buyer = fallbackBuyerName
	}

	lines := make([]InvoiceLine, 0, len(tx.Items))
	for i, item := range tx.Items {
		lines = append(lines, InvoiceLine{
			No:        i + 1,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: FormatRupiah(item.UnitPrice),
			Total:     FormatRupiah(item.Total),
		})
	}

	invoice := Invoice{
		StoreName:    f.store.Name,
		StoreAddress: formatStoreAddress(f.store.Address),
		StoreContact: f.store.Phone + " | " + f.store.Email,
		LogoURL:      f.logoURL,
		Number:       "#" + tx.ID,
		Date:         FormatDateLong(tx.Date),
		BilledTo:     buyer,
		BilledAddr:   strings.TrimSpace(tx.BuyerAddress),
		Lines:        lines,
		Total:        FormatRupiah(tx.Total),
		Cash:         FormatRupiah(cash),
		Change:       FormatRupiah(change),
		TransferNote: fmt.Sprintf("Pembayaran via transfer dapat dilakukan ke rekening berikut: %s: %s a/n %s", f.bank.BankName, f.bank.AccountNumber, f.bank.AccountName),
		ThanksNote:   fmt.Sprintf("Terima kasih telah berbelanja di %s!", f.store.Name),
	}
	// Older ledger entries carry no breakdown; the invoice then shows
	// the grand total only.
	if tx.Amounts != nil {
		invoice.Subtotal = FormatRupiah(tx.Amounts.Subtotal)
		if tx.Amounts.Discount > 0 {
			invoice.Discount = FormatRupiah(tx.Amounts.Discount)
		}
		if tx.Amounts.Tax > 0 {
			invoice.Tax = FormatRupiah(tx.Amounts.Tax)
		}
	}

	signer := strings.TrimSpace(tx.CashierName)
	if signer == "" {
		signer = f.store.Name
	}

	kwitansi := Kwitansi{
		StoreName:     f.store.Name,
		StoreAddress:  formatStoreAddress(f.store.Address),
		Number:        "#" + tx.ID,
		ReceivedFrom:  buyer,
		AmountInWords: AmountInWords(tx.Total),
		PaymentFor:    fmt.Sprintf("Pembelian barang-barang bangunan sesuai invoice #%s", tx.ID),
		AmountBox:     FormatRupiah(tx.Total) + ",-",
		PlaceAndDate:  fmt.Sprintf("%s, %s", f.store.Address.City, FormatDateLong(tx.Date)),
		Signer:        signer,
		SignerRole:    "(Yang Menerima)",
	}

	return Document{Invoice: invoice, Kwitansi: kwitansi}
}

// RenderText produces a plain-text preview of the document pair for
// console output and tests.
func (f *Formatter) RenderText(doc Document) string {
	var b strings.Builder

	b.WriteString(doc.Invoice.StoreName + "\n")
	b.WriteString(doc.Invoice.StoreAddress + "\n")
	b.WriteString(doc.Invoice.StoreContact + "\n")
	b.WriteString("INVOICE " + doc.Invoice.Number + "\n")
	b.WriteString("Tanggal: " + doc.Invoice.Date + "\n")
	b.WriteString("Ditagihkan Kepada: " + doc.Invoice.BilledTo + "\n")
	if doc.Invoice.BilledAddr != "" {
		b.WriteString(doc.Invoice.BilledAddr + "\n")
	}
	b.WriteString("----------------------------------------\n")
	for _, line := range doc.Invoice.Lines {
		fmt.Fprintf(&b, "%d. %s x%d @ %s = %s\n", line.No, line.Name, line.Quantity, line.UnitPrice, line.Total)
	}
	b.WriteString("----------------------------------------\n")
	if doc.Invoice.Subtotal != "" {
		b.WriteString("Subtotal : " + doc.Invoice.Subtotal + "\n")
	}
	if doc.Invoice.Discount != "" {
		b.WriteString("Diskon   : -" + doc.Invoice.Discount + "\n")
	}
	if doc.Invoice.Tax != "" {
		b.WriteString("PPN      : " + doc.Invoice.Tax + "\n")
	}
	b.WriteString("Total    : " + doc.Invoice.Total + "\n")
	b.WriteString("Tunai    : " + doc.Invoice.Cash + "\n")
	b.WriteString("Kembalian: " + doc.Invoice.Change + "\n")
	b.WriteString(doc.Invoice.TransferNote + "\n")
	b.WriteString(doc.Invoice.ThanksNote + "\n")
	b.WriteString("\n")

	b.WriteString("KWITANSI " + doc.Kwitansi.Number + "\n")
	b.WriteString("Telah terima dari : " + doc.Kwitansi.ReceivedFrom + "\n")
	b.WriteString("Uang sejumlah     : " + doc.Kwitansi.AmountInWords + "\n")
	b.WriteString("Untuk pembayaran  : " + doc.Kwitansi.PaymentFor + "\n")
	b.WriteString(doc.Kwitansi.AmountBox + "\n")
	b.WriteString(doc.Kwitansi.PlaceAndDate + "\n")
	b.WriteString(doc.Kwitansi.Signer + " " + doc.Kwitansi.SignerRole + "\n")

	return b.String()
}

func formatStoreAddress(a domain.Address) string {
	line2 := joinNonEmpty([]string{a.Village, a.Subdistrict}, ", ")
	line3 := joinNonEmpty([]string{a.City, a.Province, a.PostalCode}, " ")
	return joinNonEmpty([]string{a.Street, line2, line3}, "\n")
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
