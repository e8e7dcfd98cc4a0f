package domain

import "time"

type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CostPrice    int64  `json:"cost_price"`
	SellingPrice int64  `json:"selling_price"`
	Stock        int    `json:"stock"`
}

type ProductCreateRequest struct {
	Name         string `json:"name"`
	CostPrice    int64  `json:"cost_price"`
	SellingPrice int64  `json:"selling_price"`
	Stock        int    `json:"stock"`
}

type ProductUpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	CostPrice    *int64  `json:"cost_price,omitempty"`
	SellingPrice *int64  `json:"selling_price,omitempty"`
	Stock        *int    `json:"stock,omitempty"`
}

type TransactionItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// AmountBreakdown is only present on transactions that went through the
// checkout flow; older ledger entries carry just a grand total.
type AmountBreakdown struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
}

type Transaction struct {
	ID           string            `json:"id"`
	Date         time.Time         `json:"date"`
	Items        []TransactionItem `json:"items"`
	Amounts      *AmountBreakdown  `json:"amounts,omitempty"`
	Total        int64             `json:"total"`
	Status       string            `json:"status"`
	BuyerName    string            `json:"buyer_name,omitempty"`
	BuyerAddress string            `json:"buyer_address,omitempty"`
	CashierName  string            `json:"cashier_name,omitempty"`
}

type CheckoutItem struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type CheckoutRequest struct {
	EditingID      string         `json:"editing_id,omitempty"`
	Date           *time.Time     `json:"date,omitempty"`
	Items          []CheckoutItem `json:"items"`
	Discount       int64          `json:"discount"`
	TaxRatePercent float64        `json:"tax_rate_percent"`
	PaymentType    string         `json:"payment_type"`
	CashPaid       int64          `json:"cash_paid"`
	BuyerName      string         `json:"buyer_name"`
	BuyerAddress   string         `json:"buyer_address"`
}

type CheckoutResponse struct {
	Transaction Transaction `json:"transaction"`
	CashPaid    int64       `json:"cash_paid"`
	Change      int64       `json:"change"`
}

type PurchaseItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	CostPrice   int64  `json:"cost_price"`
	TotalCost   int64  `json:"total_cost"`
}

type Purchase struct {
	ID                string         `json:"id"`
	Date              time.Time      `json:"date"`
	SupplierName      string         `json:"supplier_name"`
	Items             []PurchaseItem `json:"items"`
	TotalPurchaseCost int64          `json:"total_purchase_cost"`
}

type PurchaseEntryItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	CostPrice int64  `json:"cost_price"`
}

type PurchaseRequest struct {
	Date         *time.Time          `json:"date,omitempty"`
	SupplierName string              `json:"supplier_name"`
	Items        []PurchaseEntryItem `json:"items"`
}

type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

type EmployeeRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

type Address struct {
	Street      string `json:"street"`
	Village     string `json:"village"`
	Subdistrict string `json:"subdistrict"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
}

type StoreInfo struct {
	Name         string  `json:"name"`
	Address      Address `json:"address"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	OpeningHours string  `json:"opening_hours"`
}

type BankInfo struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// Credentials is the single back-office account; the password is stored
// bcrypt-hashed.
type Credentials struct {
	Username     string
	PasswordHash string
}

type CredentialsUpdateRequest struct {
	OldPassword string `json:"old_password"`
	NewUsername string `json:"new_username"`
	NewPassword string `json:"new_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	ExpiresAt   string `json:"expires_at"`
}

// Snapshot is the full session state handed to the archiver on save.
type Snapshot struct {
	SavedAt      time.Time     `json:"saved_at"`
	StoreInfo    StoreInfo     `json:"store_info"`
	BankInfo     BankInfo      `json:"bank_info"`
	LogoURL      string        `json:"logo_url"`
	Username     string        `json:"username"`
	Products     []Product     `json:"products"`
	Transactions []Transaction `json:"transactions"`
	Purchases    []Purchase    `json:"purchases"`
	Employees    []Employee    `json:"employees"`
}

type SaveResponse struct {
	SavedAt      string `json:"saved_at"`
	Products     int    `json:"products"`
	Transactions int    `json:"transactions"`
	Purchases    int    `json:"purchases"`
	Employees    int    `json:"employees"`
}

type LedgerSummary struct {
	Mode         string `json:"mode"`
	Anchor       string `json:"anchor"`
	Transactions int    `json:"transactions"`
	Revenue      int64  `json:"revenue"`
	COGS         int64  `json:"cogs"`
	GrossMargin  int64  `json:"gross_margin"`
}

type SaleDetail struct {
	Date          time.Time `json:"date"`
	Quantity      int       `json:"quantity"`
	TransactionID string    `json:"transaction_id"`
}

type ProductSalesRow struct {
	Name           string       `json:"name"`
	TotalSold      int          `json:"total_sold"`
	InitialStock   int          `json:"initial_stock"`
	RemainingStock int          `json:"remaining_stock"`
	LastSaleDate   time.Time    `json:"last_sale_date"`
	Details        []SaleDetail `json:"details"`
}

type PurchaseReportRow struct {
	PurchaseID   string    `json:"purchase_id"`
	Date         time.Time `json:"date"`
	SupplierName string    `json:"supplier_name"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	CostPrice    int64     `json:"cost_price"`
	TotalCost    int64     `json:"total_cost"`
}

type PurchaseReport struct {
	Rows       []PurchaseReportRow `json:"rows"`
	GrandTotal int64               `json:"grand_total"`
}

type HomeResponse struct {
	StoreName   string `json:"store_name"`
	LogoURL     string `json:"logo_url"`
	WelcomeName string `json:"welcome_name"`
}

const (
	TxStatusPaid      = "paid"
	TxStatusPending   = "pending"
	TxStatusCancelled = "cancelled"
)

const (
	PaymentNow   = "now"
	PaymentLater = "later"
)

const (
	EmployeeActive   = "aktif"
	EmployeeInactive = "tidak aktif"
)
