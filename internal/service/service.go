package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sinarabadi/backend/internal/domain"
	"sinarabadi/backend/internal/receipt"
	"sinarabadi/backend/internal/snapshot"
	"sinarabadi/backend/internal/store"
	"sinarabadi/backend/internal/xid"
)

type Service struct {
	repo     store.Repository
	archiver snapshot.Archiver
	log      zerolog.Logger
}

func New(repo store.Repository, archiver snapshot.Archiver, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		archiver: archiver,
		log:      logger.With().Str("component", "service").Logger(),
	}
}

func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, query)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: product name is required", store.ErrValidation)
	}
	if req.CostPrice < 0 || req.SellingPrice < 0 || req.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: prices and stock must not be negative", store.ErrValidation)
	}

	product := domain.Product{
		ID:           xid.New("prd"),
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", store.ErrValidation)
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("%w: product name is required", store.ErrValidation)
		}
		updated.Name = name
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return domain.Product{}, fmt.Errorf("%w: cost price must not be negative", store.ErrValidation)
		}
		updated.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if *req.SellingPrice < 0 {
			return domain.Product{}, fmt.Errorf("%w: selling price must not be negative", store.ErrValidation)
		}
		updated.SellingPrice = *req.SellingPrice
	}
	if req.Stock != nil {
		updated.Stock = *req.Stock
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	return *saved, nil
}

func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// TransactionForEdit loads a ledger entry for the edit flow. Cancelled
// entries are terminal and can never re-enter editing.
func (s *Service) TransactionForEdit(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if tx.Status == domain.TxStatusCancelled {
		return domain.Transaction{}, fmt.Errorf("%w: cannot edit a cancelled transaction", store.ErrCancelled)
	}
	return *tx, nil
}

// Checkout computes the sale totals and writes the result to the ledger.
// A new entry is prepended; when EditingID is set the existing entry is
// replaced in place and keeps its id.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	items := normalizeItems(req.Items)
	if len(items) == 0 {
		return domain.CheckoutResponse{}, fmt.Errorf("%w: at least one item is required", store.ErrValidation)
	}

	if req.Discount < 0 {
		req.Discount = 0
	}
	if req.TaxRatePercent < 0 {
		req.TaxRatePercent = 0
	}
	if req.PaymentType == "" {
		req.PaymentType = domain.PaymentNow
	}
	if req.PaymentType != domain.PaymentNow && req.PaymentType != domain.PaymentLater {
		return domain.CheckoutResponse{}, fmt.Errorf("%w: unsupported payment type %q", store.ErrValidation, req.PaymentType)
	}

	lines := make([]domain.TransactionItem, 0, len(items))
	subtotal := int64(0)
	for _, item := range items {
		lineTotal := int64(item.Quantity) * item.UnitPrice
		lineID := strings.TrimSpace(item.ID)
		if lineID == "" {
			lineID = xid.New("itm")
		}
		lines = append(lines, domain.TransactionItem{
			ID:        lineID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     lineTotal,
		})
		subtotal += lineTotal
	}

	taxBase := subtotal - req.Discount
	tax := int64(0)
	if taxBase > 0 && req.TaxRatePercent > 0 {
		tax = int64(math.Round(float64(taxBase) * req.TaxRatePercent / 100))
	}
	total := subtotal - req.Discount + tax

	status := domain.TxStatusPaid
	change := int64(0)
	if req.PaymentType == domain.PaymentNow {
		if req.CashPaid < total {
			return domain.CheckoutResponse{}, fmt.Errorf("%w: cash paid %d is less than total %d", store.ErrValidation, req.CashPaid, total)
		}
		change = req.CashPaid - total
	} else {
		status = domain.TxStatusPending
		req.CashPaid = 0
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	cashier, err := s.ActiveCashier(ctx)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	tx := domain.Transaction{
		ID:           xid.New("tx"),
		Date:         date,
		Items:        lines,
		Amounts:      &domain.AmountBreakdown{Subtotal: subtotal, Discount: req.Discount, Tax: tax},
		Total:        total,
		Status:       status,
		BuyerName:    strings.TrimSpace(req.BuyerName),
		BuyerAddress: strings.TrimSpace(req.BuyerAddress),
		CashierName:  cashier,
	}

	editingID := strings.TrimSpace(req.EditingID)
	saved, err := s.repo.SaveTransaction(ctx, tx, editingID)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	s.log.Info().
		Str("transaction_id", saved.ID).
		Str("status", saved.Status).
		Int64("total", saved.Total).
		Bool("edited", editingID != "").
		Msg("transaction saved")

	return domain.CheckoutResponse{
		Transaction: *saved,
		CashPaid:    req.CashPaid,
		Change:      change,
	}, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: transaction id is required", store.ErrValidation)
	}
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

func (s *Service) CancelTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Transaction{}, fmt.Errorf("%w: transaction id is required", store.ErrValidation)
	}
	tx, err := s.repo.CancelTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().Str("transaction_id", id).Msg("transaction cancelled")
	return *tx, nil
}

// Receipt renders the printable invoice and kwitansi for a ledger
// entry. A reprint carries no payment context, so the cash box shows
// the grand total with zero change.
func (s *Service) Receipt(ctx context.Context, id string) (receipt.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return receipt.Document{}, fmt.Errorf("%w: transaction id is required", store.ErrValidation)
	}
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return receipt.Document{}, err
	}
	info, err := s.repo.GetStoreInfo(ctx)
	if err != nil {
		return receipt.Document{}, err
	}
	bank, err := s.repo.GetBankInfo(ctx)
	if err != nil {
		return receipt.Document{}, err
	}
	logo, err := s.repo.GetLogoURL(ctx)
	if err != nil {
		return receipt.Document{}, err
	}

	formatter := receipt.NewFormatter(info, bank, logo)
	return formatter.BuildDocument(*tx, tx.Total, 0), nil
}

// ActiveCashier returns the name of the first active employee whose
// position mentions "kasir"; empty when no cashier is on duty.
func (s *Service) ActiveCashier(ctx context.Context) (string, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range employees {
		if e.Status == domain.EmployeeActive && strings.Contains(strings.ToLower(e.Position), "kasir") {
			return e.Name, nil
		}
	}
	return "", nil
}

func (s *Service) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.repo.ListPurchases(ctx)
}

// CreatePurchase validates the supplier entry, merges duplicate product
// lines (quantities add up, the latest cost price wins), records the
// purchase, and adds each line's quantity to the product's stock.
func (s *Service) CreatePurchase(ctx context.Context, req domain.PurchaseRequest) (domain.Purchase, error) {
	purchase, err := s.buildPurchase(ctx, req, xid.New("pur"))
	if err != nil {
		return domain.Purchase{}, err
	}

	saved, err := s.repo.CreatePurchase(ctx, purchase)
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info().
		Str("purchase_id", saved.ID).
		Str("supplier", saved.SupplierName).
		Int64("total_cost", saved.TotalPurchaseCost).
		Msg("purchase recorded")

	return *saved, nil
}

// UpdatePurchase replaces an existing purchase and reconciles product
// stock through a signed per-product delta map: the original lines
// subtract, the updated lines add, and the net result is applied in one
// step only after the whole map is built.
func (s *Service) UpdatePurchase(ctx context.Context, id string, req domain.PurchaseRequest) (domain.Purchase, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Purchase{}, fmt.Errorf("%w: purchase id is required", store.ErrValidation)
	}

	original, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return domain.Purchase{}, err
	}

	updated, err := s.buildPurchase(ctx, req, id)
	if err != nil {
		return domain.Purchase{}, err
	}
	if updated.Date.IsZero() || req.Date == nil {
		updated.Date = original.Date
	}

	deltas := stockDeltas(original.Items, updated.Items)

	saved, err := s.repo.ReplacePurchase(ctx, updated, deltas)
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info().
		Str("purchase_id", saved.ID).
		Int("stock_deltas", len(deltas)).
		Msg("purchase updated")

	return *saved, nil
}

func (s *Service) buildPurchase(ctx context.Context, req domain.PurchaseRequest, id string) (domain.Purchase, error) {
	supplier := strings.TrimSpace(req.SupplierName)
	if supplier == "" {
		return domain.Purchase{}, fmt.Errorf("%w: supplier name is required", store.ErrValidation)
	}
	if len(req.Items) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: at least one purchase item is required", store.ErrValidation)
	}

	merged := make([]domain.PurchaseEntryItem, 0, len(req.Items))
	indexByProduct := make(map[string]int, len(req.Items))
	for _, entry := range req.Items {
		entry.ProductID = strings.TrimSpace(entry.ProductID)
		if entry.ProductID == "" || entry.Quantity < 1 || entry.CostPrice < 0 {
			return domain.Purchase{}, fmt.Errorf("%w: each item needs a product, a positive quantity and a non-negative cost price", store.ErrValidation)
		}
		if i, ok := indexByProduct[entry.ProductID]; ok {
			merged[i].Quantity += entry.Quantity
			merged[i].CostPrice = entry.CostPrice
			continue
		}
		indexByProduct[entry.ProductID] = len(merged)
		merged = append(merged, entry)
	}

	items := make([]domain.PurchaseItem, 0, len(merged))
	grandTotal := int64(0)
	for _, entry := range merged {
		product, err := s.repo.GetProduct(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Purchase{}, fmt.Errorf("%w: unknown product %s", store.ErrValidation, entry.ProductID)
			}
			return domain.Purchase{}, err
		}
		lineTotal := int64(entry.Quantity) * entry.CostPrice
		items = append(items, domain.PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    entry.Quantity,
			CostPrice:   entry.CostPrice,
			TotalCost:   lineTotal,
		})
		grandTotal += lineTotal
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	return domain.Purchase{
		ID:                id,
		Date:              date,
		SupplierName:      supplier,
		Items:             items,
		TotalPurchaseCost: grandTotal,
	}, nil
}

// stockDeltas builds the net per-product stock movement between the
// original and updated line sets. The map is complete before anything is
// applied, so a product that merely changed quantity moves by the net
// difference only.
func stockDeltas(original []domain.PurchaseItem, updated []domain.PurchaseItem) map[string]int {
	deltas := make(map[string]int, len(original)+len(updated))
	for _, item := range original {
		deltas[item.ProductID] -= item.Quantity
	}
	for _, item := range updated {
		deltas[item.ProductID] += item.Quantity
	}
	for productID, delta := range deltas {
		if delta == 0 {
			delete(deltas, productID)
		}
	}
	return deltas
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) CreateEmployee(ctx context.Context, req domain.EmployeeRequest) (domain.Employee, error) {
	employee, err := employeeFromRequest(req)
	if err != nil {
		return domain.Employee{}, err
	}
	employee.ID = xid.New("emp")

	saved, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}
	return *saved, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, req domain.EmployeeRequest) (domain.Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Employee{}, fmt.Errorf("%w: employee id is required", store.ErrValidation)
	}
	employee, err := employeeFromRequest(req)
	if err != nil {
		return domain.Employee{}, err
	}
	employee.ID = id

	saved, err := s.repo.UpdateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: employee id is required", store.ErrValidation)
	}
	return s.repo.DeleteEmployee(ctx, id)
}

func employeeFromRequest(req domain.EmployeeRequest) (domain.Employee, error) {
	name := strings.TrimSpace(req.Name)
	position := strings.TrimSpace(req.Position)
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.EmployeeActive
	}
	if name == "" || position == "" {
		return domain.Employee{}, fmt.Errorf("%w: employee name and position are required", store.ErrValidation)
	}
	if status != domain.EmployeeActive && status != domain.EmployeeInactive {
		return domain.Employee{}, fmt.Errorf("%w: unsupported employee status %q", store.ErrValidation, status)
	}
	return domain.Employee{Name: name, Position: position, Status: status}, nil
}

func (s *Service) GetStoreInfo(ctx context.Context) (domain.StoreInfo, error) {
	return s.repo.GetStoreInfo(ctx)
}

func (s *Service) UpdateStoreInfo(ctx context.Context, info domain.StoreInfo) (domain.StoreInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return domain.StoreInfo{}, fmt.Errorf("%w: store name is required", store.ErrValidation)
	}
	if err := s.repo.SetStoreInfo(ctx, info); err != nil {
		return domain.StoreInfo{}, err
	}
	return info, nil
}

func (s *Service) GetBankInfo(ctx context.Context) (domain.BankInfo, error) {
	return s.repo.GetBankInfo(ctx)
}

func (s *Service) UpdateBankInfo(ctx context.Context, info domain.BankInfo) (domain.BankInfo, error) {
	info.BankName = strings.TrimSpace(info.BankName)
	info.AccountName = strings.TrimSpace(info.AccountName)
	info.AccountNumber = strings.TrimSpace(info.AccountNumber)
	if info.BankName == "" || info.AccountNumber == "" {
		return domain.BankInfo{}, fmt.Errorf("%w: bank name and account number are required", store.ErrValidation)
	}
	if err := s.repo.SetBankInfo(ctx, info); err != nil {
		return domain.BankInfo{}, err
	}
	return info, nil
}

func (s *Service) GetLogoURL(ctx context.Context) (string, error) {
	return s.repo.GetLogoURL(ctx)
}

func (s *Service) UpdateLogoURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: logo url is required", store.ErrValidation)
	}
	return s.repo.SetLogoURL(ctx, url)
}

// UpdateCredentials rotates the back-office account. The caller must
// present the current password; the new password replaces the old hash.
func (s *Service) UpdateCredentials(ctx context.Context, req domain.CredentialsUpdateRequest) error {
	creds, err := s.repo.GetCredentials(ctx)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.OldPassword)) != nil {
		return fmt.Errorf("%w: current password does not match", store.ErrValidation)
	}

	username := strings.TrimSpace(req.NewUsername)
	if username == "" {
		username = creds.Username
	}
	newPassword := strings.TrimSpace(req.NewPassword)
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", store.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetCredentials(ctx, domain.Credentials{Username: username, PasswordHash: string(hash)}); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("credentials updated")
	return nil
}

func (s *Service) Home(ctx context.Context) (domain.HomeResponse, error) {
	info, err := s.repo.GetStoreInfo(ctx)
	if err != nil {
		return domain.HomeResponse{}, err
	}
	logo, err := s.repo.GetLogoURL(ctx)
	if err != nil {
		return domain.HomeResponse{}, err
	}
	welcome, err := s.ActiveCashier(ctx)
	if err != nil {
		return domain.HomeResponse{}, err
	}
	if welcome == "" {
		creds, err := s.repo.GetCredentials(ctx)
		if err != nil {
			return domain.HomeResponse{}, err
		}
		welcome = creds.Username
	}
	return domain.HomeResponse{StoreName: info.Name, LogoURL: logo, WelcomeName: welcome}, nil
}

// SaveAllData exports the full session snapshot through the archiver.
// A failed save leaves the in-memory state untouched.
func (s *Service) SaveAllData(ctx context.Context) (domain.SaveResponse, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return domain.SaveResponse{}, err
	}

	start := time.Now()
	if err := s.archiver.Save(ctx, snap); err != nil {
		s.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("snapshot save failed")
		return domain.SaveResponse{}, fmt.Errorf("save all data: %w", err)
	}

	s.log.Info().
		Dur("elapsed", time.Since(start)).
		Int("transactions", len(snap.Transactions)).
		Int("purchases", len(snap.Purchases)).
		Msg("snapshot saved")

	return domain.SaveResponse{
		SavedAt:      snap.SavedAt.Format(time.RFC3339),
		Products:     len(snap.Products),
		Transactions: len(snap.Transactions),
		Purchases:    len(snap.Purchases),
		Employees:    len(snap.Employees),
	}, nil
}

// normalizeItems trims names, drops empty lines, and merges duplicate
// product names while preserving first-encounter order.
func normalizeItems(items []domain.CheckoutItem) []domain.CheckoutItem {
	normalized := make([]domain.CheckoutItem, 0, len(items))
	indexByName := make(map[string]int, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			continue
		}
		if i, ok := indexByName[item.Name]; ok {
			normalized[i].Quantity += item.Quantity
			continue
		}
		indexByName[item.Name] = len(normalized)
		normalized = append(normalized, item)
	}
	return normalized
}
