package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"sinarabadi/backend/internal/domain"
	"sinarabadi/backend/internal/store"
)

// Store holds the entire back-office session state in memory. Transactions
// and purchases are kept newest-first; employees are kept sorted by name.
type Store struct {
	mu           sync.RWMutex
	rev          uint64
	products     []domain.Product
	transactions []domain.Transaction
	purchases    []domain.Purchase
	employees    []domain.Employee
	storeInfo    domain.StoreInfo
	bankInfo     domain.BankInfo
	logoURL      string
	creds        domain.Credentials
}

// NewSeeded builds the session pre-loaded with the demo catalog and
// ledgers. The caller provides the single back-office account, password
// already hashed.
func NewSeeded(creds domain.Credentials) *Store {
	products := []domain.Product{
		{ID: "prd-001", Name: "Semen Tiga Roda 40kg", CostPrice: 50000, SellingPrice: 55000, Stock: 100},
		{ID: "prd-002", Name: "Cat Dinding Avitex 5kg", CostPrice: 110000, SellingPrice: 120000, Stock: 50},
		{ID: "prd-003", Name: "Bata Merah Super", CostPrice: 700, SellingPrice: 800, Stock: 10000},
		{ID: "prd-004", Name: "Pipa PVC 4 inch", CostPrice: 22000, SellingPrice: 25000, Stock: 75},
		{ID: "prd-005", Name: "Keramik 40x40 Putih Polos", CostPrice: 42000, SellingPrice: 45000, Stock: 200},
	}

	transactions := []domain.Transaction{
		{
			ID:           "tx-001",
			Date:         time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
			BuyerName:    "Bapak Budi Santoso",
			BuyerAddress: "Jl. Merdeka No. 10, Jakarta",
			Items: []domain.TransactionItem{
				{ID: "itm-001", Name: "Semen Tiga Roda 40kg", Quantity: 2, UnitPrice: 55000, Total: 110000},
				{ID: "itm-002", Name: "Cat Dinding Avitex 5kg", Quantity: 1, UnitPrice: 120000, Total: 120000},
			},
			Total:  230000,
			Status: domain.TxStatusPaid,
		},
		{
			ID:           "tx-002",
			Date:         time.Date(2024, 5, 20, 11, 30, 0, 0, time.UTC),
			BuyerName:    "CV. Karya Mandiri",
			BuyerAddress: "Komp. Industri Sentosa Blok C5, Bandung",
			Items: []domain.TransactionItem{
				{ID: "itm-003", Name: "Pipa PVC 4 inch", Quantity: 10, UnitPrice: 25000, Total: 250000},
			},
			Total:  250000,
			Status: domain.TxStatusPaid,
		},
		{
			ID:           "tx-003",
			Date:         time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC),
			BuyerName:    "Ibu Retno Wulandari",
			BuyerAddress: "Perumahan Griya Asri, Jl. Anggrek 12, Surabaya",
			Items: []domain.TransactionItem{
				{ID: "itm-004", Name: "Keramik 40x40 Putih Polos", Quantity: 3, UnitPrice: 45000, Total: 135000},
				{ID: "itm-005", Name: "Bata Merah Super", Quantity: 500, UnitPrice: 800, Total: 400000},
			},
			Total:  535000,
			Status: domain.TxStatusPaid,
		},
	}

	purchases := []domain.Purchase{
		{
			ID:           "pur-001",
			Date:         time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC),
			SupplierName: "PT. Semen Sentosa",
			Items: []domain.PurchaseItem{
				{ProductID: "prd-001", ProductName: "Semen Tiga Roda 40kg", Quantity: 50, CostPrice: 50000, TotalCost: 2500000},
			},
			TotalPurchaseCost: 2500000,
		},
		{
			ID:           "pur-002",
			Date:         time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC),
			SupplierName: "Distributor Cat Avian",
			Items: []domain.PurchaseItem{
				{ProductID: "prd-002", ProductName: "Cat Dinding Avitex 5kg", Quantity: 20, CostPrice: 108000, TotalCost: 2160000},
				{ProductID: "prd-004", ProductName: "Pipa PVC 4 inch", Quantity: 30, CostPrice: 21500, TotalCost: 645000},
			},
			TotalPurchaseCost: 2805000,
		},
	}

	employees := []domain.Employee{
		{ID: "emp-001", Name: "Andi Wijaya", Position: "Kasir", Status: domain.EmployeeActive},
		{ID: "emp-002", Name: "Budi Hartono", Position: "Gudang", Status: domain.EmployeeInactive},
		{ID: "emp-003", Name: "Siti Aminah", Position: "Kasir", Status: domain.EmployeeActive},
	}

	return &Store{
		products:     products,
		transactions: transactions,
		purchases:    purchases,
		employees:    employees,
		storeInfo: domain.StoreInfo{
			Name: "Toko Sinar Abadi",
			Address: domain.Address{
				Street:      "Jl. Raya Pembangunan No. 123",
				Village:     "Cibadak",
				Subdistrict: "Tanah Sareal",
				City:        "Kota Bogor",
				Province:    "Jawa Barat",
				PostalCode:  "16166",
			},
			Phone:        "(021) 123-4567",
			Email:        "info@sinarabadi.com",
			OpeningHours: "Senin - Jumat: 08:00 - 17:00\nSabtu: 08:00 - 15:00\nMinggu & Hari Libur: Tutup",
		},
		bankInfo: domain.BankInfo{
			BankName:      "BCA",
			AccountName:   "Basri",
			AccountNumber: "123-456-7890",
		},
		logoURL: "https://picsum.photos/id/13/200/200",
		creds:   creds,
	}
}

func (s *Store) ListProducts(_ context.Context, query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			copyProduct := p
			return &copyProduct, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetProductByName(_ context.Context, name string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Name == name {
			copyProduct := p
			return &copyProduct, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" {
		return nil, store.ErrValidation
	}
	s.products = append(s.products, product)
	s.rev++
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = product
			s.rev++
			updated := product
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Transaction, 0, len(s.transactions))
	for i := range s.transactions {
		result = append(result, cloneTransaction(s.transactions[i]))
	}
	return result, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.transactions {
		if s.transactions[i].ID == id {
			copyTx := cloneTransaction(s.transactions[i])
			return &copyTx, nil
		}
	}
	return nil, store.ErrNotFound
}

// SaveTransaction prepends a new ledger entry, or replaces an existing one
// in place when editingID is set. Cancelled entries can never be replaced.
func (s *Store) SaveTransaction(_ context.Context, tx domain.Transaction, editingID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if editingID == "" {
		s.transactions = append([]domain.Transaction{cloneTransaction(tx)}, s.transactions...)
		s.rev++
		saved := cloneTransaction(tx)
		return &saved, nil
	}

	for i := range s.transactions {
		if s.transactions[i].ID != editingID {
			continue
		}
		if s.transactions[i].Status == domain.TxStatusCancelled {
			return nil, store.ErrCancelled
		}
		tx.ID = editingID
		s.transactions[i] = cloneTransaction(tx)
		s.rev++
		saved := cloneTransaction(tx)
		return &saved, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.rev++
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CancelTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i].Status = domain.TxStatusCancelled
			s.rev++
			copyTx := cloneTransaction(s.transactions[i])
			return &copyTx, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) LedgerRevision(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev, nil
}

func (s *Store) ListPurchases(_ context.Context) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Purchase, 0, len(s.purchases))
	for i := range s.purchases {
		result = append(result, clonePurchase(s.purchases[i]))
	}
	return result, nil
}

func (s *Store) GetPurchase(_ context.Context, id string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.purchases {
		if s.purchases[i].ID == id {
			copyPurchase := clonePurchase(s.purchases[i])
			return &copyPurchase, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreatePurchase records the purchase newest-first and adds each line's
// quantity to the matching product's stock. Lines whose product no longer
// exists are recorded but move no stock.
func (s *Store) CreatePurchase(_ context.Context, purchase domain.Purchase) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if purchase.ID == "" || len(purchase.Items) == 0 {
		return nil, store.ErrValidation
	}

	s.purchases = append([]domain.Purchase{clonePurchase(purchase)}, s.purchases...)
	for _, item := range purchase.Items {
		for i := range s.products {
			if s.products[i].ID == item.ProductID {
				s.products[i].Stock += item.Quantity
				break
			}
		}
	}

	saved := clonePurchase(purchase)
	return &saved, nil
}

// ReplacePurchase swaps the stored purchase for the updated one, keeping
// its ledger position, and applies the precomputed per-product stock
// deltas. Deltas for unknown products are skipped.
func (s *Store) ReplacePurchase(_ context.Context, purchase domain.Purchase, stockDeltas map[string]int) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.purchases {
		if s.purchases[i].ID != purchase.ID {
			continue
		}
		s.purchases[i] = clonePurchase(purchase)
		for productID, delta := range stockDeltas {
			if delta == 0 {
				continue
			}
			for j := range s.products {
				if s.products[j].ID == productID {
					s.products[j].Stock += delta
					break
				}
			}
		}
		saved := clonePurchase(purchase)
		return &saved, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, len(s.employees))
	copy(employees, s.employees)
	return employees, nil
}

func (s *Store) CreateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee.ID == "" || employee.Name == "" {
		return nil, store.ErrValidation
	}
	s.employees = append(s.employees, employee)
	s.sortEmployeesLocked()
	created := employee
	return &created, nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.employees {
		if s.employees[i].ID == employee.ID {
			s.employees[i] = employee
			s.sortEmployeesLocked()
			updated := employee
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) sortEmployeesLocked() {
	slices.SortFunc(s.employees, func(a, b domain.Employee) int {
		return cmpString(a.Name, b.Name)
	})
}

func (s *Store) GetStoreInfo(_ context.Context) (domain.StoreInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeInfo, nil
}

func (s *Store) SetStoreInfo(_ context.Context, info domain.StoreInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeInfo = info
	return nil
}

func (s *Store) GetBankInfo(_ context.Context) (domain.BankInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bankInfo, nil
}

func (s *Store) SetBankInfo(_ context.Context, info domain.BankInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankInfo = info
	return nil
}

func (s *Store) GetLogoURL(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logoURL, nil
}

func (s *Store) SetLogoURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoURL = url
	return nil
}

func (s *Store) GetCredentials(_ context.Context) (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

func (s *Store) SetCredentials(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.Username == "" || creds.PasswordHash == "" {
		return store.ErrValidation
	}
	s.creds = creds
	return nil
}

func (s *Store) Snapshot(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		SavedAt:      time.Now().UTC(),
		StoreInfo:    s.storeInfo,
		BankInfo:     s.bankInfo,
		LogoURL:      s.logoURL,
		Username:     s.creds.Username,
		Products:     make([]domain.Product, len(s.products)),
		Transactions: make([]domain.Transaction, 0, len(s.transactions)),
		Purchases:    make([]domain.Purchase, 0, len(s.purchases)),
		Employees:    make([]domain.Employee, len(s.employees)),
	}
	copy(snap.Products, s.products)
	copy(snap.Employees, s.employees)
	for i := range s.transactions {
		snap.Transactions = append(snap.Transactions, cloneTransaction(s.transactions[i]))
	}
	for i := range s.purchases {
		snap.Purchases = append(snap.Purchases, clonePurchase(s.purchases[i]))
	}
	return snap, nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneTransaction(src domain.Transaction) domain.Transaction {
	dup := src
	items := make([]domain.TransactionItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	if src.Amounts != nil {
		amounts := *src.Amounts
		dup.Amounts = &amounts
	}
	return dup
}

func clonePurchase(src domain.Purchase) domain.Purchase {
	dup := src
	items := make([]domain.PurchaseItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}
