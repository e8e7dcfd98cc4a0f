package store

import (
	"context"
	"errors"

	"sinarabadi/backend/internal/domain"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrCancelled  = errors.New("transaction cancelled")
)

type Repository interface {
	ListProducts(ctx context.Context, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	SaveTransaction(ctx context.Context, tx domain.Transaction, editingID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	CancelTransaction(ctx context.Context, id string) (*domain.Transaction, error)

	// LedgerRevision is a counter bumped by every mutation that can change
	// a report summary: transaction writes and product catalog writes.
	// Cached aggregates keyed on it go stale the moment the data moves.
	LedgerRevision(ctx context.Context) (uint64, error)

	ListPurchases(ctx context.Context) ([]domain.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*domain.Purchase, error)
	CreatePurchase(ctx context.Context, purchase domain.Purchase) (*domain.Purchase, error)
	ReplacePurchase(ctx context.Context, purchase domain.Purchase, stockDeltas map[string]int) (*domain.Purchase, error)

	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	GetStoreInfo(ctx context.Context) (domain.StoreInfo, error)
	SetStoreInfo(ctx context.Context, info domain.StoreInfo) error
	GetBankInfo(ctx context.Context) (domain.BankInfo, error)
	SetBankInfo(ctx context.Context, info domain.BankInfo) error
	GetLogoURL(ctx context.Context) (string, error)
	SetLogoURL(ctx context.Context, url string) error
	GetCredentials(ctx context.Context) (domain.Credentials, error)
	SetCredentials(ctx context.Context, creds domain.Credentials) error

	Snapshot(ctx context.Context) (domain.Snapshot, error)
}
