package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type mockLoanRepository struct {
	saveFunc          func(ctx context.Context, loan model.Loan) error
	findByIDFunc      func(ctx context.Context, organizationID, id string) (model.Loan, error)
	findByIDForUpdate func(ctx context.Context, organizationID, id string) (model.Loan, error)
	listActiveFunc    func(ctx context.Context, organizationID string, offset, limit int) ([]model.Loan, error)
	savedLoans        []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	m.savedLoans = append(m.savedLoans, loan)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, organizationID, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, organizationID, id)
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByIDForUpdate(ctx context.Context, organizationID, id string) (model.Loan, error) {
	if m.findByIDForUpdate != nil {
		return m.findByIDForUpdate(ctx, organizationID, id)
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (m *mockLoanRepository) ListActiveByOrganization(ctx context.Context, organizationID string, offset, limit int) ([]model.Loan, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx, organizationID, offset, limit)
	}
	return nil, nil
}

type mockTransactionRepository struct {
	saveFunc          func(ctx context.Context, tx model.Transaction) error
	findByIDFunc      func(ctx context.Context, organizationID, id string) (model.Transaction, error)
	findAroundFunc    func(ctx context.Context, loanID string, date time.Time, window time.Duration) ([]model.Transaction, error)
	listByLoanFunc    func(ctx context.Context, loanID string, offset, limit int) ([]model.Transaction, error)
	deactivateFunc    func(ctx context.Context, id, reason string) error
	savedTransactions []model.Transaction
	deactivatedIDs    []string
}

func (m *mockTransactionRepository) Save(ctx context.Context, tx model.Transaction) error {
	m.savedTransactions = append(m.savedTransactions, tx)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, organizationID, id string) (model.Transaction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, organizationID, id)
	}
	return model.Transaction{}, model.ErrTransactionNotFound
}

func (m *mockTransactionRepository) FindActiveByLoanAround(ctx context.Context, loanID string, date time.Time, window time.Duration) ([]model.Transaction, error) {
	if m.findAroundFunc != nil {
		return m.findAroundFunc(ctx, loanID, date, window)
	}
	return nil, nil
}

func (m *mockTransactionRepository) ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Transaction, error) {
	if m.listByLoanFunc != nil {
		return m.listByLoanFunc(ctx, loanID, offset, limit)
	}
	return nil, nil
}

func (m *mockTransactionRepository) Deactivate(ctx context.Context, id, reason string) error {
	m.deactivatedIDs = append(m.deactivatedIDs, id)
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id, reason)
	}
	return nil
}

type mockClassificationRepository struct {
	saveFunc       func(ctx context.Context, c model.Classification) error
	findLatestFunc func(ctx context.Context, loanID string) (model.Classification, error)
	listByLoanFunc func(ctx context.Context, loanID string, offset, limit int) ([]model.Classification, error)
	savedRecords   []model.Classification
}

func (m *mockClassificationRepository) Save(ctx context.Context, c model.Classification) error {
	m.savedRecords = append(m.savedRecords, c)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	return nil
}

func (m *mockClassificationRepository) FindLatestByLoan(ctx context.Context, loanID string) (model.Classification, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, loanID)
	}
	return model.Classification{}, model.ErrClassificationNotFound
}

func (m *mockClassificationRepository) ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Classification, error) {
	if m.listByLoanFunc != nil {
		return m.listByLoanFunc(ctx, loanID, offset, limit)
	}
	return nil, nil
}

type mockSnapshotRepository struct {
	saveFunc       func(ctx context.Context, s model.PortfolioSnapshot) error
	findByDateFunc func(ctx context.Context, organizationID string, date time.Time) (model.PortfolioSnapshot, bool, error)
	savedSnapshots []model.PortfolioSnapshot
}

func (m *mockSnapshotRepository) Save(ctx context.Context, s model.PortfolioSnapshot) error {
	m.savedSnapshots = append(m.savedSnapshots, s)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, s)
	}
	return nil
}

func (m *mockSnapshotRepository) FindByOrganizationAndDate(ctx context.Context, organizationID string, date time.Time) (model.PortfolioSnapshot, bool, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, organizationID, date)
	}
	return model.PortfolioSnapshot{}, false, nil
}

type mockUnitOfWork struct{}

func (mockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, events...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	return nil
}

type mockFileStore struct {
	storeFunc   func(ctx context.Context, name string, data []byte) (string, error)
	storedNames []string
}

func (m *mockFileStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	m.storedNames = append(m.storedNames, name)
	if m.storeFunc != nil {
		return m.storeFunc(ctx, name, data)
	}
	return "file://test/" + name, nil
}

type mockCollateralValuer struct {
	valueFunc func(ctx context.Context, organizationID, loanID string) (decimal.Decimal, error)
}

func (m *mockCollateralValuer) EffectiveValue(ctx context.Context, organizationID, loanID string) (decimal.Decimal, error) {
	if m.valueFunc != nil {
		return m.valueFunc(ctx, organizationID, loanID)
	}
	return decimal.Zero, nil
}
