package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans together with their schedules.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, organizationID, id string) (model.Loan, error)
	// FindByIDForUpdate locks the loan row for the duration of the enclosing
	// unit of work, serializing concurrent payments against the same loan.
	FindByIDForUpdate(ctx context.Context, organizationID, id string) (model.Loan, error)
	// ListActiveByOrganization pages through non-terminal loans of an
	// organization in creation order. An empty organizationID lists across
	// all organizations.
	ListActiveByOrganization(ctx context.Context, organizationID string, offset, limit int) ([]model.Loan, error)
}

// TransactionRepository persists the append-only payment ledger.
type TransactionRepository interface {
	Save(ctx context.Context, tx model.Transaction) error
	FindByID(ctx context.Context, organizationID, id string) (model.Transaction, error)
	// FindActiveByLoanAround returns active transactions for the loan whose
	// date lies within the window around the given date, for the
	// duplicate-payment guard.
	FindActiveByLoanAround(ctx context.Context, loanID string, date time.Time, window time.Duration) ([]model.Transaction, error)
	ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Transaction, error)
	// Deactivate clears the active flag of a reversed transaction.
	Deactivate(ctx context.Context, id, reason string) error
}

// ClassificationRepository persists immutable provisioning records.
type ClassificationRepository interface {
	Save(ctx context.Context, c model.Classification) error
	FindLatestByLoan(ctx context.Context, loanID string) (model.Classification, error)
	ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Classification, error)
}

// SnapshotRepository persists daily portfolio snapshots.
type SnapshotRepository interface {
	// Save inserts the snapshot; it must be a no-op when one already exists
	// for the organization and day.
	Save(ctx context.Context, s model.PortfolioSnapshot) error
	FindByOrganizationAndDate(ctx context.Context, organizationID string, date time.Time) (model.PortfolioSnapshot, bool, error)
}

// UnitOfWork runs fn atomically: every repository call made with the ctx
// passed to fn joins the same transaction, and an error from fn rolls the
// whole unit back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// CollateralValuer returns the effective (haircut-adjusted) total collateral
// value pledged against a loan.
type CollateralValuer interface {
	EffectiveValue(ctx context.Context, organizationID, loanID string) (decimal.Decimal, error)
}

// FileStore stores binary artifacts (payment proofs, disbursement documents)
// and returns a durable URL.
type FileStore interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// Clock supplies the current time, injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}
