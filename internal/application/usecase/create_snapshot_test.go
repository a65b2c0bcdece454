package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/service"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

func newSnapshotUseCase(
	loanRepo *mockLoanRepository,
	classificationRepo *mockClassificationRepository,
	snapshotRepo *mockSnapshotRepository,
	publisher *mockEventPublisher,
) *usecase.CreateSnapshotUseCase {
	return usecase.NewCreateSnapshotUseCase(
		loanRepo, classificationRepo, snapshotRepo,
		service.NewPortfolioAggregator(), publisher,
		fixedClock{now: fixedNow}, testLogger(),
	)
}

func TestCreateSnapshot_Execute(t *testing.T) {
	currentLoan := fixtureLoan(t, fixedNow)
	overdueLoan := fixtureLoan(t, fixedNow.AddDate(0, -1, -45))

	t.Run("builds and persists the daily snapshot", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			listActiveFunc: func(_ context.Context, _ string, offset, _ int) ([]model.Loan, error) {
				if offset > 0 {
					return nil, nil
				}
				return []model.Loan{currentLoan, overdueLoan}, nil
			},
		}
		classificationRepo := &mockClassificationRepository{
			findLatestFunc: func(_ context.Context, loanID string) (model.Classification, error) {
				if loanID == overdueLoan.ID() {
					return model.Classification{
						LoanID:                 loanID,
						Class:                  valueobject.ArrearsClassWatch,
						ProvisionRequired:      decimal.NewFromInt(50),
						PreviousProvisionsHeld: decimal.NewFromInt(20),
						CollateralValue:        decimal.NewFromInt(100),
					}, nil
				}
				return model.Classification{}, model.ErrClassificationNotFound
			},
		}
		snapshotRepo := &mockSnapshotRepository{}
		publisher := &mockEventPublisher{}
		uc := newSnapshotUseCase(loanRepo, classificationRepo, snapshotRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.CreateSnapshotRequest{OrganizationID: "org-1"})
		require.NoError(t, err)

		assert.False(t, resp.AlreadyExisted)
		assert.Equal(t, 2, resp.TotalLoans)
		assert.True(t, decimal.NewFromInt(2000).Equal(resp.TotalOutstanding))
		assert.True(t, decimal.NewFromInt(50).Equal(resp.TotalProvisions))
		assert.Contains(t, resp.Buckets, "NORMAL")
		assert.Contains(t, resp.Buckets, "WATCH")
		// 1,000 of 2,000 outstanding sits 31-90 days overdue.
		assert.True(t, decimal.NewFromFloat(0.5).Equal(resp.PAR90), "par90 %s", resp.PAR90)

		require.Len(t, snapshotRepo.savedSnapshots, 1)
		// Snapshot date is normalized to midnight UTC.
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), snapshotRepo.savedSnapshots[0].Date)

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "lms.portfolio.snapshot_created", publisher.publishedEvents[0].EventType())
	})

	t.Run("returns the existing snapshot without rewriting", func(t *testing.T) {
		existing := model.NewPortfolioSnapshot("org-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), fixedNow)
		existing.TotalLoans = 7

		snapshotRepo := &mockSnapshotRepository{
			findByDateFunc: func(_ context.Context, _ string, _ time.Time) (model.PortfolioSnapshot, bool, error) {
				return existing, true, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := newSnapshotUseCase(&mockLoanRepository{}, &mockClassificationRepository{}, snapshotRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.CreateSnapshotRequest{OrganizationID: "org-1"})
		require.NoError(t, err)

		assert.True(t, resp.AlreadyExisted)
		assert.Equal(t, 7, resp.TotalLoans)
		assert.Empty(t, snapshotRepo.savedSnapshots)
		assert.Empty(t, publisher.publishedEvents)
	})
}
