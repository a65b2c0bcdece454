package usecase

import (
	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/model"
)

func toLoanResponse(loan model.Loan, includeSchedule bool) dto.LoanResponse {
	terms := loan.Terms()
	resp := dto.LoanResponse{
		ID:                   loan.ID(),
		OrganizationID:       loan.OrganizationID(),
		BorrowerID:           loan.BorrowerID(),
		Principal:            terms.Principal,
		Currency:             terms.Currency,
		AnnualRate:           terms.AnnualRate,
		TermMonths:           terms.TermMonths,
		Frequency:            terms.Frequency.String(),
		InterestMethod:       terms.InterestMethod.String(),
		Modality:             terms.Modality.String(),
		Status:               loan.Status().String(),
		TotalInstallments:    loan.TotalInstallments(),
		TotalInterest:        loan.TotalInterest(),
		TotalRepayable:       loan.TotalRepayable(),
		OutstandingPrincipal: loan.OutstandingPrincipal(),
		InterestCollected:    loan.InterestCollected(),
		PenaltyCollected:     loan.PenaltyCollected(),
		DaysInArrears:        loan.DaysInArrears(),
		DisbursedAt:          loan.DisbursedAt(),
		CreatedAt:            loan.CreatedAt(),
		UpdatedAt:            loan.UpdatedAt(),
	}
	if includeSchedule {
		for _, line := range loan.Installments() {
			resp.Schedule = append(resp.Schedule, toInstallmentResponse(line))
		}
	}
	return resp
}

func toInstallmentResponse(line model.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		Number:               line.Number,
		DueDate:              line.DueDate,
		DuePrincipal:         line.DuePrincipal,
		DueInterest:          line.DueInterest,
		DueTotal:             line.DueTotal,
		PaidPrincipal:        line.PaidPrincipal,
		PaidInterest:         line.PaidInterest,
		PaidTotal:            line.PaidTotal,
		OutstandingPrincipal: line.OutstandingPrincipal,
		Penalty:              line.Penalty,
		DelayedDays:          line.DelayedDays,
		Status:               line.Status.String(),
		WasEarlyPayment:      line.WasEarlyPayment,
		ActualPaymentDate:    line.ActualPaymentDate,
	}
}

func toClassificationResponse(c model.Classification) dto.ClassificationResponse {
	return dto.ClassificationResponse{
		ID:                     c.ID,
		LoanID:                 c.LoanID,
		AsOf:                   c.AsOf,
		DaysInArrears:          c.DaysInArrears,
		Class:                  c.Class.String(),
		OutstandingBalance:     c.OutstandingBalance,
		CollateralValue:        c.CollateralValue,
		NetExposure:            c.NetExposure,
		ProvisioningRate:       c.ProvisioningRate,
		ProvisionRequired:      c.ProvisionRequired,
		PreviousProvisionsHeld: c.PreviousProvisionsHeld,
		AdditionalProvisions:   c.AdditionalProvisions,
	}
}

func toSnapshotResponse(s model.PortfolioSnapshot, alreadyExisted bool) dto.SnapshotResponse {
	resp := dto.SnapshotResponse{
		ID:                 s.ID,
		OrganizationID:     s.OrganizationID,
		Date:               s.Date,
		TotalLoans:         s.TotalLoans,
		TotalOutstanding:   s.TotalOutstanding,
		TotalProvisions:    s.TotalProvisions,
		TotalCollateral:    s.TotalCollateral,
		Buckets:            make(map[string]dto.ClassBucketResponse, len(s.Buckets)),
		PAR30:              s.PAR30,
		PAR90:              s.PAR90,
		PAR90Plus:          s.PAR90P,
		ProvisionAdequacy:  s.ProvisionAdequacy,
		CollateralCoverage: s.CollateralCoverage,
		AlreadyExisted:     alreadyExisted,
	}
	for class, bucket := range s.Buckets {
		resp.Buckets[class] = dto.ClassBucketResponse{
			Count:       bucket.Count,
			Outstanding: bucket.Outstanding,
			Provisions:  bucket.Provisions,
		}
	}
	return resp
}
