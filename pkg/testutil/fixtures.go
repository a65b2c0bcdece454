package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestOrganizationID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestBorrowerID     = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestLoanID         = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestTransactionID  = uuid.MustParse("00000000-0000-0000-0000-000000000020")
)
