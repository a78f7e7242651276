package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
)

// Summary is the derived pay-period read model over the attendance, leave
// and advance ledgers. It is computed, never stored.
type Summary struct {
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time

	WorkedDays      int
	LeaveDaysByType map[leave.Type]int

	// OutstandingAdvance is the employee's current approved, unsettled
	// advance balance.
	OutstandingAdvance decimal.Decimal

	// NetAdjustments is the total of advances approved inside the period,
	// to be deducted by downstream payroll.
	NetAdjustments decimal.Decimal
}
