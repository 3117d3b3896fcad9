package finance

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PeriodVariance compares budgeted and actual amounts for a single period.
// Variance is budgeted minus actual: positive means under budget.
type PeriodVariance struct {
	Period          int     `json:"period"` // 1-based month
	BudgetedCents   int64   `json:"budgeted_cents"`
	ActualCents     int64   `json:"actual_cents"`
	VarianceCents   int64   `json:"variance_cents"`
	VariancePercent float64 `json:"variance_percent"`
	IsFavorable     bool    `json:"is_favorable"`
}

// AccountVariance aggregates the variance rows for one ledger account
// across the requested period range.
type AccountVariance struct {
	AccountID       uuid.UUID        `json:"account_id"`
	AccountCode     string           `json:"account_code"`
	AccountName     string           `json:"account_name"`
	AccountType     AccountType      `json:"account_type"`
	Periods         []PeriodVariance `json:"periods"`
	BudgetedCents   int64            `json:"budgeted_cents"`
	ActualCents     int64            `json:"actual_cents"`
	VarianceCents   int64            `json:"variance_cents"`
	VariancePercent float64          `json:"variance_percent"`
	IsFavorable     bool             `json:"is_favorable"`
}

// VarianceReport is the full budget-vs-actual comparison for a budget
type VarianceReport struct {
	BudgetID           uuid.UUID         `json:"budget_id"`
	FiscalYear         int               `json:"fiscal_year"`
	FromPeriod         int               `json:"from_period"`
	ToPeriod           int               `json:"to_period"`
	Accounts           []AccountVariance `json:"accounts"`
	TotalBudgetedCents int64             `json:"total_budgeted_cents"`
	TotalActualCents   int64             `json:"total_actual_cents"`
	TotalVarianceCents int64             `json:"total_variance_cents"`
}

// IsFavorableVariance classifies a variance by account type. For expenses,
// coming in under budget is favorable; for revenue, coming in over budget
// is favorable. Landing exactly on budget is favorable for neither.
func IsFavorableVariance(accountType AccountType, actualCents, budgetedCents int64) bool {
	if accountType == AccountTypeExpense {
		return actualCents < budgetedCents
	}
	return actualCents > budgetedCents
}

// NormalizeActual flips the sign of a raw debit-signed ledger sum for
// credit-normal (revenue) accounts, so reported actuals are positive for
// both account types.
func NormalizeActual(accountType AccountType, rawCents int64) int64 {
	if accountType.NormalBalance() == BalanceSideCredit {
		return -rawCents
	}
	return rawCents
}

// CalculateVariance builds a variance report for a budget over a period
// range. rawActuals holds debit-signed per-period ledger sums keyed by
// account ID; the sign flip for revenue accounts happens here. Accounts
// with actuals but no budget item are reported with zero budgeted amounts.
func CalculateVariance(
	budget *Budget,
	accounts []*LedgerAccount,
	rawActuals map[uuid.UUID][PeriodsPerYear]int64,
	fromPeriod, toPeriod int,
) (*VarianceReport, error) {
	if budget == nil {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget is required")
	}
	if fromPeriod < 1 || toPeriod > PeriodsPerYear || fromPeriod > toPeriod {
		return nil, shared.NewDomainError("INVALID_PERIOD_RANGE", "Period range must be within 1..12")
	}

	accountsByID := make(map[uuid.UUID]*LedgerAccount, len(accounts))
	for _, account := range accounts {
		accountsByID[account.ID] = account
	}

	report := &VarianceReport{
		BudgetID:   budget.ID,
		FiscalYear: budget.FiscalYear,
		FromPeriod: fromPeriod,
		ToPeriod:   toPeriod,
		Accounts:   make([]AccountVariance, 0, len(budget.Items)),
	}

	seen := make(map[uuid.UUID]bool, len(budget.Items))
	for _, item := range budget.Items {
		account, ok := accountsByID[item.AccountID]
		if !ok {
			return nil, shared.NewDomainError("UNKNOWN_ACCOUNT", "Budget item references an unknown account")
		}
		seen[item.AccountID] = true
		report.Accounts = append(report.Accounts,
			buildAccountVariance(account, item.PeriodAmounts, rawActuals[item.AccountID], fromPeriod, toPeriod))
	}

	// Accounts with posted actuals but no budget line still show up,
	// budgeted at zero.
	for _, account := range accounts {
		if seen[account.ID] {
			continue
		}
		raw, ok := rawActuals[account.ID]
		if !ok {
			continue
		}
		var zero [PeriodsPerYear]int64
		report.Accounts = append(report.Accounts,
			buildAccountVariance(account, zero, raw, fromPeriod, toPeriod))
	}

	for _, av := range report.Accounts {
		report.TotalBudgetedCents += av.BudgetedCents
		report.TotalActualCents += av.ActualCents
	}
	report.TotalVarianceCents = report.TotalBudgetedCents - report.TotalActualCents

	return report, nil
}

func buildAccountVariance(
	account *LedgerAccount,
	budgeted [PeriodsPerYear]int64,
	rawActuals [PeriodsPerYear]int64,
	fromPeriod, toPeriod int,
) AccountVariance {
	av := AccountVariance{
		AccountID:   account.ID,
		AccountCode: account.Code,
		AccountName: account.Name,
		AccountType: account.Type,
		Periods:     make([]PeriodVariance, 0, toPeriod-fromPeriod+1),
	}

	for period := fromPeriod; period <= toPeriod; period++ {
		budgetedCents := budgeted[period-1]
		actualCents := NormalizeActual(account.Type, rawActuals[period-1])
		varianceCents := budgetedCents - actualCents

		av.Periods = append(av.Periods, PeriodVariance{
			Period:          period,
			BudgetedCents:   budgetedCents,
			ActualCents:     actualCents,
			VarianceCents:   varianceCents,
			VariancePercent: variancePercent(varianceCents, budgetedCents),
			IsFavorable:     IsFavorableVariance(account.Type, actualCents, budgetedCents),
		})

		av.BudgetedCents += budgetedCents
		av.ActualCents += actualCents
	}

	av.VarianceCents = av.BudgetedCents - av.ActualCents
	av.VariancePercent = variancePercent(av.VarianceCents, av.BudgetedCents)
	av.IsFavorable = IsFavorableVariance(account.Type, av.ActualCents, av.BudgetedCents)

	return av
}

func variancePercent(varianceCents, budgetedCents int64) float64 {
	if budgetedCents == 0 {
		return 0
	}
	return float64(varianceCents) / float64(budgetedCents) * 100
}
