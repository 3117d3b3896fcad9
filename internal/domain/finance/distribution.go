package finance

import "github.com/rentfold/backend/internal/domain/shared"

// SeasonalPattern selects a fixed percentage table used to distribute an
// annual amount across the 12 monthly periods.
type SeasonalPattern string

const (
	SeasonalPatternWinterHeavy    SeasonalPattern = "WINTER_HEAVY"    // Heating, snow removal
	SeasonalPatternSummerHeavy    SeasonalPattern = "SUMMER_HEAVY"    // Cooling, landscaping, turnover
	SeasonalPatternQuarterlySpike SeasonalPattern = "QUARTERLY_SPIKE" // Quarter-end billings
)

// IsValid checks if the pattern is a valid SeasonalPattern
func (p SeasonalPattern) IsValid() bool {
	switch p {
	case SeasonalPatternWinterHeavy, SeasonalPatternSummerHeavy, SeasonalPatternQuarterlySpike:
		return true
	}
	return false
}

// String returns the string representation of SeasonalPattern
func (p SeasonalPattern) String() string {
	return string(p)
}

// Percentage tables by period (January through December). Each table sums
// to 100.
var seasonalTables = map[SeasonalPattern][PeriodsPerYear]int64{
	SeasonalPatternWinterHeavy:    {13, 13, 11, 7, 6, 5, 5, 5, 6, 7, 10, 12},
	SeasonalPatternSummerHeavy:    {5, 5, 6, 7, 10, 12, 13, 13, 11, 7, 6, 5},
	SeasonalPatternQuarterlySpike: {5, 5, 15, 5, 5, 15, 5, 5, 15, 5, 5, 15},
}

// SpreadAnnualAmount splits an annual amount evenly across the 12 periods.
// The remainder from integer division goes to the last period so that the
// periods always sum exactly to annualCents.
func SpreadAnnualAmount(annualCents int64) [PeriodsPerYear]int64 {
	var amounts [PeriodsPerYear]int64

	monthly := annualCents / PeriodsPerYear
	for period := range amounts {
		amounts[period] = monthly
	}
	amounts[PeriodsPerYear-1] += annualCents - monthly*PeriodsPerYear

	return amounts
}

// ApplySeasonalDistribution splits an annual amount across the 12 periods
// using the pattern's percentage table. The rounding adjustment from integer
// division goes to the first period so that the periods always sum exactly
// to annualCents.
func ApplySeasonalDistribution(annualCents int64, pattern SeasonalPattern) ([PeriodsPerYear]int64, error) {
	var amounts [PeriodsPerYear]int64

	table, ok := seasonalTables[pattern]
	if !ok {
		return amounts, shared.NewDomainError("INVALID_PATTERN", "Seasonal pattern is not valid")
	}

	var distributed int64
	for period, pct := range table {
		amounts[period] = annualCents * pct / 100
		distributed += amounts[period]
	}
	amounts[0] += annualCents - distributed

	return amounts, nil
}
