// Package analysis projects multi-year ownership cost and equity curves
// for a home purchase using closed-form annuity math. Everything here is
// pure: projections are recomputed on demand and never persisted.
package analysis

import (
	"math"

	"house_scout/models"
)

// Params are the inputs for one projection run. Immutable per run. Rates
// are annual decimals (0.012 for 1.2%) except MonthlyRepairPct, which is a
// monthly fraction of current home value. AnnualGrowthRate may be negative.
type Params struct {
	HomePrice            float64 `json:"home_price"`
	DownPaymentPct       float64 `json:"down_payment_pct"`
	PurchaseFees         float64 `json:"purchase_fees"`
	PropertyTaxRate      float64 `json:"property_tax_rate"`
	MonthlyRepairPct     float64 `json:"monthly_repair_pct"`
	HOAMonthly           float64 `json:"hoa_monthly"`
	AnnualGrowthRate     float64 `json:"annual_growth_rate"`
	InterestRate         float64 `json:"interest_rate"`
	LoanTermYears        int     `json:"loan_term_years"`
	MaintenanceInflation float64 `json:"maintenance_inflation"`
}

// DownPayment is the cash paid up front.
func (p Params) DownPayment() float64 {
	return p.HomePrice * p.DownPaymentPct
}

// InitialLoan is the financed portion of the purchase.
func (p Params) InitialLoan() float64 {
	return p.HomePrice * (1 - p.DownPaymentPct)
}

// MonthlyPayment is the fixed mortgage payment from the standard annuity
// formula M = P*r(1+r)^n / ((1+r)^n - 1).
func (p Params) MonthlyPayment() float64 {
	principal := p.InitialLoan()
	if principal <= 0 {
		return 0
	}
	monthlyRate := p.InterestRate / 12
	numPayments := float64(p.LoanTermYears * 12)
	if monthlyRate == 0 {
		return principal / numPayments
	}
	growth := math.Pow(1+monthlyRate, numPayments)
	return principal * monthlyRate * growth / (growth - 1)
}

// YearlyAnalysis is the projection for a single elapsed year.
type YearlyAnalysis struct {
	Year                  int     `json:"year"`
	HomeValue             float64 `json:"home_value"`
	LoanBalance           float64 `json:"loan_balance"`
	Equity                float64 `json:"equity"`
	AnnualTaxes           float64 `json:"annual_taxes"`
	AnnualRepair          float64 `json:"annual_repair"`
	AnnualMaintenance     float64 `json:"annual_maintenance"`
	AnnualCashOutflow     float64 `json:"annual_cash_outflow"`
	TotalCashInvested     float64 `json:"total_cash_invested"`
	AnnualMortgagePayment float64 `json:"annual_mortgage_payment"`
}

// ROI is equity over cumulative cash invested. ok is false when nothing
// has been invested: the ratio is undefined then, not zero.
func (y YearlyAnalysis) ROI() (float64, bool) {
	if y.TotalCashInvested <= 0 {
		return 0, false
	}
	return y.Equity / y.TotalCashInvested, true
}

// LoanBalance is the remaining principal after yearsElapsed years, computed
// as the present value of the remaining payments at the fixed rate. Zero
// once the term is up.
func LoanBalance(principal, annualRate float64, termYears, yearsElapsed int) float64 {
	if principal <= 0 || yearsElapsed >= termYears {
		return 0
	}

	monthlyRate := annualRate / 12
	totalPayments := float64(termYears * 12)
	remainingPayments := float64((termYears - yearsElapsed) * 12)

	if monthlyRate == 0 {
		return principal * (remainingPayments / totalPayments)
	}

	growth := math.Pow(1+monthlyRate, totalPayments)
	monthlyPayment := principal * monthlyRate * growth / (growth - 1)

	balance := monthlyPayment * (1 - math.Pow(1+monthlyRate, -remainingPayments)) / monthlyRate
	return math.Max(0, balance)
}

// Run projects costs and equity for year 0 through years inclusive.
func Run(params Params, years int) []YearlyAnalysis {
	results := make([]YearlyAnalysis, 0, years+1)
	annualMortgage := params.MonthlyPayment() * 12

	for year := 0; year <= years; year++ {
		homeValue := params.HomePrice * math.Pow(1+params.AnnualGrowthRate, float64(year))
		loanBalance := LoanBalance(params.InitialLoan(), params.InterestRate, params.LoanTermYears, year)
		equity := homeValue - loanBalance

		annualTaxes := homeValue * params.PropertyTaxRate
		annualRepair := homeValue * params.MonthlyRepairPct * 12
		annualMaintenance := params.HOAMonthly * 12 * math.Pow(1+params.MaintenanceInflation, float64(year))

		// Mortgage principal builds equity, so it is not part of the pure
		// cash outflow; the payment itself is tracked separately.
		annualCashOutflow := annualTaxes + annualRepair + annualMaintenance

		var totalInvested float64
		var mortgagePaid float64
		if year == 0 {
			totalInvested = params.DownPayment() + params.PurchaseFees
		} else {
			prev := results[year-1].TotalCashInvested
			totalInvested = prev + annualMaintenance + annualMortgage + annualTaxes + annualRepair
			mortgagePaid = annualMortgage
		}

		results = append(results, YearlyAnalysis{
			Year:                  year,
			HomeValue:             homeValue,
			LoanBalance:           loanBalance,
			Equity:                equity,
			AnnualTaxes:           annualTaxes,
			AnnualRepair:          annualRepair,
			AnnualMaintenance:     annualMaintenance,
			AnnualCashOutflow:     annualCashOutflow,
			TotalCashInvested:     totalInvested,
			AnnualMortgagePayment: mortgagePaid,
		})
	}

	return results
}

// NamedParams pairs a label with a parameter set for comparison runs.
type NamedParams struct {
	Name   string
	Params Params
}

// Compare runs projections for several homes side by side.
func Compare(homes []NamedParams, years int) map[string][]YearlyAnalysis {
	out := make(map[string][]YearlyAnalysis, len(homes))
	for _, h := range homes {
		out[h.Name] = Run(h.Params, years)
	}
	return out
}

// Summary aggregates a projection into headline numbers. Cumulative totals
// cover years 1..N; year 0 holds only the purchase itself.
type Summary struct {
	YearsAnalyzed     int      `json:"years_analyzed"`
	InitialInvestment float64  `json:"initial_investment"`
	FinalHomeValue    float64  `json:"final_home_value"`
	FinalEquity       float64  `json:"final_equity"`
	TotalCashInvested float64  `json:"total_cash_invested"`
	TotalAppreciation float64  `json:"total_appreciation"`
	AppreciationPct   float64  `json:"appreciation_pct"`
	FinalROI          *float64 `json:"final_roi"`
	TotalTaxesPaid    float64  `json:"total_taxes_paid"`
	TotalRepairCosts  float64  `json:"total_repair_costs"`
	TotalMaintenance  float64  `json:"total_maintenance"`
}

// Summarize reduces a projection to its Summary. Returns nil for an empty
// projection.
func Summarize(results []YearlyAnalysis) *Summary {
	if len(results) == 0 {
		return nil
	}

	first := results[0]
	final := results[len(results)-1]

	s := &Summary{
		YearsAnalyzed:     len(results) - 1,
		InitialInvestment: first.TotalCashInvested,
		FinalHomeValue:    final.HomeValue,
		FinalEquity:       final.Equity,
		TotalCashInvested: final.TotalCashInvested,
		TotalAppreciation: final.HomeValue - first.HomeValue,
		AppreciationPct:   (final.HomeValue - first.HomeValue) / first.HomeValue,
	}
	if roi, ok := final.ROI(); ok {
		s.FinalROI = &roi
	}
	for _, r := range results[1:] {
		s.TotalTaxesPaid += r.AnnualTaxes
		s.TotalRepairCosts += r.AnnualRepair
		s.TotalMaintenance += r.AnnualMaintenance
	}
	return s
}

// Defaults is the base parameter table applied when a listing doesn't
// carry its own figures. Values come from the purchase-planning
// spreadsheet this engine reproduces.
type Defaults struct {
	DownPaymentPct       float64 `yaml:"down_payment_pct"`
	PurchaseFees         float64 `yaml:"purchase_fees"`
	PropertyTaxRate      float64 `yaml:"property_tax_rate"`
	MonthlyRepairPct     float64 `yaml:"monthly_repair_pct"`
	HOAMonthly           float64 `yaml:"hoa_monthly"`
	AnnualGrowthRate     float64 `yaml:"annual_growth_rate"`
	InterestRate         float64 `yaml:"interest_rate"`
	LoanTermYears        int     `yaml:"loan_term_years"`
	MaintenanceInflation float64 `yaml:"maintenance_inflation"`
}

// DefaultTable returns the stock defaults: 20% down, 30-year term.
func DefaultTable() Defaults {
	return Defaults{
		DownPaymentPct:       0.20,
		PurchaseFees:         35000.0,
		PropertyTaxRate:      0.012,
		MonthlyRepairPct:     0.0003,
		HOAMonthly:           0.0,
		AnnualGrowthRate:     0.03,
		InterestRate:         0.0479,
		LoanTermYears:        30,
		MaintenanceInflation: 0.02,
	}
}

// ParamsFor expands the defaults into run parameters for a given price.
func (d Defaults) ParamsFor(homePrice float64) Params {
	return Params{
		HomePrice:            homePrice,
		DownPaymentPct:       d.DownPaymentPct,
		PurchaseFees:         d.PurchaseFees,
		PropertyTaxRate:      d.PropertyTaxRate,
		MonthlyRepairPct:     d.MonthlyRepairPct,
		HOAMonthly:           d.HOAMonthly,
		AnnualGrowthRate:     d.AnnualGrowthRate,
		InterestRate:         d.InterestRate,
		LoanTermYears:        d.LoanTermYears,
		MaintenanceInflation: d.MaintenanceInflation,
	}
}

// TaxRate resolves the extractor's amount-or-rate ambiguity: anything
// above 1 has to be an annual dollar amount and is divided by the price.
// Known data-quality wart in upstream listing pages, preserved on purpose.
func TaxRate(value, homePrice float64) float64 {
	if value > 1 && homePrice > 0 {
		return value / homePrice
	}
	return value
}

// ParamsFromListing builds run parameters for a parsed listing, applying
// whatever cost figures the page carried over the defaults.
func ParamsFromListing(l *models.Listing, d Defaults) Params {
	var price float64
	if l.Price != nil {
		price = *l.Price
	}
	p := d.ParamsFor(price)

	if l.PropertyTax != nil {
		p.PropertyTaxRate = TaxRate(*l.PropertyTax, price)
	}
	if l.HOAMonthly != nil {
		p.HOAMonthly = *l.HOAMonthly
	}
	if l.EstRepairPct != nil {
		p.MonthlyRepairPct = *l.EstRepairPct
	}
	return p
}
