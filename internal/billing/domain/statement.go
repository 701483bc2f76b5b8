package billing

import "fmt"

// PerformanceCalculator prices a single performance.
type PerformanceCalculator interface {
	// Amount returns the performance amount in cents.
	Amount() int
	// VolumeCredits returns the loyalty credits earned by the performance.
	VolumeCredits() int
}

// CalculatorFactory selects the calculator for a performance from its play genre.
type CalculatorFactory interface {
	NewCalculator(perf Performance, play Play) (PerformanceCalculator, error)
}

// PerformanceData is the priced, render-ready view of one performance.
type PerformanceData struct {
	PlayID        string
	Name          string
	Genre         Genre
	Audience      int
	Amount        int
	VolumeCredits int
}

// StatementData is the priced statement for one invoice.
type StatementData struct {
	invoiceID    string
	customer     string
	performances []PerformanceData
}

// BuildStatementData prices every performance of the invoice in order.
// Any unresolved play or unsupported genre aborts the whole build.
func BuildStatementData(invoice *Invoice, plays PlayLookup, factory CalculatorFactory) (*StatementData, error) {
	if invoice == nil {
		return nil, ErrNilInvoice
	}
	if plays == nil {
		return nil, ErrNilCatalog
	}
	if factory == nil {
		return nil, ErrNilCalculatorFactory
	}

	performances := make([]PerformanceData, 0, len(invoice.performances))
	for i, perf := range invoice.performances {
		play, ok := plays.Play(perf.playID)
		if !ok {
			return nil, fmt.Errorf("performance %d: %w: %q", i, ErrUnknownPlay, perf.playID)
		}
		calc, err := factory.NewCalculator(perf, play)
		if err != nil {
			return nil, fmt.Errorf("performance %d: %w", i, err)
		}
		performances = append(performances, PerformanceData{
			PlayID:        play.ID,
			Name:          play.Name,
			Genre:         play.Genre,
			Audience:      perf.audience,
			Amount:        calc.Amount(),
			VolumeCredits: calc.VolumeCredits(),
		})
	}

	return &StatementData{
		invoiceID:    invoice.id,
		customer:     invoice.customer,
		performances: performances,
	}, nil
}

// InvoiceID returns the source invoice id.
func (s *StatementData) InvoiceID() string { return s.invoiceID }

// Customer returns the customer name.
func (s *StatementData) Customer() string { return s.customer }

// Performances returns a copy of the priced performances in invoice order.
func (s *StatementData) Performances() []PerformanceData {
	result := make([]PerformanceData, len(s.performances))
	copy(result, s.performances)
	return result
}

// TotalAmount sums the performance amounts.
func (s *StatementData) TotalAmount() int {
	total := 0
	for _, perf := range s.performances {
		total += perf.Amount
	}
	return total
}

// TotalVolumeCredits sums the performance volume credits.
func (s *StatementData) TotalVolumeCredits() int {
	total := 0
	for _, perf := range s.performances {
		total += perf.VolumeCredits
	}
	return total
}
