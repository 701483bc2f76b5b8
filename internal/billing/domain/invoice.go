package billing

import "fmt"

// MaxAudience bounds a single performance so that genre amounts and
// statement totals stay well inside int range.
const MaxAudience = 100000

// Performance is one invoice line: a play and the audience that attended.
type Performance struct {
	playID   string
	audience int
}

// NewPerformance validates and constructs a performance.
func NewPerformance(playID string, audience int) (Performance, error) {
	if playID == "" {
		return Performance{}, ErrEmptyPlayID
	}
	if audience < 0 {
		return Performance{}, fmt.Errorf("%w: play %q audience %d", ErrNegativeAudience, playID, audience)
	}
	if audience > MaxAudience {
		return Performance{}, fmt.Errorf("%w: play %q audience %d exceeds %d", ErrAudienceTooLarge, playID, audience, MaxAudience)
	}
	return Performance{playID: playID, audience: audience}, nil
}

// PlayID returns the referenced play id.
func (p Performance) PlayID() string { return p.playID }

// Audience returns the audience size.
func (p Performance) Audience() int { return p.audience }

// Invoice is a customer's ordered list of performances.
type Invoice struct {
	id           string
	customer     string
	performances []Performance
}

// NewInvoice constructs an invoice. An empty id defaults to the customer name.
func NewInvoice(id, customer string, performances []Performance) (*Invoice, error) {
	if customer == "" {
		return nil, ErrEmptyCustomer
	}
	for i, perf := range performances {
		if perf.playID == "" {
			return nil, fmt.Errorf("performance %d: %w", i, ErrEmptyPlayID)
		}
	}
	if id == "" {
		id = customer
	}
	copied := make([]Performance, len(performances))
	copy(copied, performances)
	return &Invoice{id: id, customer: customer, performances: copied}, nil
}

// ID returns the invoice identity.
func (i *Invoice) ID() string { return i.id }

// Customer returns the customer name.
func (i *Invoice) Customer() string { return i.customer }

// Performances returns a copy of the performances in invoice order.
func (i *Invoice) Performances() []Performance {
	if i == nil {
		return nil
	}
	result := make([]Performance, len(i.performances))
	copy(result, i.performances)
	return result
}
