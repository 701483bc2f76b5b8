package billing

import "errors"

var (
	// ErrUnknownPlay is returned when a performance references a play missing from the catalog.
	ErrUnknownPlay = errors.New("billing: unknown play")
	// ErrUnsupportedGenre is returned when no calculator is registered for a genre.
	ErrUnsupportedGenre = errors.New("billing: unsupported genre")
	// ErrNegativeAudience is returned when a performance has a negative audience.
	ErrNegativeAudience = errors.New("billing: negative audience")
	// ErrAudienceTooLarge is returned when a performance exceeds MaxAudience.
	ErrAudienceTooLarge = errors.New("billing: audience too large")
	// ErrMissingAudience is returned when an input record omits the audience.
	ErrMissingAudience = errors.New("billing: missing audience")
	// ErrEmptyPlayID is returned when a play or performance has no play id.
	ErrEmptyPlayID = errors.New("billing: empty play id")
	// ErrEmptyPlayName is returned when a play has no display name.
	ErrEmptyPlayName = errors.New("billing: empty play name")
	// ErrEmptyGenre is returned when a play has no genre tag.
	ErrEmptyGenre = errors.New("billing: empty genre")
	// ErrDuplicatePlay is returned when a catalog receives the same play id twice.
	ErrDuplicatePlay = errors.New("billing: duplicate play")
	// ErrEmptyCustomer is returned when an invoice has no customer.
	ErrEmptyCustomer = errors.New("billing: empty customer")
	// ErrNilInvoice is returned when building a statement without an invoice.
	ErrNilInvoice = errors.New("billing: nil invoice")
	// ErrNilCatalog is returned when building a statement without a catalog.
	ErrNilCatalog = errors.New("billing: nil catalog")
	// ErrNilCalculatorFactory is returned when building a statement without a factory.
	ErrNilCalculatorFactory = errors.New("billing: nil calculator factory")
	// ErrInvoiceNotFound is returned by invoice repositories for unknown ids.
	ErrInvoiceNotFound = errors.New("billing: invoice not found")
)
