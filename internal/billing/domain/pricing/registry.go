package pricing

import (
	"errors"
	"fmt"
	"sort"

	billing "theater-billing/internal/billing/domain"
)

// Constructor builds a calculator for one performance of a play.
type Constructor func(perf billing.Performance, play billing.Play) billing.PerformanceCalculator

// Registry maps genres to calculator constructors.
// A registry is never mutated after construction; With returns an extended copy.
type Registry struct {
	constructors map[billing.Genre]Constructor
}

// NewRegistry builds a registry from genre constructors.
func NewRegistry(constructors map[billing.Genre]Constructor) (*Registry, error) {
	copied := make(map[billing.Genre]Constructor, len(constructors))
	for genre, ctor := range constructors {
		if genre == "" {
			return nil, billing.ErrEmptyGenre
		}
		if ctor == nil {
			return nil, fmt.Errorf("pricing: nil constructor for genre %q", genre)
		}
		copied[genre] = ctor
	}
	return &Registry{constructors: copied}, nil
}

// DefaultRegistry returns the registry with the built-in genres.
func DefaultRegistry() *Registry {
	return &Registry{constructors: map[billing.Genre]Constructor{
		billing.GenreTragedy:  NewTragedyCalculator,
		billing.GenreComedy:   NewComedyCalculator,
		billing.GenreHistory:  NewHistoryCalculator,
		billing.GenrePastoral: NewPastoralCalculator,
	}}
}

// With returns a copy of the registry with genre bound to ctor.
func (r *Registry) With(genre billing.Genre, ctor Constructor) (*Registry, error) {
	if genre == "" {
		return nil, billing.ErrEmptyGenre
	}
	if ctor == nil {
		return nil, errors.New("pricing: nil constructor")
	}
	next := make(map[billing.Genre]Constructor, len(r.constructors)+1)
	for g, c := range r.constructors {
		next[g] = c
	}
	next[genre] = ctor
	return &Registry{constructors: next}, nil
}

// NewCalculator implements billing.CalculatorFactory.
func (r *Registry) NewCalculator(perf billing.Performance, play billing.Play) (billing.PerformanceCalculator, error) {
	if r == nil {
		return nil, errors.New("pricing: nil registry")
	}
	if play.Genre == "" {
		return nil, fmt.Errorf("%w: play %q", billing.ErrEmptyGenre, play.ID)
	}
	ctor, ok := r.constructors[play.Genre]
	if !ok {
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedGenre, play.Genre)
	}
	return ctor(perf, play), nil
}

// Genres returns the registered genres sorted by tag.
func (r *Registry) Genres() []billing.Genre {
	if r == nil {
		return nil
	}
	result := make([]billing.Genre, 0, len(r.constructors))
	for genre := range r.constructors {
		result = append(result, genre)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
