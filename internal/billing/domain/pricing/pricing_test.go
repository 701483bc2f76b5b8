package pricing

import (
	"errors"
	"testing"

	billing "theater-billing/internal/billing/domain"
)

func mustPerformance(t *testing.T, playID string, audience int) billing.Performance {
	t.Helper()
	perf, err := billing.NewPerformance(playID, audience)
	if err != nil {
		t.Fatalf("new performance: %v", err)
	}
	return perf
}

func TestRegistry_GenreAmountsAndCredits(t *testing.T) {
	cases := []struct {
		name     string
		genre    billing.Genre
		audience int
		amount   int
		credits  int
	}{
		{name: "tragedy under threshold", genre: billing.GenreTragedy, audience: 15, amount: 40000, credits: 0},
		{name: "tragedy at threshold", genre: billing.GenreTragedy, audience: 30, amount: 40000, credits: 0},
		{name: "tragedy over threshold", genre: billing.GenreTragedy, audience: 55, amount: 65000, credits: 25},
		{name: "comedy empty house", genre: billing.GenreComedy, audience: 0, amount: 30000, credits: 0},
		{name: "comedy at threshold", genre: billing.GenreComedy, audience: 20, amount: 36000, credits: 4},
		{name: "comedy just over threshold", genre: billing.GenreComedy, audience: 21, amount: 46800, credits: 4},
		{name: "comedy over threshold", genre: billing.GenreComedy, audience: 35, amount: 58000, credits: 12},
		{name: "history under threshold", genre: billing.GenreHistory, audience: 10, amount: 20000, credits: 0},
		{name: "history over threshold", genre: billing.GenreHistory, audience: 25, amount: 25000, credits: 5},
		{name: "pastoral under threshold", genre: billing.GenrePastoral, audience: 9, amount: 40000, credits: 4},
		{name: "pastoral over threshold", genre: billing.GenrePastoral, audience: 25, amount: 52500, credits: 17},
	}

	registry := DefaultRegistry()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			play := billing.Play{ID: "p", Name: "P", Genre: tc.genre}
			calc, err := registry.NewCalculator(mustPerformance(t, "p", tc.audience), play)
			if err != nil {
				t.Fatalf("new calculator: %v", err)
			}
			if got := calc.Amount(); got != tc.amount {
				t.Fatalf("amount: expected %d, got %d", tc.amount, got)
			}
			if got := calc.VolumeCredits(); got != tc.credits {
				t.Fatalf("credits: expected %d, got %d", tc.credits, got)
			}
		})
	}
}

func TestRegistry_UnsupportedGenre(t *testing.T) {
	play := billing.Play{ID: "mystery", Name: "Mystery", Genre: "unknown-genre"}
	calc, err := DefaultRegistry().NewCalculator(mustPerformance(t, "mystery", 10), play)
	if !errors.Is(err, billing.ErrUnsupportedGenre) {
		t.Fatalf("expected unsupported genre, got %v", err)
	}
	if calc != nil {
		t.Fatalf("expected no calculator")
	}
}

func TestRegistry_EmptyGenre(t *testing.T) {
	play := billing.Play{ID: "blank", Name: "Blank"}
	if _, err := DefaultRegistry().NewCalculator(mustPerformance(t, "blank", 10), play); !errors.Is(err, billing.ErrEmptyGenre) {
		t.Fatalf("expected empty genre error, got %v", err)
	}
}

type flatCalculator struct{ base }

func (flatCalculator) Amount() int { return 12345 }

func TestRegistry_WithExtendsWithoutMutating(t *testing.T) {
	original := DefaultRegistry()
	extended, err := original.With("musical", func(perf billing.Performance, play billing.Play) billing.PerformanceCalculator {
		return flatCalculator{base{perf: perf, play: play}}
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	play := billing.Play{ID: "cats", Name: "Cats", Genre: "musical"}
	perf := mustPerformance(t, "cats", 45)
	if _, err := original.NewCalculator(perf, play); !errors.Is(err, billing.ErrUnsupportedGenre) {
		t.Fatalf("original registry must stay unchanged, got %v", err)
	}
	calc, err := extended.NewCalculator(perf, play)
	if err != nil {
		t.Fatalf("extended calculator: %v", err)
	}
	if calc.Amount() != 12345 {
		t.Fatalf("unexpected amount %d", calc.Amount())
	}
	if calc.VolumeCredits() != 15 {
		t.Fatalf("expected default credit rule, got %d", calc.VolumeCredits())
	}
	if len(extended.Genres()) != len(original.Genres())+1 {
		t.Fatalf("expected one more genre: %v", extended.Genres())
	}
}

func TestNewRegistry_RejectsNilConstructor(t *testing.T) {
	_, err := NewRegistry(map[billing.Genre]Constructor{billing.GenreTragedy: nil})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCalculators_MonotonicAndNonNegative(t *testing.T) {
	registry := DefaultRegistry()
	for _, genre := range registry.Genres() {
		play := billing.Play{ID: "p", Name: "P", Genre: genre}
		prev := -1
		for audience := 0; audience <= 200; audience++ {
			calc, err := registry.NewCalculator(mustPerformance(t, "p", audience), play)
			if err != nil {
				t.Fatalf("%s: %v", genre, err)
			}
			amount := calc.Amount()
			if amount < 0 || calc.VolumeCredits() < 0 {
				t.Fatalf("%s audience %d: negative value", genre, audience)
			}
			if amount < prev {
				t.Fatalf("%s audience %d: amount decreased %d -> %d", genre, audience, prev, amount)
			}
			prev = amount
		}
	}
}

func TestCalculators_BoundedAtMaxAudience(t *testing.T) {
	registry := DefaultRegistry()
	for _, genre := range registry.Genres() {
		play := billing.Play{ID: "p", Name: "P", Genre: genre}
		below, err := registry.NewCalculator(mustPerformance(t, "p", billing.MaxAudience-1), play)
		if err != nil {
			t.Fatalf("%s: %v", genre, err)
		}
		top, err := registry.NewCalculator(mustPerformance(t, "p", billing.MaxAudience), play)
		if err != nil {
			t.Fatalf("%s: %v", genre, err)
		}
		if top.Amount() < below.Amount() || top.Amount() <= 0 {
			t.Fatalf("%s: amount %d at max audience, %d just below", genre, top.Amount(), below.Amount())
		}
		if top.VolumeCredits() < 0 {
			t.Fatalf("%s: negative credits at max audience", genre)
		}
		// Per-line amounts stay within int32.
		if top.Amount() > 1<<31-1 {
			t.Fatalf("%s: amount %d exceeds int32", genre, top.Amount())
		}
	}
}

func TestCalculators_Deterministic(t *testing.T) {
	registry := DefaultRegistry()
	play := billing.Play{ID: "as-like", Name: "As You Like It", Genre: billing.GenreComedy}
	perf := mustPerformance(t, "as-like", 35)
	first, _ := registry.NewCalculator(perf, play)
	second, _ := registry.NewCalculator(perf, play)
	if first.Amount() != second.Amount() || first.VolumeCredits() != second.VolumeCredits() {
		t.Fatalf("calculators disagree")
	}
	for i := 0; i < 3; i++ {
		if first.Amount() != 58000 || first.VolumeCredits() != 12 {
			t.Fatalf("call %d changed result", i)
		}
	}
}
