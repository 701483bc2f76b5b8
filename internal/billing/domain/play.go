package billing

import (
	"fmt"
	"sort"
)

// Genre is the play type tag that selects a pricing rule.
type Genre string

const (
	GenreTragedy  Genre = "tragedy"
	GenreComedy   Genre = "comedy"
	GenreHistory  Genre = "history"
	GenrePastoral Genre = "pastoral"
)

// String returns the raw tag.
func (g Genre) String() string { return string(g) }

// Play is a catalog entry.
type Play struct {
	ID    string
	Name  string
	Genre Genre
}

// NewPlay validates and constructs a play.
func NewPlay(id, name string, genre Genre) (Play, error) {
	if id == "" {
		return Play{}, ErrEmptyPlayID
	}
	if name == "" {
		return Play{}, fmt.Errorf("%w: play %q", ErrEmptyPlayName, id)
	}
	if genre == "" {
		return Play{}, fmt.Errorf("%w: play %q", ErrEmptyGenre, id)
	}
	return Play{ID: id, Name: name, Genre: genre}, nil
}

// PlayLookup resolves a play by id.
type PlayLookup interface {
	Play(id string) (Play, bool)
}

// Catalog is an immutable snapshot of plays keyed by id.
type Catalog struct {
	plays map[string]Play
}

// NewCatalog builds a catalog snapshot. Plays are validated and ids must be unique.
func NewCatalog(plays ...Play) (*Catalog, error) {
	index := make(map[string]Play, len(plays))
	for _, play := range plays {
		checked, err := NewPlay(play.ID, play.Name, play.Genre)
		if err != nil {
			return nil, err
		}
		if _, exists := index[checked.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlay, checked.ID)
		}
		index[checked.ID] = checked
	}
	return &Catalog{plays: index}, nil
}

// Play returns the play for id.
func (c *Catalog) Play(id string) (Play, bool) {
	if c == nil {
		return Play{}, false
	}
	play, ok := c.plays[id]
	return play, ok
}

// Len returns the number of plays.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.plays)
}

// Plays returns a copy of all plays sorted by id.
func (c *Catalog) Plays() []Play {
	if c == nil {
		return nil
	}
	result := make([]Play, 0, len(c.plays))
	for _, play := range c.plays {
		result = append(result, play)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}
