// Package content holds the static catalogs that daily selections are drawn
// from. Catalogs are TOML files embedded in the binary (pools/*.toml) and may
// be overridden from a directory at startup to ship a newer version.
//
// A catalog is pure data. Ordering inside the file is significant: entry ids
// are derived from category + position, and the selector walks the flattened
// sequence in file order.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Kind distinguishes challenge catalogs (difficulty + reward required) from
// tip catalogs.
type Kind string

const (
	KindChallenge Kind = "challenge"
	KindTip       Kind = "tip"
)

// Difficulty of a challenge entry.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Entry is one selectable item as it is written in a catalog file.
type Entry struct {
	Title      string     `toml:"title"`
	Points     int        `toml:"points"`
	Difficulty Difficulty `toml:"difficulty"`
	Icon       string     `toml:"icon"`
}

// Category groups entries under a stable name.
type Category struct {
	Name    string  `toml:"name"`
	Entries []Entry `toml:"entries"`
}

// Pool is a versioned catalog.
type Pool struct {
	Name       string     `toml:"name"`
	Version    int        `toml:"version"`
	Kind       Kind       `toml:"kind"`
	Categories []Category `toml:"categories"`
}

// ContentEntry is a flattened pool entry with its stable id.
type ContentEntry struct {
	ID           string     `json:"id" firestore:"id"`
	Title        string     `json:"title" firestore:"title"`
	RewardPoints int        `json:"points" firestore:"points"`
	Difficulty   Difficulty `json:"difficulty,omitempty" firestore:"difficulty,omitempty"`
	Category     string     `json:"category" firestore:"category"`
	Icon         string     `json:"icon,omitempty" firestore:"icon,omitempty"`
}

// Stats summarises a pool for the debug endpoint.
type Stats struct {
	Name            string         `json:"name"`
	Version         int            `json:"version"`
	TotalCategories int            `json:"totalCategories"`
	TotalEntries    int            `json:"totalEntries"`
	CategoryCounts  map[string]int `json:"categoryCounts"`
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	ErrEmptyPool    = errors.New("content pool is empty")
	ErrInvalidEntry = errors.New("invalid content entry")
)

// --------------------------------------------------------------------------
// Parsing and validation
// --------------------------------------------------------------------------

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Pool, error) {
	var p Pool
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("decode pool: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode pool %q: unknown keys %v", p.Name, undecoded)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseFile reads and parses a catalog from fsys.
func ParseFile(fsys fs.FS, name string) (*Pool, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", name, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", name, err)
	}
	return p, nil
}

// Validate checks the catalog invariants. Called at load time so a broken
// catalog stops the process before any invocation uses it.
func (p *Pool) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: pool name is required", ErrInvalidEntry)
	}
	switch p.Kind {
	case KindChallenge, KindTip:
	default:
		return fmt.Errorf("%w: pool %q has unknown kind %q", ErrInvalidEntry, p.Name, p.Kind)
	}

	total := 0
	seen := make(map[string]bool, len(p.Categories))
	for _, c := range p.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: pool %q has an unnamed category", ErrInvalidEntry, p.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: pool %q repeats category %q", ErrInvalidEntry, p.Name, c.Name)
		}
		seen[c.Name] = true
		if len(c.Entries) == 0 {
			return fmt.Errorf("%w: pool %q category %q", ErrEmptyPool, p.Name, c.Name)
		}
		for i, e := range c.Entries {
			if err := p.validateEntry(e); err != nil {
				return fmt.Errorf("pool %q entry %s_%d: %w", p.Name, c.Name, i, err)
			}
		}
		total += len(c.Entries)
	}
	if total == 0 {
		return fmt.Errorf("%w: pool %q", ErrEmptyPool, p.Name)
	}
	return nil
}

func (p *Pool) validateEntry(e Entry) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidEntry)
	}
	if e.Points < 0 {
		return fmt.Errorf("%w: negative points %d", ErrInvalidEntry, e.Points)
	}
	if p.Kind != KindChallenge {
		return nil
	}
	switch e.Difficulty {
	case Easy, Medium, Hard:
		return nil
	default:
		return fmt.Errorf("%w: difficulty %q", ErrInvalidEntry, e.Difficulty)
	}
}

// --------------------------------------------------------------------------
// Views
// --------------------------------------------------------------------------

// Flatten returns every entry in catalog order with its stable id assigned.
func (p *Pool) Flatten() []ContentEntry {
	out := make([]ContentEntry, 0, p.Len())
	for _, c := range p.Categories {
		for i, e := range c.Entries {
			out = append(out, ContentEntry{
				ID:           fmt.Sprintf("%s_%d", c.Name, i),
				Title:        e.Title,
				RewardPoints: e.Points,
				Difficulty:   e.Difficulty,
				Category:     c.Name,
				Icon:         e.Icon,
			})
		}
	}
	return out
}

// Len returns the number of entries across all categories.
func (p *Pool) Len() int {
	n := 0
	for _, c := range p.Categories {
		n += len(c.Entries)
	}
	return n
}

// Stats returns per-category counts.
func (p *Pool) Stats() Stats {
	s := Stats{
		Name:            p.Name,
		Version:         p.Version,
		TotalCategories: len(p.Categories),
		CategoryCounts:  make(map[string]int, len(p.Categories)),
	}
	for _, c := range p.Categories {
		s.CategoryCounts[c.Name] = len(c.Entries)
		s.TotalEntries += len(c.Entries)
	}
	return s
}
