package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed pools/*.toml
var embedded embed.FS

// Catalog file names, shared by the embedded set and override directories.
const (
	ChallengesFile = "challenges.toml"
	TipsFile       = "tips.toml"
	PushTipsFile   = "push_tips.toml"
)

// Catalog bundles every pool the service draws from.
type Catalog struct {
	Challenges *Pool
	Tips       *Pool
	PushTips   *Pool
}

// LoadCatalog loads the embedded pools, replacing any of them with a file of
// the same name found in overrideDir. An empty overrideDir uses only the
// embedded pools.
func LoadCatalog(overrideDir string) (*Catalog, error) {
	base, err := fs.Sub(embedded, "pools")
	if err != nil {
		return nil, fmt.Errorf("embedded pools: %w", err)
	}

	load := func(name string) (*Pool, error) {
		if overrideDir != "" {
			if _, err := os.Stat(filepath.Join(overrideDir, name)); err == nil {
				return ParseFile(os.DirFS(overrideDir), name)
			}
		}
		return ParseFile(base, name)
	}

	var c Catalog
	if c.Challenges, err = load(ChallengesFile); err != nil {
		return nil, err
	}
	if c.Tips, err = load(TipsFile); err != nil {
		return nil, err
	}
	if c.PushTips, err = load(PushTipsFile); err != nil {
		return nil, err
	}
	if c.Challenges.Kind != KindChallenge {
		return nil, fmt.Errorf("%s: kind %q, want %q", ChallengesFile, c.Challenges.Kind, KindChallenge)
	}
	return &c, nil
}

// MustDefault returns the embedded catalog. Intended for tests and tools;
// the embedded files are validated by the package tests.
func MustDefault() *Catalog {
	c, err := LoadCatalog("")
	if err != nil {
		panic(err)
	}
	return c
}
