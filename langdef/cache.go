package langdef

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/source"
)

// CacheFormat is the version of cache file layout, entries of other formats are recompiled.
const CacheFormat = 1

type cacheEntry struct {
	Format  int              `yaml:"format"`
	Name    string           `yaml:"name"`
	Version string           `yaml:"version,omitempty"`
	Hash    string           `yaml:"hash"`
	Grammar *grammar.Grammar `yaml:"grammar"`
}

// Cache keeps compiled grammars as YAML files in a directory.
// Entries are keyed by grammar source name and checked against SHA-256 of the source.
type Cache struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

func NewCache(dir string, log zerolog.Logger) *Cache {
	return &Cache{dir: dir, log: log}
}

func (c *Cache) Dir() string {
	return c.dir
}

// Hash returns hex SHA-256 of grammar description.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Path returns cache file path for the grammar source name.
func (c *Cache) Path(name string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, filepath.Base(name))
	return filepath.Join(c.dir, base+".yaml")
}

// Load returns the cached grammar if the entry is fresh.
// Otherwise the description is compiled and stored, compilation errors are returned as is.
// A nil cache compiles the description every time.
func (c *Cache) Load(s *source.Source) (*grammar.Grammar, error) {
	if c == nil {
		return Parse(s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	hash := Hash(s.Content())
	path := c.Path(s.Name())
	g, e := c.read(path, s.Name(), hash)
	if e == nil {
		c.log.Debug().Str("grammar", s.Name()).Str("path", path).Msg("grammar loaded from cache")
		return g, nil
	}
	if !errors.Is(e, fs.ErrNotExist) {
		c.log.Debug().Err(e).Str("grammar", s.Name()).Msg("stale cache entry")
	}

	g, e = Parse(s)
	if e != nil {
		return nil, e
	}

	if e := c.write(path, hash, g); e != nil {
		c.log.Warn().Err(e).Str("path", path).Msg("cannot store compiled grammar")
	}
	return g, nil
}

// Store writes compiled grammar for the description.
func (c *Cache) Store(s *source.Source, g *grammar.Grammar) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(c.Path(s.Name()), Hash(s.Content()), g)
}

func (c *Cache) read(path, name, hash string) (*grammar.Grammar, error) {
	data, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	var entry cacheEntry
	if e = yaml.Unmarshal(data, &entry); e != nil {
		return nil, fmt.Errorf("cache entry %s: %w", path, e)
	}

	switch {
	case entry.Format != CacheFormat:
		return nil, fmt.Errorf("cache entry %s: format %d, expecting %d", path, entry.Format, CacheFormat)
	case entry.Name != name || entry.Hash != hash:
		return nil, fmt.Errorf("cache entry %s: source changed", path)
	case entry.Grammar == nil || len(entry.Grammar.Nodes) == 0 || len(entry.Grammar.Modes) == 0:
		return nil, fmt.Errorf("cache entry %s: empty grammar", path)
	}
	return entry.Grammar, nil
}

func (c *Cache) write(path, hash string, g *grammar.Grammar) error {
	entry := cacheEntry{Format: CacheFormat, Name: g.Name, Version: g.Version, Hash: hash, Grammar: g}
	data, e := yaml.Marshal(&entry)
	if e != nil {
		return e
	}

	if e = os.MkdirAll(c.dir, 0o755); e != nil {
		return e
	}

	f, e := os.CreateTemp(c.dir, ".grammar-*")
	if e != nil {
		return e
	}

	_, e = f.Write(data)
	if ce := f.Close(); e == nil {
		e = ce
	}
	if e == nil {
		e = os.Rename(f.Name(), path)
	}
	if e != nil {
		os.Remove(f.Name())
	}
	return e
}
