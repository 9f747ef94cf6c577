package catalogue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jellydator/ttlcache/v3"
	"gopkg.in/yaml.v3"
)

// Description is what a Describer knows about one prompt.
type Description struct {
	Text   string
	Params []Param
	// Source is the file the description was read from.
	Source string
}

// Describer looks up descriptive metadata for a prompt name. ok is false when
// nothing is known about name.
type Describer interface {
	Describe(name string) (Description, bool)
}

// promptExtensions are tried in order for each prompt name.
var promptExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// promptFile is the subset of a prompt definition the client reads. The same
// definitions are loaded by the prompt server.
type promptFile struct {
	Name        string           `yaml:"name" json:"name" toml:"name"`
	Description string           `yaml:"description" json:"description" toml:"description"`
	Arguments   []promptArgument `yaml:"arguments" json:"arguments" toml:"arguments"`
}

type promptArgument struct {
	Name        string `yaml:"name" json:"name" toml:"name"`
	Description string `yaml:"description" json:"description" toml:"description"`
	Default     any    `yaml:"default" json:"default" toml:"default"`
}

type lookup struct {
	desc  Description
	found bool
}

// FileDescriber reads prompt definition files named <dir>/<name>.<ext>.
// Lookups, including misses, are cached for ttl.
type FileDescriber struct {
	dir   string
	cache *ttlcache.Cache[string, lookup]
}

// DefaultDescribeTTL is used when NewFileDescriber is given a ttl <= 0.
const DefaultDescribeTTL = time.Hour

// NewFileDescriber creates a FileDescriber over dir.
func NewFileDescriber(dir string, ttl time.Duration) *FileDescriber {
	if ttl <= 0 {
		ttl = DefaultDescribeTTL
	}
	c := ttlcache.New[string, lookup](
		ttlcache.WithTTL[string, lookup](ttl),
		ttlcache.WithDisableTouchOnHit[string, lookup](),
	)
	go c.Start()
	return &FileDescriber{dir: dir, cache: c}
}

// Close stops the cache expiration loop.
func (d *FileDescriber) Close() {
	d.cache.Stop()
}

// Describe returns the description and arguments from name's prompt file.
func (d *FileDescriber) Describe(name string) (Description, bool) {
	if item := d.cache.Get(name); item != nil {
		l := item.Value()
		return l.desc, l.found
	}
	desc, found := d.load(name)
	d.cache.Set(name, lookup{desc: desc, found: found}, ttlcache.DefaultTTL)
	return desc, found
}

func (d *FileDescriber) load(name string) (Description, bool) {
	if d.dir == "" || name == "" || filepath.Base(name) != name {
		return Description{}, false
	}
	for _, ext := range promptExtensions {
		path := filepath.Join(d.dir, name+ext)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		pf, err := readPromptFile(path)
		if err != nil {
			slog.Warn("failed to read prompt file", "path", path, "error", err)
			return Description{}, false
		}
		return pf.description(path), true
	}
	return Description{}, false
}

func readPromptFile(path string) (*promptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf promptFile
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pf)
	case ".json":
		err = json.Unmarshal(data, &pf)
	case ".toml":
		err = toml.Unmarshal(data, &pf)
	default:
		return nil, fmt.Errorf("unsupported prompt file %s", path)
	}
	if err != nil {
		return nil, err
	}
	return &pf, nil
}

func (pf *promptFile) description(path string) Description {
	desc := Description{Text: pf.Description, Source: path}
	for _, a := range pf.Arguments {
		if a.Name == "" {
			continue
		}
		desc.Params = append(desc.Params, Param{
			Name:        a.Name,
			Description: a.Description,
			Default:     a.Default,
			HasDefault:  a.Default != nil,
		})
	}
	return desc
}
