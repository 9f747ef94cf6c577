package catalogue

import (
	"golang.org/x/sync/errgroup"
)

// describeConcurrency bounds parallel Describer lookups during Build.
const describeConcurrency = 8

// Builder resolves prompt names into entries. The description comes from the
// Describer, then the built-in name table, then the name itself.
type Builder struct {
	describer Describer
}

// NewBuilder creates a Builder. d may be nil, in which case only the built-in
// name table is consulted.
func NewBuilder(d Describer) *Builder {
	return &Builder{describer: d}
}

// Entry resolves a single name.
func (b *Builder) Entry(name string) Entry {
	e := Entry{Name: name}
	if b.describer != nil {
		if desc, ok := b.describer.Describe(name); ok {
			e.Description = desc.Text
			e.Params = desc.Params
		}
	}
	if e.Description == "" {
		if n, ok := BuiltinName(name); ok {
			e.Description = n
		} else {
			e.Description = name
		}
	}
	return e
}

// Build resolves names in parallel and returns entries in input order.
func (b *Builder) Build(names []string) []Entry {
	entries := make([]Entry, len(names))
	var g errgroup.Group
	g.SetLimit(describeConcurrency)
	for i, name := range names {
		g.Go(func() error {
			entries[i] = b.Entry(name)
			return nil
		})
	}
	g.Wait()
	return entries
}
