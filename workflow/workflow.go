// Package workflow exposes the launcher-facing operations: listing prompts,
// listing a prompt's arguments, and executing a prompt.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	promptlet "github.com/Paranoid-AF/promptlet"
	"github.com/Paranoid-AF/promptlet/cache"
	"github.com/Paranoid-AF/promptlet/catalogue"
	"github.com/Paranoid-AF/promptlet/rpc"
)

// Errors detected locally, before any network call.
var (
	ErrArgumentFormat = errors.New("invalid arguments: not a valid JSON object")
	ErrUnknownPrompt  = errors.New("unknown prompt")
)

// NoResultMessage is shown when execution succeeds with empty text.
const NoResultMessage = "Server returned no result"

// DefaultExecuteTimeout bounds ExecutePrompt when Options leaves it zero.
const DefaultExecuteTimeout = 10 * time.Second

// Catalogue provides the current prompt snapshot.
type Catalogue interface {
	Get(ctx context.Context, now time.Time) *cache.Snapshot
}

// Options configures a Workflow.
type Options struct {
	ExecuteTimeout time.Duration
	// Match selects the list filter: promptlet.MatchSubstring or MatchFuzzy.
	Match string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Workflow composes the catalogue cache and the RPC gateway.
type Workflow struct {
	catalogue Catalogue
	caller    rpc.Caller
	opts      Options
}

// New creates a Workflow.
func New(cat Catalogue, caller rpc.Caller, opts Options) *Workflow {
	if opts.ExecuteTimeout <= 0 {
		opts.ExecuteTimeout = DefaultExecuteTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Workflow{catalogue: cat, caller: caller, opts: opts}
}

func (w *Workflow) snapshot(ctx context.Context) *cache.Snapshot {
	return w.catalogue.Get(ctx, w.opts.Now())
}

func (w *Workflow) filter(entries []catalogue.Entry, query string) []catalogue.Entry {
	if w.opts.Match == promptlet.MatchFuzzy {
		return catalogue.FuzzyFilter(entries, query)
	}
	return catalogue.Filter(entries, query)
}

// ListPrompts returns the catalogue entries matching query. When the
// catalogue could not be populated at all, it returns a single connection
// error item instead of an empty list.
func (w *Workflow) ListPrompts(ctx context.Context, query string) Output {
	snap := w.snapshot(ctx)
	if snap.Empty() {
		return single("Connection error", "Unable to reach the prompt server")
	}

	matched := w.filter(snap.Entries(), query)
	items := make([]Item, 0, len(matched))
	for _, e := range matched {
		items = append(items, Item{
			Title:    e.Description,
			Subtitle: "Name: " + e.Name,
			Arg:      e.Name,
			Variables: map[string]string{
				"prompt": e.Name,
			},
		})
	}
	return Output{Items: items}
}

// Lookup returns the catalogue entry for name, or ErrUnknownPrompt.
func (w *Workflow) Lookup(ctx context.Context, name string) (catalogue.Entry, error) {
	e, ok := w.snapshot(ctx).Lookup(name)
	if !ok {
		return catalogue.Entry{}, fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	return e, nil
}

// PromptArguments returns the argument items for name: one item per
// parameter followed by a run-with-defaults item, or a single run item when
// the prompt takes no parameters.
func (w *Workflow) PromptArguments(ctx context.Context, name string) Output {
	e, err := w.Lookup(ctx, name)
	if err != nil {
		return single("Unknown prompt", fmt.Sprintf("No configuration found for %s", name))
	}

	if len(e.Params) == 0 {
		payload := argsPayload(nil)
		return Output{Items: []Item{{
			Title:    "Run " + e.Description,
			Subtitle: "No parameters to configure",
			Arg:      payload,
			Variables: map[string]string{
				"args":           payload,
				"alfredworkflow": actionExecute,
			},
		}}}
	}

	items := make([]Item, 0, len(e.Params)+1)
	defaults := make(map[string]any)
	for _, p := range e.Params {
		def := "no default"
		if p.HasDefault {
			def = fmt.Sprint(p.Default)
			defaults[p.Name] = p.Default
		}
		items = append(items, Item{
			Title:    p.Name,
			Subtitle: fmt.Sprintf("%s (%s)", p.Description, def),
			Arg:      p.Name,
			Variables: map[string]string{
				"current_param":  p.Name,
				"prompt":         e.Name,
				"alfredworkflow": actionInputParam,
			},
		})
	}

	payload := argsPayload(defaults)
	items = append(items, Item{
		Title:    "Run with defaults",
		Subtitle: "Run " + e.Description + " with default parameters",
		Arg:      payload,
		Variables: map[string]string{
			"args":           payload,
			"alfredworkflow": actionExecute,
		},
	})
	return Output{Items: items}
}

// ExecutePrompt runs name with the JSON object argsJSON. The returned text is
// always displayable: the result on success, otherwise the error message.
// err wraps ErrArgumentFormat or one of the rpc sentinel errors. Malformed
// arguments are rejected before any network call.
func (w *Workflow) ExecutePrompt(ctx context.Context, name, argsJSON string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil || args == nil {
		slog.Debug("rejecting arguments", "prompt", name, "error", err)
		return ErrArgumentFormat.Error(), ErrArgumentFormat
	}

	out := w.caller.Call(ctx, name, args, w.opts.ExecuteTimeout)
	return out.Display(), out.Err()
}
