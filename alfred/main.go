// Command alfred is the launcher entry point for the prompt server.
// It lists prompts, lists a prompt's arguments, or executes a prompt, and
// writes launcher JSON or plain result text to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	promptlet "github.com/Paranoid-AF/promptlet"
	"github.com/Paranoid-AF/promptlet/cache"
	"github.com/Paranoid-AF/promptlet/catalogue"
	"github.com/Paranoid-AF/promptlet/rpc"
	"github.com/Paranoid-AF/promptlet/workflow"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type options struct {
	list       bool
	execute    bool
	query      string
	hasQuery   bool
	promptArgs string
	prompt     string
	args       string
	server     string
	verbose    bool
	version    bool
}

// facade is the subset of workflow.Workflow the command dispatches onto.
type facade interface {
	ListPrompts(ctx context.Context, query string) workflow.Output
	PromptArguments(ctx context.Context, name string) workflow.Output
	ExecutePrompt(ctx context.Context, name, argsJSON string) (string, error)
}

var errUsage = errors.New("--execute requires --prompt")

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("alfred", flag.ContinueOnError)
	fs.BoolVar(&opts.list, "list", false, "list available prompts, filtered by --query")
	fs.StringVar(&opts.promptArgs, "prompt-args", "", "list the arguments of a prompt")
	fs.BoolVar(&opts.execute, "execute", false, "execute the prompt named by --prompt")
	fs.StringVar(&opts.prompt, "prompt", "", "prompt name to execute")
	fs.StringVar(&opts.args, "args", "", "JSON object of arguments for the prompt")
	fs.StringVar(&opts.query, "query", "", "filter for the prompt list")
	fs.StringVar(&opts.server, "server", "", "prompt server WebSocket URL")
	fs.BoolVar(&opts.verbose, "verbose", false, "log requests and responses to stderr")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "query" {
			opts.hasQuery = true
		}
	})
	if opts.execute && opts.prompt == "" {
		return opts, errUsage
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "alfred:", err)
		os.Exit(2)
	}

	if opts.version {
		fmt.Println("alfred", Version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := promptlet.LoadConfig()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "path", promptlet.ConfigPath(), "error", err)
		cfg = promptlet.DefaultConfig()
	}
	for _, w := range promptlet.ValidateConfig(cfg) {
		slog.Warn("config", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wf, closeFn := newWorkflow(cfg, resolveServerURL(opts, cfg))
	defer closeFn()

	if err := run(ctx, opts, wf, os.Stdout); err != nil {
		slog.Error("write output", "error", err)
		os.Exit(1)
	}
}

// resolveServerURL returns the server URL.
// Priority: --server flag > $PROMPTLET_SERVER_URL > config value.
func resolveServerURL(opts options, cfg *promptlet.Config) string {
	if opts.server != "" {
		return opts.server
	}
	return promptlet.ResolveServerURL(cfg)
}

// newWorkflow wires the catalogue cache and RPC client from cfg. The returned
// func releases the description cache.
func newWorkflow(cfg *promptlet.Config, serverURL string) (*workflow.Workflow, func()) {
	var describer catalogue.Describer
	closeFn := func() {}
	if dir := promptlet.ResolvePromptsDir(cfg); dir != "" {
		fd := catalogue.NewFileDescriber(dir, cfg.Cache.DescribeTTL())
		describer = fd
		closeFn = fd.Close
	}

	client := rpc.NewClient(serverURL, rpc.WebSocketDialer{Origin: cfg.Server.Origin})
	cat := cache.New(client, catalogue.NewBuilder(describer), cache.Options{
		TTL:            cfg.Cache.TTL(),
		Timeout:        cfg.Server.ListTimeout(),
		ListMethod:     cfg.Server.ListMethod,
		HeaderPrefixes: cfg.Catalogue.HeaderPrefixes,
	})
	wf := workflow.New(cat, client, workflow.Options{
		ExecuteTimeout: cfg.Server.ExecuteTimeout(),
		Match:          cfg.Catalogue.Match,
	})
	slog.Debug("workflow ready", "server", serverURL, "prompts_dir", promptlet.ResolvePromptsDir(cfg))
	return wf, closeFn
}

// run dispatches one invocation. Checked in order: --list, --prompt-args,
// --prompt, --query, then the full list.
func run(ctx context.Context, opts options, f facade, w io.Writer) error {
	switch {
	case opts.list:
		return writeJSON(w, f.ListPrompts(ctx, opts.query))
	case opts.promptArgs != "":
		return writeJSON(w, f.PromptArguments(ctx, opts.promptArgs))
	case opts.prompt != "":
		args := opts.args
		if args == "" {
			args = "{}"
		}
		text, err := f.ExecutePrompt(ctx, opts.prompt, args)
		if err != nil {
			slog.Debug("execute failed", "prompt", opts.prompt, "error", err)
		}
		if text == "" {
			text = workflow.NoResultMessage
		}
		_, err = fmt.Fprintln(w, text)
		return err
	case opts.hasQuery:
		return writeJSON(w, f.ListPrompts(ctx, opts.query))
	default:
		return writeJSON(w, f.ListPrompts(ctx, ""))
	}
}
