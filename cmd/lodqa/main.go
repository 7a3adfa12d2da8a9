package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Aequivinius/lodqa/internal/app"
	"github.com/Aequivinius/lodqa/internal/config"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigPath string
	Parser     string
	Version    bool
}

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: lodqa [flags] <command> [args]

commands:
  parse <question>            print the parse of a question as JSON
  pgp <question>...           print the pseudo graph pattern(s) as JSON
  render <question>           print the token graph (dot, mermaid) or PGP (pgp)
  serve                       run the HTTP push server
  serve-mcp                   run the MCP tool server (stdio or -http)
  archive                     list or search archived PGPs
  config                      print the effective configuration
  init                        write lodqa.yaml and an .mcp.json entry

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("lodqa", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a YAML config file (default: $"+config.EnvPath+")")
	fs.StringVar(&flags.Parser, "parser", "", "parser vendor: enju, spacy or default (overrides config)")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no command given")
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if cmd == "init" {
		return runInit(rest, stdout)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Parser != "" {
		cfg.Parser.Vendor = strings.ToLower(strings.TrimSpace(flags.Parser))
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("-parser: %w", err)
		}
	}
	if cmd == "config" {
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	logger := app.NewLogger(cfg.Log)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "parse":
		return runParse(ctx, a, rest, stdout)
	case "pgp":
		return runPGP(ctx, a, rest, stdin, stdout)
	case "render":
		return runRender(ctx, a, rest, stdout)
	case "serve":
		return runServe(ctx, a, rest)
	case "serve-mcp":
		return runServeMCP(ctx, a, rest)
	case "archive":
		return runArchive(ctx, a, rest, stdout)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
