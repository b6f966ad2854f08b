package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: slideroute <command> [flags]

Commands:
  audit      classify built blocks as covered or uncovered by the contract
  drift      compare the compiled contract against runtime mapping tables
  doctor     run the contract health check
  sparse     flag empty or thin content for contracted blocks
  init       write starter config and sample template to a directory
  serve-mcp  run the diagnostics MCP server over HTTP
  version    print version and exit

Run 'slideroute <command> -h' for command flags.`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "audit":
		return runAudit(rest)
	case "drift":
		return runDrift(rest)
	case "doctor":
		return runDoctor(rest)
	case "sparse":
		return runSparse(rest)
	case "init":
		return runInit(rest)
	case "serve-mcp":
		return runServeMCP(rest)
	case "version":
		fmt.Println(version)
		return nil
	case "-h", "--help", "help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newLogger builds the process logger. Verbose mode lowers the level to
// debug so fallback chain walks are visible.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return log, nil
}
