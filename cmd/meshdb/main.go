// Command meshdb runs the mesh node database with an interactive shell and
// inspects its snapshots and event logs.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/meshdb/meshdb-go/cmd/meshdb/commands"
	"github.com/meshdb/meshdb-go/internal/config"
	"github.com/meshdb/meshdb-go/pkg/version"
)

// FilterFlags are the event filters shared by the log subcommands.
type FilterFlags struct {
	Layer    string `help:"Filter by layer (packet, reconciler, identity, persistence)"`
	Category string `help:"Filter by category (packet, node, storage, error)"`
	Node     string `help:"Filter by node number (decimal, 0x hex or !hex)"`
	Session  string `help:"Filter by session id prefix"`
}

func (f FilterFlags) options() commands.FilterOptions {
	return commands.FilterOptions{
		Layer:    f.Layer,
		Category: f.Category,
		Node:     f.Node,
		Session:  f.Session,
	}
}

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"meshdb.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
		Headless bool `help:"Run without the interactive shell until interrupted"`
	} `cmd:"" help:"Open the node database and start the interactive shell"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a default configuration file"`

	Dump struct {
		File string `arg:"" optional:"" help:"Snapshot file to decode instead of the configured storage" type:"existingfile"`
	} `cmd:"" help:"Print the saved snapshot as YAML"`

	Log struct {
		View struct {
			Path string `arg:"" help:"Event log file" type:"existingfile"`

			FilterFlags `embed:""`
		} `cmd:"" help:"Print events from a log file"`

		Stats struct {
			Path string `arg:"" help:"Event log file" type:"existingfile"`

			FilterFlags `embed:""`
		} `cmd:"" help:"Summarize a log file"`

		Export struct {
			Path   string `arg:"" help:"Event log file" type:"existingfile"`
			Output string `short:"o" help:"Output file (default stdout)"`

			FilterFlags `embed:""`
		} `cmd:"" help:"Export events as JSON lines"`
	} `cmd:"" help:"Inspect event log files"`

	Version struct{} `cmd:"" help:"Print the firmware version"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("meshdb"),
		kong.Description("Mesh node database"),
		kong.UsageOnError(),
	)

	if err := execute(ctx.Command()); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

func execute(command string) error {
	switch command {
	case "run":
		cfg, err := loadConfig(CLI.Config)
		if err != nil {
			return err
		}
		setupLogging(cfg)
		return runNode(cfg, CLI.Run.Headless)
	case "init":
		if err := config.Default().Write(CLI.Config, CLI.Init.Force); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", CLI.Config)
		return nil
	case "dump":
		cfg, err := loadConfig(CLI.Config)
		if err != nil {
			return err
		}
		setupLogging(cfg)
		return runDump(cfg, CLI.Dump.File)
	case "dump <file>":
		return runDump(nil, CLI.Dump.File)
	case "log view <path>":
		filter, err := CLI.Log.View.options().Filter()
		if err != nil {
			return err
		}
		return commands.RunView(CLI.Log.View.Path, filter, os.Stdout)
	case "log stats <path>":
		filter, err := CLI.Log.Stats.options().Filter()
		if err != nil {
			return err
		}
		return commands.RunStats(CLI.Log.Stats.Path, filter, os.Stdout)
	case "log export <path>":
		filter, err := CLI.Log.Export.options().Filter()
		if err != nil {
			return err
		}
		return commands.RunExport(CLI.Log.Export.Path, filter, CLI.Log.Export.Output)
	case "version":
		fmt.Println(version.Current)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// loadConfig reads path, falling back to the defaults when it does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No configuration file, using defaults", "path", path)
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level := cfg.SlogLevel()
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})))
}
