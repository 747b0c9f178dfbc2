package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skybuild/nix-provenance/internal/config"
	"github.com/skybuild/nix-provenance/internal/provenance"
	"github.com/skybuild/nix-provenance/internal/store"
	"github.com/skybuild/nix-provenance/pkg/telemetry"
	"github.com/skybuild/nix-provenance/pkg/version"
)

var (
	recursive bool
	outFile   string
	jsonLogs  bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "nix-provenance [target]",
	Short: "SLSA v1.0 build provenance for nix artifacts",
	Long: `nix-provenance - SLSA v1.0 provenance from a nix flake or derivation

Resolves the target's outputs and build-time dependencies from the nix
store and emits an in-toto Statement v1 attestation document.`,
	Version:       version.Current,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&recursive, "recursive", false, "Resolve every dependency recursively")
	rootCmd.Flags().StringVar(&outFile, "out", "", "Path to file where provenance should be saved (default stdout)")
	rootCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	cfg := config.Load()

	shutdown, err := telemetry.Init(ctx, version.AppName, version.Current)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
	} else {
		defer shutdown(context.Background())
	}

	gen := provenance.New(store.NewCLI(logger), cfg,
		provenance.WithLogger(logger),
		provenance.WithTracer(telemetry.Tracer(version.AppName)),
	)

	stmt, err := gen.Generate(ctx, args[0], recursive)
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		out = cfg.OutputFile
	}
	if out == "" {
		return stmt.Encode(os.Stdout)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()
	if err := stmt.Encode(f); err != nil {
		return fmt.Errorf("write provenance to %s: %w", out, err)
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("NIX-PROVENANCE %s", version.Current)))
	fmt.Println("SLSA v1.0 provenance from a nix flake or derivation.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("EXAMPLES"))
	fmt.Println("  nix-provenance .#hello                        # Flake target")
	fmt.Println("  nix-provenance /nix/store/...-hello.drv       # Derivation path")
	fmt.Println("  nix-provenance .#hello --recursive --out p.json")
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-12s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
