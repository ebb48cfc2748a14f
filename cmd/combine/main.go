package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/glb-compose/compose"
	"github.com/wippyai/glb-compose/export"
	"github.com/wippyai/glb-compose/storage"
)

func main() {
	var (
		exportFile  = flag.String("export", "", "Path to asset-graph export JSON")
		filesDir    = flag.String("files", "", "Directory holding the component files")
		output      = flag.String("o", "combined.glb", "Output container path")
		lenient     = flag.Bool("lenient", false, "Substitute identity for unparseable transform metadata")
		workers     = flag.Int("workers", 0, "Concurrent component fetches (default 4)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *exportFile == "" || *filesDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: combine -export <export.json> -files <dir> [-o out.glb] [-lenient] [-workers n]")
		fmt.Fprintln(os.Stderr, "       combine -export <export.json> -files <dir> -i  (interactive mode)")
		os.Exit(1)
	}

	opts := compose.DefaultOptions()
	opts.LenientMetadata = *lenient
	if *workers > 0 {
		opts.PrefetchWorkers = *workers
	}

	if *interactive {
		if err := runInteractive(*exportFile, *filesDir, *output, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*exportFile, *filesDir, *output, *verbose, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(exportFile, filesDir, output string, verbose bool, opts compose.Options) error {
	ctx := context.Background()

	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer logger.Sync()
		compose.SetLogger(logger)
	}

	data, err := os.ReadFile(exportFile)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	result, err := export.ParseResult(data)
	if err != nil {
		return fmt.Errorf("parse export: %w", err)
	}

	fmt.Printf("Export: %s\n", exportFile)
	fmt.Printf("Assets: %d\n", len(result.Assets))
	fmt.Printf("Relationships: %d\n", len(result.Relationships))
	fmt.Printf("Combinable assets: %d\n", result.CombinableAssetCount())

	res, err := compose.Combine(ctx, result, storage.NewDir(filesDir), opts)
	if err != nil {
		return fmt.Errorf("combine: %w", err)
	}

	if err := os.WriteFile(output, res.GLB, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSummary(output, res.Summary)
	return nil
}

// printSummary styles the result when stdout is a terminal and falls
// back to plain text when piped.
func printSummary(output string, s compose.Summary) {
	styled := term.IsTerminal(int(os.Stdout.Fd()))
	render := func(style lipgloss.Style, line string) string {
		if styled {
			return style.Render(line)
		}
		return line
	}

	fmt.Println()
	fmt.Println(render(resultStyle, fmt.Sprintf("Wrote %s", output)))
	fmt.Printf("Components combined: %d\n", s.ComponentsCombined)
	fmt.Printf("Output size: %s\n", s.OutputSizeFormatted)
	for _, w := range s.Warnings {
		fmt.Println(render(warnStyle, "Warning: "+w))
	}
}
