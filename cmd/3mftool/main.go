// 3mftool is a CLI utility for working with 3MF printing archives.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meshkit/threemf/internal/config"
	"github.com/meshkit/threemf/internal/logger"
	"github.com/meshkit/threemf/pkg/importer"
	"github.com/meshkit/threemf/pkg/model"
	"github.com/meshkit/threemf/pkg/paint"
	"github.com/meshkit/threemf/pkg/threemf"
)

func main() {
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		cmdInfo(rest)
	case "list", "ls":
		cmdList(rest)
	case "extract", "x":
		cmdExtract(rest)
	case "palette":
		cmdPalette(rest, cfg)
	case "import":
		cmdImport(rest, cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`3mftool - 3MF printing archive utility

Usage:
  3mftool [options] <command> [args]

Commands:
  info <file.3mf>                    Show archive and model summary
  list <file.3mf> [pattern]          List archive entries
  extract <file.3mf> <path> [dir]    Extract an entry to a directory
  palette <file.3mf>                 Show the color palette for the archive
  import <file.3mf> [output.obj]     Import and optionally export colored OBJ

Options:
  -config <path>      Config file path
  -debug              Enable debug logging
  -palette <source>   Palette source: auto or generated
  -policy <policy>    Vertex color conflict policy: majority or lowest
  -no-transforms      Do not apply build transforms to exported geometry

Examples:
  3mftool info model.3mf
  3mftool list model.3mf "*.model"
  3mftool -policy lowest import model.3mf out.obj`)
}

func openArchive(path string) *threemf.Archive {
	archive, err := threemf.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return archive
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: 3mftool info <file.3mf>")
		os.Exit(1)
	}

	archive := openArchive(args[0])
	defer archive.Close()

	entries := archive.List()
	modelFiles := archive.ModelFiles()

	fmt.Printf("Archive:         %s\n", args[0])
	fmt.Printf("Entries:         %d\n", len(entries))
	fmt.Printf("Model documents: %d\n", len(modelFiles))

	if palette := archive.FilamentPalette(); palette != nil {
		fmt.Printf("Palette:         %d filament colors from metadata\n", len(palette))
	} else {
		fmt.Println("Palette:         none found (would use generated)")
	}

	for _, file := range modelFiles {
		data, err := archive.Read(file)
		if err != nil {
			fmt.Printf("  %s: unreadable (%v)\n", file, err)
			continue
		}
		doc, err := model.Parse(data, file)
		if err != nil {
			fmt.Printf("  %s: %v\n", file, err)
			continue
		}

		unit := "default (millimeter)"
		if doc.HasUnitScale {
			unit = fmt.Sprintf("scale %g", doc.UnitScale)
		}
		fmt.Printf("  %s: %d objects, %d build items, unit %s\n",
			file, len(doc.Objects), len(doc.BuildItems), unit)
	}
}

func cmdList(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: 3mftool list <file.3mf> [pattern]")
		os.Exit(1)
	}

	archive := openArchive(args[0])
	defer archive.Close()

	pattern := ""
	if len(args) > 1 {
		pattern = strings.ToLower(args[1])
	}

	count := 0
	for _, entry := range archive.List() {
		if pattern != "" {
			matched, _ := filepath.Match(pattern, strings.ToLower(filepath.Base(entry)))
			if !matched && !strings.Contains(strings.ToLower(entry), pattern) {
				continue
			}
		}
		fmt.Println(entry)
		count++
	}

	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d entries matched)\n", count)
	}
}

func cmdExtract(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: 3mftool extract <file.3mf> <path> [output_dir]")
		os.Exit(1)
	}

	outputDir := "."
	if len(args) > 2 {
		outputDir = args[2]
	}

	archive := openArchive(args[0])
	defer archive.Close()

	data, err := archive.Read(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(args[1]))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
}

func cmdPalette(args []string, cfg *config.Config) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: 3mftool palette <file.3mf>")
		os.Exit(1)
	}

	archive := openArchive(args[0])
	defer archive.Close()

	palette := archive.FilamentPalette()
	source := "slicer metadata"
	if palette == nil || cfg.Import.PaletteSource == "generated" {
		palette = paint.GeneratePalette(importer.GeneratedPaletteSize)
		source = "generated"
	}

	fmt.Printf("Palette (%s):\n", source)
	for i, c := range palette {
		fmt.Printf("  %2d  #%02X%02X%02X\n", i,
			int(c[0]*255+0.5), int(c[1]*255+0.5), int(c[2]*255+0.5))
	}
}

func cmdImport(args []string, cfg *config.Config) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: 3mftool import <file.3mf> [output.obj]")
		os.Exit(1)
	}

	opts := importer.Options{
		PaletteSource: paletteSource(cfg.Import.PaletteSource),
		Policy:        conflictPolicy(cfg.Import.ConflictPolicy),
		Logger:        logger.Log,
	}

	result, err := importer.Import(args[0], opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var vertices, triangles int
	for _, inst := range result.Instances {
		vertices += len(inst.Mesh.Vertices)
		triangles += len(inst.Mesh.Triangles)
	}

	fmt.Printf("Imported %d instance(s), %d vertices, %d triangles (unit scale %g)\n",
		len(result.Instances), vertices, triangles, result.UnitScale)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if len(args) > 1 {
		if err := writeOBJ(args[1], result.Instances, cfg.Import.ApplyTransforms); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", args[1])
	}
}

func paletteSource(name string) importer.PaletteSource {
	if name == "generated" {
		return importer.PaletteGenerated
	}
	return importer.PaletteAuto
}

func conflictPolicy(name string) paint.Policy {
	if name == "lowest" {
		return paint.PolicyLowest
	}
	return paint.PolicyMajority
}
