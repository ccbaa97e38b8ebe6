// Command svgcut converts an SVG document to cut paths, and
// writes PDF or PNG previews of them.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgdoc"
	"github.com/benoitkugler/svgcut/svgdraw"
	"github.com/benoitkugler/svgcut/svgpdf"
	"github.com/benoitkugler/svgcut/svgraster"
)

func main() {
	defaults := svgdoc.DefaultOptions()
	var (
		pdfOut    = flag.String("pdf", "", "PDF preview output file")
		pngOut    = flag.String("png", "", "PNG preview output file")
		scale     = flag.Float64("scale", 1, "PNG pixels per user unit")
		lineWidth = flag.Float64("line-width", 0, "preview line width (points for PDF, pixels for PNG)")
		dump      = flag.Bool("dump", false, "print the cut paths on stdout, one per line")
		strict    = flag.Bool("strict", false, "abort on unsupported elements and invalid attributes")
		quiet     = flag.Bool("q", false, "ignore unsupported elements and invalid attributes")
		verbose   = flag.Bool("v", false, "log debug messages")
		tolerance = flag.Float64("tolerance", defaults.FlattenTolerance, "curve flattening tolerance, in user units")
		maxTiles  = flag.Int("max-tiles", defaults.MaxPatternTiles, "maximum number of tiles per pattern fill")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.svg\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	svgconv.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := defaults
	opts.FlattenTolerance = *tolerance
	opts.MaxPatternTiles = *maxTiles
	switch {
	case *strict:
		opts.ErrorMode = svgdoc.StrictErrorMode
	case *quiet:
		opts.ErrorMode = svgdoc.IgnoreErrorMode
	}

	var (
		rec       svgdraw.Recorder
		pdfExport = svgpdf.Exporter{LineWidth: *lineWidth, Title: filepath.Base(flag.Arg(0))}
		pngExport = svgraster.Exporter{LineWidth: *lineWidth}
		sinks     = svgdraw.Tee{&rec}
	)
	if *pdfOut != "" {
		sinks = append(sinks, &pdfExport)
	}
	if *pngOut != "" {
		sinks = append(sinks, &pngExport)
	}

	res, err := svgdoc.ConvertFile(flag.Arg(0), sinks, opts)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if *dump {
		out := bufio.NewWriter(os.Stdout)
		for _, cut := range rec.Cuts {
			fmt.Fprintln(out, cut.Path.ToSVGPath())
		}
		if err := out.Flush(); err != nil {
			log.Fatal(err)
		}
	}

	if *pdfOut != "" {
		pdfExport.JobID = res.JobID
		if err := writeFile(*pdfOut, func(f *os.File) error { return pdfExport.Render(f, res.Page) }); err != nil {
			log.Fatalf("Failed to write PDF: %v", err)
		}
	}
	if *pngOut != "" {
		if err := writeFile(*pngOut, func(f *os.File) error { return pngExport.WritePNG(f, res.Page, *scale) }); err != nil {
			log.Fatalf("Failed to write PNG: %v", err)
		}
	}

	log.Printf("%d cuts (%gx%g), job %s\n", len(rec.Cuts), res.Page.Width, res.Page.Height, res.JobID)
}

func writeFile(filename string, write func(f *os.File) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
