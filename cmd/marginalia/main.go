// Command marginalia checks PDF files against the ACM sigconf page
// layout: Letter-size pages with all content kept clear of the
// required margins. It accepts files or directories, writes one JSON
// report per file, and prints a colored per-file summary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/format"
	"github.com/tsawler/marginalia/model"
)

// config holds all command-line flag values.
type config struct {
	outputDir string
	workers   int
	quiet     bool
	noColor   bool
}

func main() {
	// A .env file is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env: %v", err)
	}

	var cfg config
	flag.StringVar(&cfg.outputDir, "o", getEnvOrDefault("MARGINALIA_OUTPUT_DIR", "output"), "directory for JSON reports")
	flag.IntVar(&cfg.workers, "workers", getEnvIntOrDefault("MARGINALIA_WORKERS", runtime.GOMAXPROCS(0)), "number of files checked in parallel")
	flag.BoolVar(&cfg.quiet, "q", false, "only report files that fail a check")
	flag.BoolVar(&cfg.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "marginalia — check PDF files against the ACM sigconf page layout\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  marginalia [options] <file-or-dir>...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  file-or-dir   PDF files to check, or directories to search for them\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  MARGINALIA_OUTPUT_DIR   default for -o\n")
		fmt.Fprintf(os.Stderr, "  MARGINALIA_WORKERS      default for -workers\n")
		fmt.Fprintf(os.Stderr, "  NO_COLOR                same as -no-color\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  marginalia paper.pdf\n")
		fmt.Fprintf(os.Stderr, "  marginalia -o reports -workers 4 submissions/\n")
		fmt.Fprintf(os.Stderr, "  marginalia -q camera-ready/\n")
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	failed, err := run(cfg, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run checks every PDF named by args and returns the number of files
// that were non-compliant or unreadable.
func run(cfg config, args []string) (int, error) {
	files, err := collectFiles(args)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no PDF files found in %s", strings.Join(args, " "))
	}

	if err := os.MkdirAll(cfg.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("cannot create output directory: %w", err)
	}

	results := checkAll(files, cfg.workers)

	p := printer{
		out:   os.Stdout,
		color: !cfg.noColor && term.IsTerminal(int(os.Stdout.Fd())),
		quiet: cfg.quiet,
	}

	nonCompliant, unreadable := 0, 0
	for i, res := range results {
		if res.err != nil {
			fmt.Fprintln(os.Stderr, files[i]+":", res.err)
			unreadable++
			continue
		}
		name, err := writeReport(cfg.outputDir, res.report)
		if err != nil {
			return 0, err
		}
		p.document(res.report, name)
		switch {
		case res.report.ParseError != "":
			unreadable++
		case !res.report.Compliant():
			nonCompliant++
		}
	}

	fmt.Println(len(files), "files,", nonCompliant, "non-compliant,", unreadable, "unreadable")

	return nonCompliant + unreadable, nil
}

// collectFiles expands the positional arguments into a sorted,
// deduplicated list of PDF files. Directories are walked recursively
// and filtered by extension; a file named directly is kept unless
// neither its name nor its content looks like PDF. Paths that cannot
// be stat'ed stay in the list so the checker reports them as
// unreadable rather than silently dropping them.
func collectFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			add(arg)
			continue
		}

		if !info.IsDir() {
			if format.Detect(arg) != format.PDF {
				if f, err := format.DetectFile(arg); err != nil || f != format.PDF {
					log.Printf("skipping %s: not a PDF", arg)
					continue
				}
			}
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && format.Detect(path) == format.PDF {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot walk %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// result pairs one file's report with the hard error, if any, from
// checking it.
type result struct {
	report *model.DocumentReport
	err    error
}

// checkAll runs one Check per file, at most workers at a time. Results
// come back in input order regardless of completion order, so batch
// output is deterministic.
func checkAll(files []string, workers int) []result {
	if workers < 1 {
		workers = 1
	}

	// Buffered channel as a semaphore to limit concurrency.
	sem := make(chan struct{}, workers)
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := marginalia.Check(path)
			results[i] = result{report: report, err: err}
		}(i, path)
	}
	wg.Wait()

	return results
}

// writeReport stores the JSON report for one document and returns the
// file name used. A report is written for every checked file, compliant
// or not, so a later run can diff against it.
func writeReport(dir string, report *model.DocumentReport) (string, error) {
	name := reportName(report.Path)
	buf, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	buf = append(buf, '\n')
	if err := os.WriteFile(filepath.Join(dir, name), buf, 0644); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", name, err)
	}
	return name, nil
}

// reportName derives the report file name from the document path:
// submissions/paper.pdf becomes errors-paper.json.
func reportName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return "errors-" + stem + ".json"
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorGreen  = "\x1b[32m"
	colorReset  = "\x1b[0m"
)

// printer writes the human-readable per-file summary.
type printer struct {
	out   io.Writer
	color bool
	quiet bool
}

func (p printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

// document prints the summary block for one checked file. Page numbers
// are 1-based here; the JSON report keeps the 0-based indices.
func (p printer) document(report *model.DocumentReport, reportFile string) {
	if p.quiet && report.Compliant() {
		return
	}

	fmt.Fprintf(p.out, "Checking %s\n", report.Path)

	if report.ParseError != "" {
		fmt.Fprintln(p.out, p.paint(colorYellow, "Parsing Error:"), report.ParseError)
		fmt.Fprintln(p.out)
		return
	}

	for _, page := range report.Pages {
		if page.Skipped {
			fmt.Fprintln(p.out, p.paint(colorYellow, "Parsing Error:"), fmt.Sprintf("page %d: %s", page.PageIndex+1, page.SkipReason))
			continue
		}
		for _, v := range page.Violations {
			kind := "Margin"
			if v.Edge == model.EdgePageSize {
				kind = "Size"
			}
			fmt.Fprintln(p.out, p.paint(colorRed, fmt.Sprintf("Error (%s):", kind)), fmt.Sprintf("page %d: %s", page.PageIndex+1, v.Message))
		}
	}

	if report.Compliant() {
		fmt.Fprintln(p.out, p.paint(colorGreen, "All Clear!"))
	} else {
		fmt.Fprintf(p.out, "Errors. Check %s for details.\n", reportFile)
	}
	fmt.Fprintln(p.out)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
