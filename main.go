// Command cal2gutenprint estimates Gutenprint calibration parameters from
// Argyll .cal measurement files. Pass the files in run order; each file
// refines the estimate produced by the previous ones.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"cal2gutenprint/internal/accumulate"
	"cal2gutenprint/internal/calfile"
	"cal2gutenprint/internal/config"
	"cal2gutenprint/internal/plot"
	"cal2gutenprint/internal/report"
	"cal2gutenprint/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "Path to YAML run configuration")
	policy := flag.String("policy", "", "Update policy: smoothing or multiplicative")
	alpha := flag.Float64("alpha", 0, "Smoothing factor in (0,1]; overrides config")
	plotsDir := flag.String("plots", "", "Directory for per-channel diagnostic PNGs")
	jsonOut := flag.String("json", "", "Write the final parameters to this JSON file")
	resume := flag.String("resume", "", "Start from a previously exported JSON parameter file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: cal2gutenprint [flags] run1.cal [run2.cal ...]")
		fmt.Fprintln(os.Stderr, "Pass files in run order to refine the estimation cumulatively.")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath, *policy, *alpha)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cal2gutenprint: %v\n", err)
		os.Exit(1)
	}

	start := accumulate.DefaultParams()
	if *resume != "" {
		start, err = report.LoadJSON(*resume)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cal2gutenprint: load resume params: %v\n", err)
			os.Exit(1)
		}
		log.Printf("Resuming from %s", *resume)
	}

	runner := &accumulate.Runner{
		Heuristics: cfg.EstimatorHeuristics(),
		Updater:    cfg.Updater(),
		Patterns:   cfg.BlockPatterns(),
	}

	fmt.Printf("Processing %d file(s) with %s policy...\n", len(files), runner.Updater.Policy)
	params, reports := runner.ProcessFrom(start, files)

	for i, rep := range reports {
		if rep.Err != nil {
			log.Printf("Run %d (%s) skipped: %v", i+1, rep.Path, rep.Err)
			continue
		}
		fmt.Printf("  > Analyzed run %d: %s\n", i+1, rep.Path)
		if rep.SkippedRows > 0 {
			log.Printf("Run %d: skipped %d malformed data row(s)", i+1, rep.SkippedRows)
		}
		for _, ch := range calfile.Channels {
			if est := rep.Estimates[ch]; est != nil {
				for _, note := range est.Notes {
					log.Printf("Run %d %s: %s", i+1, ch, note)
				}
			}
		}
	}

	fmt.Println()
	report.WriteTable(os.Stdout, params)

	if *jsonOut != "" {
		if err := report.WriteJSON(*jsonOut, params); err != nil {
			log.Printf("JSON export failed: %v", err)
		} else {
			fmt.Printf("Parameters written to %s\n", *jsonOut)
		}
	}

	if *plotsDir != "" {
		if err := writePlots(*plotsDir, reports); err != nil {
			log.Printf("Plot rendering failed: %v", err)
		}
	}
}

// loadConfig builds the effective configuration: file values (or defaults)
// with CLI flag overrides applied on top.
func loadConfig(path, policy string, alpha float64) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if policy != "" {
		cfg.Update.Policy = policy
	}
	if alpha != 0 {
		cfg.Update.Alpha = alpha
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writePlots renders one diagnostic image per channel from the last
// successfully analyzed file.
func writePlots(dir string, reports []accumulate.FileReport) error {
	var last *accumulate.FileReport
	for i := range reports {
		if reports[i].Err == nil && len(reports[i].Estimates) > 0 {
			last = &reports[i]
		}
	}
	if last == nil {
		return fmt.Errorf("no analyzed file to plot")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	opts := plot.DefaultOptions()
	for _, ch := range calfile.Channels {
		est := last.Estimates[ch]
		if est == nil {
			continue
		}
		img := plot.Channel(ch.String(), est, opts)
		out := filepath.Join(dir, ch.String()+".png")
		if err := plot.Save(img, out); err != nil {
			return fmt.Errorf("save %s: %w", out, err)
		}
		fmt.Printf("Plot written to %s\n", out)
	}
	return nil
}
