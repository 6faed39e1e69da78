// Command panelizer is the CLI gate for the PCB panelization engine (spec
// §6 "CLI surface"). It reads a configuration snapshot, builds job
// fixtures through the out-of-scope parser's stand-in (internal/parse),
// places them on the panel either by search or from a reproducibility
// file, clusters drill tools, and drives internal/merge to emit the
// panel's Gerber layers, drill program, and supporting files.
//
// Mirroring cmd/blind/blind.go's style, flags are registered directly with
// the stdlib flag package; errors are reported with log.Printf followed by
// os.Exit, and unlike blind, this command's domain errors are typed (spec
// §7) so the exit code can reflect what went wrong.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/config"
	"github.com/gerbmerge-go/panelizer/internal/drillcluster"
	"github.com/gerbmerge-go/panelizer/internal/fabdrawing"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
	"github.com/gerbmerge-go/panelizer/internal/merge"
	"github.com/gerbmerge-go/panelizer/internal/outline"
	"github.com/gerbmerge-go/panelizer/internal/pack"
	"github.com/gerbmerge-go/panelizer/internal/parse"
	"github.com/gerbmerge-go/panelizer/internal/placement"
)

type cliFlags struct {
	randomSearch bool
	fullSearch   bool
	placeFile    string
	rsFSJobs     int
	searchTimeout float64
	octagons      string
	noTrimGerber   bool
	noTrimExcellon bool

	configFile string
	layoutFile string
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: panelizer [flags] configfile [layoutfile]\n\n")
	flag.PrintDefaults()
}

func parseFlags(args []string) (cliFlags, error) {
	fs := flag.NewFlagSet("panelizer", flag.ContinueOnError)
	fs.Usage = usage
	var c cliFlags
	fs.BoolVar(&c.randomSearch, "random-search", false, "place jobs with the randomized packer driver")
	fs.BoolVar(&c.fullSearch, "full-search", false, "place jobs with the exhaustive packer driver")
	fs.StringVar(&c.placeFile, "place-file", "", "read a placement reproducibility file instead of running the packer")
	fs.IntVar(&c.rsFSJobs, "rs-fsjobs", 0, "override RandomSearchExhaustiveJobs from the config file")
	fs.Float64Var(&c.searchTimeout, "search-timeout", -1, "override the randomized search wall-clock budget, in seconds (0 = until cancelled)")
	fs.StringVar(&c.octagons, "octagons", "", "override octagon rotation: rotate|normal")
	fs.BoolVar(&c.noTrimGerber, "no-trim-gerber", false, "disable trimming Gerber layers to the outline bounding box")
	fs.BoolVar(&c.noTrimExcellon, "no-trim-excellon", false, "disable dropping out-of-bounds drill hits")
	if err := fs.Parse(args); err != nil {
		return c, err
	}

	modes := 0
	for _, set := range []bool{c.randomSearch, c.fullSearch, c.placeFile != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return c, &InvalidOption{Detail: "only one of --random-search, --full-search, --place-file may be given"}
	}
	if c.octagons != "" && c.octagons != "rotate" && c.octagons != "normal" {
		return c, &InvalidOption{Detail: fmt.Sprintf("--octagons must be rotate or normal, got %q", c.octagons)}
	}

	rest := fs.Args()
	switch len(rest) {
	case 1:
		c.configFile = rest[0]
	case 2:
		c.configFile = rest[0]
		c.layoutFile = rest[1]
	default:
		return c, &InvalidArguments{Detail: "expected configfile [layoutfile]"}
	}
	return c, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Printf("panelizer: %v", err)
		os.Exit(exitCodeFor(err))
	}
	if err := run(flags); err != nil {
		log.Printf("panelizer: %v", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to a process exit code: Cancelled gets
// its own code so a wrapping shell script can distinguish "ran out of
// time" from "the job genuinely doesn't fit" or a plain usage mistake.
func exitCodeFor(err error) int {
	if errors.Is(err, pack.Cancelled) {
		return 3
	}
	var tooSmall *pack.PanelTooSmall
	if errors.As(err, &tooSmall) {
		return 2
	}
	return 1
}

func run(flags cliFlags) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	if flags.rsFSJobs > 0 {
		cfg.RandomSearchExhaustiveJobs = flags.rsFSJobs
	}
	if flags.searchTimeout >= 0 {
		cfg.SearchTimeoutSeconds = flags.searchTimeout
	}
	if flags.octagons != "" {
		cfg.OctagonsRotated = flags.octagons == "rotate"
	}
	if flags.noTrimGerber {
		cfg.TrimGerber = false
	}
	if flags.noTrimExcellon {
		cfg.TrimExcellon = false
	}

	gat := aperture.NewTable()
	gamt := aperture.NewMacroTable()
	if cfg.AperturesFile != "" {
		f, err := os.Open(cfg.AperturesFile)
		if err != nil {
			return err
		}
		err = parse.Apertures(f, gat)
		f.Close()
		if err != nil {
			return err
		}
	}

	jobs := make([]*job.Job, 0, len(cfg.Jobs))
	jobsByName := make(map[string]*job.Job, len(cfg.Jobs))
	for _, spec := range cfg.Jobs {
		f, err := os.Open(spec.FixtureFile)
		if err != nil {
			return err
		}
		j, err := parse.Fixture(f, spec.Name, spec.OutlineLayer, spec.Repeat, gat)
		f.Close()
		if err != nil {
			return fmt.Errorf("job %q: %w", spec.Name, err)
		}
		j.ShiftToPositive()
		if cfg.TrimGerber {
			if err := j.TrimGerber(); err != nil {
				return err
			}
		}
		if cfg.TrimExcellon {
			if err := j.TrimExcellon(); err != nil {
				return err
			}
		}
		jobs = append(jobs, j)
		jobsByName[j.Name] = j
	}

	originX := cfg.LeftMargin + 0.1
	originY := cfg.BottomMargin + 0.1

	layoutPath := flags.placeFile
	if layoutPath == "" {
		layoutPath = flags.layoutFile
	}

	var pl *placement.Placement
	var seed int64
	if layoutPath != "" {
		pl, err = placement.FromFile(layoutPath, jobsByName)
		if err != nil {
			return err
		}
	} else {
		items, err := pack.BuildItems(jobs)
		if err != nil {
			return err
		}
		innerW := cfg.PanelWidth - cfg.LeftMargin - cfg.RightMargin
		innerH := cfg.PanelHeight - cfg.BottomMargin - cfg.TopMargin
		if flags.fullSearch {
			tiling, err := pack.ExhaustiveSearch(items, innerW, innerH, cfg.XSpacing, cfg.YSpacing, nil)
			if err != nil {
				return err
			}
			pl = placement.FromTiling(tiling, originX, originY)
		} else {
			seed = cfg.RandomSeed
			if seed == 0 {
				seed = 1
			}
			timeout := time.Duration(cfg.SearchTimeoutSeconds * float64(time.Second))
			result, err := pack.RandomizedSearch(items, innerW, innerH, cfg.XSpacing, cfg.YSpacing,
				cfg.RandomSearchExhaustiveJobs, timeout, seed, 0, 0, nil)
			if err != nil {
				return err
			}
			pl = placement.FromTiling(result.Tiling, originX, originY)
			seed = result.Seed
			log.Printf("panelizer: randomized search seed %d", seed)
		}
	}

	extents, err := pl.Extents()
	if err != nil {
		return err
	}
	panelRect := geometry.NewRect(0, 0, cfg.PanelWidth, cfg.PanelHeight)
	if !extents.Within(panelRect) {
		return &pack.PanelTooSmall{
			RequiredW: extents.Width(), RequiredH: extents.Height(),
			ConfiguredW: cfg.PanelWidth, ConfiguredH: cfg.PanelHeight,
		}
	}

	gtrm, gtm := drillcluster.BuildGlobalToolTables(jobs)
	if cfg.DrillClusterTolerance > 0 {
		drillcluster.Cluster(jobs, gtrm, gtm, cfg.DrillClusterTolerance)
	}

	merger := merge.New(cfg, gat, gamt, gtrm, gtm, pl, cfg.OctagonsRotated)

	for _, layer := range cfg.Layers {
		if layer == "centroid" {
			continue
		}
		path := cfg.OutputPath(layer, layer+".gbr")
		if err := merger.EmitLayerFile(path, layer); err != nil {
			return fmt.Errorf("layer %q: %w", layer, err)
		}
	}

	if err := merger.EmitDrillFile(cfg.OutputPath("drill", "panel.drl")); err != nil {
		return err
	}
	if err := merger.WriteToolListFile(cfg.OutputPath("toollist", "panel.tools.txt")); err != nil {
		return err
	}

	outlinePath := cfg.OutlineLayerFile
	if outlinePath == "" {
		outlinePath = "panel.outline.gbr"
	}
	if err := merger.EmitBoardOutline(outlinePath); err != nil {
		return err
	}
	if err := outline.Write(cfg.OutputPath("outlinedxf", "panel.outline.dxf"), extents); err != nil {
		return err
	}

	scoringPath := cfg.ScoringFile
	if scoringPath == "" {
		scoringPath = "panel.scoring.gbr"
	}
	if err := merger.EmitScoring(scoringPath); err != nil {
		return err
	}

	if err := pl.Write(cfg.OutputPath("placement", "panel.placement.txt")); err != nil {
		return err
	}

	stats, err := merger.ComputeStats()
	if err != nil {
		return err
	}
	if err := stats.Print(os.Stdout); err != nil {
		return err
	}

	if cfg.FabricationDrawingFile != "" {
		legend, err := fabdrawing.BuildLegend(pl, stats, len(gtm))
		if err != nil {
			return err
		}
		if err := legend.Write(cfg.FabricationDrawingFile, cfg.OctagonsRotated); err != nil {
			return err
		}
	}

	return nil
}
