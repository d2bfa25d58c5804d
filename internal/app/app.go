package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/multimediallc/complot/internal/config"
	"github.com/multimediallc/complot/internal/export"
	"github.com/multimediallc/complot/pkg/branch"
	"github.com/multimediallc/complot/pkg/days"
	f "github.com/multimediallc/complot/pkg/functional"
	"github.com/multimediallc/complot/pkg/merger"
	"github.com/multimediallc/complot/pkg/reconcile"
	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/selection"
	"github.com/multimediallc/complot/pkg/summary"
	"github.com/multimediallc/complot/pkg/topology"
)

// PassInfo describes one processed well branch of one case
type PassInfo struct {
	Well       string
	Case       string
	Branch     int
	Days       []float64
	Packers    []topology.Packer
	Zones      []topology.Zone
	Trajectory []topology.Point
}

// OutputData holds everything a run produced
type OutputData struct {
	Rows       []reconcile.Row
	Wells      []summary.WellRow
	Passes     []PassInfo
	OutputFile string
	Format     export.Format
}

// Config holds the application configuration
type Config struct {
	InputFile     string
	// Day replaces the DAYS column of every INFORMATION row when set
	Day           string
	OutputFile    string
	Format        string
	Verbose       bool
	InfoBuffer    io.Writer
	WarningBuffer io.Writer
}

// DeckReader loads the schedule of a case
type DeckReader func(path string) (*schedule.Deck, error)

// SourceOpener loads the summary results of a case
type SourceOpener func(dataFile string) (summary.Source, error)

// App represents the application with its dependencies
type App struct {
	Conf       *config.Config
	Input      *config.Input
	config     *Config
	readDeck   DeckReader
	openSource SourceOpener
	decks      map[string]*schedule.Deck
	sources    map[string]summary.Source
}

func openCSV(dataFile string) (summary.Source, error) {
	return summary.OpenCSV(dataFile)
}

// New creates a new App instance with the given configuration
func New(cfg Config) (*App, error) {
	if cfg.InputFile == "" {
		return nil, fmt.Errorf("input file is not specified")
	}
	if cfg.InfoBuffer == nil {
		cfg.InfoBuffer = io.Discard
	}
	if cfg.WarningBuffer == nil {
		cfg.WarningBuffer = io.Discard
	}
	app := &App{
		config:     &cfg,
		readDeck:   schedule.Read,
		openSource: openCSV,
		decks:      make(map[string]*schedule.Deck),
		sources:    make(map[string]summary.Source),
	}
	return app, nil
}

func (a *App) printDebug(format string, args ...interface{}) {
	if a.config.Verbose {
		_, _ = fmt.Fprintf(a.config.InfoBuffer, format, args...)
	}
}

func (a *App) printWarn(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.config.WarningBuffer, format, args...)
}

// Run executes the application logic
func (a *App) Run() (*OutputData, error) {
	// Read input deck
	input, err := config.ReadInput(a.config.InputFile, a.config.WarningBuffer)
	if err != nil {
		return &OutputData{}, fmt.Errorf("ReadInput Error: %w", err)
	}
	a.Input = input
	a.printDebug("Data files: %s\n", strings.Join(input.DataFiles, ", "))

	// Read config
	conf, err := config.ReadConfig(input.Dir, nil)
	if err != nil {
		a.printWarn("Error reading %s - using default config\n", config.FileName)
	}
	a.Conf = conf

	selections, err := input.Selections(a.config.Day, a.config.WarningBuffer)
	if err != nil {
		return &OutputData{}, fmt.Errorf("Selections Error: %w", err)
	}

	output := &OutputData{}
	profiled := f.NewSet[string]()
	for _, sel := range selections {
		for i, dataFile := range input.DataFiles {
			caseName := input.Case(i)
			pass, info, err := a.preparePass(sel, caseName, dataFile, input.WellFiles[i])
			if err != nil {
				return output, err
			}
			src := a.sources[dataFile]
			engine := reconcile.NewEngine(src, a.engineOptions(), a.config.WarningBuffer)
			rows, err := engine.Reconcile(pass)
			if err != nil {
				return output, fmt.Errorf("Reconcile Error for %s lateral %d: %w", sel.Well, sel.Branch, err)
			}
			a.printDebug("%s lateral %d%s: %d rows\n", sel.Well, sel.Branch, caseLabel(caseName), len(rows))
			output.Rows = append(output.Rows, rows...)
			output.Passes = append(output.Passes, info)

			key := sel.Well + "\x00" + caseName
			if profiled.Contains(key) {
				continue
			}
			profiled.Add(key)
			wells, err := summary.WellProfile(src, sel.Well, a.config.WarningBuffer, conf.WellKeywords...)
			if err != nil {
				return output, fmt.Errorf("WellProfile Error for %s: %w", sel.Well, err)
			}
			for k := range wells {
				wells[k].Case = caseName
			}
			output.Wells = append(output.Wells, wells...)
		}
	}

	if err := a.export(output); err != nil {
		return output, err
	}
	return output, nil
}

func caseLabel(caseName string) string {
	if caseName == "" {
		return ""
	}
	return " (" + caseName + ")"
}

func (a *App) engineOptions() reconcile.Options {
	opts := reconcile.DefaultOptions()
	opts.MinRate = a.Conf.MinRate
	opts.ZoneTolerance = a.Conf.ZoneTolerance
	if len(a.Conf.SegmentKeywords) > 0 {
		opts.Keywords = f.Map(a.Conf.SegmentKeywords, strings.ToUpper)
	}
	return opts
}

func (a *App) deck(wellFile string) (*schedule.Deck, error) {
	if deck, ok := a.decks[wellFile]; ok {
		return deck, nil
	}
	deck, err := a.readDeck(wellFile)
	if err != nil {
		return nil, err
	}
	a.decks[wellFile] = deck
	return deck, nil
}

func (a *App) source(dataFile string) (summary.Source, error) {
	if src, ok := a.sources[dataFile]; ok {
		return src, nil
	}
	src, err := a.openSource(dataFile)
	if err != nil {
		return nil, err
	}
	a.sources[dataFile] = src
	return src, nil
}

// preparePass resolves the layers, cells, zones and report steps of a well branch
func (a *App) preparePass(sel selection.WellSelection, caseName, dataFile, wellFile string) (reconcile.Pass, PassInfo, error) {
	pass := reconcile.Pass{Well: sel.Well, Case: caseName, Branch: sel.Branch}
	info := PassInfo{Well: sel.Well, Case: caseName, Branch: sel.Branch}
	wrap := func(stage string, err error) error {
		return fmt.Errorf("%s Error for %s lateral %d: %w", stage, sel.Well, sel.Branch, err)
	}

	deck, err := a.deck(wellFile)
	if err != nil {
		return pass, info, wrap("ReadSchedule", err)
	}
	src, err := a.source(dataFile)
	if err != nil {
		return pass, info, wrap("OpenSummary", err)
	}
	ws, err := deck.Well(sel.Well)
	if err != nil {
		return pass, info, wrap("Schedule", err)
	}

	steps, err := days.Resolve(sel.Days, src.Days(), a.config.WarningBuffer)
	if err != nil {
		return pass, info, wrap("Days", err)
	}
	pass.Steps = steps
	info.Days = f.Map(steps, func(step int) float64 { return src.Days()[step] })

	offsets := topology.Offsets{Device: a.Conf.DeviceInterval, Annulus: a.Conf.AnnulusInterval}
	layers, err := topology.Resolve(ws.Segments, sel, offsets)
	if err != nil {
		return pass, info, wrap("Topology", err)
	}
	completions, err := branch.Select(ws.Completions, sel.Branch)
	if err != nil {
		return pass, info, wrap("Branch", err)
	}

	if pass.Tubing, err = merger.Merge(layers.Tubing, completions, ws.Cells); err != nil {
		return pass, info, wrap("Merge", err)
	}
	if pass.Device, err = merger.Merge(layers.Device, completions, ws.Cells); err != nil {
		return pass, info, wrap("Merge", err)
	}
	if pass.Annulus, err = merger.Merge(layers.Annulus, completions, ws.Cells); err != nil {
		return pass, info, wrap("Merge", err)
	}

	if sel.HasAnnulus() {
		annulus, err := topology.Select(ws.Segments, sel.Annulus)
		if err != nil {
			return pass, info, wrap("Topology", err)
		}
		pass.Zones, info.Packers = topology.DetectZones(annulus)
		info.Zones = pass.Zones
		a.printDebug("%s lateral %d: %d annulus zones\n", sel.Well, sel.Branch, topology.ZoneCount(pass.Zones))
	}
	if info.Trajectory, err = topology.Trajectory(ws.Segments, topology.TubingIDs(ws.Segments, sel)); err != nil {
		return pass, info, wrap("Trajectory", err)
	}
	return pass, info, nil
}

func (a *App) export(output *OutputData) error {
	path := a.config.OutputFile
	if path == "" {
		path = a.Input.OutputFile
	}
	if path == "" {
		return nil
	}
	format, err := export.ResolveFormat(a.config.Format, a.Conf.Export.Format, path)
	if err != nil {
		return fmt.Errorf("Export Error: %w", err)
	}
	opts := export.DefaultOptions()
	if sep := []rune(a.Conf.Export.Separator); len(sep) == 1 {
		opts.Separator = sep[0]
	}
	if err := export.Write(path, format, output.Rows, output.Wells, opts); err != nil {
		return fmt.Errorf("Export Error: %w", err)
	}
	output.OutputFile = path
	output.Format = format
	a.printDebug("Exported %d rows to %s (%s)\n", len(output.Rows), path, format)
	return nil
}
