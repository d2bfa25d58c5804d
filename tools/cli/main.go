package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/boyter/gocodewalker"
	"github.com/multimediallc/complot/internal/app"
	"github.com/multimediallc/complot/internal/config"
	"github.com/multimediallc/complot/pkg/days"
	f "github.com/multimediallc/complot/pkg/functional"
	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/summary"
	"github.com/multimediallc/complot/pkg/topology"
	"github.com/urfave/cli/v2"
)

func stripRoot(root string, path string) string {
	if root == "." {
		return path
	}
	return strings.TrimPrefix(path, strings.TrimSuffix(root, "/")+"/")
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(FormatDefault),
		Usage:   "Output format.  Allowed values are: default, one-line, and json",
	}
}

func inputArg(cCtx *cli.Context) (string, error) {
	if cCtx.NArg() == 0 {
		return "", fmt.Errorf("input deck is required")
	}
	return cCtx.Args().First(), nil
}

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "Print version",
	}
	cli.VersionPrinter = func(cCtx *cli.Context) {
		fmt.Println(cCtx.App.Version)
	}
	cliApp := &cli.App{
		Name:    "complot-cli",
		Usage:   "CLI tool for reconciling multi-segment well results with their schedules",
		Version: "v0.1.0.dev",
		Commands: []*cli.Command{
			{
				Name:        "run",
				Aliases:     []string{"r"},
				Usage:       "Reconcile the wells of an input deck",
				UsageText:   "complot-cli run [options] <input-deck>",
				Description: "Reconcile every INFORMATION row of the input deck and export the results when an output file is configured.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "day",
						Aliases: []string{"d"},
						Usage:   "Dash separated days overriding the DAYS column",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file overriding OUTPUTFILE",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Export format.  Allowed values are: csv, xlsx, and sqlite",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Verbose output",
					},
				},
				Action: func(cCtx *cli.Context) error {
					input, err := inputArg(cCtx)
					if err != nil {
						return err
					}
					return runDeck(app.Config{
						InputFile:     input,
						Day:           cCtx.String("day"),
						OutputFile:    cCtx.String("output"),
						Format:        cCtx.String("export"),
						Verbose:       cCtx.Bool("verbose"),
						InfoBuffer:    os.Stdout,
						WarningBuffer: os.Stderr,
					})
				},
			},
			{
				Name:        "packers",
				Aliases:     []string{"p"},
				Usage:       "List the annulus packers and zones of each well",
				UsageText:   "complot-cli packers [options] <input-deck>",
				Description: "Detect the annulus zones of every INFORMATION row with an annulus layer and print the packer depths.",
				Flags:       []cli.Flag{formatFlag()},
				Action: func(cCtx *cli.Context) error {
					input, err := inputArg(cCtx)
					if err != nil {
						return err
					}
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					return listPackers(input, format)
				},
			},
			{
				Name:        "days",
				Aliases:     []string{"d"},
				Usage:       "List report days or resolve requested days to report steps",
				UsageText:   "complot-cli days [options] <input-deck> [day1] [day2]...\n   echo \"0 30 60\" | complot-cli days <input-deck>",
				Description: "Without days, print the report days of every case. With days given as arguments or piped on stdin, print the report step each day resolves to.",
				Flags:       []cli.Flag{formatFlag()},
				Action: func(cCtx *cli.Context) error {
					input, err := inputArg(cCtx)
					if err != nil {
						return err
					}
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					requested, err := parseDays(cCtx.Args().Tail())
					if err != nil {
						return err
					}
					if len(requested) == 0 && isStdinPiped() {
						requested, err = scanStdinDays(os.Stdin)
						if err != nil {
							return err
						}
					}
					return listDays(input, requested, format)
				},
			},
			{
				Name:        "discover",
				Aliases:     []string{"ls"},
				Usage:       "Find simulation cases with multi-segment schedules",
				UsageText:   "complot-cli discover [options] [directory]",
				Description: "Walk the directory for .DATA files and print those with a resolvable well file.",
				Flags:       []cli.Flag{formatFlag()},
				Action: func(cCtx *cli.Context) error {
					root := "."
					if cCtx.NArg() > 0 {
						root = cCtx.Args().First()
					}
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					return discoverCases(root, format)
				},
			},
		},
	}

	err := cliApp.Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error : %s\n", err)
		os.Exit(1)
	}
}

func runDeck(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	output, err := a.Run()
	if err != nil {
		return err
	}
	fmt.Printf("Reconciled %d segment rows for %d well branches\n", len(output.Rows), len(output.Passes))
	if output.OutputFile != "" {
		fmt.Printf("Output summary file can be found in %s\n", output.OutputFile)
	}
	return nil
}

// WellPackers is the annulus layout of one well branch
type WellPackers struct {
	Well    string            `json:"well"`
	Lateral int               `json:"lateral"`
	Case    string            `json:"case,omitempty"`
	Zones   int               `json:"zones"`
	Packers []topology.Packer `json:"packers"`
}

func wellPackers(input string) ([]WellPackers, error) {
	in, err := config.ReadInput(input, io.Discard)
	if err != nil {
		return nil, err
	}
	selections, err := in.Selections("", io.Discard)
	if err != nil {
		return nil, err
	}
	decks := make(map[string]*schedule.Deck)
	result := make([]WellPackers, 0)
	for _, sel := range selections {
		if !sel.HasAnnulus() {
			continue
		}
		for i, wellFile := range in.WellFiles {
			deck, ok := decks[wellFile]
			if !ok {
				if deck, err = schedule.Read(wellFile); err != nil {
					return nil, err
				}
				decks[wellFile] = deck
			}
			ws, err := deck.Well(sel.Well)
			if err != nil {
				return nil, err
			}
			annulus, err := topology.Select(ws.Segments, sel.Annulus)
			if err != nil {
				return nil, fmt.Errorf("annulus layer of %s: %w", sel.Well, err)
			}
			zones, packers := topology.DetectZones(annulus)
			result = append(result, WellPackers{
				Well:    sel.Well,
				Lateral: sel.Branch,
				Case:    in.Case(i),
				Zones:   topology.ZoneCount(zones),
				Packers: packers,
			})
		}
	}
	return result, nil
}

func (wp WellPackers) label() string {
	label := fmt.Sprintf("%s lateral %d", wp.Well, wp.Lateral)
	if wp.Case != "" {
		label += " (" + wp.Case + ")"
	}
	return label
}

func listPackers(input string, format OutputFormat) error {
	wells, err := wellPackers(input)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return printJSON(wells)
	case FormatOneLine:
		for _, wp := range wells {
			depths := f.Map(wp.Packers, func(p topology.Packer) string { return fmt.Sprintf("%g", p.MD) })
			fmt.Printf("%s: %d zones, packers at %s\n", wp.label(), wp.Zones, strings.Join(depths, ", "))
		}
	default:
		for i, wp := range wells {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s: %d zones\n", wp.label(), wp.Zones)
			for _, p := range wp.Packers {
				fmt.Printf("  MD %g TVD %g\n", p.MD, p.TVD)
			}
		}
	}
	return nil
}

// CaseDays maps requested days onto the report steps of one case
type CaseDays struct {
	Case     string    `json:"case"`
	Days     []float64 `json:"days"`
	Steps    []int     `json:"steps,omitempty"`
	Resolved []float64 `json:"resolved,omitempty"`
}

func caseDays(input string, requested []float64) ([]CaseDays, error) {
	in, err := config.ReadInput(input, io.Discard)
	if err != nil {
		return nil, err
	}
	result := make([]CaseDays, 0, len(in.DataFiles))
	for _, dataFile := range in.DataFiles {
		src, err := summary.OpenCSV(dataFile)
		if err != nil {
			return nil, err
		}
		cd := CaseDays{Case: filepath.Base(dataFile), Days: src.Days()}
		if len(requested) > 0 {
			if cd.Steps, err = days.Resolve(requested, src.Days(), os.Stderr); err != nil {
				return nil, fmt.Errorf("%s: %w", cd.Case, err)
			}
			cd.Resolved = f.Map(cd.Steps, func(step int) float64 { return src.Days()[step] })
		}
		result = append(result, cd)
	}
	return result, nil
}

func listDays(input string, requested []float64, format OutputFormat) error {
	cases, err := caseDays(input, requested)
	if err != nil {
		return err
	}
	formatDays := func(values []float64) []string {
		return f.Map(values, func(v float64) string { return fmt.Sprintf("%g", v) })
	}
	switch format {
	case FormatJSON:
		return printJSON(cases)
	case FormatOneLine:
		for _, cd := range cases {
			values := cd.Days
			if len(requested) > 0 {
				values = cd.Resolved
			}
			fmt.Printf("%s: %s\n", cd.Case, strings.Join(formatDays(values), ", "))
		}
	default:
		for i, cd := range cases {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s:\n", cd.Case)
			if len(requested) == 0 {
				fmt.Println(strings.Join(formatDays(cd.Days), "\n"))
				continue
			}
			for k, step := range cd.Steps {
				fmt.Printf("%g -> step %d (day %g)\n", requested[k], step, cd.Resolved[k])
			}
		}
	}
	return nil
}

// Case is a simulation case found on disk
type Case struct {
	DataFile string `json:"data_file"`
	WellFile string `json:"well_file"`
}

func findCases(root string) ([]Case, error) {
	if rootStat, err := os.Lstat(root); err != nil || !rootStat.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	fileListQueue := make(chan *gocodewalker.File, 100)

	walker := gocodewalker.NewFileWalker(root, fileListQueue)
	walker.ExcludeDirectory = []string{".git"}

	errChan := make(chan error)

	go func() {
		err := walker.Start()
		errChan <- err
		close(errChan)
	}()

	dataFiles := make([]string, 0)
	for file := range fileListQueue {
		if filepath.Ext(file.Filename) == ".DATA" {
			dataFiles = append(dataFiles, file.Location)
		}
	}

	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("error walking %s: %s", root, err)
	}

	slices.Sort(dataFiles)
	cases := make([]Case, 0, len(dataFiles))
	for _, dataFile := range dataFiles {
		stem := strings.TrimSuffix(dataFile, filepath.Ext(dataFile))
		wellFile, err := config.FindWellFile(stem)
		if err != nil || wellFile == "" {
			continue
		}
		cases = append(cases, Case{
			DataFile: stripRoot(root, stem),
			WellFile: stripRoot(root, wellFile),
		})
	}
	return cases, nil
}

func discoverCases(root string, format OutputFormat) error {
	cases, err := findCases(root)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return printJSON(cases)
	case FormatOneLine:
		fmt.Println(strings.Join(f.Map(cases, func(c Case) string { return c.DataFile }), " "))
	default:
		for _, c := range cases {
			fmt.Printf("%s: %s\n", c.DataFile, c.WellFile)
		}
	}
	return nil
}

func printJSON(v any) error {
	jsonString, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(jsonString))
	return nil
}
