package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/multimediallc/complot/internal/app"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func ignoreError[V any, E error](res V, _ E) V {
	return res
}

var (
	WarningBuffer = bytes.NewBuffer([]byte{})
	InfoBuffer    = bytes.NewBuffer([]byte{})
)

// Flags holds the command line flags, each with an environment fallback
type Flags struct {
	InputFile  *string
	Day        *string
	OutputFile *string
	Format     *string
	Verbose    *bool
}

var flags = &Flags{
	InputFile:  flag.String("i", getEnv("COMPLOT_INPUT", ""), "Path to the complot input deck"),
	Day:        flag.String("day", getEnv("COMPLOT_DAY", ""), "Dash separated days overriding the DAYS column"),
	OutputFile: flag.String("o", getEnv("COMPLOT_OUTPUT", ""), "Output file overriding OUTPUTFILE"),
	Format:     flag.String("format", getEnv("COMPLOT_FORMAT", ""), "Output format: csv, xlsx or sqlite"),
	Verbose:    flag.Bool("v", ignoreError(strconv.ParseBool(getEnv("COMPLOT_VERBOSE", "0"))), "Verbose output"),
}

func initFlags(flags *Flags) error {
	flag.Parse()
	if *flags.InputFile == "" && flag.NArg() > 0 {
		*flags.InputFile = flag.Arg(0)
	}
	if *flags.InputFile == "" {
		return fmt.Errorf("required flag or environment variable not set: i")
	}
	return nil
}

func flushBuffers(stdout, stderr io.Writer) {
	if _, err := WarningBuffer.WriteTo(stderr); err != nil {
		fmt.Fprintf(stderr, "Error writing warning buffer: %v\n", err)
	}
	if *flags.Verbose {
		if _, err := InfoBuffer.WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "Error writing info buffer: %v\n", err)
		}
	}
}

func errorAndExit(format string, args ...interface{}) {
	flushBuffers(os.Stderr, os.Stderr)
	fmt.Fprintf(os.Stderr, "Error : "+format, args...)
	os.Exit(1)
}

func main() {
	if err := initFlags(flags); err != nil {
		errorAndExit("%v\n", err)
	}

	cfg := app.Config{
		InputFile:     *flags.InputFile,
		Day:           *flags.Day,
		OutputFile:    *flags.OutputFile,
		Format:        *flags.Format,
		Verbose:       *flags.Verbose,
		InfoBuffer:    InfoBuffer,
		WarningBuffer: WarningBuffer,
	}
	a, err := app.New(cfg)
	if err != nil {
		errorAndExit("%v\n", err)
	}
	output, err := a.Run()
	if err != nil {
		errorAndExit("%v\n", err)
	}

	flushBuffers(os.Stdout, os.Stderr)
	fmt.Printf("Reconciled %d segment rows for %d well branches\n", len(output.Rows), len(output.Passes))
	if output.OutputFile != "" {
		fmt.Printf("Output summary file can be found in %s\n", output.OutputFile)
	}
}
