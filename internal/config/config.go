package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "complot.toml"

type Config struct {
	DeviceInterval  float64  `toml:"device_interval"`
	AnnulusInterval float64  `toml:"annulus_interval"`
	MinRate         float64  `toml:"min_rate"`
	ZoneTolerance   float64  `toml:"zone_tolerance"`
	SegmentKeywords []string `toml:"segment_keywords"`
	WellKeywords    []string `toml:"well_keywords"`
	Export          *Export  `toml:"export"`
}

type Export struct {
	Format string `toml:"format"`
	// Separator is the csv field separator
	Separator string `toml:"separator"`
}

// FileReader abstracts where the config file is read from
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	PathExists(path string) bool
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFileReader) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func defaultConfig() *Config {
	return &Config{
		DeviceInterval:  0.1,
		AnnulusInterval: 0.1,
		MinRate:         0.1,
		ZoneTolerance:   0.1,
		SegmentKeywords: []string{"SPR", "SPRD", "SOFR", "SWFR", "SGFRF"},
		WellKeywords:    []string{"WBHP", "WOPR", "WWPR", "WGPR", "WWCT", "WGOR"},
		Export:          &Export{Format: "", Separator: ";"},
	}
}

// ReadConfig loads complot.toml from dir over the defaults. A nil reader reads the filesystem.
func ReadConfig(dir string, reader FileReader) (*Config, error) {
	if reader == nil {
		reader = osFileReader{}
	}
	config := defaultConfig()

	fileName := filepath.Join(dir, FileName)
	if !reader.PathExists(fileName) {
		return config, nil
	}
	file, err := reader.ReadFile(fileName)
	if err != nil {
		return defaultConfig(), err
	}
	if err := toml.Unmarshal(file, config); err != nil {
		return defaultConfig(), fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	if config.Export == nil {
		config.Export = defaultConfig().Export
	}
	if config.Export.Separator == "" {
		config.Export.Separator = ";"
	}
	if err := config.validate(); err != nil {
		return defaultConfig(), fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.DeviceInterval < 0 || c.AnnulusInterval < 0 {
		return fmt.Errorf("layer intervals must not be negative")
	}
	if c.MinRate < 0 || c.ZoneTolerance < 0 {
		return fmt.Errorf("min_rate and zone_tolerance must not be negative")
	}
	if len([]rune(c.Export.Separator)) != 1 {
		return fmt.Errorf("export separator must be a single character, got %q", c.Export.Separator)
	}
	return nil
}
