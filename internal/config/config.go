// Package config holds the panelizer's configuration snapshot (spec §3
// "Configuration snapshot", §6 "Configuration keys") and its file loader.
// The real fab-house configuration-file format and its reader are called
// out as an external, out-of-scope collaborator by spec §1; this loader
// exists so the rest of the tree (and its tests) has something concrete to
// parse against. It uses gopkg.in/yaml.v2, the same dependency the teacher
// repo already carries (jsleeio/frontpanels uses it for its panel-format
// fixture data).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// MinimumFeatureDimension maps a layer name to its minimum feature size in
// inches (spec §3, §6 "MinimumFeatureDimension per layer").
type MinimumFeatureDimension map[string]float64

// Config is the immutable, once-read configuration snapshot threaded
// through the packer and merger (spec §3, §9 "Process-wide tables").
type Config struct {
	PanelWidth  float64 `yaml:"panelwidth"`
	PanelHeight float64 `yaml:"panelheight"`

	LeftMargin   float64 `yaml:"leftmargin"`
	BottomMargin float64 `yaml:"bottommargin"`
	RightMargin  float64 `yaml:"rightmargin"`
	TopMargin    float64 `yaml:"topmargin"`

	XSpacing float64 `yaml:"xspacing"`
	YSpacing float64 `yaml:"yspacing"`

	CutLineWidth  float64  `yaml:"cutlinewidth"`
	CutLineLayers []string `yaml:"cutlinelayers"`

	CropMarkWidth  float64  `yaml:"cropmarkwidth"`
	CropMarkLayers []string `yaml:"cropmarklayers"`

	FiducialPoints          []float64 `yaml:"fiducialpoints"`
	FiducialCopperDiameter  float64   `yaml:"fiducialcopperdiameter"`
	FiducialMaskDiameter    float64   `yaml:"fiducialmaskdiameter"`
	FiducialLayers          []string  `yaml:"fiduciallayers"`

	DrillClusterTolerance float64 `yaml:"drillclustertolerance"`

	OutlineLayerFile        string `yaml:"outlinelayerfile"`
	ScoringFile             string `yaml:"scoringfile"`
	FabricationDrawingFile  string `yaml:"fabricationdrawingfile"`

	MinimumFeatureDimension MinimumFeatureDimension `yaml:"minimumfeaturedimension"`

	TrimGerber   bool `yaml:"trimgerber"`
	TrimExcellon bool `yaml:"trimexcellon"`

	OutputFiles map[string]string `yaml:"outputfiles"`

	// Layers lists the Gerber layer names the merger emits, e.g.
	// "topcopper", "bottomsoldermask". Excludes "centroid" (spec §4.7:
	// "For each output layer name L in the configured layer list
	// (excluding centroid)").
	Layers []string `yaml:"layers"`

	// Jobs stands in for the out-of-scope parser's job discovery (spec
	// §1): each entry names a fixture file in the internal/parse mini
	// format, the layer that defines its bounding box, and a repeat
	// count.
	Jobs []JobSpec `yaml:"jobs"`

	// AperturesFile names a file of aperture definitions (internal/parse's
	// mini format) loaded into the GAT before any job fixture is read.
	// The GAT is process-wide and populated by the parser as each job is
	// read (spec §3); since the real parser is out of scope, this file is
	// the CLI-facing stand-in for its aperture discovery.
	AperturesFile string `yaml:"aperturesfile"`

	RandomSearchExhaustiveJobs int     `yaml:"rsfsjobs"`
	SearchTimeoutSeconds       float64 `yaml:"searchtimeout"`
	RandomSeed                 int64   `yaml:"randomseed"`
	OctagonsRotated            bool    `yaml:"octagonsrotated"`
}

// JobSpec names one job fixture to load (spec §1: the real parser is an
// external collaborator; this is the CLI-facing stand-in for it).
type JobSpec struct {
	Name         string `yaml:"name"`
	FixtureFile  string `yaml:"fixturefile"`
	OutlineLayer string `yaml:"outlinelayer"`
	Repeat       int    `yaml:"repeat"`
}

// Default returns a Config with the same defaults gerbmerge.py's config
// module establishes before reading a config file (trimming on, etc).
func Default() Config {
	return Config{
		TrimGerber:                 true,
		TrimExcellon:               true,
		RandomSearchExhaustiveJobs: 10,
	}
}

// Load reads and parses a YAML configuration file into a Config seeded
// from Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.PanelWidth <= 0 || cfg.PanelHeight <= 0 {
		return Config{}, fmt.Errorf("config: panelwidth and panelheight must be positive")
	}
	return cfg, nil
}

// OutputPath returns the configured filename for key, or def if unset.
func (c Config) OutputPath(key, def string) string {
	if c.OutputFiles == nil {
		return def
	}
	if v, ok := c.OutputFiles[key]; ok {
		return v
	}
	return def
}
