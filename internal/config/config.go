package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/quadrature"
)

const (
	DefaultPotential   = "mw"
	DefaultActionAngle = "staeckel"
	DefaultDelta       = 0.5
	DefaultHr          = 0.25
	DefaultSigmaR      = 0.2
	DefaultSigmaZ      = 0.1
	DefaultHsigma      = 1.0
	DefaultRMin        = 0.5
	DefaultRMax        = 1.5
	DefaultNR          = 11
	DefaultSeed        = 1
)

type Config struct {
	DF          DFConfig          `yaml:"df"`
	Potential   string            `yaml:"potential"`
	ActionAngle ActionAngleConfig `yaml:"action_angle"`
	Quadrature  QuadratureConfig  `yaml:"quadrature"`
	Profile     ProfileConfig     `yaml:"profile"`
	Seed        uint64            `yaml:"seed"`
}

type DFConfig struct {
	Hr           float64 `yaml:"hr"`
	SigmaR       float64 `yaml:"sigma_r"`
	SigmaZ       float64 `yaml:"sigma_z"`
	HsigmaR      float64 `yaml:"hsigma_r"`
	HsigmaZ      float64 `yaml:"hsigma_z"`
	CutCounter   bool    `yaml:"cut_counter"`
	PrecomputeRg bool    `yaml:"precompute_rg"`
}

type ActionAngleConfig struct {
	Name  string  `yaml:"name"`
	Delta float64 `yaml:"delta"`
}

type QuadratureConfig struct {
	Method string  `yaml:"method"`
	NGL    int     `yaml:"ngl"`
	NMC    int     `yaml:"nmc"`
	NSigma float64 `yaml:"nsigma"`
	VTMax  float64 `yaml:"vt_max"`
}

// ProfileConfig is the radial grid swept by profile runs.
type ProfileConfig struct {
	RMin float64 `yaml:"r_min"`
	RMax float64 `yaml:"r_max"`
	NR   int     `yaml:"n_r"`
	Z    float64 `yaml:"z"`
}

func DefaultConfig() *Config {
	return &Config{
		DF: DFConfig{
			Hr:           DefaultHr,
			SigmaR:       DefaultSigmaR,
			SigmaZ:       DefaultSigmaZ,
			HsigmaR:      DefaultHsigma,
			HsigmaZ:      DefaultHsigma,
			CutCounter:   true,
			PrecomputeRg: true,
		},
		Potential: DefaultPotential,
		ActionAngle: ActionAngleConfig{
			Name:  DefaultActionAngle,
			Delta: DefaultDelta,
		},
		Quadrature: QuadratureConfig{
			Method: quadrature.GL.String(),
			NGL:    quadrature.DefaultNGL,
			NMC:    quadrature.DefaultNMC,
			NSigma: quadrature.DefaultNSigma,
			VTMax:  quadrature.DefaultVTMax,
		},
		Profile: ProfileConfig{
			RMin: DefaultRMin,
			RMax: DefaultRMax,
			NR:   DefaultNR,
		},
		Seed: DefaultSeed,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the numeric settings. Potential and transform names are
// resolved later by the experiment registry.
func (c *Config) Validate() error {
	scales := []struct {
		name  string
		value float64
	}{
		{"df.hr", c.DF.Hr}, {"df.sigma_r", c.DF.SigmaR}, {"df.sigma_z", c.DF.SigmaZ},
		{"df.hsigma_r", c.DF.HsigmaR}, {"df.hsigma_z", c.DF.HsigmaZ},
		{"quadrature.nsigma", c.Quadrature.NSigma}, {"quadrature.vt_max", c.Quadrature.VTMax},
		{"profile.r_min", c.Profile.RMin},
	}
	for _, s := range scales {
		if !(s.value > 0) {
			return fmt.Errorf("%w: %s=%g", dynamo.ErrInvalidParam, s.name, s.value)
		}
	}

	if c.ActionAngle.Name == "staeckel" && !(c.ActionAngle.Delta > 0) {
		return fmt.Errorf("%w: action_angle.delta=%g", dynamo.ErrInvalidParam, c.ActionAngle.Delta)
	}
	if _, err := quadrature.ParseMethod(c.Quadrature.Method); err != nil {
		return err
	}
	if err := quadrature.CheckOrder(c.Quadrature.NGL); err != nil {
		return err
	}
	if c.Quadrature.NMC <= 0 {
		return fmt.Errorf("%w: quadrature.nmc=%d", dynamo.ErrInvalidParam, c.Quadrature.NMC)
	}
	if c.Profile.NR < 1 || (c.Profile.NR > 1 && c.Profile.RMax <= c.Profile.RMin) {
		return fmt.Errorf("%w: profile r_min=%g r_max=%g n_r=%d",
			dynamo.ErrInvalidParam, c.Profile.RMin, c.Profile.RMax, c.Profile.NR)
	}
	return nil
}

// Method returns the configured integration method.
func (c *Config) Method() quadrature.Method {
	m, _ := quadrature.ParseMethod(c.Quadrature.Method)
	return m
}

// Set assigns a numeric setting by its fit name.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "hr":
		c.DF.Hr = v
	case "sigma_r":
		c.DF.SigmaR = v
	case "sigma_z":
		c.DF.SigmaZ = v
	case "hsigma_r":
		c.DF.HsigmaR = v
	case "hsigma_z":
		c.DF.HsigmaZ = v
	case "delta":
		c.ActionAngle.Delta = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
