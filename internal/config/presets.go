package config

import "sort"

var Presets = map[string]*Config{
	"fiducial": DefaultConfig(),
	"staeckel": withDF(func(c *Config) {
		c.ActionAngle.Delta = 0.45
		c.Quadrature.NGL = 20
	}),
	"adiabatic": withDF(func(c *Config) {
		c.ActionAngle.Name = "adiabatic"
	}),
	"warm": withDF(func(c *Config) {
		c.DF.SigmaR = 0.3
		c.DF.SigmaZ = 0.2
		c.Quadrature.VTMax = 2
	}),
	"thick": withDF(func(c *Config) {
		c.DF.Hr = 0.5
		c.DF.SigmaZ = 0.15
		c.DF.HsigmaZ = 2
		c.Profile.Z = 0.1
	}),
}

func withDF(edit func(*Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
