package potential

import (
	"fmt"
	"sort"
)

// MWPotential is the fiducial Milky Way model: a Miyamoto-Nagai disk, an NFW
// halo and a Hernquist bulge contributing 60%, 35% and 5% of vc² at R = 1.
func MWPotential() Combined {
	return Combined{
		NewMiyamotoNagai(0.5, 0.0375, 0.6),
		NewNFW(4.5, 0.35),
		NewHernquist(0.6/8, 0.05),
	}
}

var models = map[string]func() Potential{
	"mw":             func() Potential { return MWPotential() },
	"logarithmic":    func() Potential { return NewLogarithmicHalo(0.9, 0, 1) },
	"miyamoto-nagai": func() Potential { return NewMiyamotoNagai(0.5, 0.0375, 1) },
}

// ByName returns a fresh instance of a named model.
func ByName(name string) (Potential, error) {
	fn, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
