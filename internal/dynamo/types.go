package dynamo

import (
	"fmt"
	"math"
)

// PhaseSpace is a point in galactocentric cylindrical phase space.
type PhaseSpace struct {
	R  float64
	VR float64
	VT float64
	Z  float64
	VZ float64
}

// Lz returns the angular momentum R*vT.
func (w PhaseSpace) Lz() float64 { return w.R * w.VT }

// KineticEnergy returns (vR^2 + vT^2 + vz^2)/2.
func (w PhaseSpace) KineticEnergy() float64 {
	return 0.5 * (w.VR*w.VR + w.VT*w.VT + w.VZ*w.VZ)
}

func (w PhaseSpace) IsValid() bool {
	for _, v := range [...]float64{w.R, w.VR, w.VT, w.Z, w.VZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return w.R >= 0
}

func (w PhaseSpace) String() string {
	return fmt.Sprintf("(R=%.4g vR=%.4g vT=%.4g z=%.4g vz=%.4g)", w.R, w.VR, w.VT, w.Z, w.VZ)
}

// Actions holds the three action integrals of an orbit.
type Actions struct {
	Jr float64
	Lz float64
	Jz float64
}

func (a Actions) String() string {
	return fmt.Sprintf("(Jr=%.4g Lz=%.4g Jz=%.4g)", a.Jr, a.Lz, a.Jz)
}

// Frequencies are evaluated at the guiding-centre radius Rg.
type Frequencies struct {
	Rg    float64
	Kappa float64
	Nu    float64
	Omega float64
}

// Coordinates converts a flat coordinate list into either actions (3 values)
// or a phase-space point (5 values).
func Coordinates(coords []float64) (*Actions, *PhaseSpace, error) {
	switch len(coords) {
	case 3:
		return &Actions{Jr: coords[0], Lz: coords[1], Jz: coords[2]}, nil, nil
	case 5:
		return nil, &PhaseSpace{R: coords[0], VR: coords[1], VT: coords[2], Z: coords[3], VZ: coords[4]}, nil
	default:
		return nil, nil, fmt.Errorf("%w: got %d values", ErrCoords, len(coords))
	}
}
