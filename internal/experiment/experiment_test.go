package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galkin/internal/config"
	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
)

func quickConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ActionAngle.Name = "adiabatic"
	cfg.Quadrature.NGL = 6
	cfg.Profile = config.ProfileConfig{RMin: 0.8, RMax: 1.2, NR: 3}
	return cfg
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if got := reg.ListPotentials(); len(got) != len(potential.Names()) {
		t.Errorf("expected %d potentials, got %v", len(potential.Names()), got)
	}
	if got := reg.ListTransforms(); len(got) != 2 || got[0] != "adiabatic" {
		t.Errorf("expected [adiabatic staeckel], got %v", got)
	}

	if _, err := reg.GetPotential("kepler"); err == nil {
		t.Error("expected error for unknown potential")
	}
	pot, err := reg.GetPotential("mw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.GetTransform("staeckel", pot, 0); !errors.Is(err, dynamo.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}

	reg.RegisterPotential("halo", func() (potential.Potential, error) {
		return potential.NewNFW(4.5, 1), nil
	})
	if _, err := reg.GetPotential("halo"); err != nil {
		t.Errorf("expected registered potential, got %v", err)
	}
}

func TestNew(t *testing.T) {
	cfg := quickConfig()
	cfg.DF.Hr = -1
	if _, err := New(cfg, NewRegistry(), nil); !errors.Is(err, dynamo.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}

	cfg = quickConfig()
	cfg.Potential = "kepler"
	if _, err := New(cfg, NewRegistry(), nil); err == nil {
		t.Error("expected error for unknown potential")
	}

	exp, err := New(quickConfig(), NewRegistry(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exp.DF().CutCounter() {
		t.Error("expected cut-counter from default config")
	}
	if got := exp.Radii(); len(got) != 3 || math.Abs(got[1]-1) > 1e-12 {
		t.Errorf("expected radii [0.8 1 1.2], got %v", got)
	}
	if got := len(exp.MomentOptions()); got != 3 {
		t.Errorf("expected 3 moment options, got %d", got)
	}
}

func TestProfile(t *testing.T) {
	exp, err := New(quickConfig(), NewRegistry(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := exp.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(p))
	}
	for i := 1; i < len(p); i++ {
		if p[i].Density >= p[i-1].Density {
			t.Errorf("expected density to fall with radius, got %v then %v", p[i-1].Density, p[i].Density)
		}
	}
}

func TestProfileCancelled(t *testing.T) {
	exp, err := New(quickConfig(), NewRegistry(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := exp.Profile(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(p) != 0 {
		t.Errorf("expected no rows, got %d", len(p))
	}
}
