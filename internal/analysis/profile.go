package analysis

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/qdf"
)

// Columns names the fields of a [Row] in CSV order.
var Columns = []string{"R", "z", "density", "mean_vt", "sigma_r2", "sigma_t2", "sigma_z2", "sigma_rz", "tilt"}

// Row holds the moments at one position.
type Row struct {
	R       float64 `json:"R"`
	Z       float64 `json:"z"`
	Density float64 `json:"density"`
	MeanVT  float64 `json:"mean_vt"`
	SigmaR2 float64 `json:"sigma_r2"`
	SigmaT2 float64 `json:"sigma_t2"`
	Sigmaz2 float64 `json:"sigma_z2"`
	SigmaRz float64 `json:"sigma_rz"`
	Tilt    float64 `json:"tilt"`
}

func (r Row) values() []float64 {
	return []float64{r.R, r.Z, r.Density, r.MeanVT, r.SigmaR2, r.SigmaT2, r.Sigmaz2, r.SigmaRz, r.Tilt}
}

func rowFromValues(v []float64) Row {
	return Row{R: v[0], Z: v[1], Density: v[2], MeanVT: v[3], SigmaR2: v[4], SigmaT2: v[5], Sigmaz2: v[6], SigmaRz: v[7], Tilt: v[8]}
}

// RowAt computes all moments at (R, z) from a single velocity grid.
func RowAt(df *qdf.DF, R, z float64, opts ...qdf.MomentOption) (Row, error) {
	m, err := df.Moments(R, z, opts...)
	if err != nil {
		return Row{}, err
	}
	return Row{
		R: R, Z: z,
		Density: m.Density,
		MeanVT:  m.MeanVT,
		SigmaR2: m.SigmaR2,
		SigmaT2: m.SigmaT2,
		Sigmaz2: m.Sigmaz2,
		SigmaRz: m.SigmaRz,
		Tilt:    m.Tilt,
	}, nil
}

// Profile is an ordered set of rows, usually at increasing R.
type Profile []Row

// Column returns one named field of every row.
func (p Profile) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown profile column: %s", name)
	}
	out := make([]float64, len(p))
	for i, r := range p {
		out[i] = r.values()[idx]
	}
	return out, nil
}

// Records renders the profile with a header row, for CSV output.
func (p Profile) Records() [][]string {
	return p.format('g', -1)
}

// Table renders the profile with a header row and prec decimal places.
func (p Profile) Table(prec int) [][]string {
	return p.format('f', prec)
}

func (p Profile) format(verb byte, prec int) [][]string {
	records := make([][]string, 0, len(p)+1)
	records = append(records, slices.Clone(Columns))
	for _, r := range p {
		vals := r.values()
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = strconv.FormatFloat(v, verb, prec, 64)
		}
		records = append(records, rec)
	}
	return records
}

// ParseRecords reads records written by [Profile.Records].
func ParseRecords(records [][]string) (Profile, error) {
	if len(records) == 0 {
		return Profile{}, nil
	}
	if len(records[0]) != len(Columns) {
		return nil, fmt.Errorf("%w: profile header has %d columns", dynamo.ErrShape, len(records[0]))
	}

	p := make(Profile, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(Columns) {
			return nil, fmt.Errorf("%w: profile row %d has %d columns", dynamo.ErrShape, i+1, len(rec))
		}
		vals := make([]float64, len(rec))
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("profile row %d, %s: %w", i+1, Columns[j], err)
			}
			vals[j] = v
		}
		p = append(p, rowFromValues(vals))
	}
	return p, nil
}
