// Package analysis turns distribution-function moments and velocity samples
// into tables and summaries.
//
//   - [RowAt]: every moment at one (R, z) as a [Row]
//   - [Profile]: rows over a radial grid, with CSV records and columns
//   - [Summary]: mean, standard deviation and range of a column
//   - [VelocityHistogram]: binned counts of one velocity component
//   - [VelocityScatter]: a two-component velocity plane for plotting
//
// # Profiles
//
// A profile is usually produced by an experiment sweep and then summarised:
//
//	p, _ := exp.Profile(ctx)
//	vt, _ := p.Column("mean_vt")
//	fmt.Println(analysis.Summary(vt))
package analysis
