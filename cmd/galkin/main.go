package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/galkin/internal/analysis"
	"github.com/san-kum/galkin/internal/config"
	"github.com/san-kum/galkin/internal/experiment"
	"github.com/san-kum/galkin/internal/optim"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/qdf"
	"github.com/san-kum/galkin/internal/storage"
	"github.com/san-kum/galkin/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	// DF and quadrature overrides; applied only when set explicitly.
	hr      float64
	sigmaR  float64
	sigmaZ  float64
	hsigmaR float64
	hsigmaZ float64
	potName string
	aaName  string
	delta   float64
	method  string
	ngl     int
	nmc     int
	seed    uint64
	noCut   bool

	// Evaluation point
	posR float64
	posZ float64

	// pv
	vMin float64
	vMax float64
	nV   int

	// sample
	nSamples int
	bins     int
	plot     bool

	// profile, fit, show
	runName    string
	fitParams  []string
	targetHr   float64
	targetHz   float64
	jsonOutput bool
)

var dfParams = []struct {
	name string
	val  *float64
}{
	{"hr", &hr}, {"sigma_r", &sigmaR}, {"sigma_z", &sigmaZ},
	{"hsigma_r", &hsigmaR}, {"hsigma_z", &hsigmaZ}, {"delta", &delta},
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "galkin",
		Short: "disk kinematics from a quasi-isothermal distribution function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunExplorer(experiment.NewRegistry())
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".galkin", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.Float64Var(&hr, "hr", config.DefaultHr, "radial scale length")
	pf.Float64Var(&sigmaR, "sigma_r", config.DefaultSigmaR, "radial dispersion at R=1")
	pf.Float64Var(&sigmaZ, "sigma_z", config.DefaultSigmaZ, "vertical dispersion at R=1")
	pf.Float64Var(&hsigmaR, "hsigma_r", config.DefaultHsigma, "radial dispersion scale length")
	pf.Float64Var(&hsigmaZ, "hsigma_z", config.DefaultHsigma, "vertical dispersion scale length")
	pf.StringVar(&potName, "potential", config.DefaultPotential, "potential")
	pf.StringVar(&aaName, "aa", config.DefaultActionAngle, "action-angle transform (adiabatic, staeckel)")
	pf.Float64Var(&delta, "delta", config.DefaultDelta, "staeckel focal length")
	pf.StringVar(&method, "method", "gl", "velocity integration (gl, mc)")
	pf.IntVar(&ngl, "ngl", 0, "gauss-legendre order (even)")
	pf.IntVar(&nmc, "nmc", 0, "monte carlo samples")
	pf.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.BoolVar(&noCut, "no-cut", false, "keep counter-rotating orbits")

	momentsCmd := &cobra.Command{
		Use:   "moments",
		Short: "velocity moments at (R, z)",
		RunE:  runMoments,
	}
	addPosition(momentsCmd)

	pvCmd := &cobra.Command{
		Use:   "pv [vR|vT|vz]",
		Short: "marginal velocity distribution at (R, z)",
		Args:  cobra.ExactArgs(1),
		RunE:  runPv,
	}
	addPosition(pvCmd)
	pvCmd.Flags().Float64Var(&vMin, "vmin", math.NaN(), "lowest velocity (default centre-4σ)")
	pvCmd.Flags().Float64Var(&vMax, "vmax", math.NaN(), "highest velocity (default centre+4σ)")
	pvCmd.Flags().IntVar(&nV, "n", 21, "number of velocities")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "draw velocities at (R, z)",
		RunE:  runSample,
	}
	addPosition(sampleCmd)
	sampleCmd.Flags().IntVar(&nSamples, "n", 1000, "number of samples")
	sampleCmd.Flags().IntVar(&bins, "bins", 0, "print a vT histogram with this many bins")
	sampleCmd.Flags().BoolVar(&plot, "plot", false, "scatter plot of vR against vT")

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "scale lengths recovered from the moments",
		RunE:  runEstimate,
	}
	addPosition(estimateCmd)

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "radial moment profile, saved as a run",
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&runName, "name", "profile", "run name")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "grid search DF parameters against target scale lengths",
		RunE:  runFit,
	}
	addPosition(fitCmd)
	fitCmd.Flags().StringSliceVar(&fitParams, "param", nil, "parameter grid name=lo:hi:n (repeatable)")
	fitCmd.Flags().Float64Var(&targetHr, "target-hr", 0, "target density scale length")
	fitCmd.Flags().Float64Var(&targetHz, "target-hz", 0, "target scale height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "export as JSON")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive moment explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunExplorer(experiment.NewRegistry())
		},
	}

	rootCmd.AddCommand(momentsCmd, pvCmd, sampleCmd, estimateCmd, profileCmd, fitCmd, listCmd, showCmd, presetsCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPosition(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&posR, "R", "R", 1, "galactocentric radius")
	cmd.Flags().Float64VarP(&posZ, "z", "z", 0, "height above the plane")
}

func setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig resolves the configuration: defaults, then the preset, then the
// config file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	for _, p := range dfParams {
		if !flags.Changed(p.name) {
			continue
		}
		if err := cfg.Set(p.name, *p.val); err != nil {
			return nil, err
		}
	}
	if flags.Changed("potential") {
		cfg.Potential = potName
	}
	if flags.Changed("aa") {
		cfg.ActionAngle.Name = aaName
	}
	if flags.Changed("method") {
		cfg.Quadrature.Method = method
	}
	if flags.Changed("ngl") {
		cfg.Quadrature.NGL = ngl
	}
	if flags.Changed("nmc") {
		cfg.Quadrature.NMC = nmc
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("no-cut") {
		cfg.DF.CutCounter = !noCut
	}

	return cfg, cfg.Validate()
}

func buildExperiment(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, experiment.NewRegistry(), slog.Default())
}

func runMoments(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := exp.DF().Moments(posR, posZ, exp.MomentOptions()...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	pot := exp.DF().Potential()
	vc, err := potential.Vcirc(pot, posR)
	if err != nil {
		return err
	}

	fmt.Printf("R=%.3f z=%.3f  %s  (%v)\n\n", posR, posZ, exp.Config().Quadrature.Method, elapsed.Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := []struct {
		name string
		val  float64
	}{
		{"density", m.Density},
		{"mean_vr", m.MeanVR}, {"mean_vt", m.MeanVT}, {"mean_vz", m.MeanVz},
		{"sigma_r2", m.SigmaR2}, {"sigma_t2", m.SigmaT2}, {"sigma_z2", m.Sigmaz2},
		{"sigma_rz", m.SigmaRz}, {"tilt", m.Tilt},
		{"mean_jr", m.MeanJr}, {"mean_lz", m.MeanLz}, {"mean_jz", m.MeanJz},
		{"vc", vc}, {"kz", -potential.EvaluatezForces(pot, posR, posZ)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s\t%12.6g\n", r.name, r.val)
	}
	return w.Flush()
}

func runPv(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd)
	if err != nil {
		return err
	}
	df := exp.DF()
	opts := exp.MarginalOptions()

	var (
		pv     func(v, R, z float64, opts ...qdf.MomentOption) (float64, error)
		centre float64
		scale  float64
	)
	sr, sz := df.Dispersions(posR)
	switch args[0] {
	case "vR", "vr":
		pv, scale = df.PvR, sr
	case "vT", "vt":
		pv, scale = df.PvT, sr
		if centre, err = df.MeanVT(posR, posZ, exp.MomentOptions()...); err != nil {
			return err
		}
	case "vz":
		pv, scale = df.Pvz, sz
	default:
		return fmt.Errorf("unknown component: %s (available: vR, vT, vz)", args[0])
	}

	lo, hi := vMin, vMax
	if math.IsNaN(lo) {
		lo = centre - 4*scale
	}
	if math.IsNaN(hi) {
		hi = centre + 4*scale
	}
	if nV < 2 || hi <= lo {
		return fmt.Errorf("invalid velocity grid: [%g, %g] with %d points", lo, hi, nV)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tp(%s)\n", args[0], args[0])
	for _, v := range floats.Span(make([]float64, nV), lo, hi) {
		val, err := pv(v, posR, posZ, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%.4f\t%.6g\n", v, val)
	}
	return w.Flush()
}

func runSample(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	samples, err := exp.DF().SampleV(posR, posZ, nSamples, nil)
	if err != nil {
		return err
	}
	fmt.Printf("drew %d velocities at R=%.3f z=%.3f in %v\n\n", len(samples), posR, posZ, time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, name := range []string{"vR", "vT", "vz"} {
		col := make([]float64, len(samples))
		for j, s := range samples {
			col[j] = s[i]
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, analysis.Summary(col))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if bins > 0 {
		h, err := analysis.VelocityHistogram(samples, 1, bins)
		if err != nil {
			return err
		}
		fmt.Println()
		printHistogram(h, 50)
	}

	if plot {
		fmt.Println()
		fmt.Print(analysis.ScatterToASCII(analysis.VelocityScatter(samples, 1, 0), 70, 20))
	}
	return nil
}

func printHistogram(h analysis.Histogram, width int) {
	peak := floats.Max(h.Counts)
	for i, c := range h.Counts {
		bar := 0
		if peak > 0 {
			bar = int(c / peak * float64(width))
		}
		fmt.Printf("  %7.3f  %s %d\n", h.Edges[i], strings.Repeat("█", bar), int(c))
	}
}

func runEstimate(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd)
	if err != nil {
		return err
	}
	df := exp.DF()
	opts := exp.MomentOptions()

	hrEst, err := df.EstimateHr(posR, &posZ, opts...)
	if err != nil {
		return err
	}
	zHz := hzHeight(cmd.Flags().Changed("z"), posZ)
	hzEst, err := df.EstimateHz(posR, zHz, opts...)
	if err != nil {
		return err
	}
	hsrEst, err := df.EstimateHsr(posR, posZ, opts...)
	if err != nil {
		return err
	}
	hszEst, err := df.EstimateHsz(posR, posZ, opts...)
	if err != nil {
		return err
	}

	p := df.Params()
	_, sz := df.Dispersions(posR)
	hzIso := qdf.IsothermalHz(df.Potential(), posR, sz, qdf.DefaultHzBound)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  QUANTITY\tESTIMATE\tINPUT")
	fmt.Fprintf(w, "  hr\t%.4f\t%.4f\n", hrEst, p.Hr)
	fmt.Fprintf(w, "  hz (z=%.3f)\t%.4f\t%.4f\n", zHz, hzEst, hzIso)
	fmt.Fprintf(w, "  hsigma_r\t%.4f\t%.4f\n", hsrEst, p.HsigmaR)
	fmt.Fprintf(w, "  hsigma_z\t%.4f\t%.4f\n", hszEst, p.HsigmaZ)
	return w.Flush()
}

// hzHeight is the height the scale height is estimated at. Without an
// explicit z it matches the bound of the isothermal reference.
func hzHeight(zSet bool, z float64) float64 {
	if !zSet {
		return qdf.DefaultHzBound
	}
	return z
}

func runProfile(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := exp.Config()
	fmt.Printf("profiling %d radii in [%.2f, %.2f] at z=%.2f...\n", cfg.Profile.NR, cfg.Profile.RMin, cfg.Profile.RMax, cfg.Profile.Z)
	start := time.Now()

	profile, err := exp.Profile(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(runName, cfg, profile)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n\n", runID)
	return printProfile(os.Stdout, profile)
}

func printProfile(out io.Writer, p analysis.Profile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, rec := range p.Table(4) {
		fmt.Fprintln(w, strings.Join(rec, "\t"))
	}
	return w.Flush()
}

// parseGrid reads name=lo:hi:n into an evenly spaced range.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid grid %q: want name=lo:hi:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid grid %q: want name=lo:hi:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("invalid grid %q: bad count", arg)
	}
	if n == 1 {
		return name, []float64{lo}, nil
	}
	return name, floats.Span(make([]float64, n), lo, hi), nil
}

func runFit(cmd *cobra.Command, args []string) error {
	if targetHr <= 0 && targetHz <= 0 {
		return errors.New("fit needs --target-hr or --target-hz")
	}
	if len(fitParams) == 0 {
		return errors.New("fit needs at least one --param")
	}

	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, len(fitParams))
	ranges := make([][]float64, len(fitParams))
	for i, arg := range fitParams {
		if names[i], ranges[i], err = parseGrid(arg); err != nil {
			return err
		}
	}

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		for name, v := range params {
			if err := cfg.Set(name, v); err != nil {
				return nil, err
			}
		}
		return experiment.New(&cfg, reg, slog.Default())
	}

	R, z := posR, posZ
	metric := func(ctx context.Context, exp *experiment.Experiment) (float64, error) {
		opts := exp.MomentOptions()
		score := 0.0
		if targetHr > 0 {
			h, err := exp.DF().EstimateHr(R, &z, opts...)
			if err != nil {
				return 0, err
			}
			score += math.Abs(h-targetHr) / targetHr
		}
		if targetHz > 0 {
			h, err := exp.DF().EstimateHz(R, z, opts...)
			if err != nil {
				return 0, err
			}
			score += math.Abs(h-targetHz) / targetHz
		}
		return score, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	best, score, err := optim.NewGridSearch(names, ranges).Search(ctx, build, metric)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("relative error: %.4f\n", score)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, best[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPOTENTIAL\tAA\tMETHOD\tHR\tSIGMA_R\tSIGMA_Z")

	for _, run := range runs {
		c := run.Config
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.3f\t%.3f\t%.3f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			c.Potential,
			c.ActionAngle.Name,
			c.Quadrature.Method,
			c.DF.Hr,
			c.DF.SigmaR,
			c.DF.SigmaZ,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	if jsonOutput {
		return st.ExportJSON(os.Stdout, runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profile, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s) at %s\n\n", meta.ID, meta.Name, meta.Timestamp.Format("2006-01-02 15:04:05"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, col := range analysis.Columns {
		if s, ok := meta.Summary[col]; ok {
			fmt.Fprintf(w, "  %s\t%s\n", col, s)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	return printProfile(os.Stdout, profile)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAA\tHR\tSIGMA_R\tSIGMA_Z\tHSIGMA_Z\tNGL")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%d\n",
			name, c.ActionAngle.Name, c.DF.Hr, c.DF.SigmaR, c.DF.SigmaZ, c.DF.HsigmaZ, c.Quadrature.NGL)
	}
	return w.Flush()
}
