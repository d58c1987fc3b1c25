package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/fractal"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/render"
	"github.com/san-kum/chaoslab/internal/storage"
	"github.com/san-kum/chaoslab/internal/sweep"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	dataDir    string
	configFile string
	outPath    string

	// Fractal parameters
	realMin  float64
	realMax  float64
	imagMin  float64
	imagMax  float64
	centerX  float64
	centerY  float64
	zoom     float64
	width    int
	height   int
	maxIter  int
	colormap string
	smooth   bool
	region   string

	// Pendulum parameters
	system     string
	damping    float64
	theta1     float64
	theta2     float64
	omega1     float64
	omega2     float64
	m1         float64
	m2         float64
	l1         float64
	l2         float64
	gravity    float64
	dt         float64
	duration   float64
	integrator string
	preset     string

	// Divergence / analysis
	epsilon   float64
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chaoslab",
		Short: "visualization lab for chaotic systems",
		Long:  "chaoslab renders the Mandelbrot set and simulates the double pendulum,\nthe two classic demonstrations of deterministic chaos.",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaoslab", "data directory")

	fractalCmd := &cobra.Command{
		Use:   "fractal",
		Short: "render the Mandelbrot set to a PNG",
		RunE:  runFractal,
	}
	fractalCmd.Flags().Float64Var(&realMin, "real-min", -2.0, "real axis minimum")
	fractalCmd.Flags().Float64Var(&realMax, "real-max", 0.5, "real axis maximum")
	fractalCmd.Flags().Float64Var(&imagMin, "imag-min", -1.2, "imaginary axis minimum")
	fractalCmd.Flags().Float64Var(&imagMax, "imag-max", 1.2, "imaginary axis maximum")
	fractalCmd.Flags().Float64Var(&centerX, "center-x", 0, "window center, real part (with --zoom)")
	fractalCmd.Flags().Float64Var(&centerY, "center-y", 0, "window center, imaginary part (with --zoom)")
	fractalCmd.Flags().Float64Var(&zoom, "zoom", 0, "zoom level; overrides explicit bounds")
	fractalCmd.Flags().IntVar(&width, "width", 800, "image width in pixels")
	fractalCmd.Flags().IntVar(&height, "height", 800, "image height in pixels")
	fractalCmd.Flags().IntVar(&maxIter, "iters", 200, "maximum iterations")
	fractalCmd.Flags().StringVar(&colormap, "colormap", "fire", "colormap name")
	fractalCmd.Flags().BoolVar(&smooth, "smooth", false, "smooth (fractional) escape counts")
	fractalCmd.Flags().StringVar(&region, "region", "", "landmark region preset")
	fractalCmd.Flags().StringVar(&outPath, "out", "mandelbrot.png", "output path")
	fractalCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	regionsCmd := &cobra.Command{
		Use:   "regions",
		Short: "list landmark regions of the Mandelbrot set",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range fractal.RegionNames() {
				p, _ := fractal.Region(name)
				fmt.Printf("  %-10s re [%g, %g]  im [%g, %g]\n", name, p.RealMin, p.RealMax, p.ImagMin, p.ImagMax)
			}
		},
	}

	pendulumCmd := &cobra.Command{
		Use:   "pendulum",
		Short: "simulate a pendulum and save the run",
		Long:  "Simulates the chaotic double pendulum (default) or the single pendulum,\nits non-chaotic counterpart, and saves the trajectory as a run.",
		RunE:  runPendulum,
	}
	addPendulumFlags(pendulumCmd)
	addSystemFlags(pendulumCmd)
	pendulumCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	pendulumCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the double pendulum in the terminal",
		RunE:  runLive,
	}
	addPendulumFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "write PNG plots (angles and phase portrait) for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outPath, "out", ".", "output directory")

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "write an animated GIF of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  animateRun,
	}
	animateCmd.Flags().StringVar(&outPath, "out", "pendulum.gif", "output path")

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "export the pendulum tip path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}
	traceCmd.Flags().StringVar(&outPath, "out", "trace.svg", "output path")

	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "twin-run sensitive-dependence demo",
		Long:  "Runs two pendulums with initial angles epsilon apart and plots the\nlog separation over time, plus a Lyapunov exponent estimate.\nWith --system single the same demo shows the contrast: separations\nstay bounded because the single pendulum is not chaotic.",
		RunE:  runDiverge,
	}
	addPendulumFlags(divergeCmd)
	addSystemFlags(divergeCmd)
	divergeCmd.Flags().Float64Var(&epsilon, "epsilon", 1e-8, "initial angle offset")
	divergeCmd.Flags().StringVar(&outPath, "out", "divergence.png", "output path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same double pendulum",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addPendulumFlags(compareCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	chaosmapCmd := &cobra.Command{
		Use:   "chaosmap",
		Short: "render a flip-time map over initial angles",
		Long:  "Sweeps a grid of (theta1, theta2) starting angles and color-maps the\ntime until an arm first flips over the top. The fractal boundary between\nflipping and non-flipping regions is the pendulum's chaos made visible.",
		RunE:  runChaosmap,
	}
	chaosmapCmd.Flags().Float64Var(&realMin, "theta1-min", -3.0, "theta1 range minimum")
	chaosmapCmd.Flags().Float64Var(&realMax, "theta1-max", 3.0, "theta1 range maximum")
	chaosmapCmd.Flags().Float64Var(&imagMin, "theta2-min", -3.0, "theta2 range minimum")
	chaosmapCmd.Flags().Float64Var(&imagMax, "theta2-max", 3.0, "theta2 range maximum")
	chaosmapCmd.Flags().IntVar(&width, "res", 400, "grid resolution per axis")
	chaosmapCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	chaosmapCmd.Flags().Float64Var(&duration, "time", 10.0, "per-cell time budget")
	chaosmapCmd.Flags().StringVar(&colormap, "colormap", "fire", "colormap name")
	chaosmapCmd.Flags().StringVar(&outPath, "out", "chaosmap.png", "output path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list pendulum presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.PendulumPresetNames() {
				cfg, _ := config.PendulumPreset(name)
				fmt.Printf("  %-12s theta=(%.2f, %.2f)  dt=%.3f  duration=%.0fs\n",
					name, cfg.Theta1, cfg.Theta2, cfg.Dt, cfg.Duration)
			}
		},
	}

	rootCmd.AddCommand(fractalCmd, regionsCmd, pendulumCmd, liveCmd, listCmd,
		plotCmd, renderCmd, animateCmd, traceCmd, divergeCmd, analyzeCmd,
		compareCmd, chaosmapCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPendulumFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&theta1, "theta1", 1.5, "initial angle of first arm")
	cmd.Flags().Float64Var(&theta2, "theta2", 1.5, "initial angle of second arm")
	cmd.Flags().Float64Var(&omega1, "omega1", 0.0, "initial angular velocity of first arm")
	cmd.Flags().Float64Var(&omega2, "omega2", 0.0, "initial angular velocity of second arm")
	cmd.Flags().Float64Var(&m1, "m1", 1.0, "first bob mass")
	cmd.Flags().Float64Var(&m2, "m2", 1.0, "second bob mass")
	cmd.Flags().Float64Var(&l1, "l1", 1.0, "first rod length")
	cmd.Flags().Float64Var(&l2, "l2", 1.0, "second rod length")
	cmd.Flags().Float64Var(&gravity, "g", 9.81, "gravitational acceleration")
	cmd.Flags().Float64Var(&dt, "dt", 0.005, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 20.0, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&system, "system", "double", "pendulum system (double or single)")
	cmd.Flags().Float64Var(&damping, "damping", 0.0, "damping coefficient (single pendulum only)")
}

func runFractal(cmd *cobra.Command, args []string) error {
	params := fractal.Params{
		Plane:   fractal.Plane{RealMin: realMin, RealMax: realMax, ImagMin: imagMin, ImagMax: imagMax},
		Width:   width,
		Height:  height,
		MaxIter: maxIter,
		Smooth:  smooth,
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fc := cfg.Fractal
		if !cmd.Flags().Changed("real-min") {
			params.Plane = fractal.Plane{RealMin: fc.RealMin, RealMax: fc.RealMax, ImagMin: fc.ImagMin, ImagMax: fc.ImagMax}
		}
		if !cmd.Flags().Changed("width") {
			params.Width = fc.Width
		}
		if !cmd.Flags().Changed("height") {
			params.Height = fc.Height
		}
		if !cmd.Flags().Changed("iters") {
			params.MaxIter = fc.MaxIter
		}
		if !cmd.Flags().Changed("colormap") {
			colormap = fc.Colormap
		}
		if !cmd.Flags().Changed("smooth") {
			params.Smooth = fc.Smooth
		}
	}

	if region != "" {
		p, ok := fractal.Region(region)
		if !ok {
			return fmt.Errorf("unknown region: %s (available: %v)", region, fractal.RegionNames())
		}
		params.Plane = p
	}
	if zoom > 0 {
		params.Plane = fractal.PlaneAround(centerX, centerY, zoom)
	}

	cmap, err := render.LookupColormap(colormap)
	if err != nil {
		return err
	}

	fmt.Printf("computing %dx%d escape-count field (max %d iterations)...\n", params.Width, params.Height, params.MaxIter)
	start := time.Now()

	field, err := fractal.Evaluate(params)
	if err != nil {
		return err
	}

	img := render.FieldImage(field, cmap)
	if err := render.WritePNG(outPath, img); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// pendulumFromFlags resolves preset, config file, and CLI flags into a
// system and run configuration. CLI flags take priority, then the config
// file, then the preset.
func pendulumFromFlags(cmd *cobra.Command) (*physics.DoublePendulum, dynamo.Config, []float64, error) {
	pc := config.DefaultConfig().Pendulum

	if preset != "" {
		p, ok := config.PendulumPreset(preset)
		if !ok {
			return nil, dynamo.Config{}, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.PendulumPresetNames())
		}
		pc = p
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, dynamo.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
		}
		pc = cfg.Pendulum
	}

	apply := func(flag string, dst *float64, val float64) {
		if cmd.Flags().Changed(flag) {
			*dst = val
		}
	}
	apply("theta1", &pc.Theta1, theta1)
	apply("theta2", &pc.Theta2, theta2)
	apply("omega1", &pc.Omega1, omega1)
	apply("omega2", &pc.Omega2, omega2)
	apply("m1", &pc.M1, m1)
	apply("m2", &pc.M2, m2)
	apply("l1", &pc.L1, l1)
	apply("l2", &pc.L2, l2)
	apply("g", &pc.Gravity, gravity)
	apply("dt", &pc.Dt, dt)
	apply("time", &pc.Duration, duration)
	if cmd.Flags().Changed("integrator") {
		pc.Integrator = integrator
	}
	integrator = pc.Integrator
	dt = pc.Dt
	duration = pc.Duration

	dp := physics.NewDoublePendulum()
	dp.M1, dp.M2 = pc.M1, pc.M2
	dp.L1, dp.L2 = pc.L1, pc.L2
	dp.Gravity = pc.Gravity
	if err := dp.Validate(); err != nil {
		return nil, dynamo.Config{}, nil, err
	}

	runCfg := dynamo.DefaultConfig()
	runCfg.Dt = pc.Dt
	runCfg.Duration = pc.Duration

	return dp, runCfg, pc.InitState(), nil
}

// simTarget is what a runnable pendulum system must provide: dynamics,
// an energy report, and inspectable parameters.
type simTarget interface {
	dynamo.System
	dynamo.Hamiltonian
	dynamo.Configurable
}

// singleFromFlags builds the single pendulum from CLI flags. Presets and
// config files describe the double pendulum and do not apply here.
func singleFromFlags(cmd *cobra.Command) (*physics.Pendulum, dynamo.Config, []float64, error) {
	if preset != "" || configFile != "" {
		return nil, dynamo.Config{}, nil, fmt.Errorf("presets and config files describe the double pendulum; use flags with --system single")
	}

	p := physics.NewPendulum()
	p.Mass = m1
	p.Length = l1
	p.Damping = damping
	p.Gravity = gravity

	if p.Mass <= 0 || p.Length <= 0 || p.Gravity <= 0 {
		return nil, dynamo.Config{}, nil, fmt.Errorf("mass, length and gravity must be positive")
	}
	if p.Damping < 0 {
		return nil, dynamo.Config{}, nil, fmt.Errorf("damping must be non-negative, got %f", p.Damping)
	}
	if dt <= 0 || duration <= 0 {
		return nil, dynamo.Config{}, nil, fmt.Errorf("dt and time must be positive")
	}

	runCfg := dynamo.DefaultConfig()
	runCfg.Dt = dt
	runCfg.Duration = duration

	return p, runCfg, []float64{theta1, omega1}, nil
}

// systemFromFlags resolves --system into a runnable target plus its
// storage name, run configuration, and initial state.
func systemFromFlags(cmd *cobra.Command) (simTarget, string, dynamo.Config, []float64, error) {
	switch system {
	case "double":
		dp, runCfg, initState, err := pendulumFromFlags(cmd)
		return dp, "double_pendulum", runCfg, initState, err
	case "single":
		p, runCfg, initState, err := singleFromFlags(cmd)
		return p, "pendulum", runCfg, initState, err
	default:
		return nil, "", dynamo.Config{}, nil, fmt.Errorf("unknown system: %s (double or single)", system)
	}
}

func runPendulum(cmd *cobra.Command, args []string) error {
	target, name, runCfg, initState, err := systemFromFlags(cmd)
	if err != nil {
		return err
	}

	integ, err := integrators.New(integrator)
	if err != nil {
		return err
	}

	sim := dynamo.New(target, integ)
	sim.AddMetric(metrics.NewMeanEnergy(target))
	sim.AddMetric(metrics.NewEnergyDrift(target))

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, err := sim.Run(context.Background(), initState, runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := st.Save(name, runCfg.Dt, runCfg.Duration, integrator, target.GetParams(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.2e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	dp, runCfg, initState, err := pendulumFromFlags(cmd)
	if err != nil {
		return err
	}

	integ, err := integrators.New(integrator)
	if err != nil {
		return err
	}

	m := viz.NewModel(dp, integ, initState, runCfg.Dt, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

var stateCaptions = map[string][]string{
	"double_pendulum": {
		"theta1 (first angle)",
		"theta2 (second angle)",
		"omega1 (first angular velocity)",
		"omega2 (second angular velocity)",
	},
	"pendulum": {
		"theta (angle)",
		"omega (angular velocity)",
	},
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}

		caption := fmt.Sprintf("x%d vs time", varIdx)
		if captions := stateCaptions[meta.System]; varIdx < len(captions) {
			caption = captions[varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) < 4 {
		return fmt.Errorf("run %s has no pendulum trajectory", meta.ID)
	}

	col := func(idx int) []float64 {
		out := make([]float64, len(states))
		for i := range states {
			out[i] = states[i][idx]
		}
		return out
	}

	anglesPath := filepath.Join(outPath, meta.ID+"_angles.png")
	if err := render.TimeSeriesPlot(anglesPath, "double pendulum angles", "angle (rad)", times,
		render.Series{Label: "theta1", Values: col(0)},
		render.Series{Label: "theta2", Values: col(1)},
	); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", anglesPath)

	phasePath := filepath.Join(outPath, meta.ID+"_phase.png")
	if err := render.PhasePlot(phasePath, "phase portrait", "theta1 (rad)", "omega1 (rad/s)", col(0), col(2)); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", phasePath)

	return nil
}

// loadPendulum rebuilds the system a run was recorded with.
func loadPendulum(meta *storage.RunMetadata) *physics.DoublePendulum {
	dp := physics.NewDoublePendulum()
	for name, val := range meta.Params {
		_ = dp.SetParam(name, val)
	}
	return dp
}

func animateRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) < 4 {
		return fmt.Errorf("run %s is not a double pendulum trajectory", meta.ID)
	}

	result := &dynamo.Result{Times: times, States: make([]dynamo.State, len(states))}
	for i, s := range states {
		result.States[i] = s
	}

	dp := loadPendulum(meta)
	if err := render.AnimateGIF(outPath, dp, result, render.DefaultAnimateOptions()); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d states)\n", outPath, len(states))
	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("run %s too short to trace", meta.ID)
	}
	if len(states[0]) < 4 {
		return fmt.Errorf("run %s is not a double pendulum trajectory", meta.ID)
	}

	dp := loadPendulum(meta)
	points := make([]render.Point, len(states))
	for i, s := range states {
		_, _, x2, y2 := dp.Positions(s)
		points[i] = render.Point{X: x2, Y: y2}
	}

	svg := render.TrajectoryToSVG(points, 800, 800, "#00ff88")
	if err := render.WriteSVG(outPath, svg); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runDiverge(cmd *cobra.Command, args []string) error {
	target, name, runCfg, initState, err := systemFromFlags(cmd)
	if err != nil {
		return err
	}
	if epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", epsilon)
	}

	integA, err := integrators.New(integrator)
	if err != nil {
		return err
	}

	fmt.Printf("running twin %s simulations (epsilon=%g)...\n", name, epsilon)
	times, sep := analysis.Separation(target, integA, initState, epsilon, runCfg.Dt, runCfg.Duration)

	if err := render.LogSeparationPlot(outPath, "trajectory separation", times, sep); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)

	integB, err := integrators.New(integrator)
	if err != nil {
		return err
	}
	lambda := analysis.LyapunovExponent(target, integB, initState, runCfg.Dt, runCfg.Duration, epsilon)
	fmt.Printf("largest lyapunov exponent estimate: %.4f\n", lambda)
	if lambda > 0 {
		fmt.Println("positive exponent: motion is chaotic for these initial conditions")
	} else {
		fmt.Println("non-positive exponent: nearby trajectories do not diverge")
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][0]
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (theta1)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Duration)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	dp, runCfg, initState, err := pendulumFromFlags(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (dt=%.4f, duration=%.1fs)\n\n", runCfg.Dt, runCfg.Duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "final_theta1", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 54))

	for _, name := range args {
		integ, err := integrators.New(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		sim := dynamo.New(dp, integ)

		start := time.Now()
		result, err := sim.Run(context.Background(), initState, runCfg)
		elapsed := time.Since(start)

		if err != nil && !errors.Is(err, dynamo.ErrUnstable) {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		finalTheta := 0.0
		if len(result.States) > 0 {
			finalTheta = result.States[len(result.States)-1][0]
		}
		note := ""
		if err != nil {
			note = "  (unstable)"
		}

		fmt.Printf("%-12s  %12.6f  %12.2e  %12.2f%s\n",
			name, finalTheta, result.EnergyDrift, float64(elapsed.Microseconds())/1000, note)
	}

	return nil
}

func runChaosmap(cmd *cobra.Command, args []string) error {
	dp := physics.NewDoublePendulum()

	grid := sweep.Grid{
		Theta1Min: realMin, Theta1Max: realMax,
		Theta2Min: imagMin, Theta2Max: imagMax,
		Resolution: width,
		Dt:         dt,
		Duration:   duration,
	}

	cmap, err := render.LookupColormap(colormap)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %dx%d initial conditions (%.1fs budget each)...\n", width, width, duration)
	start := time.Now()

	m, err := sweep.FlipMap(context.Background(), dp, grid)
	if err != nil {
		return err
	}

	img, err := render.HeatmapImage(m.FlipTimes, m.Resolution, m.Resolution, m.Duration, cmap)
	if err != nil {
		return err
	}
	if err := render.WritePNG(outPath, img); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, states, times)
}
