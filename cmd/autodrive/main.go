package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/config"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/export"
	"github.com/san-kum/autodrive/internal/integrators"
	"github.com/san-kum/autodrive/internal/metrics"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/optim"
	"github.com/san-kum/autodrive/internal/routine"
	"github.com/san-kum/autodrive/internal/sim"
	"github.com/san-kum/autodrive/internal/storage"
	"github.com/san-kum/autodrive/internal/tui"
	"github.com/san-kum/autodrive/internal/vision"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	seed       int64
	jamWheel   int
	runs       int
	verbose    bool
	jsonOut    bool
	speed      float64
	// calibrate
	calDistance float64
	calSamples  int
	// list
	listRoutine string
	listOutcome string
	listLimit   int
	// tune
	tuneParams []string
	// export-path, export-chart
	pathOut    string
	pathWidth  float64
	pathHeight float64
)

// Field half extents around the start line, inches.
const (
	fieldHalfWidth  = 162.0
	fieldHalfLength = 324.0
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autodrive",
		Short: "autonomous routines on a simulated robot",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run [routine]",
		Short: "run a routine (built-in name or yaml file)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRoutine,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "repeat under consecutive noise seeds")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every missed vision frame")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the full result as json")

	liveCmd := &cobra.Command{
		Use:   "live [routine]",
		Short: "run a routine with a live field view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed, 0 for unpaced")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&listRoutine, "routine", "", "only runs of this routine")
	listCmd.Flags().StringVar(&listOutcome, "outcome", "", "only runs with this outcome (finished, timed_out, cancelled)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "at most this many runs")

	exportChartCmd := &cobra.Command{
		Use:   "export-chart [run_id]",
		Short: "write an interactive HTML chart of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportChart,
	}
	exportChartCmd.Flags().StringVarP(&pathOut, "output", "o", "", "output file (default stdout)")

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run index from the data directory",
		Args:  cobra.NoArgs,
		RunE:  reindexRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's pose over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	routinesCmd := &cobra.Command{
		Use:   "routines",
		Short: "list built-in routines and step types",
		RunE:  listRoutines,
	}

	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "measure the camera focal constant at a known distance",
		Args:  cobra.NoArgs,
		RunE:  runCalibrate,
	}
	addSimFlags(calibrateCmd)
	calibrateCmd.Flags().Float64Var(&calDistance, "distance", 60, "distance from the target, inches")
	calibrateCmd.Flags().IntVar(&calSamples, "samples", vision.DefaultCalibrationSamples, "frames to average")

	tuneCmd := &cobra.Command{
		Use:   "tune [routine]",
		Short: "grid-search settings for the fastest finish",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil,
		"axis as name=lo:hi:n or name=v1,v2 (repeatable; one of "+strings.Join(config.Tunables(), ", ")+")")

	exportPathCmd := &cobra.Command{
		Use:   "export-path [run_id]",
		Short: "draw a run's path across the field (svg, png or pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPath,
	}
	exportPathCmd.Flags().StringVarP(&pathOut, "output", "o", "", "output file, format from extension (default svg to stdout)")
	exportPathCmd.Flags().Float64Var(&pathWidth, "width", 6, "image width, inches")
	exportPathCmd.Flags().Float64Var(&pathHeight, "height", 8, "image height, inches")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, reindexCmd, plotCmd, exportJSONCmd, exportPathCmd, exportChartCmd, presetsCmd, routinesCmd, calibrateCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time budget, seconds")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().Int64Var(&seed, "seed", 0, "sensor noise seed")
	cmd.Flags().IntVar(&jamWheel, "jam", -1, "jam one wheel motor (0-3)")
}

// loadConfig layers defaults, preset, config file, environment and then
// any flags set on the command line.
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
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("jam") {
		cfg.Robot.JamWheel = jamWheel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func routineName(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Routine
}

// session is one routine compiled against one simulated robot.
type session struct {
	sim *sim.Simulator
	seq *command.Sequence
}

func newSession(cfg *config.Config, rt *routine.Routine, extra monitoring.Sink) (*session, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	robot := routine.NewWorld(cfg, integ)
	s := sim.New(robot)
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewPathLength())
	s.AddMetric(metrics.NewHeadingDrift())
	s.AddMetric(metrics.NewInBounds(fieldHalfWidth, fieldHalfLength))

	env := routine.NewEnv(robot, cfg, monitoring.Tee(s.Events(), extra))
	seq, err := routine.NewRegistry().Build(env, rt)
	if err != nil {
		return nil, fmt.Errorf("routine %s: %w", rt.Name, err)
	}
	return &session{sim: s, seq: seq}, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed}
}

func runInfo(cfg *config.Config, name string) storage.RunInfo {
	return storage.RunInfo{
		Routine:    name,
		Preset:     preset,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Seed:       cfg.Seed,
		Integrator: cfg.Integrator,
	}
}

func runRoutine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := routine.Resolve(routineName(cfg, args))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, cfg, rt)
	}

	sess, err := newSession(cfg, rt, monitoring.LogSink{Verbose: verbose})
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("running %s...\n", rt.Name)
	}
	start := time.Now()
	result, err := sess.sim.Run(ctx, sess.seq, simConfig(cfg))
	if result == nil {
		return err
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	if jsonOut {
		return storage.ExportJSON(os.Stdout, runInfo(cfg, rt.Name), result)
	}
	return report(cfg, rt.Name, result, elapsed)
}

func report(cfg *config.Config, name string, result *sim.Result, elapsed time.Duration) error {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runInfo(cfg, name), result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("outcome: %s after %d ticks (%.2fs)\n", result.Outcome, result.Ticks, float64(result.Ticks)*cfg.Dt)
	if len(final) > sim.StateHeading {
		fmt.Printf("final pose: x=%.2f y=%.2f heading=%.2f°\n",
			final[sim.StateX], final[sim.StateY], drive.Degrees(final[sim.StateHeading]))
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	if len(result.Events) > 0 {
		fmt.Printf("\nevents: %d\n", len(result.Events))
	}
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, rt *routine.Routine) error {
	trial := func(s int64) (*sim.Simulator, command.Command, error) {
		c := *cfg
		c.Seed = s
		sess, err := newSession(&c, rt, nil)
		if err != nil {
			return nil, nil, err
		}
		return sess.sim, sess.seq, nil
	}

	fmt.Printf("running %s x%d...\n", rt.Name, runs)
	results, err := sim.NewEnsemble(trial, runs, cfg.Seed).Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tOUTCOME\tTICKS\tX\tY\tHEADING")
	var finished []float64
	for i, r := range results {
		final := r.Final()
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			cfg.Seed+int64(i), r.Outcome, r.Ticks,
			final[sim.StateX], final[sim.StateY], drive.Degrees(final[sim.StateHeading]))
		if r.Outcome == sim.OutcomeFinished {
			finished = append(finished, float64(r.Ticks)*cfg.Dt)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nfinished: %d/%d\n", len(finished), len(results))
	if len(finished) > 1 {
		mean, std := stat.MeanStdDev(finished, nil)
		fmt.Printf("time: %.2fs ± %.2fs\n", mean, std)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := routine.Resolve(routineName(cfg, args))
	if err != nil {
		return err
	}

	live := tui.NewLive(rt.Name, cfg.Duration, cfg.Vision.TargetX, cfg.Vision.TargetY)
	live.Speed = speed

	sess, err := newSession(cfg, rt, live.Sink())
	if err != nil {
		return err
	}

	// the alt screen owns the terminal until the view closes
	logf := monitoring.Logf
	monitoring.SetLogger(nil)
	result, err := live.Run(context.Background(), sess.sim, sess.seq, simConfig(cfg))
	monitoring.SetLogger(logf)
	if result == nil || result.Outcome == sim.OutcomeCancelled {
		fmt.Println("run cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	return report(cfg, rt.Name, result, 0)
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.Query(storage.Filter{Routine: listRoutine, Outcome: listOutcome, Limit: listLimit})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTINE\tTIME\tOUTCOME\tTICKS\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Routine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Ticks,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

func reindexRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, err := storage.New(cfg.DataDir).Reindex()
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d runs\n", n)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("routine: %s (%s)\n", meta.Routine, meta.Outcome)
	fmt.Printf("samples: %d\n\n", len(states))

	captions := []string{"x (in)", "y (in)", "heading (deg)"}
	for idx, caption := range captions {
		data := make([]float64, len(states))
		for i := range states {
			if idx < len(states[i]) {
				data[i] = states[i][idx]
			}
		}
		if idx == sim.StateHeading {
			for i := range data {
				data[i] = drive.Degrees(data[i])
			}
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

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return storage.New(cfg.DataDir).ExportRun(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tROUTINE\tSTART\tTIME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t(%.0f, %.0f) %.0f°\t%.0fs\n",
			name, p.Routine, p.Start.X, p.Start.Y, p.Start.Heading, p.Duration)
	}
	return w.Flush()
}

func listRoutines(cmd *cobra.Command, args []string) error {
	for _, name := range routine.ListBuiltins() {
		rt, err := routine.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", rt.Name, rt.Description)
		for i, step := range rt.Steps {
			fmt.Printf("  %2d. %s", i+1, step.Type)
			if step.Slot != "" {
				fmt.Printf(" [%s]", step.Slot)
			}
			for k, v := range step.Params {
				fmt.Printf(" %s=%g", k, v)
			}
			fmt.Println()
		}
	}
	fmt.Printf("\nstep types: %s\n", strings.Join(routine.NewRegistry().ListSteps(), ", "))
	return nil
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if calDistance <= 0 {
		return fmt.Errorf("distance must be positive, got %v", calDistance)
	}
	cfg.Start = config.StartConfig{X: cfg.Vision.TargetX, Y: cfg.Vision.TargetY - calDistance}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}
	robot := routine.NewWorld(cfg, integ)
	s := sim.New(robot)

	cal := vision.NewCalibration(robot, calSamples)
	cal.Sink = monitoring.Tee(s.Events(), monitoring.LogSink{})
	result, err := s.Run(context.Background(), cal, simConfig(cfg))
	if err != nil {
		return err
	}

	r := cal.Result()
	fmt.Printf("samples: %d (%s)\n", r.Count, result.Outcome)
	if r.Count == 0 {
		return fmt.Errorf("target never seen from %.1f in", calDistance)
	}
	fmt.Printf("separation: %.3f px (dx %.3f ± %.3f, dy %.3f ± %.3f)\n",
		r.Separation, r.MeanX, r.StdDevX, r.MeanY, r.StdDevY)
	fmt.Printf("focal distance: %.2f (configured %.2f)\n",
		r.Focal(calDistance, cfg.Vision.TargetSeparation), cfg.Vision.FocalDistance)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := routine.Resolve(routineName(cfg, args))
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("no --param given")
	}

	var names []string
	var ranges [][]float64
	for _, p := range tuneParams {
		name, vals, err := optim.ParseAxis(p)
		if err != nil {
			return err
		}
		if _, err := cfg.Get(name); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// time to finish; runs that never finish score +Inf
	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		c := *cfg
		for name, v := range params {
			if err := c.Set(name, v); err != nil {
				return 0, err
			}
		}
		if err := c.Validate(); err != nil {
			return 0, err
		}
		sess, err := newSession(&c, rt, nil)
		if err != nil {
			return 0, err
		}
		result, err := sess.sim.Run(ctx, sess.seq, simConfig(&c))
		if err != nil {
			return 0, err
		}
		if result.Outcome != sim.OutcomeFinished {
			return math.Inf(1), nil
		}
		return float64(result.Ticks) * c.Dt, nil
	}

	fmt.Printf("tuning %s over %d points...\n", rt.Name, grid.Size())
	logf := monitoring.Logf
	monitoring.SetLogger(nil)
	res, err := grid.Search(ctx, objective)
	monitoring.SetLogger(logf)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated: %d, failed: %d\n", res.Evaluated, res.Failed)
	if res.Params == nil || math.IsInf(res.Value, 1) {
		fmt.Println("no setting finished the routine")
		return nil
	}
	fmt.Printf("best time: %.2fs\n", res.Value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, res.Params[name])
	}
	return nil
}

func exportPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if pathWidth <= 0 || pathHeight <= 0 {
		return fmt.Errorf("image size must be positive, got %vx%v", pathWidth, pathHeight)
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	opts := export.DefaultPathOptions()
	opts.Title = fmt.Sprintf("%s (%s)", meta.Routine, meta.Outcome)
	opts.Width, opts.Height = vg.Length(pathWidth)*vg.Inch, vg.Length(pathHeight)*vg.Inch
	opts.Target = &export.Point{X: cfg.Vision.TargetX, Y: cfg.Vision.TargetY}
	path := export.PathFromStates(states)

	if pathOut == "" {
		return export.WritePath(os.Stdout, path, opts, "svg")
	}
	format := strings.TrimPrefix(filepath.Ext(pathOut), ".")
	f, err := os.Create(pathOut)
	if err != nil {
		return err
	}
	if err := export.WritePath(f, path, opts, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", pathOut)
	return nil
}

func exportChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s)", meta.Routine, meta.Outcome)
	if pathOut == "" {
		return export.WriteChart(os.Stdout, title, times, states)
	}
	f, err := os.Create(pathOut)
	if err != nil {
		return err
	}
	if err := export.WriteChart(f, title, times, states); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", pathOut)
	return nil
}
