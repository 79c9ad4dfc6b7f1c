package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gaussiancl/internal/analysis"
	"github.com/san-kum/gaussiancl/internal/config"
	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/legendre"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/san-kum/gaussiancl/internal/storage"
	"github.com/san-kum/gaussiancl/internal/transforms"
	"github.com/san-kum/gaussiancl/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runSolve(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	history := metrics.NewHistory()
	start := time.Now()
	res, err := p.solver(history).Solve(ctx, p.target)
	if err != nil && res == nil {
		return err
	}
	elapsed := time.Since(start)

	residuals := history.Residuals()
	fmt.Println(viz.RenderResult(viz.Report{
		Transform: p.transform.Name(),
		Target:    p.target,
		Result:    res,
		Residuals: residuals,
		Order:     analysis.ConvergenceOrder(residuals),
	}))
	fmt.Printf("completed in %v\n", elapsed)

	if dev, verr := verify(p, res); verr == nil {
		fmt.Printf("max relative deviation of T(gl) from target: %.3e\n", dev)
	}

	if err != nil {
		return err
	}
	if save {
		runID, err := saveRun(p, res, residuals)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

// verify maps the solution forward at the working length and compares it
// with the target.
func verify(p *problem, res *solver.Result) (float64, error) {
	pair, err := legendre.Shared.Get(res.Length)
	if err != nil {
		return 0, err
	}
	m := len(p.target)
	fwd := solver.BandLimit(pair, res.Spectrum.Pad(res.Length-m), p.transform, gcl.Mode{})
	got := fwd[:m]
	if p.solverCfg.Monopole != nil {
		got[0] = p.target[0]
	}
	return analysis.RelativeError(got, p.target), nil
}

func saveRun(p *problem, res *solver.Result, residuals []float64) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.Run{
		Transform: p.transform.Name(),
		Params:    p.cfg.Params,
		Config:    p.solverCfg,
		Target:    p.target,
		Result:    res,
		Residuals: residuals,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	// keep log output from tearing the TUI
	logger = zap.NewNop()

	tick := time.Duration(tickMs) * time.Millisecond
	model := viz.NewLiveModel(p.solver(nil), p.target, tick)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	lm, ok := final.(viz.LiveModel)
	if !ok || !saveLive {
		return nil
	}
	res := lm.Result()
	if res == nil {
		return nil
	}
	runID, err := saveRun(p, res, lm.Residuals())
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ids := args
	if len(ids) == 0 {
		for tr := range config.Presets {
			for _, name := range config.ListPresets(tr) {
				ids = append(ids, tr+"/"+name)
			}
		}
		sort.Strings(ids)
	}

	probs := make([]*problem, len(ids))
	histories := make([]*metrics.History, len(ids))
	batch := make([]solver.Problem, len(ids))
	for i, id := range ids {
		tr, name, ok := config.ParsePreset(id)
		if !ok {
			return fmt.Errorf("invalid preset id %q, want transform/name", id)
		}
		cfg := config.GetPreset(tr, name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", id)
		}
		p, err := buildProblem(cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		probs[i] = p
		histories[i] = metrics.NewHistory()
		batch[i] = solver.Problem{
			Name:      id,
			Target:    p.target,
			Transform: p.transform,
			Options: []solver.Option{
				solver.WithConfig(p.solverCfg),
				solver.WithObserver(histories[i]),
			},
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := solver.NewBatch(parallel, solver.WithLogger(logger)).Run(ctx, batch)
	if err != nil {
		return err
	}
	logger.Info("batch finished", zap.Int("problems", len(batch)), zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tSTATUS\tCODE\tITER\tRESIDUAL\tRUN")
	for i, res := range results {
		runID := "-"
		if saveBatch {
			if runID, err = saveRun(probs[i], res, histories[i].Residuals()); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3e\t%s\n",
			ids[i], res.Status, res.Code(), res.Iterations, res.Residual, runID)
	}
	return w.Flush()
}

func runApply(cmd *cobra.Command, args []string) error {
	params, err := config.ParseFloats(paramsFlag)
	if err != nil {
		return fmt.Errorf("--params: %w", err)
	}
	cfg := &config.Config{Transform: args[0], Params: params}
	t, err := cfg.Build(transforms.Default)
	if err != nil {
		return err
	}
	cl, err := spectrumFromFlags()
	if err != nil {
		return err
	}
	if len(cl) == 0 {
		return gcl.ErrEmptySpectrum
	}

	m := len(cl)
	n := length
	if n == 0 {
		n = m
	}
	if n < m {
		return fmt.Errorf("%w: n=%d, m=%d", gcl.ErrInvalidLength, n, m)
	}
	pair, err := legendre.Shared.Get(n)
	if err != nil {
		return err
	}

	mode := gcl.Mode{Inv: inverse, Der: derivative}
	out := solver.BandLimit(pair, gcl.Spectrum(cl).Pad(n-m), t, mode)[:m]

	fmt.Printf("# %s %s, n=%d\n", t.Name(), mode, n)
	return printSpectrum(cl, out, "input", "output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cl, err := spectrumFromFlags()
	if err != nil {
		return err
	}
	n := length
	if n == 0 {
		n = len(cl)
	}
	if n < len(cl) {
		return fmt.Errorf("%w: n=%d, m=%d", gcl.ErrInvalidLength, n, len(cl))
	}
	pair, err := legendre.Shared.Get(n)
	if err != nil {
		return err
	}

	var out []float64
	switch args[0] {
	case "ln2n":
		out, err = analysis.LogNormalToNormal(pair, cl, alpha, alpha2)
	case "n2ln":
		out, err = analysis.NormalToLogNormal(pair, cl, alpha, alpha2)
	default:
		return fmt.Errorf("unknown conversion: %s (want ln2n or n2ln)", args[0])
	}
	if err != nil {
		return err
	}
	return printSpectrum(cl, out[:len(cl)], "input", "output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	params, err := config.ParseFloats(paramsFlag)
	if err != nil {
		return fmt.Errorf("--params: %w", err)
	}
	cfg := &config.Config{Transform: args[0], Params: params}
	t, err := cfg.Build(transforms.Default)
	if err != nil {
		return err
	}

	x := analysis.Samples(checkLo, checkHi, 201)
	fmt.Printf("transform: %s\n", t.Name())
	if c, ok := t.(gcl.Configurable); ok {
		keys := make([]string, 0)
		for k := range c.Params() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s = %g\n", k, c.Params()[k])
		}
	}
	fmt.Printf("range: [%g, %g]\n", checkLo, checkHi)
	fmt.Printf("round trip error:  %.3e\n", analysis.RoundTrip(t, x))
	fmt.Printf("derivative error:  %.3e\n", analysis.DerivativeCheck(t, x, fdStep))
	return nil
}

func listTransforms(cmd *cobra.Command, args []string) error {
	for _, name := range transforms.Default.Names() {
		fmt.Println(name)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	groups := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		groups = append(groups, args[0])
	} else {
		for tr := range config.Presets {
			groups = append(groups, tr)
		}
		sort.Strings(groups)
	}

	for _, tr := range groups {
		presets := config.ListPresets(tr)
		if len(presets) == 0 {
			fmt.Printf("no presets for transform: %s\n", tr)
			continue
		}
		fmt.Printf("presets for %s:\n", tr)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
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
	fmt.Fprintln(w, "ID\tTRANSFORM\tTIME\tM\tN\tSTATUS\tITER\tRESIDUAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%.3e\n",
			run.ID,
			run.Transform,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Multipoles,
			run.Length,
			run.Status,
			run.Iterations,
			run.Residual,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	target, gaussian, err := st.LoadSpectra(runID)
	if err != nil {
		return err
	}
	if len(target) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("transform: %s %v\n", meta.Transform, meta.Params)
	fmt.Printf("status: %s after %d iterations\n\n", meta.Status, meta.Iterations)

	fmt.Println(viz.PlotSpectra(target, gaussian, 80, 15))
	if len(meta.Residuals) > 1 {
		fmt.Println()
		fmt.Println(viz.PlotResiduals(meta.Residuals, 80, 10))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func printSpectrum(in, out []float64, inName, outName string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "ell\t%s\t%s\t\n", inName, outName)
	for ell := range out {
		fmt.Fprintf(w, "%d\t%.8e\t%.8e\t\n", ell, in[ell], out[ell])
	}
	return w.Flush()
}
