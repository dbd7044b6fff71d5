package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
	"github.com/san-kum/spinsim/internal/sim"
	"github.com/san-kum/spinsim/internal/storage"
	"github.com/san-kum/spinsim/internal/tui"
	"github.com/san-kum/spinsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	jsonOut    bool
	noSave     bool
	live       bool

	seed      int64
	abundance float64
	cells     int
	ms        int

	fWeight  float64
	harmonic int

	clusterIdx int
	wDD        float64
	duration   float64
	advance    float64

	dipFloor float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinsim",
		Short: "central spin decoupling and gate synthesis lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	clusterCmd := &cobra.Command{
		Use:   "cluster",
		Short: "partition the nuclear bath and report cluster sizes",
		RunE:  runCluster,
	}
	addSampleFlags(clusterCmd)
	clusterCmd.Flags().BoolVar(&jsonOut, "json", false, "print report as json")

	pulsesCmd := &cobra.Command{
		Use:   "pulses",
		Short: "print the pulse schedule of a decoupling period",
		RunE:  runPulses,
	}
	pulsesCmd.Flags().Float64Var(&fWeight, "f", 0.06, "sequence fourier weight")
	pulsesCmd.Flags().IntVar(&harmonic, "k", 1, "sequence harmonic (1 or 3)")
	pulsesCmd.Flags().Float64Var(&advance, "advance", 0, "schedule phase advance, periods")

	coherenceCmd := &cobra.Command{
		Use:   "coherence",
		Short: "scan central-spin coherence over a frequency window",
		RunE:  runCoherence,
	}
	addSampleFlags(coherenceCmd)
	coherenceCmd.Flags().BoolVar(&live, "live", false, "watch the scan as it runs")
	coherenceCmd.Flags().BoolVar(&jsonOut, "json", false, "print result as json")
	coherenceCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run to the data directory")
	coherenceCmd.Flags().Float64Var(&dipFloor, "dip-floor", 0.9, "report dips below this coherence")

	fidelityCmd := &cobra.Command{
		Use:   "fidelity",
		Short: "sweep iswap gate fidelities over addressable nuclei",
		RunE:  runFidelity,
	}
	addSampleFlags(fidelityCmd)
	fidelityCmd.Flags().BoolVar(&jsonOut, "json", false, "print result as json")
	fidelityCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run to the data directory")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "propagate one cluster under a decoupling sequence",
		RunE:  runSimulate,
	}
	addSampleFlags(simulateCmd)
	simulateCmd.Flags().IntVar(&clusterIdx, "cluster", 0, "cluster index")
	simulateCmd.Flags().Float64Var(&wDD, "w-dd", 0, "sequence angular frequency (0 uses the larmor frequency)")
	simulateCmd.Flags().Float64Var(&fWeight, "f", 0.06, "sequence fourier weight")
	simulateCmd.Flags().IntVar(&harmonic, "k", 1, "sequence harmonic (1 or 3)")
	simulateCmd.Flags().Float64Var(&duration, "time", 0, "simulated duration, s (0 uses one period)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored coherence scan",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(clusterCmd, pulsesCmd, coherenceCmd, fidelityCmd,
		simulateCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusFailed.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addSampleFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 keeps the config value)")
	cmd.Flags().Float64Var(&abundance, "abundance", 0, "c13 abundance (0 keeps the config value)")
	cmd.Flags().IntVar(&cells, "cells", 0, "lattice half-width in cells (0 keeps the config value)")
	cmd.Flags().IntVar(&ms, "ms", 0, "electronic sublevel (+1 or -1, 0 keeps the config value)")
}

// loadConfig resolves preset, file and flag overrides in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if abundance != 0 {
		cfg.Abundance = abundance
	}
	if cells != 0 {
		cfg.Cells = cells
	}
	if ms != 0 {
		cfg.Ms = ms
	}
	return cfg, cfg.Validate()
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return err
	}
	res := &experiment.Result{Name: "cluster-report", Report: experiment.ReportClusters(sys)}

	if jsonOut {
		return storage.ExportJSON("-", storage.RunMetadata{Experiment: res.Name, Config: cfg}, res)
	}

	r := res.Report
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "nuclei\t%d\n", r.Nuclei)
	fmt.Fprintf(w, "clusters\t%d\n", r.Clusters)
	fmt.Fprintf(w, "largest\t%d\n", r.Largest)
	fmt.Fprintf(w, "larmor groups\t%d\n", r.Groups)
	return w.Flush()
}

func runPulses(cmd *cobra.Command, args []string) error {
	times, err := pulse.Times(fWeight, pulse.Harmonic(harmonic))
	if err != nil {
		return err
	}
	times = pulse.Advanced(times, advance)

	fmt.Println(viz.Title.Render("pulse schedule") + "  " +
		viz.Subtle.Render(fmt.Sprintf("k=%d f=%g", harmonic, fWeight)))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, t := range times {
		kind := "pulse"
		if i == 0 || i == len(times)-1 {
			kind = "edge"
		}
		fmt.Fprintf(w, "%d\t%.6f\t%s\n", i, t, kind)
	}
	return w.Flush()
}

func runCoherence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return err
	}

	var res *experiment.Result
	if live {
		start, end, scanTime := experiment.ScanWindow(cfg)
		sig, done, err := tui.RunScan(sys, analysis.ScanConfig{
			Start:    start,
			End:      end,
			Points:   cfg.Scan.Points,
			Harmonic: pulse.Harmonic(cfg.KDD),
			F:        cfg.Scan.F,
			ScanTime: scanTime,
		})
		if err != nil {
			return err
		}
		if !done {
			logrus.Warn("scan aborted, keeping partial curve")
		}
		res = &experiment.Result{Name: "coherence-scan", Signal: sig}
	} else {
		run, err := experiment.NewRegistry().Get("coherence-scan")
		if err != nil {
			return err
		}
		if res, err = run(context.Background(), cfg, sys); err != nil {
			return err
		}
	}

	if jsonOut {
		return storage.ExportJSON("-", storage.RunMetadata{Experiment: res.Name, Config: cfg}, res)
	}

	fmt.Println(viz.PlotSignal(res.Signal))
	fmt.Println(viz.FormatDips(res.Signal, dipFloor))
	return saveRun(cfg, res)
}

func runFidelity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return err
	}

	run, err := experiment.NewRegistry().Get("fidelity-sweep")
	if err != nil {
		return err
	}
	res, err := run(context.Background(), cfg, sys)
	if err != nil {
		return err
	}

	if jsonOut {
		return storage.ExportJSON("-", storage.RunMetadata{Experiment: res.Name, Config: cfg}, res)
	}

	fmt.Println(viz.FormatFidelities(res.Fidelities))
	return saveRun(cfg, res)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return err
	}
	if clusterIdx < 0 || clusterIdx >= len(sys.Clusters) {
		return fmt.Errorf("cluster %d out of range (%d clusters)", clusterIdx, len(sys.Clusters))
	}

	w := wDD
	if w == 0 {
		start, end, _ := experiment.ScanWindow(cfg)
		w = (start + end) / 2 / float64(cfg.KDD)
	}
	dur := duration
	if dur == 0 {
		dur = 2 * math.Pi / w
	}

	u, err := sim.New(sys).Propagator(context.Background(), clusterIdx, w, fWeight,
		pulse.Harmonic(harmonic), sim.ControlFields{}, dur, 0)
	if err != nil {
		return err
	}

	// report the propagator as its largest pauli components
	n := qmath.Qubits(u)
	coeffs := qmath.Decompose(u)
	fmt.Println(viz.Title.Render("propagator") + "  " +
		viz.Subtle.Render(fmt.Sprintf("cluster %d, %d qubits, %.4g s", clusterIdx, n, dur)))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for p, c := range coeffs {
		if real(c)*real(c)+imag(c)*imag(c) < 1e-6 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%+.6f%+.6fi\n", qmath.BasisLabel(p, n), real(c), imag(c))
	}
	return tw.Flush()
}

func saveRun(cfg *config.Config, res *experiment.Result) error {
	if noSave {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg, res)
	if err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("saved " + runID))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(viz.Subtle.Render("no stored runs"))
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\texperiment\ttime")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Experiment, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	freqs, coherence, err := store.LoadSignal(args[0])
	if err != nil {
		return err
	}
	sig := &analysis.Signal{Freqs: freqs, Coherence: coherence}
	fmt.Println(viz.PlotSignal(sig))
	fmt.Println(viz.PlotSpectrum(sig))
	return nil
}
