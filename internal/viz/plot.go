package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinsim/internal/analysis"
)

// PlotSignal renders a coherence curve over its frequency window.
func PlotSignal(sig *analysis.Signal) string {
	if len(sig.Coherence) == 0 {
		return Subtle.Render("(empty signal)")
	}
	caption := fmt.Sprintf("coherence, %.4g .. %.4g rad/s",
		sig.Freqs[0], sig.Freqs[len(sig.Freqs)-1])
	return asciigraph.Plot(sig.Coherence,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// PlotSpectrum renders the power spectrum of a coherence curve.
func PlotSpectrum(sig *analysis.Signal) string {
	ps := analysis.PowerSpectrum(sig.Coherence)
	if len(ps) == 0 {
		return Subtle.Render("(empty signal)")
	}
	return asciigraph.Plot(ps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
}

// FormatDips lists the resonance dips of a signal.
func FormatDips(sig *analysis.Signal, floor float64) string {
	dips := sig.Dips(floor)
	if len(dips) == 0 {
		return Subtle.Render("no dips below " + fmt.Sprintf("%.2f", floor))
	}
	var b strings.Builder
	for _, idx := range dips {
		b.WriteString(fmt.Sprintf("  %s %s  %s %s\n",
			MetricLabel.Render("freq"),
			MetricValue.Render(fmt.Sprintf("%.6g rad/s", sig.Freqs[idx])),
			MetricLabel.Render("coherence"),
			MetricValue.Render(fmt.Sprintf("%.4f", sig.Coherence[idx]))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFidelities lists per-nucleus gate fidelities with a bar each.
func FormatFidelities(fids []analysis.Fidelity) string {
	if len(fids) == 0 {
		return Subtle.Render("no addressable nuclei")
	}
	var b strings.Builder
	for _, f := range fids {
		b.WriteString(fmt.Sprintf("  %s %-4d %s %s\n",
			MetricLabel.Render("nucleus"), f.Index,
			ProgressBar(f.Fidelity, 30),
			MetricValue.Render(fmt.Sprintf("%.4f", f.Fidelity))))
	}
	return strings.TrimRight(b.String(), "\n")
}
