// Package viz renders experiment results for the terminal: ascii plots
// of coherence curves and spectra, and the shared lipgloss styles of the
// CLI and the live view.
package viz
