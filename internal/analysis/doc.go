// Package analysis evaluates simulated experiments: coherence scans of
// the nuclear bath under decoupling sequences, gate fidelity sweeps over
// addressable nuclei, and spectral post-processing of scan signals.
package analysis
