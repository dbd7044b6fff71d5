package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data by radix-2
// decimation. The length must be a power of two; pad with [PadPow2]
// first when it is not.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PadPow2 right-pads data with its last value up to the next power of
// two.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == len(data) {
		return data
	}
	out := make([]float64, n)
	copy(out, data)
	fill := 0.0
	if len(data) > 0 {
		fill = data[len(data)-1]
	}
	for i := len(data); i < n; i++ {
		out[i] = fill
	}
	return out
}

// PowerSpectrum returns the magnitude of the positive-frequency half of
// the transform of data.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(PadPow2(data))
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Dips returns the indices of local minima of the coherence curve that
// fall below the given floor, the signature of a bath resonance.
func (s *Signal) Dips(floor float64) []int {
	var dips []int
	for i := 1; i < len(s.Coherence)-1; i++ {
		c := s.Coherence[i]
		if c >= floor {
			continue
		}
		if c <= s.Coherence[i-1] && c < s.Coherence[i+1] {
			dips = append(dips, i)
		}
	}
	return dips
}

// Min returns the index and value of the deepest point of the curve.
func (s *Signal) Min() (int, float64) {
	idx, min := 0, math.Inf(1)
	for i, c := range s.Coherence {
		if c < min {
			idx, min = i, c
		}
	}
	return idx, min
}
