package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform via radix-2 Cooley-Tukey.
// The input length must be a power of two; use PadPow2 first.
func FFT(data []float64) []complex128 {
	buf := make([]complex128, len(data))
	for i, v := range data {
		buf[i] = complex(v, 0)
	}
	fftInPlace(buf)
	return buf
}

func fftInPlace(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = buf[2*i]
		odd[i] = buf[2*i+1]
	}

	fftInPlace(even)
	fftInPlace(odd)

	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		buf[k] = even[k] + w*odd[k]
		buf[k+n/2] = even[k] - w*odd[k]
	}
}

// PadPow2 zero-pads data up to the next power of two.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == len(data) {
		return data
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}

// PowerSpectrum returns |FFT| for the first half of the spectrum, padding
// the input to a power of two as needed.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(PadPow2(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the peak frequency (in Hz) of the spectrum of
// a series sampled over the given total duration, ignoring the DC bin.
func DominantFrequency(data []float64, duration float64) float64 {
	if duration <= 0 || len(data) < 2 {
		return 0
	}

	ps := PowerSpectrum(data)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}

	return float64(maxIdx) / duration
}
