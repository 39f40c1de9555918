// Package freq provides frequency-domain transforms of image planes: the
// 2D discrete Fourier transform with spectrum visualization and ideal
// filtering, and the 2D discrete cosine transform with coefficient-drop
// compression.
//
// The DFT is computed separably with 1D FFT plans from the algo-fft
// library, which requires power-of-two lengths; OptimalSize and the
// zero-padding in DFT handle arbitrary input dimensions, mirroring the
// getOptimalDFTSize step of the Fourier demo. The DCT uses precomputed
// cosine basis tables, trading speed for the exact textbook formulation.
package freq
