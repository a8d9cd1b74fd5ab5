package wave

import "math"

// InitialCondition maps a position in the spatial domain to the
// initial value of a field at that position. Initial conditions are
// sampled at every mesh point when a Simulator is Reset; the initial
// height profile should vanish at the two domain boundaries to be
// compatible with the Dirichlet boundary conditions.
type InitialCondition func(x float64) float64

// Flat returns an initial condition that is zero everywhere. A
// simulator whose initial height and velocity are both Flat starts
// completely flat and at rest.
func Flat() InitialCondition {
	return func(x float64) float64 {
		return 0
	}
}

// Bump returns an initial condition shaped as a Gaussian bump of the
// given amplitude centred at center with standard deviation width
func Bump(center, width, amplitude float64) InitialCondition {
	return func(x float64) float64 {
		diff := (x - center) / width
		return amplitude * math.Exp(-0.5*diff*diff)
	}
}

// Sine returns an initial condition shaped as a standing-wave mode of
// the domain [0, length]: a sinusoid with the given amplitude and mode
// number that vanishes at both boundaries
func Sine(mode int, length, amplitude float64) InitialCondition {
	return func(x float64) float64 {
		return amplitude * math.Sin(float64(mode)*math.Pi*x/length)
	}
}
