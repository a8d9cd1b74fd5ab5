package environment

import "gonum.org/v1/gonum/mat"

// ConstantStarter starts an environment in a single, fixed state
type ConstantStarter struct {
	state *mat.VecDense
}

// NewConstantStarter returns a new ConstantStarter which always starts
// episodes in the state described by features
func NewConstantStarter(features []float64) ConstantStarter {
	state := make([]float64, len(features))
	copy(state, features)

	return ConstantStarter{mat.NewVecDense(len(state), state)}
}

// Start returns the starting state
func (c ConstantStarter) Start() mat.Vector {
	return mat.VecDenseCopyOf(c.state)
}
