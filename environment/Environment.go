// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gowave/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when environmental episodes end
type Ender interface {
	// End checks whether a TimeStep is the last in an episode. If so,
	// End adjusts the TimeStep's StepType to timestep.Last, sets its
	// EndType to the appropriate ending reason, and returns true.
	// Otherwise, the TimeStep is left unmodified and End returns false.
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme, start-state distribution, and
// episode termination conditions for acting in some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action in state,
	// resulting in a transition to nextState
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether or not state is a goal state of the Task
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64

	// RewardSpec returns the reward specification of the Task
	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task to
// complete
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first timestep of the new episode
	Reset() timestep.TimeStep

	// Step takes one environmental step given some action, returning
	// the next timestep and whether it is the last in the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool)

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
