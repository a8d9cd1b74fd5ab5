package wave

import (
	"math"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/gowave/environment"
	ts "github.com/samuelfneumann/gowave/timestep"
)

// Calm implements a task where the agent must damp the waves on the
// medium using the pistons. Rewards are the negation of the augmented
// internal energy of the medium, so that the agent maximizes reward by
// driving the medium towards flat and at rest as quickly as possible.
//
// Episodes end when the energy falls below a goal threshold or at a
// step limit.
type Calm struct {
	env.Starter
	sim         *Simulator
	stepLimit   env.Ender
	energyLimit env.Ender
	goalEnergy  float64
	registered  bool
}

// NewCalm creates and returns a new Calm task. Episodes end with a
// terminal state once the energy of the registered simulator falls
// below goalEnergy, or with a timeout after maxSteps steps.
func NewCalm(s env.Starter, maxSteps int, goalEnergy float64) *Calm {
	return &Calm{
		Starter:    s,
		stepLimit:  env.NewStepLimit(maxSteps),
		goalEnergy: goalEnergy,
	}
}

// Register registers a Simulator with the task so that rewards and
// episode ends can be computed from the simulator's energy. Register
// must be called before the task is used.
func (c *Calm) Register(sim *Simulator) {
	c.sim = sim
	c.energyLimit = env.NewFunctionEnder(func(mat.Vector) bool {
		return sim.Energy() < c.goalEnergy
	}, ts.TerminalStateReached)
	c.registered = true
}

// GetReward returns the reward for the transition to the simulator's
// current state: the negated energy of the medium
func (c *Calm) GetReward(_, _, _ mat.Vector) float64 {
	if !c.registered {
		panic("getReward: no Simulator registered with task")
	}
	return -c.sim.Energy()
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType and EndType and returns true.
func (c *Calm) End(t *ts.TimeStep) bool {
	if !c.registered {
		panic("end: no Simulator registered with task")
	}
	if end := c.energyLimit.End(t); end {
		return true
	}
	return c.stepLimit.End(t)
}

// AtGoal returns whether or not the medium has been calmed below the
// goal energy
func (c *Calm) AtGoal(_ mat.Matrix) bool {
	if !c.registered {
		panic("atGoal: no Simulator registered with task")
	}
	return c.sim.Energy() < c.goalEnergy
}

// Min returns the minimum possible reward
func (c *Calm) Min() float64 {
	return math.Inf(-1)
}

// Max returns the maximum possible reward
func (c *Calm) Max() float64 {
	return 0.0
}

// RewardSpec returns the reward specification of the Task
func (c *Calm) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{c.Min()})
	upperBound := mat.NewVecDense(1, []float64{c.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// Excite implements a task where the agent must pump as much energy
// into the medium as possible using the pistons. Rewards are the
// augmented internal energy of the medium. Episodes end at a step
// limit only.
type Excite struct {
	env.Starter
	sim        *Simulator
	stepLimit  env.Ender
	registered bool
}

// NewExcite creates and returns a new Excite task
func NewExcite(s env.Starter, maxSteps int) *Excite {
	return &Excite{
		Starter:   s,
		stepLimit: env.NewStepLimit(maxSteps),
	}
}

// Register registers a Simulator with the task so that rewards can be
// computed from the simulator's energy. Register must be called before
// the task is used.
func (e *Excite) Register(sim *Simulator) {
	e.sim = sim
	e.registered = true
}

// GetReward returns the reward for the transition to the simulator's
// current state: the energy of the medium
func (e *Excite) GetReward(_, _, _ mat.Vector) float64 {
	if !e.registered {
		panic("getReward: no Simulator registered with task")
	}
	return e.sim.Energy()
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType and EndType and returns true.
func (e *Excite) End(t *ts.TimeStep) bool {
	return e.stepLimit.End(t)
}

// AtGoal returns whether or not the current state is a goal state.
// Excite has no goal states.
func (e *Excite) AtGoal(_ mat.Matrix) bool {
	return false
}

// Min returns the minimum possible reward
func (e *Excite) Min() float64 {
	return 0.0
}

// Max returns the maximum possible reward
func (e *Excite) Max() float64 {
	return math.Inf(1)
}

// RewardSpec returns the reward specification of the Task
func (e *Excite) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{e.Min()})
	upperBound := mat.NewVecDense(1, []float64{e.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
