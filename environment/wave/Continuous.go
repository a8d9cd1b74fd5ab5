package wave

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/gowave/environment"
	ts "github.com/samuelfneumann/gowave/timestep"
	"github.com/samuelfneumann/gowave/utils/matutils"
)

const (
	// ForceBound bounds (+/-) the legal piston force values of the
	// Continuous environment. Actions outside this range are clipped.
	ForceBound float64 = 2.0

	// StartAmplitudeBound bounds (+/-) the amplitude of the starting
	// bump sampled by a Starter
	StartAmplitudeBound float64 = 0.5

	// StartWidth is the standard deviation of the starting bump as a
	// fraction of the domain length
	StartWidth float64 = 0.05

	// StartFeatures is the number of features a Starter must sample
	// for this environment: the amplitude of the starting bump and its
	// centre as a fraction of the domain length
	StartFeatures int = 2
)

// Registerer is a Task that must be registered with a Simulator before
// use
type Registerer interface {
	Register(*Simulator)
}

// Continuous implements the 1-dimensional wave equation environment
// with continuous actions. The medium is a string of some length held
// at zero at both ends. A number of pistons sit at fixed, evenly
// spaced positions strictly inside the domain, and on each step the
// agent chooses a signed force value per piston; each piston injects a
// Gaussian-shaped force of that magnitude into the field update.
// Forces persist until overwritten by the next action.
//
// State observations are continuous and consist of the solution field
// at the three stored time levels, flattened in mesh-major order from
// the (1, Nx+1, 3) tensor of the underlying Simulator: entry 3*i+c of
// the observation is channel c of mesh point i. Channel 0 is the
// newest level, channel 2 the level before it; differencing them over
// the time interval recovers the field velocity.
//
// Actions are continuous and NumForcePoints-dimensional. Actions are
// bounded by [-ForceBound, ForceBound], and actions outside this
// region are clipped to stay within it.
//
// Episodes begin with the medium at rest, with the initial height
// profile determined by the Task's Starter: a Gaussian bump whose
// amplitude and centre fraction are the two sampled start features. A
// zero sampled amplitude starts the medium completely flat.
//
// Continuous implements the environment.Environment interface
type Continuous struct {
	env.Task
	sim          *Simulator
	lastStep     ts.TimeStep
	discount     float64
	actionBounds r1.Interval
}

// NewContinuous creates and returns a new Continuous environment
// backed by a Simulator with the given physical configuration. If the
// Task is a Registerer, the backing Simulator is registered with it.
func NewContinuous(t env.Task, config Config,
	discount float64) (*Continuous, ts.TimeStep, error) {
	sim, err := New(config)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	if r, ok := t.(Registerer); ok {
		r.Register(sim)
	}

	wave := &Continuous{
		Task:         t,
		sim:          sim,
		discount:     discount,
		actionBounds: r1.Interval{Min: -ForceBound, Max: ForceBound},
	}
	firstStep := wave.Reset()

	return wave, firstStep, nil
}

// Simulator returns the Simulator backing the environment
func (c *Continuous) Simulator() *Simulator {
	return c.sim
}

// Reset resets the environment between episodes. The starting height
// profile is drawn from the Task's Starter and the simulator is
// returned to rest on it.
func (c *Continuous) Reset() ts.TimeStep {
	start := c.Start()
	validateStart(start)

	amplitude := start.AtVec(0)
	center := start.AtVec(1) * c.sim.Length()

	if amplitude == 0 {
		c.sim.SetInitialConditions(Flat(), Flat())
	} else {
		width := StartWidth * c.sim.Length()
		c.sim.SetInitialConditions(Bump(center, width, amplitude), Flat())
	}
	c.sim.Reset()

	startStep := ts.New(ts.First, 0, c.discount, c.observationVec(), 0)
	c.lastStep = startStep

	return startStep
}

// Step takes one environmental step given action a and returns the
// next timestep and a bool indicating whether or not the episode has
// ended. Actions are NumForcePoints-dimensional and continuous,
// consisting of the signed force value to apply at each piston site.
// Actions outside the legal range of [-ForceBound, ForceBound] are
// clipped to stay within this range.
func (c *Continuous) Step(action *mat.VecDense) (ts.TimeStep, bool) {
	if action.Len() != c.sim.NumForcePoints() {
		panic(fmt.Sprintf("step: actions should be %v-dimensional",
			c.sim.NumForcePoints()))
	}

	// Clip the action to the legal range of piston forces
	matutils.VecClip(action, c.actionBounds.Min, c.actionBounds.Max)

	if err := c.sim.ApplyAction(action); err != nil {
		panic(fmt.Sprintf("step: %v", err))
	}
	c.sim.Step()

	nextState := c.observationVec()
	reward := c.GetReward(c.lastStep.Observation, action, nextState)
	nextStep := ts.New(ts.Mid, reward, c.discount, nextState,
		c.lastStep.Number+1)

	c.End(&nextStep)
	c.lastStep = nextStep

	return nextStep, nextStep.Last()
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (c *Continuous) LastTimeStep() ts.TimeStep {
	return c.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Continuous) ObservationSpec() env.Spec {
	features := 3 * (c.sim.NumLatticePoints() + 1)
	shape := mat.NewVecDense(features, nil)

	lower := make([]float64, features)
	upper := make([]float64, features)
	for i := range upper {
		lower[i] = -math.MaxFloat64
		upper[i] = math.MaxFloat64
	}
	lowerBound := mat.NewVecDense(features, lower)
	upperBound := mat.NewVecDense(features, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (c *Continuous) ActionSpec() env.Spec {
	dims := c.sim.NumForcePoints()
	shape := mat.NewVecDense(dims, nil)

	lower := make([]float64, dims)
	upper := make([]float64, dims)
	for i := 0; i < dims; i++ {
		lower[i] = c.actionBounds.Min
		upper[i] = c.actionBounds.Max
	}
	lowerBound := mat.NewVecDense(dims, lower)
	upperBound := mat.NewVecDense(dims, upper)

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (c *Continuous) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{c.discount})
	upperBound := mat.NewVecDense(1, []float64{c.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

// String converts the environment to a string representation
func (c *Continuous) String() string {
	str := "Continuous  |  t: %v  |  energy: %v  |  height:\n%v\n"
	return fmt.Sprintf(str, c.sim.T(), c.sim.Energy(),
		matutils.Format(c.sim.Height()))
}

// observationVec flattens the simulator's (1, Nx+1, 3) observation
// tensor into the vector consumed through TimeSteps
func (c *Continuous) observationVec() *mat.VecDense {
	data := c.sim.Observation().Data().([]float64)
	return mat.NewVecDense(len(data), data)
}

// validateStart validates a sampled start state, ensuring the starting
// bump lies strictly inside the domain
func validateStart(start mat.Vector) {
	if start.Len() != StartFeatures {
		panic(fmt.Sprintf("start states should have %v features",
			StartFeatures))
	}

	center := start.AtVec(1)
	if center < 0 || center > 1 {
		panic(fmt.Sprintf("start centre fraction %v is not within [0, 1]",
			center))
	}
}
