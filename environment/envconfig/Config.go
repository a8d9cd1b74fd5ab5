// Package envconfig provides configuration structs for constructing
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/gowave/environment"
	"github.com/samuelfneumann/gowave/environment/wave"
	ts "github.com/samuelfneumann/gowave/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Wave EnvName = "Wave"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment		Task
//	Wave			Calm
//					Excite
type TaskName string

// Tasks available for configuration
const (
	Calm   TaskName = "Calm"
	Excite TaskName = "Excite"
)

// Default physical parameters of the wave environment
var defaultWave = wave.Config{
	TimeInterval:     0.01,
	WaveSpeed:        1.0,
	SystemLength:     1.0,
	NumLatticePoints: 100,
	NumForcePoints:   3,
	ForceWidth:       0.05,
}

// DefaultGoalEnergy is the energy below which the Calm task considers
// the medium becalmed
const DefaultGoalEnergy float64 = 1e-4

// Config implements a specific configuration of a specific environment
// and specific task
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff uint
	Discount      float64

	// Physics overrides the default physical parameters of the
	// environment when non-zero
	Physics wave.Config

	// GoalEnergy overrides DefaultGoalEnergy for the Calm task when
	// non-zero
	GoalEnergy float64
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	discount float64) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case Wave:
		return c.createWave(seed)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: no such environment %v",
		c.Environment)
}

// createWave returns the wave environment with the task described by
// the Config
func (c Config) createWave(seed uint64) (env.Environment, ts.TimeStep,
	error) {
	physics := c.Physics
	if physics == (wave.Config{}) {
		physics = defaultWave
	}

	goalEnergy := c.GoalEnergy
	if goalEnergy == 0 {
		goalEnergy = DefaultGoalEnergy
	}

	// A zero cutoff would time every episode out on its first step
	if c.EpisodeCutoff == 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("createWave: episode cutoff "+
			"must be positive, got %v", c.EpisodeCutoff)
	}
	cutoff := int(c.EpisodeCutoff)

	var task env.Task
	switch c.Task {
	case Calm:
		// Calm episodes start on a randomly placed bump that the agent
		// must flatten
		starter := env.NewUniformStarter([]r1.Interval{
			{Min: -wave.StartAmplitudeBound, Max: wave.StartAmplitudeBound},
			{Min: 0.2, Max: 0.8},
		}, seed)
		task = wave.NewCalm(starter, cutoff, goalEnergy)

	case Excite:
		// Excite episodes start completely flat and at rest
		starter := env.NewConstantStarter([]float64{0, 0.5})
		task = wave.NewExcite(starter, cutoff)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createWave: no such task %v",
			c.Task)
	}

	return wave.NewContinuous(task, physics, c.Discount)
}
