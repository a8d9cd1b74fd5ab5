// Package wave implements a controllable 1-dimensional wave equation
// environment. The physics backend is a finite difference simulation
// of the wave equation on a fixed interval, with a number of "piston"
// forcing sites at which an agent can inject Gaussian-shaped force
// perturbations into the medium.
package wave

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Config describes the physical and discretization parameters of a
// Simulator. All fields must be strictly positive, and the mesh needs
// at least two lattice intervals.
type Config struct {
	// TimeInterval is the temporal interval dt between solution time
	// levels
	TimeInterval float64

	// WaveSpeed is the speed of standing waves on the medium, related
	// to material tension
	WaveSpeed float64

	// SystemLength is the length L of the spatial domain [0, L]
	SystemLength float64

	// NumLatticePoints is the number of lattice intervals Nx along the
	// domain. The spatial mesh has Nx+1 points.
	NumLatticePoints int

	// NumForcePoints is the number of piston forcing sites. Sites are
	// placed strictly interior to the domain, never on a boundary.
	NumForcePoints int

	// ForceWidth is the Gaussian spread of each piston as a fraction
	// of SystemLength
	ForceWidth float64
}

// Validate returns an error describing the first invalid field of the
// Config, or nil if the Config is valid
func (c Config) Validate() error {
	if c.TimeInterval <= 0 {
		return fmt.Errorf("time interval must be positive, got %v",
			c.TimeInterval)
	}
	if c.WaveSpeed <= 0 {
		return fmt.Errorf("wave speed must be positive, got %v", c.WaveSpeed)
	}
	if c.SystemLength <= 0 {
		return fmt.Errorf("system length must be positive, got %v",
			c.SystemLength)
	}
	if c.NumLatticePoints < 2 {
		// Two intervals are the minimum: one interior point for the
		// recursion and the three mesh points Simpson quadrature needs
		return fmt.Errorf("number of lattice points must be at least 2, "+
			"got %v", c.NumLatticePoints)
	}
	if c.NumForcePoints <= 0 {
		return fmt.Errorf("number of force points must be positive, got %v",
			c.NumForcePoints)
	}
	if c.ForceWidth <= 0 {
		return fmt.Errorf("force width must be positive, got %v", c.ForceWidth)
	}
	return nil
}

// Simulator integrates the 1-dimensional wave equation with Dirichlet
// boundary conditions using the explicit second-order central
// difference (leapfrog) scheme on three solution time levels. A
// spatially varying forcing term is added to the update equation,
// formed as the superposition of Gaussian profiles centred at each
// piston site and weighted by the currently applied force values.
//
// The simulator owns three solution buffers which are rotated, not
// copied, when the time levels shift after each step. After every
// Reset and Step the two most recent levels coincide, exactly as the
// recursion arrays do after a time-level shift, so consumers that
// want to infer the field velocity by finite differences should
// difference the newest level against the level before it (channels 0
// and 2 of Observation).
//
// Stability of the explicit scheme requires a Courant number
// c*dt/dx <= 1. This is the caller's responsibility and is not
// enforced; a diagnostic warning is printed at construction when the
// configuration violates it.
type Simulator struct {
	dt        float64
	waveSpeed float64
	length    float64
	nx        int

	dx    float64
	xMesh []float64

	forceSites []float64
	forceWidth float64 // Gaussian piston width, scaled by domain length
	forceVals  []float64

	c  float64 // Courant number
	c2 float64

	initialHeight   InitialCondition
	initialVelocity InitialCondition

	// Solution time levels. After Reset or Step, height and heightN
	// hold the newest solution level and heightNM1 the level before
	// it. Updates are written into scratch, and rotate recycles the
	// oldest buffer as the scratch for the next update.
	height    []float64
	heightN   []float64
	heightNM1 []float64
	scratch   []float64

	t float64
	n int
}

// New validates config and returns a new Simulator that starts flat
// and at rest. The returned Simulator is reset and ready to step.
func New(config Config) (*Simulator, error) {
	return NewWithInitialConditions(config, Flat(), Flat())
}

// NewWithInitialConditions is like New but starts the medium from the
// given initial height and velocity profiles instead of flat and at
// rest. The initial height should vanish at the domain boundaries;
// boundary mesh points are forced to zero regardless.
func NewWithInitialConditions(config Config, initialHeight,
	initialVelocity InitialCondition) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newSimulator: invalid config: %v", err)
	}

	nx := config.NumLatticePoints
	length := config.SystemLength

	// Mesh points in space. The lattice spacing is recomputed from the
	// generated mesh to absorb rounding.
	xMesh := floats.Span(make([]float64, nx+1), 0, length)
	dx := xMesh[1] - xMesh[0]

	// Piston sites are the interior points of an evenly spaced mesh
	// with two extra points, which keeps every site strictly inside
	// the domain
	sites := floats.Span(make([]float64, config.NumForcePoints+2), 0, length)
	forceSites := make([]float64, config.NumForcePoints)
	copy(forceSites, sites[1:config.NumForcePoints+1])

	c := config.WaveSpeed * config.TimeInterval / dx
	if c > 1.0 {
		fmt.Fprintf(os.Stderr, "warning: Courant number %.4f exceeds 1, "+
			"the explicit scheme will be unstable\n", c)
	}

	sim := &Simulator{
		dt:              config.TimeInterval,
		waveSpeed:       config.WaveSpeed,
		length:          length,
		nx:              nx,
		dx:              dx,
		xMesh:           xMesh,
		forceSites:      forceSites,
		forceWidth:      config.ForceWidth * length,
		forceVals:       make([]float64, config.NumForcePoints),
		c:               c,
		c2:              c * c,
		initialHeight:   initialHeight,
		initialVelocity: initialVelocity,
		heightN:         make([]float64, nx+1),
		heightNM1:       make([]float64, nx+1),
		scratch:         make([]float64, nx+1),
	}
	sim.height = sim.heightN
	sim.Reset()

	return sim, nil
}

// SetInitialConditions replaces the initial height and velocity
// profiles used by Reset. The change takes effect on the next Reset.
func (s *Simulator) SetInitialConditions(initialHeight,
	initialVelocity InitialCondition) {
	s.initialHeight = initialHeight
	s.initialVelocity = initialVelocity
}

// Reset returns the simulator to its initial configuration: time and
// step counters are zeroed, all applied forces are cleared, and the
// solution levels are recomputed from the initial height and velocity
// profiles. Reset is idempotent.
func (s *Simulator) Reset() {
	s.t = 0
	s.n = 0

	for j := range s.forceVals {
		s.forceVals[j] = 0
	}

	// Set the initial condition of the solution one time level back,
	// holding the boundary points at zero
	for i := 1; i < s.nx; i++ {
		s.heightN[i] = s.initialHeight(s.xMesh[i])
	}
	s.heightN[0] = 0
	s.heightN[s.nx] = 0

	// Special first step of the finite difference scheme: a
	// second-order accurate start built from a half-step Taylor
	// expansion, incorporating the initial velocity and half a unit of
	// the forcing term at t = 0
	for i := 1; i < s.nx; i++ {
		s.scratch[i] = s.heightN[i] + s.dt*s.initialVelocity(s.xMesh[i]) +
			0.5*s.c2*(s.heightN[i-1]-2*s.heightN[i]+s.heightN[i+1]) +
			0.5*s.dt*s.dt*s.impulse(s.xMesh[i])
	}
	s.scratch[0] = 0
	s.scratch[s.nx] = 0

	s.rotate()
}

// Step advances the simulation by exactly one time interval, updating
// every interior mesh point with the leapfrog recursion plus the
// current forcing term. Boundary points are held at zero.
func (s *Simulator) Step() {
	s.t += s.dt
	s.n++

	// heightN and heightNM1 hold the two most recent levels the
	// recursion reads; the new level is written into the scratch
	// buffer and rotated in
	for i := 1; i < s.nx; i++ {
		s.scratch[i] = -s.heightNM1[i] + 2*s.heightN[i] +
			s.c2*(s.heightN[i-1]-2*s.heightN[i]+s.heightN[i+1]) +
			s.dt*s.dt*s.impulse(s.xMesh[i])
	}
	s.scratch[0] = 0
	s.scratch[s.nx] = 0

	s.rotate()
}

// rotate shifts the solution time levels by swapping buffers rather
// than copying them. The buffer that held the level two steps back
// becomes the scratch for the next update, and height is left aliasing
// the newest level, exactly as the recursion arrays coincide after a
// time-level shift.
func (s *Simulator) rotate() {
	s.heightNM1, s.heightN, s.scratch = s.heightN, s.scratch, s.heightNM1
	s.height = s.heightN
}

// ApplyAction overwrites the force values at the piston sites with the
// entries of action. The action is copied, so the caller's vector is
// never aliased, and its magnitudes are not clamped. The new forces
// take effect on the next impulse evaluation; they persist across
// steps until overwritten.
func (s *Simulator) ApplyAction(action mat.Vector) error {
	if action.Len() != len(s.forceVals) {
		return fmt.Errorf("applyAction: expected action of length %v, got %v",
			len(s.forceVals), action.Len())
	}

	for j := range s.forceVals {
		s.forceVals[j] = action.AtVec(j)
	}
	return nil
}

// impulse evaluates the forcing term at position x: a superposition of
// Gaussian bumps centred at each piston site, each weighted by its
// currently applied signed force value
func (s *Simulator) impulse(x float64) float64 {
	var sum float64
	for j, site := range s.forceSites {
		diff := x - site
		sum += s.forceVals[j] * math.Exp(-0.5*diff*diff/s.forceWidth)
	}
	return sum
}

// ImpulseProfile returns the forcing term evaluated at every mesh
// point, exposing the instantaneous spatial shape of the applied
// forces across the whole domain
func (s *Simulator) ImpulseProfile() *mat.VecDense {
	profile := make([]float64, s.nx+1)
	for i, x := range s.xMesh {
		profile[i] = s.impulse(x)
	}
	return mat.NewVecDense(s.nx+1, profile)
}

// Observation returns the three stored solution time levels stacked
// along the last axis of a (1, Nx+1, 3) tensor. Because the recursion
// shifts time levels after every update, channels 0 and 1 coincide and
// hold the newest level; channel 2 holds the level before it. The
// field velocity can be recovered by differencing channels 0 and 2
// over the time interval.
func (s *Simulator) Observation() *tensor.Dense {
	backing := make([]float64, 3*(s.nx+1))
	for i := 0; i <= s.nx; i++ {
		backing[3*i] = s.height[i]
		backing[3*i+1] = s.heightN[i]
		backing[3*i+2] = s.heightNM1[i]
	}

	return tensor.New(tensor.WithShape(1, s.nx+1, 3),
		tensor.WithBacking(backing))
}

// Energy computes the augmented internal energy of the medium: the
// integral over the domain of the kinetic and tension energy densities
// of the 1-D wave equation plus an L2 regularization term on the field
// height. The integral is evaluated with Simpson's rule over the mesh.
//
// Because of the regularizer, the returned quantity is not the
// conserved energy of the wave equation, only an approximate,
// augmented diagnostic of it.
func (s *Simulator) Energy() float64 {
	density := make([]float64, s.nx+1)

	dudx := gradient(s.height, s.xMesh)
	for i := 0; i <= s.nx; i++ {
		dudt := (s.height[i] - s.heightNM1[i]) / s.dt
		density[i] = dudt*dudt + s.c2*dudx[i]*dudx[i] +
			s.height[i]*s.height[i]
	}

	return 0.5 * integrate.Simpsons(s.xMesh, density)
}

// Height returns a copy of the newest solution level over the mesh
func (s *Simulator) Height() *mat.VecDense {
	height := make([]float64, s.nx+1)
	copy(height, s.height)
	return mat.NewVecDense(s.nx+1, height)
}

// Mesh returns a copy of the spatial mesh points
func (s *Simulator) Mesh() []float64 {
	mesh := make([]float64, len(s.xMesh))
	copy(mesh, s.xMesh)
	return mesh
}

// ForceSites returns a copy of the piston site positions
func (s *Simulator) ForceSites() []float64 {
	sites := make([]float64, len(s.forceSites))
	copy(sites, s.forceSites)
	return sites
}

// NumForcePoints returns the number of piston forcing sites
func (s *Simulator) NumForcePoints() int {
	return len(s.forceVals)
}

// NumLatticePoints returns the number of lattice intervals Nx. The
// spatial mesh has Nx+1 points.
func (s *Simulator) NumLatticePoints() int {
	return s.nx
}

// Length returns the length of the spatial domain
func (s *Simulator) Length() float64 {
	return s.length
}

// TimeInterval returns the temporal interval between solution levels
func (s *Simulator) TimeInterval() float64 {
	return s.dt
}

// Courant returns the Courant number c*dt/dx of the discretization
func (s *Simulator) Courant() float64 {
	return s.c
}

// T returns the elapsed simulated time since the last Reset
func (s *Simulator) T() float64 {
	return s.t
}

// N returns the number of steps taken since the last Reset
func (s *Simulator) N() int {
	return s.n
}

// String converts the simulator to a string representation
func (s *Simulator) String() string {
	str := "Wave1D  |  t: %v  |  n: %v  |  courant: %v\n"
	return fmt.Sprintf(str, s.t, s.n, s.c)
}

// gradient computes the numerical gradient of f over the (sorted) mesh
// x with second-order central differences at interior points and
// first-order one-sided differences at the two edges
func gradient(f, x []float64) []float64 {
	n := len(f)
	grad := make([]float64, n)

	grad[0] = (f[1] - f[0]) / (x[1] - x[0])
	for i := 1; i < n-1; i++ {
		grad[i] = (f[i+1] - f[i-1]) / (x[i+1] - x[i-1])
	}
	grad[n-1] = (f[n-1] - f[n-2]) / (x[n-1] - x[n-2])

	return grad
}
