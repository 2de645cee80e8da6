// Package powergrid is a small synthetic power grid used to train and
// compare agents without the external simulator. Line usages follow a
// daily load curve with noise; splitting a node relieves one line and
// pushes part of its flow to the next one.
package powergrid

import (
	"fmt"
	"math"
	"time"

	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

const (
	splitRelief  = 0.25
	splitSpill   = 0.1
	reliefDecay  = 0.8
	demandSwing  = 0.3
	lossFactor   = 0.01
	actionCostPu = 0.1
)

type Config struct {
	Lines  int
	Splits int
	// steps in a chronic, the episode ends with it
	ChronicLength int
	// usage at which a line trips immediately
	HardOverflow float64
	// consecutive overloaded steps after which a line trips
	SoftOverflowSteps int
	// standard deviation of the usage noise
	Noise float64
	// 0 seeds from the clock
	Seed uint64
}

func DefaultConfig() *Config {
	return &Config{
		Lines:             6,
		Splits:            8,
		ChronicLength:     288,
		HardOverflow:      1.5,
		SoftOverflowSteps: 3,
		Noise:             0.05,
	}
}

// Grid implements types.Environment
type Grid struct {
	config *Config
	space  *Space
	rand   *rand.Rand

	base       []float64
	relief     []float64
	usage      []float64
	overloaded []int
	offline    []bool
	step       int
}

var _ types.Environment = &Grid{}

func NewGrid(config *Config) (*Grid, error) {
	if config.Lines <= 0 || config.Splits <= 0 {
		return nil, fmt.Errorf("grid with %d lines and %d splits: %w", config.Lines, config.Splits, types.ErrInvalidArgument)
	}
	if config.ChronicLength <= 0 {
		return nil, fmt.Errorf("chronic length must be positive: %w", types.ErrInvalidArgument)
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Grid{
		config:     config,
		space:      NewSpace(config.Lines, config.Splits),
		rand:       rand.New(rand.NewSource(seed)),
		base:       make([]float64, config.Lines),
		relief:     make([]float64, config.Lines),
		usage:      make([]float64, config.Lines),
		overloaded: make([]int, config.Lines),
		offline:    make([]bool, config.Lines),
	}, nil
}

func (g *Grid) ActionSpace() types.ActionSpace {
	return g.space
}

func (g *Grid) ObservationSpace() types.ObservationSpace {
	return g.space
}

// Reset draws new base flows and starts a new chronic
func (g *Grid) Reset() (types.Observation, error) {
	g.step = 0
	for l := range g.base {
		g.base[l] = 0.5 + 0.4*g.rand.Float64()
		g.relief[l] = 0
		g.overloaded[l] = 0
		g.offline[l] = false
		g.usage[l] = g.base[l]
	}
	return g.observation(), nil
}

// Step applies the action and advances the chronic by one step.
// The reward vector is [overflow penalty, losses, action cost].
func (g *Grid) Step(a types.Action, doSum bool) (types.Observation, []float64, bool, *types.Info, error) {
	act, ok := a.(*Action)
	if !ok {
		return nil, nil, false, nil, fmt.Errorf("unsupported action type %T: %w", a, types.ErrInvalidArgument)
	}
	if len(act.NodeSplitting) != g.config.Splits || len(act.LineStatus) != g.config.Lines {
		return nil, nil, false, nil, fmt.Errorf("action shape does not match the grid: %w", types.ErrInvalidArgument)
	}

	lines := g.config.Lines
	for l := range g.relief {
		g.relief[l] *= reliefDecay
	}
	changes := 0
	for k, v := range act.NodeSplitting {
		if v == 1 {
			l := k % lines
			g.relief[l] += splitRelief
			g.relief[(l+1)%lines] -= splitSpill
			changes += 1
		}
	}
	for l, v := range act.LineStatus {
		if v == 1 {
			g.offline[l] = !g.offline[l]
			changes += 1
		}
	}

	g.step += 1
	demand := 1 + demandSwing*math.Sin(2*math.Pi*float64(g.step)/float64(g.config.ChronicLength))

	shed, online := 0.0, 0
	for l := range g.base {
		if g.offline[l] {
			shed += g.base[l]
		} else {
			online += 1
		}
	}
	extra := 0.0
	if online > 0 {
		extra = shed / float64(online)
	}

	overflow := 0.0
	for l := range g.usage {
		noise := g.rand.NormFloat64() * g.config.Noise
		if g.offline[l] {
			g.usage[l] = 0
			g.overloaded[l] = 0
			continue
		}
		g.usage[l] = math.Max(0, (g.base[l]+extra)*demand-g.relief[l]+noise)
		if g.usage[l] > 1 {
			g.overloaded[l] += 1
			overflow -= g.usage[l] - 1
		} else {
			g.overloaded[l] = 0
		}
	}

	losses := 0.0
	for _, u := range g.usage {
		losses -= lossFactor * u * u
	}
	rewards := []float64{overflow, losses, -actionCostPu * float64(changes)}
	if doSum {
		rewards = []float64{floats.Sum(rewards)}
	}

	done, info := g.checkTermination(online)
	return g.observation(), rewards, done, info, nil
}

func (g *Grid) checkTermination(online int) (bool, *types.Info) {
	if online == 0 {
		return true, &types.Info{Text: "all lines are switched off"}
	}
	for l, u := range g.usage {
		if u > g.config.HardOverflow {
			return true, &types.Info{Text: fmt.Sprintf("hard overflow on line %d (usage %.2f)", l, u)}
		}
		if g.config.SoftOverflowSteps > 0 && g.overloaded[l] >= g.config.SoftOverflowSteps {
			return true, &types.Info{Text: fmt.Sprintf("line %d overloaded for %d steps", l, g.overloaded[l])}
		}
	}
	if g.step >= g.config.ChronicLength {
		return true, &types.Info{Text: "end of chronic"}
	}
	for l, u := range g.usage {
		if u > 1 {
			return false, &types.Info{Text: fmt.Sprintf("line %d overloaded (usage %.2f)", l, u)}
		}
	}
	return false, nil
}

func (g *Grid) observation() *Observation {
	usage := make([]float64, len(g.usage))
	copy(usage, g.usage)
	return &Observation{Usage: usage, Step: g.step}
}
