package agents

import (
	"fmt"
	"os"

	"github.com/zeu5/pownet-rl/types"
	"gopkg.in/yaml.v3"
)

// Algorithm families the custom agent can be configured with
const (
	MonteCarlo         = "monte-carlo"
	SARSA              = "sarsa"
	QLearning          = "q-learning"
	TemporalDiffLambda = "td-lambda"
)

// Policies the custom agent can be configured with
const (
	EpsilonGreedyPolicy = "epsilon-greedy"
	SoftMaxPolicy       = "softmax"
)

// Config of a custom agent, readable from yaml
type Config struct {
	Algorithm         string  `yaml:"algorithm"`
	Policy            string  `yaml:"policy"`
	LearningRate      float64 `yaml:"learning_rate"`
	Discount          float64 `yaml:"discount"`
	Epsilon           float64 `yaml:"epsilon"`
	Temperature       float64 `yaml:"temperature"`
	MaturityThreshold int     `yaml:"maturity_threshold"`
	ResetOnMature     bool    `yaml:"reset_on_mature"`
	// added to the summed reward vector before learning
	RewardBonus float64 `yaml:"reward_bonus"`
	UsageCutoff float64 `yaml:"usage_cutoff"`
	// 0 seeds from the clock
	Seed uint64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm:         MonteCarlo,
		Policy:            EpsilonGreedyPolicy,
		LearningRate:      0.1,
		Discount:          0.9,
		Epsilon:           0.1,
		Temperature:       1.0,
		MaturityThreshold: 10,
		RewardBonus:       types.DefaultRewardBonus,
		UsageCutoff:       DefaultUsageCutoff,
	}
}

// LoadConfig reads a yaml file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading agent config: %w", err)
	}
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, fmt.Errorf("parsing agent config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Algorithm {
	case MonteCarlo, SARSA, QLearning, TemporalDiffLambda:
	default:
		return fmt.Errorf("unknown algorithm %q: %w", c.Algorithm, types.ErrInvalidArgument)
	}
	switch c.Policy {
	case EpsilonGreedyPolicy, SoftMaxPolicy:
	default:
		return fmt.Errorf("unknown policy %q: %w", c.Policy, types.ErrInvalidArgument)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon %f not in [0, 1]: %w", c.Epsilon, types.ErrInvalidArgument)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("negative learning rate %f: %w", c.LearningRate, types.ErrInvalidArgument)
	}
	if c.Policy == SoftMaxPolicy && c.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, got %f: %w", c.Temperature, types.ErrInvalidArgument)
	}
	if c.MaturityThreshold < 0 {
		return fmt.Errorf("negative maturity threshold %d: %w", c.MaturityThreshold, types.ErrInvalidArgument)
	}
	return nil
}
