package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RewardAnalyzer keeps the reward obtained in every episode
type RewardAnalyzer struct {
	rewards []float64
}

var _ Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{
		rewards: make([]float64, 0),
	}
}

func (r *RewardAnalyzer) Analyze(_ int, _ string, s *EpisodeSummary) {
	r.rewards = append(r.rewards, s.Reward)
}

// DataSet returns the rewards per episode as []float64
func (r *RewardAnalyzer) DataSet() DataSet {
	out := make([]float64, len(r.rewards))
	copy(out, r.rewards)
	return out
}

func (r *RewardAnalyzer) Reset() {
	r.rewards = make([]float64, 0)
}

// RewardPlotter plots the reward per episode of every experiment in one figure
func RewardPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run, _ int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Reward"
		for i := 0; i < len(names); i++ {
			rewards := ds[i].([]float64)
			if len(rewards) == 0 {
				continue
			}
			points := make(plotter.XYs, len(rewards))
			for j, v := range rewards {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
			fmt.Printf("Mean episode reward: %.3f for experiment: %s\n", stat.Mean(rewards, nil), names[i])
		}
		if err := p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_rewards.png")); err != nil {
			fmt.Printf("Failed to save reward plot: %s\n", err)
		}
	}
}

// GameOverDataSet counts the episodes that ended with a game over
type GameOverDataSet struct {
	Episodes  int `json:"episodes"`
	GameOvers int `json:"game_overs"`
	// first episode that ran the whole steps ceiling, -1 if none
	FirstSurvived int `json:"first_survived"`
}

type GameOverAnalyzer struct {
	ds *GameOverDataSet
}

var _ Analyzer = &GameOverAnalyzer{}

func NewGameOverAnalyzer() *GameOverAnalyzer {
	return &GameOverAnalyzer{
		ds: &GameOverDataSet{FirstSurvived: -1},
	}
}

func (g *GameOverAnalyzer) Analyze(_ int, _ string, s *EpisodeSummary) {
	g.ds.Episodes += 1
	if s.Done {
		g.ds.GameOvers += 1
	} else if g.ds.FirstSurvived == -1 {
		g.ds.FirstSurvived = s.Episode
	}
}

func (g *GameOverAnalyzer) DataSet() DataSet {
	return g.ds
}

func (g *GameOverAnalyzer) Reset() {
	g.ds = &GameOverDataSet{FirstSurvived: -1}
}

// GameOverComparator writes the game over counts of a run to a json file
func GameOverComparator(savePath string) Comparator {
	if _, err := os.Stat(savePath); err != nil {
		os.MkdirAll(savePath, os.ModePerm)
	}
	return func(run, _ int, names []string, ds []DataSet) {
		data := make(map[string]*GameOverDataSet)
		for i, name := range names {
			data[name] = ds[i].(*GameOverDataSet)
		}
		bs, err := json.Marshal(data)
		if err != nil {
			fmt.Printf("Failed to encode game overs: %s\n", err)
			return
		}
		if err := os.WriteFile(path.Join(savePath, strconv.Itoa(run)+"_game_overs.json"), bs, 0644); err != nil {
			fmt.Printf("Failed to save game overs: %s\n", err)
		}
	}
}
