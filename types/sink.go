package types

import (
	"context"
	"fmt"
	"os"

	"github.com/zeu5/pownet-rl/util"
)

// EpisodeSummary is what remains of an episode once it is over
type EpisodeSummary struct {
	Experiment string  `json:"experiment"`
	Run        int     `json:"run"`
	Episode    int     `json:"episode"`
	Steps      int     `json:"steps"`
	Reward     float64 `json:"reward"`
	Done       bool    `json:"done"`
}

// EpisodeSink exports episode summaries out of the process
type EpisodeSink interface {
	Record(context.Context, *EpisodeSummary) error
}

// CSVSink appends one line per episode to a machine readable log
type CSVSink struct {
	path string
}

var _ EpisodeSink = &CSVSink{}

// NewCSVSink truncates the file at path and writes the header
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.WriteFile(path, []byte("experiment,run,episode,steps,reward,done\n"), 0644); err != nil {
		return nil, err
	}
	return &CSVSink{path: path}, nil
}

func (c *CSVSink) Record(_ context.Context, s *EpisodeSummary) error {
	return util.AppendToFile(c.path, fmt.Sprintf("%s,%d,%d,%d,%f,%t",
		s.Experiment, s.Run, s.Episode, s.Steps, s.Reward, s.Done))
}
