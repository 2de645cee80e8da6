package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zeu5/pownet-rl/types"
)

// DefaultSummariesKey is the redis list the episode summaries are pushed to
const DefaultSummariesKey = "pownet-rl:episodes"

// RedisSink pushes every episode summary as JSON on a redis list
type RedisSink struct {
	cli *redis.Client
	key string
}

var _ types.EpisodeSink = &RedisSink{}

func NewRedisSink(addr, key string) *RedisSink {
	if key == "" {
		key = DefaultSummariesKey
	}
	return &RedisSink{
		cli: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
		}),
		key: key,
	}
}

// Ping checks that the server is reachable before training starts
func (r *RedisSink) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

func (r *RedisSink) Record(ctx context.Context, s *types.EpisodeSummary) error {
	bs, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.cli.RPush(ctx, r.key, bs).Err()
}

// Summaries reads back every summary recorded under the key
func (r *RedisSink) Summaries(ctx context.Context) ([]*types.EpisodeSummary, error) {
	values, err := r.cli.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*types.EpisodeSummary, 0, len(values))
	for _, v := range values {
		s := &types.EpisodeSummary{}
		if err := json.Unmarshal([]byte(v), s); err != nil {
			return nil, fmt.Errorf("decoding summary %q: %w", v, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RedisSink) Close() error {
	return r.cli.Close()
}

// RedisSummariesCommand prints the summaries stored on the redis server
func RedisSummariesCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "redis-summaries",
		Short: "Print the episode summaries pushed to redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := redisAddr
			if addr == "" {
				addr = "127.0.0.1:6379"
			}
			sink := NewRedisSink(addr, key)
			defer sink.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			summaries, err := sink.Summaries(ctx)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%s run:%d episode:%d steps:%d reward:%.2f done:%t\n",
					s.Experiment, s.Run, s.Episode, s.Steps, s.Reward, s.Done)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", DefaultSummariesKey, "Redis list holding the summaries")
	return cmd
}

// sinks builds the episode sinks requested on the command line
func sinks(ctx context.Context, csvPath string) ([]types.EpisodeSink, func(), error) {
	out := make([]types.EpisodeSink, 0, 2)
	closer := func() {}
	if csvPath != "" {
		c, err := types.NewCSVSink(csvPath)
		if err != nil {
			return nil, closer, err
		}
		out = append(out, c)
	}
	if redisAddr != "" {
		r := NewRedisSink(redisAddr, "")
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, closer, fmt.Errorf("connecting to redis at %s: %w", redisAddr, err)
		}
		out = append(out, r)
		closer = func() { r.Close() }
	}
	return out, closer, nil
}
