package types

import (
	"io"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns what f prints
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	f()
	require.NoError(t, w.Close())
	bs, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(bs)
}

func TestGameOverComparatorReportsWriteFailure(t *testing.T) {
	// a regular file where the results folder should be
	blocked := path.Join(t.TempDir(), "results")
	require.NoError(t, os.WriteFile(blocked, nil, 0644))

	comp := GameOverComparator(blocked)
	out := captureStdout(t, func() {
		comp(0, 1, []string{"mc"}, []DataSet{&GameOverDataSet{Episodes: 1}})
	})
	assert.Contains(t, out, "Failed to save game overs")
}

func TestGameOverComparatorWrites(t *testing.T) {
	dir := t.TempDir()
	comp := GameOverComparator(dir)
	out := captureStdout(t, func() {
		comp(2, 1, []string{"mc"}, []DataSet{&GameOverDataSet{Episodes: 1, GameOvers: 1, FirstSurvived: -1}})
	})
	assert.Empty(t, out)

	bs, err := os.ReadFile(path.Join(dir, "2_game_overs.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mc":{"episodes":1,"game_overs":1,"first_survived":-1}}`, string(bs))
}

func TestRewardPlotterReportsSaveFailure(t *testing.T) {
	blocked := path.Join(t.TempDir(), "plots")
	require.NoError(t, os.WriteFile(blocked, nil, 0644))

	comp := RewardPlotter(blocked)
	out := captureStdout(t, func() {
		comp(0, 2, []string{"mc"}, []DataSet{[]float64{1, 2}})
	})
	assert.Contains(t, out, "Mean episode reward")
	assert.Contains(t, out, "Failed to save reward plot")
}
