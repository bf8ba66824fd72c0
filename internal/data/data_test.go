package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/simulation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun() *Run {
	return &Run{Result: &simulation.Result{RunID: uuid.New(), Hours: 24}}
}

func TestRunCache(t *testing.T) {
	c := NewRunCache(time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	r := testRun()
	c.Set(r)
	got, ok := c.Get(r.Result.RunID)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = c.Get(uuid.New())
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(r.Result.RunID)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.evict())
	assert.Equal(t, 0, c.Len())

	c.Set(testRun())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestNilRunCache(t *testing.T) {
	var c *RunCache
	c.Set(testRun())
	_, ok := c.Get(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Clear()
	c.Cleanup(context.Background(), time.Second)
}

func TestCleanupStopsWithContext(t *testing.T) {
	c := NewRunCache(time.Nanosecond)
	c.Set(testRun())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func writeJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadCurveJSON(t *testing.T) {
	dir := t.TempDir()

	single := writeJSON(t, dir, "shanghai.json", `{"prices": [0.3, 0.9]}`)
	curves, err := LoadCurveJSON(single)
	require.NoError(t, err)
	require.Len(t, curves, 1)
	assert.Equal(t, "shanghai", curves[0].Name)
	assert.Equal(t, []float64{0.3, 0.9}, curves[0].Prices)

	multi := writeJSON(t, dir, "set.json", `{"curves": [{"name": "a", "prices": [1]}, {"prices": [2]}]}`)
	curves, err = LoadCurveJSON(multi)
	require.NoError(t, err)
	require.Len(t, curves, 2)
	assert.Equal(t, "a", curves[0].Name)
	assert.Equal(t, "set[1]", curves[1].Name)

	empty := writeJSON(t, dir, "empty.json", `{}`)
	_, err = LoadCurveJSON(empty)
	assert.ErrorIs(t, err, model.ErrInvalidCurveLength)

	neg := writeJSON(t, dir, "neg.json", `{"prices": [-1]}`)
	_, err = LoadCurveJSON(neg)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestLoadCurvesExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `{"name": "alpha", "prices": [0.1, 0.2]}`)
	writeJSON(t, dir, "b.json", `{"name": "beta", "prices": [0.3]}`)
	writeJSON(t, dir, "notes.txt", `ignored`)

	curves, err := LoadCurves([]string{dir})
	require.NoError(t, err)
	assert.Len(t, curves, 2)
	assert.Equal(t, []float64{0.3}, curves["beta"])

	_, err = LoadCurves([]string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}
