package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/internal/logging"
)

func TestNew_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "debug", Format: "json", Output: &buf})

	log.With(logging.Int("turn", 3)).Debug(context.Background(), "planned",
		logging.String("stage", "links"),
		logging.Err(errors.New("boom")),
	)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "planned", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.EqualValues(t, 3, rec["turn"])
	assert.Equal(t, "links", rec["stage"])
	assert.Equal(t, "boom", rec["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
	log.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWith_AddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "JSON", Output: &buf}).With(logging.String("run_id", "r1"))

	log.Info(context.Background(), "turn", logging.Bool("truncated", false), logging.Err(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "r1", rec["run_id"])
	assert.Equal(t, false, rec["truncated"])
	assert.Equal(t, "", rec["error"])
}

func TestNoop_Discards(t *testing.T) {
	log := logging.Noop().With(logging.Bool("x", true))
	log.Error(context.Background(), "dropped")
	assert.NotNil(t, log)
}
