// 指示: miu200521358
package io_config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfigForTest = `
[solver]
scale = 1.2
fabrikIterations = 6
useShoulder = 0.5
solveRightArm = false
allowContortionist = true

[target "leftHand"]
x = 0.1 * sin(t)
y = -0.2
roll = 30

[target "leftLowerArm"]
y = -0.3
use = 1

[straddling "rightLeg"]
x = -0.4

[selfParenting "rightHand"]
bone = hips
use = 0.5
`

func TestConfigRepositoryParse(t *testing.T) {
	cfg, err := NewConfigRepository().Parse(sampleConfigForTest)
	require.NoError(t, err)

	assert.InDelta(t, 1.2, cfg.Solver.Scale, 1e-12)
	assert.Equal(t, 6, cfg.Solver.FabrikIterations)
	assert.False(t, cfg.Solver.SolveRightArm)
	assert.True(t, cfg.Solver.SolveLeftArm)
	assert.True(t, cfg.Solver.AllowContortionist)
	assert.InDelta(t, hik.DefaultStruggleStart, cfg.Solver.ArmStruggleStart, 1e-12)

	require.Contains(t, cfg.Target, "leftHand")
	assert.Equal(t, "0.1 * sin(t)", cfg.Target["leftHand"].X)
	assert.Equal(t, "hips", cfg.SelfParenting["rightHand"].Bone)
	assert.Equal(t, "-0.4", cfg.Straddling["rightLeg"].X)
}

func TestConfigRepositoryLoadDefaultsWithoutPath(t *testing.T) {
	cfg, err := NewConfigRepository().Load("")
	require.NoError(t, err)
	assert.Equal(t, hik.DefaultFabrikIterations, cfg.Solver.FabrikIterations)
	assert.True(t, cfg.Solver.SolveSpine)
}

func TestConfigRepositoryLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solve.ini")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfigForTest), 0o644))

	cfg, err := NewConfigRepository().Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.Solver.UseShoulder, 1e-12)
}

func TestConfigRepositoryLoadErrors(t *testing.T) {
	_, err := NewConfigRepository().Load(filepath.Join(t.TempDir(), "missing.ini"))
	if !errors.Is(err, io_common.ErrIoFileNotFound) {
		t.Fatalf("expected file not found, got %v", err)
	}

	_, err = NewConfigRepository().Parse("[solver]\nunknownKey = 1\n")
	if !errors.Is(err, io_common.ErrIoParseFailed) {
		t.Fatalf("expected parse failed, got %v", err)
	}
}

func TestParseExpression(t *testing.T) {
	testCases := []struct {
		source  string
		frame   int
		seconds float64
		want    float64
	}{
		{source: "", want: 0},
		{source: "1.5", want: 1.5},
		{source: "frame * 2", frame: 3, want: 6},
		{source: "clamp(t, 0, 1)", seconds: 4, want: 1},
		{source: "abs(-t)", seconds: 0.25, want: 0.25},
	}
	for _, tc := range testCases {
		expression, err := ParseExpression(tc.source)
		if err != nil {
			t.Fatalf("parse failed: source=%q err=%v", tc.source, err)
		}
		got, err := expression.Evaluate(tc.frame, tc.seconds)
		if err != nil {
			t.Fatalf("evaluate failed: source=%q err=%v", tc.source, err)
		}
		if got != tc.want {
			t.Fatalf("value mismatch: source=%q got=%v want=%v", tc.source, got, tc.want)
		}
	}
}

func TestParseExpressionRejectsUnknownVariable(t *testing.T) {
	_, err := ParseExpression("x + 1")
	if !errors.Is(err, io_common.ErrIoParseFailed) {
		t.Fatalf("expected parse failed, got %v", err)
	}
}
