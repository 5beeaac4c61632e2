// 指示: miu200521358
package hik

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefinitionCapturesLengthsAndCurvature(t *testing.T) {
	def := buildTestDefinition(t, newTPoseSkeleton(true))

	require.True(t, def.IsInitialized())
	assert.InDelta(t, 0.5, def.HipToNeckLength, 1e-12)
	assert.InDelta(t, 0.6, def.HipToHeadLength, 1e-12)
	assert.InDelta(t, 0.25, def.ChestLength, 1e-12)
	assert.InDelta(t, 0.1, def.NeckLength, 1e-12)
	assert.InDelta(t, 0.25/0.6, def.ChestRelation.Along, 1e-12)
	assert.InDelta(t, 0.0, def.ChestRelation.Perpendicular, 1e-12)
	assert.InDelta(t, 0.5/0.6, def.NeckRelation.Along, 1e-12)
	assert.InDelta(t, 1.0, def.CapturedScale, 0)

	require.True(t, def.HasBone(model.UPPER_CHEST))
	require.False(t, def.HasBone(model.JAW))
	require.Equal(t, model.UPPER_CHEST, def.Parent(model.NECK))
	require.Equal(t, model.UPPER_CHEST, def.Parent(model.LEFT_SHOULDER))
}

func TestBuildDefinitionHiplativeIsIndependentOfEngineAxes(t *testing.T) {
	plain := buildTestDefinition(t, newTPoseSkeleton(false))
	rotated := buildTestDefinition(t, newTPoseSkeleton(false).withEngineRotations())

	for _, bone := range plain.ForwardKinematicsOrder() {
		if !plain.RestPosition(bone).NearEquals(rotated.RestPosition(bone), 1e-9) {
			t.Fatalf("rest position mismatch: bone=%s got=%v want=%v", bone, rotated.RestPosition(bone), plain.RestPosition(bone))
		}
		if !plain.RestRotation(bone).NearEquals(rotated.RestRotation(bone), 1e-9) {
			t.Fatalf("rest rotation mismatch: bone=%s got=%v want=%v", bone, rotated.RestRotation(bone), plain.RestRotation(bone))
		}
	}
}

func TestBuildDefinitionAbsentBones(t *testing.T) {
	def := buildTestDefinition(t, newTPoseSkeleton(false).without(model.LEFT_TOES, model.RIGHT_TOES))

	require.False(t, def.HasBone(model.UPPER_CHEST))
	require.False(t, def.HasBone(model.LEFT_TOES))
	require.Equal(t, model.CHEST, def.Parent(model.NECK))
	require.Equal(t, model.CHEST, def.Parent(model.RIGHT_SHOULDER))
	require.True(t, def.RefLocalPos[model.LEFT_TOES].IsZero())
	require.True(t, def.PostRot[model.LEFT_TOES].NearEquals(def.InversePostRot[model.LEFT_TOES], 0))
}

func TestBuildDefinitionHipsMissing(t *testing.T) {
	_, err := BuildDefinition(newTPoseSkeleton(false).without(model.HIPS))
	if !errors.Is(err, ErrHipsMissing) {
		t.Fatalf("error mismatch: got=%v want=%v", err, ErrHipsMissing)
	}

	_, err = BuildDefinition(nil)
	if !errors.Is(err, ErrAccessorMissing) {
		t.Fatalf("error mismatch: got=%v want=%v", err, ErrAccessorMissing)
	}
}

func TestNewSolverPanicsOnUninitializedDefinition(t *testing.T) {
	for _, def := range []*AvatarDefinition{nil, {}} {
		func() {
			defer func() {
				recovered := recover()
				err, ok := recovered.(error)
				if !ok || !errors.Is(err, ErrDefinitionNotInitialized) {
					t.Fatalf("panic mismatch: got=%v want=%v", recovered, ErrDefinitionNotInitialized)
				}
			}()
			NewSolver(def)
		}()
	}
}

func TestForwardKinematicsOrderPlacesParentsFirst(t *testing.T) {
	def := buildTestDefinition(t, newTPoseSkeleton(true))
	seen := map[model.HumanBone]bool{}
	for _, bone := range def.ForwardKinematicsOrder() {
		if parent := def.Parent(bone); parent != model.BONE_NONE && !seen[parent] {
			t.Fatalf("parent should come first: bone=%s parent=%s", bone, parent)
		}
		seen[bone] = true
	}
	require.True(t, seen[model.UPPER_CHEST])
	require.False(t, seen[model.JAW])
}
