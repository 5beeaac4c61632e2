// 指示: miu200521358
package hik

import (
	"testing"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

// testSkeleton はテスト用の参照姿勢スケルトン。
type testSkeleton struct {
	positions map[model.HumanBone]mmath.Vec3
	rotations map[model.HumanBone]mmath.Quaternion
	scale     float64
}

// newTPoseSkeleton はY上・Z前・左+XのTスタンススケルトンを返す。
func newTPoseSkeleton(withUpperChest bool) *testSkeleton {
	positions := map[model.HumanBone]mmath.Vec3{
		model.HIPS:                    mmath.NewVec3(0, 1, 0),
		model.SPINE:                   mmath.NewVec3(0, 1.1, 0),
		model.CHEST:                   mmath.NewVec3(0, 1.25, 0),
		model.NECK:                    mmath.NewVec3(0, 1.5, 0),
		model.HEAD:                    mmath.NewVec3(0, 1.6, 0),
		model.LEFT_EYE:                mmath.NewVec3(0.03, 1.65, 0.08),
		model.RIGHT_EYE:               mmath.NewVec3(-0.03, 1.65, 0.08),
		model.LEFT_SHOULDER:           mmath.NewVec3(0.05, 1.45, 0),
		model.RIGHT_SHOULDER:          mmath.NewVec3(-0.05, 1.45, 0),
		model.LEFT_UPPER_ARM:          mmath.NewVec3(0.15, 1.45, 0),
		model.RIGHT_UPPER_ARM:         mmath.NewVec3(-0.15, 1.45, 0),
		model.LEFT_LOWER_ARM:          mmath.NewVec3(0.43, 1.45, 0),
		model.RIGHT_LOWER_ARM:         mmath.NewVec3(-0.43, 1.45, 0),
		model.LEFT_HAND:               mmath.NewVec3(0.68, 1.45, 0),
		model.RIGHT_HAND:              mmath.NewVec3(-0.68, 1.45, 0),
		model.LEFT_INDEX_PROXIMAL:     mmath.NewVec3(0.76, 1.45, 0.02),
		model.LEFT_INDEX_INTERMEDIATE: mmath.NewVec3(0.8, 1.45, 0.02),
		model.RIGHT_INDEX_PROXIMAL:    mmath.NewVec3(-0.76, 1.45, 0.02),
		model.LEFT_UPPER_LEG:          mmath.NewVec3(0.09, 0.95, 0),
		model.RIGHT_UPPER_LEG:         mmath.NewVec3(-0.09, 0.95, 0),
		model.LEFT_LOWER_LEG:          mmath.NewVec3(0.09, 0.52, 0),
		model.RIGHT_LOWER_LEG:         mmath.NewVec3(-0.09, 0.52, 0),
		model.LEFT_FOOT:               mmath.NewVec3(0.09, 0.08, 0),
		model.RIGHT_FOOT:              mmath.NewVec3(-0.09, 0.08, 0),
		model.LEFT_TOES:               mmath.NewVec3(0.09, 0.02, 0.12),
		model.RIGHT_TOES:              mmath.NewVec3(-0.09, 0.02, 0.12),
	}
	if withUpperChest {
		positions[model.UPPER_CHEST] = mmath.NewVec3(0, 1.38, 0)
	}
	return &testSkeleton{
		positions: positions,
		rotations: map[model.HumanBone]mmath.Quaternion{},
		scale:     1,
	}
}

// without は指定ボーンを除いたスケルトンを返す。
func (s *testSkeleton) without(bones ...model.HumanBone) *testSkeleton {
	for _, bone := range bones {
		delete(s.positions, bone)
	}
	return s
}

// withEngineRotations は各ボーンのワールド回転を擬似的なエンジン軸へ傾ける。
func (s *testSkeleton) withEngineRotations() *testSkeleton {
	for bone := range s.positions {
		axis := mmath.NewVec3(float64(bone%3)+0.5, 1, float64(bone%5)-2)
		s.rotations[bone] = mmath.NewQuaternionFromAxisAngle(axis, 0.2+0.1*float64(bone%7))
	}
	return s
}

func (s *testSkeleton) HasBone(bone model.HumanBone) bool {
	_, ok := s.positions[bone]
	return ok
}

func (s *testSkeleton) parent(bone model.HumanBone) model.HumanBone {
	return model.ParentBone(bone, s.HasBone)
}

func (s *testSkeleton) LocalPosition(bone model.HumanBone) mmath.Vec3 {
	parent := s.parent(bone)
	if parent == model.BONE_NONE {
		return s.positions[bone]
	}
	diff := s.positions[bone].Subed(s.positions[parent])
	return s.WorldRotation(parent).Inverted().MulVec3(diff).MuledScalar(1 / s.scale)
}

func (s *testSkeleton) LocalRotation(bone model.HumanBone) mmath.Quaternion {
	parent := s.parent(bone)
	if parent == model.BONE_NONE {
		return s.WorldRotation(bone)
	}
	return s.WorldRotation(parent).Inverted().Muled(s.WorldRotation(bone))
}

func (s *testSkeleton) LocalScale(bone model.HumanBone) mmath.Vec3 {
	return mmath.ONE_VEC3
}

func (s *testSkeleton) WorldPosition(bone model.HumanBone) mmath.Vec3 {
	return s.positions[bone]
}

func (s *testSkeleton) WorldRotation(bone model.HumanBone) mmath.Quaternion {
	if rot, ok := s.rotations[bone]; ok {
		return rot
	}
	return mmath.NewQuaternion()
}

func (s *testSkeleton) PostRotation(bone model.HumanBone) mmath.Quaternion {
	return s.WorldRotation(bone).Inverted()
}

func (s *testSkeleton) LossyScale() float64 {
	return s.scale
}

// buildTestDefinition はテスト用スケルトンから定義を構築する。
func buildTestDefinition(t *testing.T, skeleton *testSkeleton) *AvatarDefinition {
	t.Helper()
	def, err := BuildDefinition(skeleton)
	if err != nil {
		t.Fatalf("BuildDefinition failed: %v", err)
	}
	return def
}

// restSnapshot は定義の参照姿勢を展開したスナップショットを返す。
func restSnapshot(def *AvatarDefinition, scale float64) Snapshot {
	snapshot := NewSnapshot()
	snapshot.ReferencePose(def, def.ReferenceHipsPos, def.ReferenceHipsRot, scale)
	return snapshot
}

// recordingObserver はトレースを記録する。
type recordingObserver struct {
	labels []string
	pointB []mmath.Vec3
}

func (o *recordingObserver) Trace(label string, pointA, pointB mmath.Vec3, color TraceColor) {
	o.labels = append(o.labels, label)
	o.pointB = append(o.pointB, pointB)
}
