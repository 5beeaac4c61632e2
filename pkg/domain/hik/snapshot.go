// 指示: miu200521358
package hik

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/tiendc/go-deepcopy"
)

// Snapshot はボーンごとの絶対位置・IK空間回転の作業バッファ。
type Snapshot struct {
	AbsolutePos []mmath.Vec3
	AbsoluteRot []mmath.Quaternion
}

// NewSnapshot はボーン数分の領域を確保したスナップショットを返す。
func NewSnapshot() Snapshot {
	rotations := make([]mmath.Quaternion, model.HUMAN_BONE_COUNT)
	for i := range rotations {
		rotations[i] = mmath.NewQuaternion()
	}
	return Snapshot{
		AbsolutePos: make([]mmath.Vec3, model.HUMAN_BONE_COUNT),
		AbsoluteRot: rotations,
	}
}

// IsAllocated はボーン数分の領域を持つか判定する。
func (s Snapshot) IsAllocated() bool {
	return len(s.AbsolutePos) == model.HUMAN_BONE_COUNT && len(s.AbsoluteRot) == model.HUMAN_BONE_COUNT
}

// Clone はスナップショットを深いコピーで複製する。
func (s Snapshot) Clone() Snapshot {
	var cloned Snapshot
	if err := deepcopy.Copy(&cloned, &s); err != nil {
		cloned = Snapshot{
			AbsolutePos: append([]mmath.Vec3(nil), s.AbsolutePos...),
			AbsoluteRot: append([]mmath.Quaternion(nil), s.AbsoluteRot...),
		}
	}
	return cloned
}

// ReevaluatePosition は親の絶対姿勢と参照相対行列からボーン位置を再計算する。
func (s Snapshot) ReevaluatePosition(def *AvatarDefinition, bone model.HumanBone, scale float64) {
	if !def.HasBone(bone) {
		return
	}
	parent := def.Parent(bone)
	if parent == model.BONE_NONE {
		return
	}
	parentWorldRot := s.AbsoluteRot[parent].Muled(def.InversePostRot[parent])
	parentMatrix := mmath.NewMat4FromTRS(s.AbsolutePos[parent], parentWorldRot, mmath.ONE_VEC3)
	matrix := parentMatrix.Muled(mmath.NewUniformScaleMat4(scale)).Muled(def.RelativeMatrix[bone])
	s.AbsolutePos[bone] = matrix.Translation()
}

// ApplyReferenceRotation は親の回転に参照相対回転を合成してボーン回転を再計算する。
func (s Snapshot) ApplyReferenceRotation(def *AvatarDefinition, bone model.HumanBone) {
	if !def.HasBone(bone) {
		return
	}
	parent := def.Parent(bone)
	if parent == model.BONE_NONE {
		return
	}
	s.AbsoluteRot[bone] = s.AbsoluteRot[parent].
		Muled(def.InversePostRot[parent]).
		Muled(def.RefLocalRot[bone]).
		Muled(def.PostRot[bone]).
		Normalized()
}

// follow は参照回転と位置をまとめて再計算する。
func (s Snapshot) follow(def *AvatarDefinition, bone model.HumanBone, scale float64) {
	s.ApplyReferenceRotation(def, bone)
	s.ReevaluatePosition(def, bone, scale)
}

// ReferencePose は Hips の姿勢から参照姿勢を順運動学で展開する。
func (s Snapshot) ReferencePose(def *AvatarDefinition, hipsPos mmath.Vec3, hipsRot mmath.Quaternion, scale float64) {
	for _, bone := range def.ForwardKinematicsOrder() {
		if bone == model.HIPS {
			s.AbsolutePos[bone] = hipsPos
			s.AbsoluteRot[bone] = hipsRot
			continue
		}
		s.follow(def, bone, scale)
	}
}

// ReadBone はスナップショットからボーンのワールド位置・ワールド回転を読み出す。
func ReadBone(snapshot Snapshot, def *AvatarDefinition, bone model.HumanBone) (mmath.Vec3, mmath.Quaternion) {
	return snapshot.AbsolutePos[bone], snapshot.AbsoluteRot[bone].Muled(def.InversePostRot[bone])
}
