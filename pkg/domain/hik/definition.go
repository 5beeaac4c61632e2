// 指示: miu200521358
// Package hik は人型スケルトンの全身IKを解く。
package hik

import (
	"errors"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

var (
	// ErrHipsMissing は Hips ボーンが存在しない場合のエラー。
	ErrHipsMissing = errors.New("hik: hips bone is missing")
	// ErrAccessorMissing はスケルトンアクセサ未指定エラー。
	ErrAccessorMissing = errors.New("hik: skeleton accessor is nil")
)

// ISkeletonAccessor は参照姿勢のスケルトンを読み出すための能力を表す。
type ISkeletonAccessor interface {
	HasBone(bone model.HumanBone) bool
	LocalPosition(bone model.HumanBone) mmath.Vec3
	LocalRotation(bone model.HumanBone) mmath.Quaternion
	LocalScale(bone model.HumanBone) mmath.Vec3
	WorldPosition(bone model.HumanBone) mmath.Vec3
	WorldRotation(bone model.HumanBone) mmath.Quaternion
	PostRotation(bone model.HumanBone) mmath.Quaternion
	LossyScale() float64
}

// CurvatureRelation は胸・首が腰→頭の直線からどれだけずれているかを表す。
// Along は腰→頭軸方向、Perpendicular はその前方直交方向の比率。
type CurvatureRelation struct {
	Along         float64
	Perpendicular float64
}

// IsDegenerate は関係ベクトルが退化しているか判定する。
func (r CurvatureRelation) IsDegenerate() bool {
	return r.Along == 0 && r.Perpendicular == 0
}

// AvatarDefinition はスケルトン参照姿勢のキャプチャ結果。構築後は読み取り専用。
type AvatarDefinition struct {
	RefLocalPos    [model.HUMAN_BONE_COUNT]mmath.Vec3
	RefLocalRot    [model.HUMAN_BONE_COUNT]mmath.Quaternion
	HiplativePos   [model.HUMAN_BONE_COUNT]mmath.Vec3
	HiplativeRot   [model.HUMAN_BONE_COUNT]mmath.Quaternion
	Present        [model.HUMAN_BONE_COUNT]bool
	PostRot        [model.HUMAN_BONE_COUNT]mmath.Quaternion
	InversePostRot [model.HUMAN_BONE_COUNT]mmath.Quaternion
	RelativeMatrix [model.HUMAN_BONE_COUNT]mmath.Mat4

	HipToNeckLength float64
	HipToHeadLength float64
	ChestLength     float64
	NeckLength      float64
	ChestRelation   CurvatureRelation
	NeckRelation    CurvatureRelation
	CapturedScale   float64

	// ReferenceHipsPos/ReferenceHipsRot はキャプチャ時の Hips のIK空間姿勢。
	ReferenceHipsPos mmath.Vec3
	ReferenceHipsRot mmath.Quaternion

	restPos     [model.HUMAN_BONE_COUNT]mmath.Vec3
	restRot     [model.HUMAN_BONE_COUNT]mmath.Quaternion
	parents     [model.HUMAN_BONE_COUNT]model.HumanBone
	initialized bool
}

// BuildDefinition はスケルトンの参照姿勢から AvatarDefinition を構築する。
func BuildDefinition(accessor ISkeletonAccessor) (*AvatarDefinition, error) {
	if accessor == nil {
		return nil, ErrAccessorMissing
	}
	if !accessor.HasBone(model.HIPS) {
		return nil, ErrHipsMissing
	}

	def := &AvatarDefinition{}
	hipsWorldPos := accessor.WorldPosition(model.HIPS)
	hipsWorldRot := accessor.WorldRotation(model.HIPS)
	invHipsWorldRot := hipsWorldRot.Inverted()
	capturedScale := accessor.LossyScale()
	if capturedScale <= 0 {
		capturedScale = 1
	}
	def.CapturedScale = capturedScale

	for _, bone := range model.AllHumanBones() {
		if !accessor.HasBone(bone) {
			def.RefLocalRot[bone] = mmath.NewQuaternion()
			def.HiplativeRot[bone] = mmath.NewQuaternion()
			def.PostRot[bone] = mmath.NewQuaternion()
			def.InversePostRot[bone] = mmath.NewQuaternion()
			def.RelativeMatrix[bone] = mmath.NewMat4()
			def.restRot[bone] = mmath.NewQuaternion()
			continue
		}
		localPos := accessor.LocalPosition(bone)
		localRot := accessor.LocalRotation(bone).Normalized()
		worldPos := accessor.WorldPosition(bone)
		worldRot := accessor.WorldRotation(bone).Normalized()
		postRot := accessor.PostRotation(bone).Normalized()

		def.Present[bone] = true
		def.RefLocalPos[bone] = localPos
		def.RefLocalRot[bone] = localRot
		def.HiplativePos[bone] = invHipsWorldRot.MulVec3(worldPos.Subed(hipsWorldPos))
		def.HiplativeRot[bone] = invHipsWorldRot.Muled(worldRot).Normalized()
		def.PostRot[bone] = postRot
		def.InversePostRot[bone] = postRot.Inverted()
		def.RelativeMatrix[bone] = mmath.NewMat4FromTRS(
			localPos.MuledScalar(capturedScale),
			localRot,
			mmath.ONE_VEC3,
		)
	}

	invHipsPost := def.InversePostRot[model.HIPS]
	for _, bone := range model.AllHumanBones() {
		def.parents[bone] = model.ParentBone(bone, def.HasBone)
		if !def.Present[bone] {
			continue
		}
		def.restPos[bone] = invHipsPost.MulVec3(def.HiplativePos[bone])
		def.restRot[bone] = invHipsPost.Muled(def.HiplativeRot[bone]).Muled(def.PostRot[bone]).Normalized()
	}

	def.ReferenceHipsPos = hipsWorldPos
	def.ReferenceHipsRot = hipsWorldRot.Muled(def.PostRot[model.HIPS]).Normalized()

	neck := def.restPos[model.NECK]
	head := def.restPos[model.HEAD]
	chest := def.restPos[def.ChestBone()]
	def.HipToNeckLength = neck.Length()
	def.HipToHeadLength = head.Length()
	def.ChestLength = neck.Distance(chest)
	def.NeckLength = head.Distance(neck)
	def.ChestRelation = def.curvatureRelation(chest)
	def.NeckRelation = def.curvatureRelation(neck)

	def.initialized = true
	return def, nil
}

// curvatureRelation は腰→頭軸と前方直交軸への射影比率を返す。
func (d *AvatarDefinition) curvatureRelation(position mmath.Vec3) CurvatureRelation {
	if d.HipToHeadLength <= mmath.EPSILON {
		return CurvatureRelation{}
	}
	axis := d.restPos[model.HEAD].Normalized()
	perpendicular := mmath.UNIT_X_VEC3.Cross(axis).Normalized()
	return CurvatureRelation{
		Along:         position.Dot(axis) / d.HipToHeadLength,
		Perpendicular: position.Dot(perpendicular) / d.HipToHeadLength,
	}
}

// IsInitialized は構築済みか判定する。
func (d *AvatarDefinition) IsInitialized() bool {
	return d != nil && d.initialized
}

// HasBone はボーンが存在するか判定する。
func (d *AvatarDefinition) HasBone(bone model.HumanBone) bool {
	return bone.IsValid() && d.Present[bone]
}

// Parent は解決済みの親ボーンを返す。
func (d *AvatarDefinition) Parent(bone model.HumanBone) model.HumanBone {
	if !bone.IsValid() {
		return model.BONE_NONE
	}
	return d.parents[bone]
}

// ChestBone は胸フレームに使うボーンを返す。Chest がなければ Spine。
func (d *AvatarDefinition) ChestBone() model.HumanBone {
	if d.Present[model.CHEST] {
		return model.CHEST
	}
	return model.SPINE
}

// RestPosition は Hips のIK空間で見た参照姿勢位置を返す。
func (d *AvatarDefinition) RestPosition(bone model.HumanBone) mmath.Vec3 {
	return d.restPos[bone]
}

// RestRotation は Hips のIK空間で見た参照姿勢回転を返す。
func (d *AvatarDefinition) RestRotation(bone model.HumanBone) mmath.Quaternion {
	return d.restRot[bone]
}

// SegmentLength は2ボーン間の参照姿勢距離を返す。
func (d *AvatarDefinition) SegmentLength(from, to model.HumanBone) float64 {
	return d.restPos[from].Distance(d.restPos[to])
}

// ForwardKinematicsOrder は親が子より先に並ぶ存在ボーン列を返す。
func (d *AvatarDefinition) ForwardKinematicsOrder() []model.HumanBone {
	ordered := make([]model.HumanBone, 0, model.HUMAN_BONE_COUNT)
	visited := [model.HUMAN_BONE_COUNT]bool{}
	var visit func(bone model.HumanBone)
	visit = func(bone model.HumanBone) {
		if visited[bone] {
			return
		}
		visited[bone] = true
		if parent := d.parents[bone]; parent != model.BONE_NONE {
			visit(parent)
		}
		ordered = append(ordered, bone)
	}
	for _, bone := range model.AllHumanBones() {
		if d.Present[bone] {
			visit(bone)
		}
	}
	return ordered
}
