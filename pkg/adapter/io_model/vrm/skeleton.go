// 指示: miu200521358
package vrm

import (
	"math"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

// VrmVersion はVRMのバージョンを表す。
type VrmVersion string

const (
	VRM_VERSION_0 VrmVersion = "0.x"
	VRM_VERSION_1 VrmVersion = "1.0"
)

// Skeleton はVRMヒューマノイドの参照姿勢を保持し、hik.ISkeletonAccessor を満たす。
type Skeleton struct {
	Name    string
	Version VrmVersion

	nodeIndexes [model.HUMAN_BONE_COUNT]int
	present     [model.HUMAN_BONE_COUNT]bool
	worldPos    [model.HUMAN_BONE_COUNT]mmath.Vec3
	worldRot    [model.HUMAN_BONE_COUNT]mmath.Quaternion
	worldScale  [model.HUMAN_BONE_COUNT]mmath.Vec3
	lossyScale  float64
	facing      mmath.Quaternion
}

// newSkeleton はワールド行列からスケルトンを構築する。
func newSkeleton(
	name string,
	version VrmVersion,
	humanNodes map[model.HumanBone]int,
	worldMats []mmath.Mat4,
) (*Skeleton, error) {
	s := &Skeleton{
		Name:    name,
		Version: version,
		facing:  facingRotation(version),
	}
	for i := range s.nodeIndexes {
		s.nodeIndexes[i] = -1
		s.worldRot[i] = mmath.NewQuaternion()
		s.worldScale[i] = mmath.ONE_VEC3
	}
	for bone, nodeIndex := range humanNodes {
		if nodeIndex < 0 || nodeIndex >= len(worldMats) {
			return nil, io_common.NewIoParseFailed("humanBones の node が不正です: %s=%d", nil, bone.Name(), nodeIndex)
		}
		world := worldMats[nodeIndex]
		s.nodeIndexes[bone] = nodeIndex
		s.present[bone] = true
		s.worldPos[bone] = world.Translation()
		s.worldRot[bone] = world.Quaternion()
		s.worldScale[bone] = world.Scale()
	}

	hipsScale := s.worldScale[model.HIPS]
	s.lossyScale = (hipsScale.X + hipsScale.Y + hipsScale.Z) / 3
	if s.lossyScale <= mmath.EPSILON || math.IsNaN(s.lossyScale) {
		s.lossyScale = 1
	}
	return s, nil
}

// facingRotation は正面を +Z へ揃える回転を返す。VRM0 は -Z 向きなので Y 軸で半回転する。
func facingRotation(version VrmVersion) mmath.Quaternion {
	if version == VRM_VERSION_0 {
		return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, math.Pi)
	}
	return mmath.NewQuaternion()
}

// NodeIndex はボーンに対応するglTF node indexを返す。
func (s *Skeleton) NodeIndex(bone model.HumanBone) (int, bool) {
	if !bone.IsValid() || !s.present[bone] {
		return -1, false
	}
	return s.nodeIndexes[bone], true
}

// Facing はモデルの正面補正回転を返す。
func (s *Skeleton) Facing() mmath.Quaternion {
	return s.facing
}

// HasBone はボーンがヒューマノイド定義に存在するか判定する。
func (s *Skeleton) HasBone(bone model.HumanBone) bool {
	return bone.IsValid() && s.present[bone]
}

// parent は存在するヒューマノイド親ボーンを返す。
func (s *Skeleton) parent(bone model.HumanBone) model.HumanBone {
	return model.ParentBone(bone, s.HasBone)
}

// LocalPosition はヒューマノイド親から見たスケール除去済みの位置を返す。
func (s *Skeleton) LocalPosition(bone model.HumanBone) mmath.Vec3 {
	parent := s.parent(bone)
	if parent == model.BONE_NONE {
		return s.worldPos[bone]
	}
	diff := s.worldPos[bone].Subed(s.worldPos[parent])
	return s.worldRot[parent].Inverted().MulVec3(diff).DivedScalar(s.lossyScale)
}

// LocalRotation はヒューマノイド親から見たローカル回転を返す。
func (s *Skeleton) LocalRotation(bone model.HumanBone) mmath.Quaternion {
	parent := s.parent(bone)
	if parent == model.BONE_NONE {
		return s.worldRot[bone]
	}
	return s.worldRot[parent].Inverted().Muled(s.worldRot[bone]).Normalized()
}

// LocalScale は全体スケールで割ったローカルスケールを返す。
func (s *Skeleton) LocalScale(bone model.HumanBone) mmath.Vec3 {
	return s.worldScale[bone].DivedScalar(s.lossyScale)
}

// WorldPosition は参照姿勢のワールド位置を返す。
func (s *Skeleton) WorldPosition(bone model.HumanBone) mmath.Vec3 {
	return s.worldPos[bone]
}

// WorldRotation は参照姿勢のワールド回転を返す。
func (s *Skeleton) WorldRotation(bone model.HumanBone) mmath.Quaternion {
	return s.worldRot[bone]
}

// PostRotation は参照姿勢のワールド回転を打ち消して正面補正を掛けた回転を返す。
// 参照姿勢ではIK空間の回転が正面補正そのものになる。
func (s *Skeleton) PostRotation(bone model.HumanBone) mmath.Quaternion {
	return s.worldRot[bone].Inverted().Muled(s.facing).Normalized()
}

// LossyScale は Hips のワールドスケール平均を返す。
func (s *Skeleton) LossyScale() float64 {
	return s.lossyScale
}
