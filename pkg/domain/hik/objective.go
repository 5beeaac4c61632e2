// 指示: miu200521358
package hik

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const (
	// DefaultFabrikIterations は背骨FABRIKの既定反復回数。
	DefaultFabrikIterations = 10
	// DefaultStruggleStart は届かない目標の緩和開始比率。
	// 既定は緩和なしで、伸び切った参照姿勢の四肢はそのまま MaximumDistance になる。
	DefaultStruggleStart = 1.0
	// DefaultStruggleEnd は届かない目標の緩和終了比率。
	DefaultStruggleEnd = 1.0
)

// Target はワールド位置とIK空間回転の組。
type Target struct {
	Position mmath.Vec3
	Rotation mmath.Quaternion
}

// NewTarget は単位回転の目標を返す。
func NewTarget(position mmath.Vec3) Target {
	return Target{Position: position, Rotation: mmath.NewQuaternion()}
}

// SelfParenting は手の目標を既に解いたボーン基準の姿勢へ寄せる指定。
type SelfParenting struct {
	Use         float64
	Bone        model.HumanBone
	RelativePos mmath.Vec3
	RelativeRot mmath.Quaternion
}

// Objective は1回の解決で要求する目標姿勢。
type Objective struct {
	Hips      Target
	Head      Target
	LeftHand  Target
	RightHand Target
	LeftFoot  Target
	RightFoot Target

	Chest                  Target
	UseChest               float64
	AlsoUseChestToMoveNeck bool

	LeftLowerArm     mmath.Vec3
	RightLowerArm    mmath.Vec3
	UseLeftLowerArm  float64
	UseRightLowerArm float64

	SolveSpine    bool
	SolveLeftLeg  bool
	SolveRightLeg bool
	SolveLeftArm  bool
	SolveRightArm bool

	LegStruggleStart float64
	LegStruggleEnd   float64
	ArmStruggleStart float64
	ArmStruggleEnd   float64

	UseStraddlingLeftLeg       bool
	UseStraddlingRightLeg      bool
	GroundedStraddlingLeftLeg  Target
	GroundedStraddlingRightLeg Target
	DoubleJointedKneeWeight    float64

	UseShoulder               float64
	ShoulderForwardMultiplier float64
	ShoulderUpwardMultiplier  float64

	HeadAlignmentMattersMore              bool
	AllowContortionist                    bool
	DoNotPreserveHipsToNeckCurvatureLimit bool

	LeftHandSelfParenting  SelfParenting
	RightHandSelfParenting SelfParenting

	Scale            float64
	FabrikIterations int
}

// NewObjective は既定値の Objective を返す。
func NewObjective() Objective {
	identity := mmath.NewQuaternion()
	return Objective{
		Hips:                       Target{Rotation: identity},
		Head:                       Target{Rotation: identity},
		LeftHand:                   Target{Rotation: identity},
		RightHand:                  Target{Rotation: identity},
		LeftFoot:                   Target{Rotation: identity},
		RightFoot:                  Target{Rotation: identity},
		Chest:                      Target{Rotation: identity},
		GroundedStraddlingLeftLeg:  Target{Rotation: identity},
		GroundedStraddlingRightLeg: Target{Rotation: identity},
		SolveSpine:                 true,
		SolveLeftLeg:               true,
		SolveRightLeg:              true,
		SolveLeftArm:               true,
		SolveRightArm:              true,
		LegStruggleStart:           DefaultStruggleStart,
		LegStruggleEnd:             DefaultStruggleEnd,
		ArmStruggleStart:           DefaultStruggleStart,
		ArmStruggleEnd:             DefaultStruggleEnd,
		ShoulderForwardMultiplier:  1,
		ShoulderUpwardMultiplier:   1,
		LeftHandSelfParenting:      SelfParenting{Bone: model.BONE_NONE, RelativeRot: identity},
		RightHandSelfParenting:     SelfParenting{Bone: model.BONE_NONE, RelativeRot: identity},
		Scale:                      1,
		FabrikIterations:           DefaultFabrikIterations,
	}
}

// Hand は指定側の手の目標を返す。
func (o Objective) Hand(isLeft bool) Target {
	if isLeft {
		return o.LeftHand
	}
	return o.RightHand
}

// WithHand は指定側の手の目標を差し替えた Objective を返す。
func (o Objective) WithHand(isLeft bool, target Target) Objective {
	if isLeft {
		o.LeftHand = target
	} else {
		o.RightHand = target
	}
	return o
}

// Foot は指定側の足の目標を返す。
func (o Objective) Foot(isLeft bool) Target {
	if isLeft {
		return o.LeftFoot
	}
	return o.RightFoot
}

// LowerArmHint は指定側の肘ヒントと重みを返す。
func (o Objective) LowerArmHint(isLeft bool) (mmath.Vec3, float64) {
	if isLeft {
		return o.LeftLowerArm, o.UseLeftLowerArm
	}
	return o.RightLowerArm, o.UseRightLowerArm
}

// SolveArm は指定側の腕を解くか返す。
func (o Objective) SolveArm(isLeft bool) bool {
	if isLeft {
		return o.SolveLeftArm
	}
	return o.SolveRightArm
}

// SolveLeg は指定側の脚を解くか返す。
func (o Objective) SolveLeg(isLeft bool) bool {
	if isLeft {
		return o.SolveLeftLeg
	}
	return o.SolveRightLeg
}

// Straddling は指定側の脚の跨ぎ指定と接地ピボットを返す。
func (o Objective) Straddling(isLeft bool) (bool, Target) {
	if isLeft {
		return o.UseStraddlingLeftLeg, o.GroundedStraddlingLeftLeg
	}
	return o.UseStraddlingRightLeg, o.GroundedStraddlingRightLeg
}

// HandSelfParenting は指定側の手の自己親子付け指定を返す。
func (o Objective) HandSelfParenting(isLeft bool) SelfParenting {
	if isLeft {
		return o.LeftHandSelfParenting
	}
	return o.RightHandSelfParenting
}

// effectiveScale は解決に使うスケールを返す。
func (o Objective) effectiveScale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// effectiveIterations は解決に使うFABRIK反復回数を返す。
func (o Objective) effectiveIterations() int {
	if o.FabrikIterations <= 0 {
		return DefaultFabrikIterations
	}
	return o.FabrikIterations
}

// SelfParentingUsed は指定側の手で自己親子付けが有効か返す。
func (o Objective) SelfParentingUsed(isLeft bool) bool {
	parenting := o.HandSelfParenting(isLeft)
	return parenting.Use > 0 && parenting.Bone.IsValid()
}

// ObjectiveFromSnapshot はスナップショットの姿勢をそのまま目標にした Objective を返す。
func ObjectiveFromSnapshot(snapshot Snapshot) Objective {
	objective := NewObjective()
	at := func(bone model.HumanBone) Target {
		return Target{Position: snapshot.AbsolutePos[bone], Rotation: snapshot.AbsoluteRot[bone]}
	}
	objective.Hips = at(model.HIPS)
	objective.Head = at(model.HEAD)
	objective.LeftHand = at(model.LEFT_HAND)
	objective.RightHand = at(model.RIGHT_HAND)
	objective.LeftFoot = at(model.LEFT_FOOT)
	objective.RightFoot = at(model.RIGHT_FOOT)
	objective.Chest = at(model.CHEST)
	return objective
}
