// 指示: miu200521358
package io_config

import (
	"sort"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const (
	targetHips          = "hips"
	targetHead          = "head"
	targetChest         = "chest"
	targetLeftHand      = "leftHand"
	targetRightHand     = "rightHand"
	targetLeftFoot      = "leftFoot"
	targetRightFoot     = "rightFoot"
	targetLeftLowerArm  = "leftLowerArm"
	targetRightLowerArm = "rightLowerArm"
	straddlingLeftLeg   = "leftLeg"
	straddlingRightLeg  = "rightLeg"
)

// targetBones は目標名と参照姿勢の基準ボーンの対応。
var targetBones = map[string]model.HumanBone{
	targetHips:          model.HIPS,
	targetHead:          model.HEAD,
	targetChest:         model.CHEST,
	targetLeftHand:      model.LEFT_HAND,
	targetRightHand:     model.RIGHT_HAND,
	targetLeftFoot:      model.LEFT_FOOT,
	targetRightFoot:     model.RIGHT_FOOT,
	targetLeftLowerArm:  model.LEFT_LOWER_ARM,
	targetRightLowerArm: model.RIGHT_LOWER_ARM,
}

// offsetExpressions は位置の移動量の式。
type offsetExpressions struct {
	x, y, z *Expression
}

func (o offsetExpressions) evaluate(frame int, seconds float64) (mmath.Vec3, error) {
	values := [3]float64{}
	for i, expression := range []*Expression{o.x, o.y, o.z} {
		value, err := expression.Evaluate(frame, seconds)
		if err != nil {
			return mmath.ZERO_VEC3, err
		}
		values[i] = value
	}
	return mmath.NewVec3(values[0], values[1], values[2]), nil
}

// compiledTarget は解析済みの目標式。
type compiledTarget struct {
	name   string
	bone   model.HumanBone
	offset offsetExpressions
	pitch  *Expression
	yaw    *Expression
	roll   *Expression
	use    *Expression
}

// rotation は Yaw(Y)・Pitch(X)・Roll(Z) の順に合成した回転を返す。
func (c *compiledTarget) rotation(frame int, seconds float64) (mmath.Quaternion, error) {
	pitch, err := c.pitch.Evaluate(frame, seconds)
	if err != nil {
		return mmath.NewQuaternion(), err
	}
	yaw, err := c.yaw.Evaluate(frame, seconds)
	if err != nil {
		return mmath.NewQuaternion(), err
	}
	roll, err := c.roll.Evaluate(frame, seconds)
	if err != nil {
		return mmath.NewQuaternion(), err
	}
	return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, mmath.DegToRad(yaw)).
		Muled(mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(pitch))).
		Muled(mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, mmath.DegToRad(roll))).
		Normalized(), nil
}

// compiledSelfParenting は解析済みの自己親子付け指定。
type compiledSelfParenting struct {
	bone model.HumanBone
	use  *Expression
}

// ObjectiveProvider は設定から各フレームの Objective を組み立てる。
type ObjectiveProvider struct {
	solver        SolverSection
	targets       []*compiledTarget
	straddling    map[bool]offsetExpressions
	selfParenting map[bool]compiledSelfParenting
}

// NewObjectiveProvider は設定の式を解析して ObjectiveProvider を生成する。
func NewObjectiveProvider(cfg *Config) (*ObjectiveProvider, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	provider := &ObjectiveProvider{
		solver:        cfg.Solver,
		straddling:    map[bool]offsetExpressions{},
		selfParenting: map[bool]compiledSelfParenting{},
	}

	names := make([]string, 0, len(cfg.Target))
	for name := range cfg.Target {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bone, ok := targetBones[name]
		if !ok {
			return nil, io_common.NewIoFormatNotSupported("未対応の目標名です: %s", nil, name)
		}
		section := cfg.Target[name]
		if section == nil {
			continue
		}
		target := &compiledTarget{name: name, bone: bone}
		var err error
		if target.offset, err = parseOffset(section.X, section.Y, section.Z); err != nil {
			return nil, err
		}
		for _, pair := range []struct {
			dst    **Expression
			source string
		}{
			{&target.pitch, section.Pitch},
			{&target.yaw, section.Yaw},
			{&target.roll, section.Roll},
			{&target.use, section.Use},
		} {
			if *pair.dst, err = ParseExpression(pair.source); err != nil {
				return nil, err
			}
		}
		provider.targets = append(provider.targets, target)
	}

	for name, section := range cfg.Straddling {
		isLeft, err := legSide(name)
		if err != nil {
			return nil, err
		}
		if section == nil {
			continue
		}
		offset, err := parseOffset(section.X, section.Y, section.Z)
		if err != nil {
			return nil, err
		}
		provider.straddling[isLeft] = offset
	}

	for name, section := range cfg.SelfParenting {
		isLeft, err := handSide(name)
		if err != nil {
			return nil, err
		}
		if section == nil {
			continue
		}
		bone, ok := model.HumanBoneByName(section.Bone)
		if !ok {
			return nil, io_common.NewIoFormatNotSupported("自己親子付けの親ボーン名が不正です: %s", nil, section.Bone)
		}
		use, err := ParseExpression(section.Use)
		if err != nil {
			return nil, err
		}
		provider.selfParenting[isLeft] = compiledSelfParenting{bone: bone, use: use}
	}
	return provider, nil
}

func parseOffset(x, y, z string) (offsetExpressions, error) {
	var offset offsetExpressions
	var err error
	if offset.x, err = ParseExpression(x); err != nil {
		return offset, err
	}
	if offset.y, err = ParseExpression(y); err != nil {
		return offset, err
	}
	if offset.z, err = ParseExpression(z); err != nil {
		return offset, err
	}
	return offset, nil
}

func legSide(name string) (bool, error) {
	switch name {
	case straddlingLeftLeg:
		return true, nil
	case straddlingRightLeg:
		return false, nil
	}
	return false, io_common.NewIoFormatNotSupported("未対応の脚名です: %s", nil, name)
}

func handSide(name string) (bool, error) {
	switch name {
	case targetLeftHand:
		return true, nil
	case targetRightHand:
		return false, nil
	}
	return false, io_common.NewIoFormatNotSupported("未対応の手の名前です: %s", nil, name)
}

// ObjectiveAt は参照姿勢を基準に、指定フレームの Objective を返す。
func (p *ObjectiveProvider) ObjectiveAt(frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error) {
	objective := hik.ObjectiveFromSnapshot(rest)
	p.applySolver(&objective)

	for _, target := range p.targets {
		offset, err := target.offset.evaluate(frame, seconds)
		if err != nil {
			return objective, err
		}
		rotation, err := target.rotation(frame, seconds)
		if err != nil {
			return objective, err
		}
		use, err := target.use.Evaluate(frame, seconds)
		if err != nil {
			return objective, err
		}
		moved := hik.Target{
			Position: rest.AbsolutePos[target.bone].Added(offset),
			Rotation: rotation.Muled(rest.AbsoluteRot[target.bone]).Normalized(),
		}
		switch target.name {
		case targetHips:
			objective.Hips = moved
		case targetHead:
			objective.Head = moved
		case targetChest:
			objective.Chest = moved
			objective.UseChest = mmath.Clamp01(use)
		case targetLeftHand:
			objective.LeftHand = moved
		case targetRightHand:
			objective.RightHand = moved
		case targetLeftFoot:
			objective.LeftFoot = moved
		case targetRightFoot:
			objective.RightFoot = moved
		case targetLeftLowerArm:
			objective.LeftLowerArm = moved.Position
			objective.UseLeftLowerArm = mmath.Clamp01(use)
		case targetRightLowerArm:
			objective.RightLowerArm = moved.Position
			objective.UseRightLowerArm = mmath.Clamp01(use)
		}
	}

	for isLeft, offsetExpr := range p.straddling {
		offset, err := offsetExpr.evaluate(frame, seconds)
		if err != nil {
			return objective, err
		}
		foot := model.LegBones(isLeft).Tip
		pivot := hik.NewTarget(rest.AbsolutePos[foot].Added(offset))
		if isLeft {
			objective.UseStraddlingLeftLeg = true
			objective.GroundedStraddlingLeftLeg = pivot
		} else {
			objective.UseStraddlingRightLeg = true
			objective.GroundedStraddlingRightLeg = pivot
		}
	}

	for isLeft, parenting := range p.selfParenting {
		use, err := parenting.use.Evaluate(frame, seconds)
		if err != nil {
			return objective, err
		}
		relative := hik.SelfParentingFromTarget(objective.Hand(isLeft), rest, hik.SelfParenting{
			Use:  mmath.Clamp01(use),
			Bone: parenting.bone,
		})
		if isLeft {
			objective.LeftHandSelfParenting = relative
		} else {
			objective.RightHandSelfParenting = relative
		}
	}
	return objective, nil
}

// applySolver は [solver] セクションの値を Objective へ写す。
func (p *ObjectiveProvider) applySolver(objective *hik.Objective) {
	s := p.solver
	objective.Scale = s.Scale
	objective.FabrikIterations = s.FabrikIterations
	objective.UseShoulder = mmath.Clamp01(s.UseShoulder)
	objective.ShoulderForwardMultiplier = s.ShoulderForwardMultiplier
	objective.ShoulderUpwardMultiplier = s.ShoulderUpwardMultiplier
	objective.ArmStruggleStart = s.ArmStruggleStart
	objective.ArmStruggleEnd = s.ArmStruggleEnd
	objective.LegStruggleStart = s.LegStruggleStart
	objective.LegStruggleEnd = s.LegStruggleEnd
	objective.DoubleJointedKneeWeight = mmath.Clamp01(s.DoubleJointedKneeWeight)
	objective.AlsoUseChestToMoveNeck = s.AlsoUseChestToMoveNeck
	objective.HeadAlignmentMattersMore = s.HeadAlignmentMattersMore
	objective.AllowContortionist = s.AllowContortionist
	objective.DoNotPreserveHipsToNeckCurvatureLimit = s.DoNotPreserveHipsToNeckCurvatureLimit
	objective.SolveSpine = s.SolveSpine
	objective.SolveLeftLeg = s.SolveLeftLeg
	objective.SolveRightLeg = s.SolveRightLeg
	objective.SolveLeftArm = s.SolveLeftArm
	objective.SolveRightArm = s.SolveRightArm
}
