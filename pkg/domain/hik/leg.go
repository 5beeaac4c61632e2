// 指示: miu200521358
package hik

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const doubleJointedKneeRatio = 0.1

// legBendHint は足ローカルの膝方向ヒント(下前方)。
var legBendHint = mmath.NewVec3(0, -1, 1).Normalized()

// legLookFrame はY軸を脚の上方向、Z軸を膝方向とするフレームを返す。
func legLookFrame(direction, bend mmath.Vec3) mmath.Quaternion {
	up := direction.Negated().Normalized()
	if up.IsZero() {
		return mmath.NewQuaternion()
	}
	forward := mmath.Straighten(bend, up)
	if forward.IsZero() {
		forward = up.Orthogonal()
	}
	return mmath.LookRotation(forward, up)
}

// solveLeg は指定側の脚を解く。
func (s *Solver) solveLeg(objective Objective, snapshot Snapshot, isLeft bool) {
	def := s.definition
	limb := model.LegBones(isLeft)
	if !def.HasBone(limb.Root) || !def.HasBone(limb.Mid) || !def.HasBone(limb.Tip) {
		return
	}
	scale := objective.effectiveScale()
	foot := objective.Foot(isLeft)
	upperLength := def.SegmentLength(limb.Root, limb.Mid) * scale
	lowerLength := def.SegmentLength(limb.Mid, limb.Tip) * scale

	snapshot.ReevaluatePosition(def, limb.Root, scale)
	rootPos := snapshot.AbsolutePos[limb.Root]

	footFrame := foot.Rotation.Muled(def.RestRotation(limb.Tip).Inverted())
	bendDirection := footFrame.MulVec3(legBendHint)

	var kneePos, objectivePos mmath.Vec3
	if straddling, pivot := objective.Straddling(isLeft); straddling {
		kneePos, objectivePos = SolveStraddling(rootPos, foot.Position, pivot.Position, upperLength, lowerLength, bendDirection)
		s.trace(model.TraceLegBendDirection, rootPos, pivot.Position, traceColorBend)
	} else {
		s.trace(model.TraceLegBendDirection, rootPos, rootPos.Added(bendDirection.MuledScalar(upperLength)), traceColorBend)
		var distanceType DistanceType
		objectivePos, distanceType = ApplyCorrections(
			foot.Position, rootPos, upperLength, lowerLength,
			objective.LegStruggleStart, objective.LegStruggleEnd,
		)
		kneePos = SolveBendPoint(rootPos, objectivePos, upperLength, lowerLength, distanceType, bendDirection)
	}

	if objective.DoubleJointedKneeWeight > 0 {
		kneePos = fakeDoubleJointedKnee(rootPos, kneePos, objectivePos, lowerLength, objective.DoubleJointedKneeWeight)
	}
	s.trace(model.TraceLegChain, rootPos, kneePos, traceColorLimb)
	s.trace(model.TraceLegChain, kneePos, objectivePos, traceColorLimb)

	restUpper := def.RestPosition(limb.Mid).Subed(def.RestPosition(limb.Root))
	restLower := def.RestPosition(limb.Tip).Subed(def.RestPosition(limb.Mid))

	upperFrame := legLookFrame(kneePos.Subed(rootPos), bendDirection)
	restUpperFrame := legLookFrame(restUpper, legBendHint)
	snapshot.AbsoluteRot[limb.Root] = upperFrame.Muled(restUpperFrame.Inverted()).Muled(def.RestRotation(limb.Root)).Normalized()

	lowerFrame := legLookFrame(objectivePos.Subed(kneePos), bendDirection)
	restLowerFrame := legLookFrame(restLower, legBendHint)
	snapshot.AbsoluteRot[limb.Mid] = lowerFrame.Muled(restLowerFrame.Inverted()).Muled(def.RestRotation(limb.Mid)).Normalized()

	snapshot.AbsolutePos[limb.Mid] = kneePos
	snapshot.AbsolutePos[limb.Tip] = objectivePos
	snapshot.AbsoluteRot[limb.Tip] = foot.Rotation
	snapshot.follow(def, model.ToesBone(isLeft), scale)
}

// fakeDoubleJointedKnee は膝が鋭角なほど膝位置をすね方向へ押し出す。
// 2ボーンの長さ拘束は満たさない。
func fakeDoubleJointedKnee(rootPos, kneePos, footPos mmath.Vec3, lowerLength, weight float64) mmath.Vec3 {
	toRoot := rootPos.Subed(kneePos).Normalized()
	shin := kneePos.Subed(footPos).Normalized()
	if toRoot.IsZero() || shin.IsZero() {
		return kneePos
	}
	acute := (1 + toRoot.Dot(shin.Negated())) / 2
	return kneePos.Added(shin.MuledScalar(lowerLength * doubleJointedKneeRatio * acute * weight))
}
