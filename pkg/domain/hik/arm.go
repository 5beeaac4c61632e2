// 指示: miu200521358
package hik

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const (
	shoulderExtensionStart = 0.7
	shoulderMaxDegrees     = 60.0
)

// chestFrame は参照姿勢を打ち消した胸の向きを返す。Tスタンスでは腰と同じ向きになる。
func (s *Solver) chestFrame(snapshot Snapshot) mmath.Quaternion {
	chest := s.definition.ChestBone()
	return snapshot.AbsoluteRot[chest].Muled(s.definition.RestRotation(chest).Inverted()).Normalized()
}

// armLookFrame はX軸を side*骨方向、Y軸を肘の蝶番軸とするフレームを返す。
func armLookFrame(direction, bend mmath.Vec3, side float64, fallbackUp mmath.Vec3) mmath.Quaternion {
	x := direction.MuledScalar(side).Normalized()
	if x.IsZero() {
		return mmath.NewQuaternion()
	}
	y := x.Cross(bend).Normalized()
	if y.IsZero() {
		y = mmath.Straighten(fallbackUp, x)
	}
	if y.IsZero() {
		y = x.Orthogonal()
	}
	z := x.Cross(y)
	return mmath.NewQuaternionFromAxes(x, y, z)
}

// solveArm は指定側の腕を肩・2ボーンの順に解く。
func (s *Solver) solveArm(objective Objective, snapshot Snapshot, isLeft bool) {
	def := s.definition
	limb := model.ArmBones(isLeft)
	if !def.HasBone(limb.Root) || !def.HasBone(limb.Mid) || !def.HasBone(limb.Tip) {
		return
	}
	scale := objective.effectiveScale()
	side := limb.Root.Side()
	hand := objective.Hand(isLeft)
	upperLength := def.SegmentLength(limb.Root, limb.Mid) * scale
	lowerLength := def.SegmentLength(limb.Mid, limb.Tip) * scale

	shoulder := model.ShoulderBone(isLeft)
	if def.HasBone(shoulder) {
		snapshot.follow(def, shoulder, scale)
		if objective.UseShoulder > 0 {
			s.solveShoulder(objective, snapshot, shoulder, limb, hand.Position, upperLength+lowerLength)
		}
	}
	snapshot.ReevaluatePosition(def, limb.Root, scale)
	rootPos := snapshot.AbsolutePos[limb.Root]

	chestFrame := s.chestFrame(snapshot)
	bendDirection := s.armBendDirection(objective, snapshot, chestFrame, limb, rootPos, hand, upperLength+lowerLength, isLeft)
	s.trace(model.TraceArmBendDirection, rootPos, rootPos.Added(bendDirection.MuledScalar(upperLength)), traceColorBend)

	objectivePos, distanceType := ApplyCorrections(
		hand.Position, rootPos, upperLength, lowerLength,
		objective.ArmStruggleStart, objective.ArmStruggleEnd,
	)
	bendPos := SolveBendPoint(rootPos, objectivePos, upperLength, lowerLength, distanceType, bendDirection)
	s.trace(model.TraceArmChain, rootPos, bendPos, traceColorLimb)
	s.trace(model.TraceArmChain, bendPos, objectivePos, traceColorLimb)

	chestUp := chestFrame.Up()
	restUpper := def.RestPosition(limb.Mid).Subed(def.RestPosition(limb.Root))
	restLower := def.RestPosition(limb.Tip).Subed(def.RestPosition(limb.Mid))

	upperFrame := armLookFrame(bendPos.Subed(rootPos), bendDirection, side, chestUp)
	restUpperFrame := armLookFrame(restUpper, mmath.UNIT_Z_NEG_VEC3, side, mmath.UNIT_Y_VEC3)
	snapshot.AbsoluteRot[limb.Root] = upperFrame.Muled(restUpperFrame.Inverted()).Muled(def.RestRotation(limb.Root)).Normalized()
	snapshot.ReevaluatePosition(def, limb.Mid, scale)

	lowerFrame := armLookFrame(objectivePos.Subed(bendPos), bendDirection, side, chestUp)
	restLowerFrame := armLookFrame(restLower, mmath.UNIT_Z_NEG_VEC3, side, mmath.UNIT_Y_VEC3)
	snapshot.AbsoluteRot[limb.Mid] = lowerFrame.Muled(restLowerFrame.Inverted()).Muled(def.RestRotation(limb.Mid)).Normalized()
	snapshot.ReevaluatePosition(def, limb.Tip, scale)

	snapshot.AbsoluteRot[limb.Tip] = hand.Rotation
	s.followFingers(snapshot, isLeft, scale)
}

// solveShoulder は手の目標が遠く前方・上方にあるほど肩を回す。
func (s *Solver) solveShoulder(
	objective Objective,
	snapshot Snapshot,
	shoulder model.HumanBone,
	limb model.LimbBones,
	handPos mmath.Vec3,
	armLength float64,
) {
	def := s.definition
	scale := objective.effectiveScale()
	snapshot.ReevaluatePosition(def, limb.Root, scale)
	if armLength <= mmath.EPSILON {
		return
	}
	extension := handPos.Distance(snapshot.AbsolutePos[limb.Root]) / armLength
	influence := mmath.Clamp01((extension - shoulderExtensionStart) / (1 - shoulderExtensionStart))
	if influence <= 0 {
		return
	}

	chestFrame := s.chestFrame(snapshot)
	chestUp := chestFrame.Up()
	chestForward := chestFrame.Forward()
	shoulderPos := snapshot.AbsolutePos[shoulder]
	toHand := handPos.Subed(shoulderPos).Normalized()
	frontward := mmath.Clamp01(toHand.Dot(chestForward))
	upward := mmath.Clamp01(toHand.Dot(chestUp))

	side := shoulder.Side()
	use := mmath.Clamp01(objective.UseShoulder)
	maxRadian := mmath.DegToRad(shoulderMaxDegrees)
	forwardAngle := -side * maxRadian * frontward * influence * objective.ShoulderForwardMultiplier * use
	upwardAngle := side * maxRadian * upward * influence * objective.ShoulderUpwardMultiplier * use

	rotation := mmath.NewQuaternionFromAxisAngle(chestUp, forwardAngle).
		Muled(mmath.NewQuaternionFromAxisAngle(chestForward, upwardAngle))
	snapshot.AbsoluteRot[shoulder] = rotation.Muled(snapshot.AbsoluteRot[shoulder]).Normalized()
	snapshot.ReevaluatePosition(def, limb.Root, scale)
	s.trace(model.TraceShoulder, shoulderPos, snapshot.AbsolutePos[limb.Root], traceColorLimb)
}

// armBendDirection は肘を向ける方向を決める。
func (s *Solver) armBendDirection(
	objective Objective,
	snapshot Snapshot,
	chestFrame mmath.Quaternion,
	limb model.LimbBones,
	rootPos mmath.Vec3,
	hand Target,
	armLength float64,
	isLeft bool,
) mmath.Vec3 {
	def := s.definition
	side := limb.Root.Side()
	back := chestFrame.MulVec3(mmath.UNIT_Z_NEG_VEC3)

	var bend mmath.Vec3
	if table := s.lookupTable(isLeft); table != nil && armLength > mmath.EPSILON {
		local := chestFrame.Inverted().MulVec3(hand.Position.Subed(rootPos)).DivedScalar(armLength)
		bend = chestFrame.MulVec3(table.Lookup(local)).Normalized()
	}
	if bend.IsZero() {
		down := chestFrame.MulVec3(mmath.UNIT_Y_NEG_VEC3)
		up := chestFrame.Up()
		outward := chestFrame.MulVec3(mmath.NewVec3(side, 0, 0))
		outwardDown := outward.Added(down).Normalized()

		handFrame := hand.Rotation.Muled(def.RestRotation(limb.Tip).Inverted())
		palmUp := handFrame.MulVec3(mmath.UNIT_Y_NEG_VEC3).Dot(up)
		toHand := hand.Position.Subed(rootPos).Normalized()
		outwardDot := toHand.Dot(outward)
		chestPos := snapshot.AbsolutePos[def.ChestBone()]
		insideDot := hand.Position.Subed(chestPos).Normalized().Dot(outward.Negated())

		bend = mmath.LerpDot(back, down, back, palmUp)
		bend = mmath.LerpDot(bend, back, bend, mmath.Clamp01(outwardDot))
		bend = mmath.LerpDot(bend, outwardDown, bend, mmath.Clamp01(insideDot))
	}

	hintPos, weight := objective.LowerArmHint(isLeft)
	if weight > 0 {
		midpoint := rootPos.Lerp(hand.Position, 0.5)
		hint := hintPos.Subed(midpoint).Normalized()
		if !hint.IsZero() {
			if weight >= 1 {
				bend = hint
			} else {
				bend = bend.Lerp(hint, weight).NormalizedOr(bend)
			}
		}
	}
	return bend
}

// lookupTable は指定側の曲げ方向テーブルを返す。
func (s *Solver) lookupTable(isLeft bool) *BendLookupTable {
	if isLeft {
		return s.leftLookup
	}
	return s.rightLookup
}

// followFingers は手の回転に指を追従させる。
func (s *Solver) followFingers(snapshot Snapshot, isLeft bool, scale float64) {
	first, last := model.RIGHT_THUMB_PROXIMAL, model.RIGHT_LITTLE_DISTAL
	if isLeft {
		first, last = model.LEFT_THUMB_PROXIMAL, model.LEFT_LITTLE_DISTAL
	}
	for bone := first; bone <= last; bone++ {
		snapshot.follow(s.definition, bone, scale)
	}
}
