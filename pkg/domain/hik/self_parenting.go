// 指示: miu200521358
package hik

// ApplySelfParenting は解決済みボーン基準の姿勢へ手の目標を寄せた新しい Objective を返す。
// 引数の Objective は変更しない。
func ApplySelfParenting(objective Objective, snapshot Snapshot) Objective {
	result := objective
	for _, isLeft := range []bool{true, false} {
		parenting := objective.HandSelfParenting(isLeft)
		if parenting.Use <= 0 || !parenting.Bone.IsValid() || !snapshot.IsAllocated() {
			continue
		}
		computed := SelfParentedTarget(parenting, snapshot)
		if parenting.Use >= 1 {
			result = result.WithHand(isLeft, computed)
			continue
		}
		original := objective.Hand(isLeft)
		result = result.WithHand(isLeft, Target{
			Position: original.Position.Lerp(computed.Position, parenting.Use),
			Rotation: original.Rotation.Slerp(computed.Rotation, parenting.Use),
		})
	}
	return result
}

// SelfParentedTarget は親ボーンの絶対姿勢と相対姿勢から目標を求める。
func SelfParentedTarget(parenting SelfParenting, snapshot Snapshot) Target {
	parentPos := snapshot.AbsolutePos[parenting.Bone]
	parentRot := snapshot.AbsoluteRot[parenting.Bone]
	return Target{
		Position: parentPos.Added(parentRot.MulVec3(parenting.RelativePos)),
		Rotation: parentRot.Muled(parenting.RelativeRot).Normalized(),
	}
}

// SelfParentingFromTarget は現在の手の目標を親ボーン基準の相対姿勢で表す。
func SelfParentingFromTarget(target Target, snapshot Snapshot, parent SelfParenting) SelfParenting {
	parentPos := snapshot.AbsolutePos[parent.Bone]
	parentRot := snapshot.AbsoluteRot[parent.Bone]
	inv := parentRot.Inverted()
	parent.RelativePos = inv.MulVec3(target.Position.Subed(parentPos))
	parent.RelativeRot = inv.Muled(target.Rotation).Normalized()
	return parent
}

