// 指示: miu200521358
package minteractor

import (
	"math"

	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const (
	tstanceAxisEpsilon     = 1e-8
	tstanceUpDownTolerance = 10.0
	tstanceSideTolerance   = 30.0
	nonUniformScaleEpsilon = 1e-3
)

// isTstanceDefinition は参照姿勢の左右上腕がTスタンス相当か判定する。
func isTstanceDefinition(def *hik.AvatarDefinition) bool {
	if def == nil {
		return false
	}
	vectors := make([]mmath.Vec3, 0, 2)
	for _, isLeft := range []bool{true, false} {
		arm := model.ArmBones(isLeft)
		if !def.HasBone(arm.Root) || !def.HasBone(arm.Mid) {
			return false
		}
		vector := def.RestPosition(arm.Mid).Subed(def.RestPosition(arm.Root))
		if !isTstanceArmVector(vector) {
			return false
		}
		vectors = append(vectors, vector)
	}
	// 左腕は +X、右腕は -X を向く。
	return vectors[0].X > 0 && vectors[1].X < 0
}

// isTstanceArmVector は片腕ベクトルが水平かつ側方を向くか判定する。
func isTstanceArmVector(armVector mmath.Vec3) bool {
	length := armVector.Length()
	if length <= tstanceAxisEpsilon {
		return false
	}

	upDownRatio := mmath.Clamp(armVector.Y/length, -1.0, 1.0)
	upDownDegree := mmath.RadToDeg(math.Abs(math.Asin(upDownRatio)))
	if upDownDegree > tstanceUpDownTolerance {
		return false
	}

	sideLength := math.Hypot(armVector.X, armVector.Z)
	if sideLength <= tstanceAxisEpsilon {
		return false
	}
	sideDegree := mmath.RadToDeg(math.Abs(math.Atan2(math.Abs(armVector.Z), math.Abs(armVector.X))))
	return sideDegree <= tstanceSideTolerance
}

// collectDefinitionWarnings は参照姿勢の警告IDを集める。
func collectDefinitionWarnings(accessor hik.ISkeletonAccessor, def *hik.AvatarDefinition) []string {
	warnings := make([]string, 0, 3)
	for _, bone := range model.RequiredHumanBones() {
		if !def.HasBone(bone) {
			warnings = append(warnings, model.FbikWarningRequiredBoneMissing)
			break
		}
	}
	if !isTstanceDefinition(def) {
		warnings = append(warnings, model.FbikWarningNotTStance)
	}
	for _, bone := range model.AllHumanBones() {
		if def.HasBone(bone) && !isUniformScale(accessor.LocalScale(bone)) {
			warnings = append(warnings, model.FbikWarningNonUniformScale)
			break
		}
	}
	return warnings
}

// isUniformScale は3軸のスケールが揃っているか判定する。
func isUniformScale(scale mmath.Vec3) bool {
	return math.Abs(scale.X-scale.Y) <= nonUniformScaleEpsilon &&
		math.Abs(scale.Y-scale.Z) <= nonUniformScaleEpsilon
}
