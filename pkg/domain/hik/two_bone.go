// 指示: miu200521358
package hik

import (
	"math"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
)

// DistanceType は2ボーンの目標距離の分類。
type DistanceType int

const (
	// DISTANCE_REGULAR は余弦定理で解ける距離。
	DISTANCE_REGULAR DistanceType = iota
	// DISTANCE_MAXIMUM は伸び切った距離。
	DISTANCE_MAXIMUM
	// DISTANCE_MINIMUM は折り畳み切った距離。
	DISTANCE_MINIMUM
)

// distanceEpsilon は距離分類の相対許容誤差。
const distanceEpsilon = 1e-9

// String は表示用文字列を返す。
func (d DistanceType) String() string {
	switch d {
	case DISTANCE_MAXIMUM:
		return "MaximumDistance"
	case DISTANCE_MINIMUM:
		return "MinimumDistance"
	default:
		return "Regular"
	}
}

// struggleEase は緩和区間のイーズアウト。
func struggleEase(t float64) float64 {
	inv := 1 - mmath.Clamp01(t)
	return 1 - inv*inv*inv*inv
}

// ApplyCorrections は目標位置を到達可能範囲に補正し、距離分類を返す。
// struggleStart 以降は到達長を total へ滑らかに伸ばし、その球面上へ目標を寄せる。
func ApplyCorrections(
	objectivePos, rootPos mmath.Vec3,
	upperLength, lowerLength float64,
	struggleStart, struggleEnd float64,
) (mmath.Vec3, DistanceType) {
	total := upperLength + lowerLength
	minimum := math.Abs(upperLength - lowerLength)
	toObjective := objectivePos.Subed(rootPos)
	distance := toObjective.Length()
	direction := toObjective.NormalizedOr(mmath.UNIT_Y_NEG_VEC3)

	if distance >= total*struggleStart {
		effective := total
		if struggleEnd > struggleStart {
			start := total * struggleStart
			t := (distance - start) / ((struggleEnd - struggleStart) * total)
			effective = start + (total-start)*struggleEase(t)
		}
		objectivePos = rootPos.Added(direction.MuledScalar(effective))
		distance = effective
	}
	if distance >= total*(1-distanceEpsilon) {
		return objectivePos, DISTANCE_MAXIMUM
	}
	if distance <= minimum+total*distanceEpsilon {
		return rootPos.Added(direction.MuledScalar(minimum)), DISTANCE_MINIMUM
	}
	return objectivePos, DISTANCE_REGULAR
}

// SolveBendPoint は余弦定理で中間関節位置を求める。
func SolveBendPoint(
	rootPos, objectivePos mmath.Vec3,
	upperLength, lowerLength float64,
	distanceType DistanceType,
	bendDirection mmath.Vec3,
) mmath.Vec3 {
	toTip := objectivePos.Subed(rootPos)
	distance := toTip.Length()
	total := upperLength + lowerLength
	axis := toTip.NormalizedOr(mmath.UNIT_Y_NEG_VEC3)

	switch distanceType {
	case DISTANCE_MAXIMUM:
		if total <= mmath.EPSILON {
			return rootPos
		}
		return rootPos.Added(toTip.MuledScalar(upperLength / total))
	case DISTANCE_MINIMUM:
		return foldedBendPoint(rootPos, axis, upperLength, lowerLength)
	}

	if distance <= mmath.EPSILON || upperLength <= mmath.EPSILON {
		return foldedBendPoint(rootPos, axis, upperLength, lowerLength)
	}
	cosAngle := (distance*distance + upperLength*upperLength - lowerLength*lowerLength) / (2 * distance * upperLength)
	if cosAngle >= 1 {
		return rootPos.Added(axis.MuledScalar(upperLength))
	}
	if cosAngle <= -1 {
		return rootPos.Subed(axis.MuledScalar(upperLength))
	}
	angle := math.Acos(cosAngle)
	perpendicular := mmath.Straighten(bendDirection, axis)
	if perpendicular.IsZero() {
		perpendicular = axis.Orthogonal()
	}
	return rootPos.
		Added(axis.MuledScalar(math.Cos(angle) * upperLength)).
		Added(perpendicular.MuledScalar(math.Sin(angle) * upperLength))
}

// foldedBendPoint は折り畳み切った場合の中間関節位置を返す。
// 上腕側が長ければ目標側、短ければ逆側へ置く。
func foldedBendPoint(rootPos, axis mmath.Vec3, upperLength, lowerLength float64) mmath.Vec3 {
	if upperLength >= lowerLength {
		return rootPos.Added(axis.MuledScalar(upperLength))
	}
	return rootPos.Subed(axis.MuledScalar(upperLength))
}

// SolveStraddling は外部ピボットへ向けて中間関節を固定し、目標を下側の長さへ再拘束する。
func SolveStraddling(
	rootPos, objectivePos, pivotPos mmath.Vec3,
	upperLength, lowerLength float64,
	fallbackDirection mmath.Vec3,
) (bendPos mmath.Vec3, correctedObjective mmath.Vec3) {
	toPivot := pivotPos.Subed(rootPos).NormalizedOr(fallbackDirection.NormalizedOr(mmath.UNIT_Y_NEG_VEC3))
	bendPos = rootPos.Added(toPivot.MuledScalar(upperLength))
	toObjective := objectivePos.Subed(bendPos).NormalizedOr(toPivot)
	correctedObjective = bendPos.Added(toObjective.MuledScalar(lowerLength))
	return bendPos, correctedObjective
}
