// 指示: miu200521358
package hik

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoBoneSegmentLengthsHoldInEveryBranch(t *testing.T) {
	root := mmath.NewVec3(0.1, 1.2, -0.3)
	bend := mmath.NewVec3(0, 0, -1)
	directions := []mmath.Vec3{
		mmath.NewVec3(1, 0, 0),
		mmath.NewVec3(0, -1, 0),
		mmath.NewVec3(0.3, 0.2, 1),
		mmath.NewVec3(0, 0, -1),
	}
	struggles := [][2]float64{{0.95, 1.05}, {1, 1}, {0.8, 1.2}}
	lengths := [][2]float64{{1, 1}, {0.3, 0.7}, {0.8, 0.25}}
	seen := map[DistanceType]bool{}

	for _, length := range lengths {
		upper, lower := length[0], length[1]
		total := upper + lower
		for _, struggle := range struggles {
			for _, direction := range directions {
				for _, ratio := range []float64{0, 0.05, 0.3, 0.6, 0.9, 1, 1.5, 3} {
					objective := root.Added(direction.Normalized().MuledScalar(total * ratio))
					corrected, distanceType := ApplyCorrections(objective, root, upper, lower, struggle[0], struggle[1])
					bendPos := SolveBendPoint(root, corrected, upper, lower, distanceType, bend)
					seen[distanceType] = true

					if got := bendPos.Distance(root); math.Abs(got-upper) > 1e-7 {
						t.Fatalf("upper length mismatch: type=%s ratio=%v got=%v want=%v", distanceType, ratio, got, upper)
					}
					if got := corrected.Distance(bendPos); math.Abs(got-lower) > 1e-7 {
						t.Fatalf("lower length mismatch: type=%s ratio=%v got=%v want=%v", distanceType, ratio, got, lower)
					}
				}
			}
		}
	}
	require.True(t, seen[DISTANCE_REGULAR])
	require.True(t, seen[DISTANCE_MAXIMUM])
	require.True(t, seen[DISTANCE_MINIMUM])
}

func TestApplyCorrectionsIsIdempotentOnceCorrected(t *testing.T) {
	root := mmath.NewVec3(0, 1, 0)
	cases := []struct {
		name      string
		objective mmath.Vec3
		start     float64
		end       float64
	}{
		{"regular", mmath.NewVec3(0.5, 0.7, 0.2), 0.95, 1.05},
		{"minimum", mmath.NewVec3(0.05, 1, 0), 0.95, 1.05},
		{"far hard clamp", mmath.NewVec3(5, 1, 0), 1, 1},
		{"far eased", mmath.NewVec3(0, 1, 6), 0.9, 1},
	}
	for _, c := range cases {
		first, firstType := ApplyCorrections(c.objective, root, 0.6, 0.4, c.start, c.end)
		second, secondType := ApplyCorrections(first, root, 0.6, 0.4, c.start, c.end)
		if !second.NearEquals(first, 1e-12) || secondType != firstType {
			t.Fatalf("%s: not idempotent: first=%v(%s) second=%v(%s)", c.name, first, firstType, second, secondType)
		}
	}
}

func TestApplyCorrectionsShrinksAgainInsideStruggleBand(t *testing.T) {
	root := mmath.ZERO_VEC3
	upper, lower := 0.6, 0.4
	start, end := 0.9, 1.1
	objective := mmath.NewVec3(0, 0, 1)

	first, firstType := ApplyCorrections(objective, root, upper, lower, start, end)
	second, secondType := ApplyCorrections(first, root, upper, lower, start, end)

	require.Equal(t, DISTANCE_REGULAR, firstType)
	require.Equal(t, DISTANCE_REGULAR, secondType)
	// t=0.5 の緩和長は 0.9 + 0.1*(1-0.5^4)
	assert.InDelta(t, 0.99375, first.Length(), 1e-12)
	// 緩和区間内の補正結果を再補正するとさらに縮む
	if second.Length() >= first.Length()-1e-4 {
		t.Fatalf("second correction should shrink: first=%v second=%v", first.Length(), second.Length())
	}
	assert.InDelta(t, 0.9+0.1*(1-math.Pow(1-0.46875, 4)), second.Length(), 1e-12)
}

func TestStruggleIsContinuousAndReachesTotal(t *testing.T) {
	root := mmath.ZERO_VEC3
	upper, lower := 1.0, 1.0
	start, end := 0.9, 1.1
	total := upper + lower
	direction := mmath.NewVec3(0, 0, 1)

	at := func(distance float64) float64 {
		corrected, _ := ApplyCorrections(direction.MuledScalar(distance), root, upper, lower, start, end)
		return corrected.Length()
	}

	edge := total * start
	assert.InDelta(t, at(edge-1e-7), at(edge+1e-7), 1e-6)

	previous := at(edge)
	for distance := edge; distance <= total*end; distance += 0.001 {
		current := at(distance)
		if current+1e-12 < previous || current-previous > 0.01 {
			t.Fatalf("struggle should be smooth and monotonic: distance=%v previous=%v current=%v", distance, previous, current)
		}
		previous = current
	}

	assert.InDelta(t, total, at(1e6), 1e-12)
	_, distanceType := ApplyCorrections(direction.MuledScalar(1e6), root, upper, lower, start, end)
	require.Equal(t, DISTANCE_MAXIMUM, distanceType)
}

func TestMaximumDistanceBendsOnSegment(t *testing.T) {
	def := buildTestDefinition(t, newTPoseSkeleton(false))
	upper := def.SegmentLength(model.LEFT_UPPER_ARM, model.LEFT_LOWER_ARM)
	lower := def.SegmentLength(model.LEFT_LOWER_ARM, model.LEFT_HAND)
	total := upper + lower
	root := mmath.NewVec3(0.15, 1.45, 0)
	objective := root.Added(mmath.UNIT_Z_VEC3.MuledScalar(total))

	corrected, distanceType := ApplyCorrections(objective, root, upper, lower, DefaultStruggleStart, DefaultStruggleEnd)
	require.Equal(t, DISTANCE_MAXIMUM, distanceType)
	bendPos := SolveBendPoint(root, corrected, upper, lower, distanceType, mmath.UNIT_Z_NEG_VEC3)

	want := root.Lerp(corrected, upper/total)
	if !bendPos.NearEquals(want, 1e-12) {
		t.Fatalf("bend mismatch: got=%v want=%v", bendPos, want)
	}
}

func TestMinimumDistanceClampsToDifference(t *testing.T) {
	root := mmath.NewVec3(0, 1, 0)
	upper, lower := 0.5, 0.3
	minimum := upper - lower
	objective := root.Added(mmath.NewVec3(1, 1, 0).Normalized().MuledScalar(minimum - 1e-3))

	corrected, distanceType := ApplyCorrections(objective, root, upper, lower, 0.95, 1.05)
	require.Equal(t, DISTANCE_MINIMUM, distanceType)
	assert.InDelta(t, minimum, corrected.Distance(root), 1e-12)
}

func TestSolveBendPointGuardsSaturatedCosine(t *testing.T) {
	root := mmath.ZERO_VEC3
	// 余弦が1を超える入力でも有限値を返す
	bendPos := SolveBendPoint(root, mmath.NewVec3(0, 0, 1.0000000001), 0.5, 0.5, DISTANCE_REGULAR, mmath.UNIT_Y_VEC3)
	require.True(t, bendPos.IsFinite())
	assert.InDelta(t, 0.5, bendPos.Length(), 1e-9)

	parallel := SolveBendPoint(root, mmath.NewVec3(0, 0, 0.6), 0.5, 0.5, DISTANCE_REGULAR, mmath.UNIT_Z_VEC3)
	require.True(t, parallel.IsFinite())
	assert.InDelta(t, 0.5, parallel.Length(), 1e-9)
}

func TestSolveStraddlingSatisfiesLengthsSequentially(t *testing.T) {
	root := mmath.NewVec3(0.1, 0.9, 0)
	pivot := mmath.NewVec3(0.3, 0.5, 0.4)
	objective := mmath.NewVec3(0.1, 0, 0.2)

	bendPos, corrected := SolveStraddling(root, objective, pivot, 0.4, 0.45, mmath.UNIT_Y_NEG_VEC3)
	assert.InDelta(t, 0.4, bendPos.Distance(root), 1e-12)
	assert.InDelta(t, 0.45, corrected.Distance(bendPos), 1e-12)
	assert.InDelta(t, 0.0, mmath.Straighten(bendPos.Subed(root), pivot.Subed(root)).Length(), 1e-12)
}
