// 指示: miu200521358
package hik

import (
	"math"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

const (
	contortionistMinFraction   = 0.01
	contortionistOppositeRatio = 0.6
	primeFallbackFraction      = 0.3
	primeBackwardBias          = 0.01
	realignTolerance           = 1e-7
)

// spineChain は背骨チェーンを構成する存在ボーンを保持する。
type spineChain struct {
	bones []model.HumanBone
	// ratios は各ボーンの前方ヒントの頭寄り比率。
	ratios []float64
}

// newSpineChain は Spine/Chest/Neck/Head のうち存在するボーンからチェーンを組む。
func newSpineChain(def *AvatarDefinition) spineChain {
	candidates := []model.HumanBone{model.SPINE, model.CHEST, model.NECK, model.HEAD}
	chain := spineChain{}
	for _, bone := range candidates {
		if def.HasBone(bone) {
			chain.bones = append(chain.bones, bone)
		}
	}
	n := len(chain.bones)
	for i := range chain.bones {
		if n <= 1 {
			chain.ratios = append(chain.ratios, 0)
			continue
		}
		chain.ratios = append(chain.ratios, float64(i)/float64(n-1))
	}
	return chain
}

// solveSpine は背骨を Correct → Prime → Relax → Orient → Realign の順で解く。
func (s *Solver) solveSpine(objective Objective, snapshot Snapshot) {
	def := s.definition
	scale := objective.effectiveScale()
	chain := newSpineChain(def)
	if len(chain.bones) < 2 || chain.bones[len(chain.bones)-1] != model.HEAD {
		snapshot.AbsolutePos[model.HIPS] = objective.Hips.Position
		snapshot.AbsoluteRot[model.HIPS] = objective.Hips.Rotation
		return
	}

	hipsPos, headPos := s.correctSpineTargets(objective, scale)
	hipsRot := objective.Hips.Rotation
	hipsForward := hipsRot.Forward()
	headForward := objective.Head.Rotation.Muled(def.RestRotation(model.HEAD).Inverted()).Forward()

	snapshot.AbsolutePos[model.HIPS] = hipsPos
	snapshot.AbsoluteRot[model.HIPS] = hipsRot
	snapshot.ReevaluatePosition(def, model.SPINE, scale)
	rootPos := snapshot.AbsolutePos[model.SPINE]

	points := s.primeSpine(objective, chain, hipsPos, headPos, rootPos, scale)
	lengths := make([]float64, len(chain.bones)-1)
	for i := range lengths {
		lengths[i] = def.SegmentLength(chain.bones[i], chain.bones[i+1]) * scale
	}
	points = Relax(points, lengths, headPos, objective.effectiveIterations())
	for i := 0; i+1 < len(points); i++ {
		s.trace(model.TraceSpineChain, points[i], points[i+1], traceColorSpine)
	}

	s.orientSpine(objective, chain, points, hipsForward, headForward, snapshot)
	s.forwardSpine(chain, snapshot, scale)

	if objective.HeadAlignmentMattersMore {
		mismatch := headPos.Subed(snapshot.AbsolutePos[model.HEAD])
		if mismatch.Length() > realignTolerance {
			s.trace(model.TraceSpineRealign, snapshot.AbsolutePos[model.HEAD], headPos, traceColorWarning)
			snapshot.AbsolutePos[model.HIPS] = snapshot.AbsolutePos[model.HIPS].Added(mismatch)
			snapshot.ReevaluatePosition(def, model.SPINE, scale)
			s.forwardSpine(chain, snapshot, scale)
		}
	}
}

// correctSpineTargets は腰と頭の目標距離を補正する。
func (s *Solver) correctSpineTargets(objective Objective, scale float64) (mmath.Vec3, mmath.Vec3) {
	def := s.definition
	hipsPos := objective.Hips.Position
	headPos := objective.Head.Position
	fallback := objective.Hips.Rotation.Up()

	if !objective.AllowContortionist {
		hipsForward := objective.Hips.Rotation.Forward()
		headForward := objective.Head.Rotation.Muled(def.RestRotation(model.HEAD).Inverted()).Forward()
		facing := mmath.Clamp01((1 - hipsForward.Dot(headForward)) / 2)
		fraction := mmath.Lerp(contortionistMinFraction, contortionistOppositeRatio, facing)
		minimum := fraction * def.HipToHeadLength * scale
		hipsPos, headPos = keepSpineDistance(objective, hipsPos, headPos, fallback, func(distance float64) float64 {
			return math.Max(distance, minimum)
		})
	}
	if !objective.DoNotPreserveHipsToNeckCurvatureLimit {
		maximum := (def.HipToNeckLength + def.NeckLength) * scale
		hipsPos, headPos = keepSpineDistance(objective, hipsPos, headPos, fallback, func(distance float64) float64 {
			return math.Min(distance, maximum)
		})
	}
	return hipsPos, headPos
}

// keepSpineDistance は優先しない側の端を動かして腰-頭距離を limit の結果へ合わせる。
func keepSpineDistance(
	objective Objective,
	hipsPos, headPos, fallback mmath.Vec3,
	limit func(distance float64) float64,
) (mmath.Vec3, mmath.Vec3) {
	toHead := headPos.Subed(hipsPos)
	distance := toHead.Length()
	wanted := limit(distance)
	if wanted == distance {
		return hipsPos, headPos
	}
	direction := toHead.NormalizedOr(fallback.NormalizedOr(mmath.UNIT_Y_VEC3))
	if objective.HeadAlignmentMattersMore {
		return headPos.Subed(direction.MuledScalar(wanted)), headPos
	}
	return hipsPos, hipsPos.Added(direction.MuledScalar(wanted))
}

// primeSpine はFABRIKの初期点列を作る。
func (s *Solver) primeSpine(
	objective Objective,
	chain spineChain,
	hipsPos, headPos, rootPos mmath.Vec3,
	scale float64,
) []mmath.Vec3 {
	def := s.definition
	toHead := headPos.Subed(hipsPos)
	distance := toHead.Length()
	axis := toHead.NormalizedOr(objective.Hips.Rotation.Up())
	lateral := objective.Hips.Rotation.Right()
	perpendicular := mmath.Straighten(lateral.Cross(axis), axis)
	backward := objective.Head.Rotation.Muled(def.RestRotation(model.HEAD).Inverted()).MulVec3(mmath.UNIT_Z_NEG_VEC3)

	points := make([]mmath.Vec3, len(chain.bones))
	for i, bone := range chain.bones {
		switch bone {
		case model.SPINE:
			points[i] = rootPos
		case model.HEAD:
			points[i] = headPos
		default:
			relation := def.ChestRelation
			fallbackFrom, fallbackTo := hipsPos, headPos
			if bone == model.NECK {
				relation = def.NeckRelation
				fallbackFrom, fallbackTo = headPos, hipsPos
			}
			if relation.IsDegenerate() {
				points[i] = fallbackFrom.Lerp(fallbackTo, primeFallbackFraction).
					Added(backward.MuledScalar(primeBackwardBias * distance))
			} else {
				points[i] = hipsPos.
					Added(axis.MuledScalar(relation.Along * distance)).
					Added(perpendicular.MuledScalar(relation.Perpendicular * distance))
			}
		}
	}

	if objective.UseChest > 0 {
		chestWeight := mmath.Clamp01(objective.UseChest)
		chestFrame := objective.Chest.Rotation.Muled(def.RestRotation(def.ChestBone()).Inverted())
		for i, bone := range chain.bones {
			switch bone {
			case model.CHEST:
				points[i] = points[i].Lerp(objective.Chest.Position, chestWeight)
			case model.NECK:
				if !objective.AlsoUseChestToMoveNeck || !def.HasBone(model.CHEST) {
					continue
				}
				restOffset := def.RestPosition(model.NECK).Subed(def.RestPosition(model.CHEST))
				neckFromChest := objective.Chest.Position.Added(chestFrame.MulVec3(restOffset).MuledScalar(scale))
				points[i] = points[i].Lerp(neckFromChest, chestWeight)
			}
		}
	}
	for i := 0; i+1 < len(points); i++ {
		s.trace(model.TraceSpinePrime, points[i], points[i+1], traceColorPrime)
	}
	return points
}

// Relax は根元を固定したFABRIKを iterations 回だけ前進・後退させる。
// points は書き換えられ、同じスライスを返す。
func Relax(points []mmath.Vec3, lengths []float64, target mmath.Vec3, iterations int) []mmath.Vec3 {
	n := len(points)
	if n < 2 || len(lengths) < n-1 {
		return points
	}
	root := points[0]
	for iteration := 0; iteration < iterations; iteration++ {
		points[n-1] = target
		for i := n - 2; i >= 0; i-- {
			direction := points[i].Subed(points[i+1]).NormalizedOr(relaxFallback(true))
			points[i] = points[i+1].Added(direction.MuledScalar(lengths[i]))
		}
		points[0] = root
		for i := 1; i < n; i++ {
			direction := points[i].Subed(points[i-1]).NormalizedOr(relaxFallback(false))
			points[i] = points[i-1].Added(direction.MuledScalar(lengths[i-1]))
		}
	}
	return points
}

// relaxFallback は点が重なった場合の方向を返す。
func relaxFallback(towardRoot bool) mmath.Vec3 {
	if towardRoot {
		return mmath.UNIT_Y_NEG_VEC3
	}
	return mmath.UNIT_Y_VEC3
}

// spineForward は骨方向に直交させた前方ヒントを返す。
func spineForward(direction, forward mmath.Vec3) mmath.Vec3 {
	forward = mmath.Straighten(forward, direction)
	if forward.IsZero() {
		forward = direction.Orthogonal()
	}
	return forward
}

// orientSpine は緩和済みの点列から背骨ボーンの回転を決める。
func (s *Solver) orientSpine(
	objective Objective,
	chain spineChain,
	points []mmath.Vec3,
	hipsForward, headForward mmath.Vec3,
	snapshot Snapshot,
) {
	def := s.definition
	for i := 0; i+1 < len(chain.bones); i++ {
		bone := chain.bones[i]
		next := chain.bones[i+1]
		restDirection := def.RestPosition(next).Subed(def.RestPosition(bone))
		solvedDirection := points[i+1].Subed(points[i])
		forward := mmath.SolveLerpVec(hipsForward, headForward, chain.ratios[i])

		rotation := mmath.FromToOrientation(
			spineForward(restDirection, mmath.UNIT_Z_VEC3), restDirection,
			spineForward(solvedDirection, forward), solvedDirection,
		)
		snapshot.AbsoluteRot[bone] = rotation.Muled(def.RestRotation(bone)).Normalized()
	}
	snapshot.AbsoluteRot[model.HEAD] = objective.Head.Rotation
}

// forwardSpine は背骨の回転から順運動学で位置を再計算する。
func (s *Solver) forwardSpine(chain spineChain, snapshot Snapshot, scale float64) {
	def := s.definition
	for _, bone := range chain.bones {
		if bone == model.SPINE {
			continue
		}
		if bone == model.NECK && def.HasBone(model.UPPER_CHEST) {
			snapshot.follow(def, model.UPPER_CHEST, scale)
		}
		snapshot.ReevaluatePosition(def, bone, scale)
	}
	if !def.HasBone(model.NECK) && def.HasBone(model.UPPER_CHEST) {
		snapshot.follow(def, model.UPPER_CHEST, scale)
	}
}
