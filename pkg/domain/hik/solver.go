// 指示: miu200521358
package hik

import (
	"errors"

	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

// ErrDefinitionNotInitialized は未構築の AvatarDefinition でソルバーを作ろうとした場合のエラー。
var ErrDefinitionNotInitialized = errors.New("hik: avatar definition is not initialized")

// Solver は1体分の全身IKソルバー。同じ Snapshot への並行解決は行わないこと。
type Solver struct {
	definition  *AvatarDefinition
	leftLookup  *BendLookupTable
	rightLookup *BendLookupTable
	observer    ITraceObserver
}

// SolverOption はソルバーの任意設定。
type SolverOption func(*Solver)

// WithTraceObserver は診断線の観測者を設定する。
func WithTraceObserver(observer ITraceObserver) SolverOption {
	return func(s *Solver) {
		s.observer = observer
	}
}

// WithBendLookupTables は左右の腕の曲げ方向テーブルを設定する。nil の側はヒューリスティックを使う。
func WithBendLookupTables(left, right *BendLookupTable) SolverOption {
	return func(s *Solver) {
		s.leftLookup = left
		s.rightLookup = right
	}
}

// NewSolver はソルバーを生成する。未構築の定義を渡した場合は panic する。
func NewSolver(definition *AvatarDefinition, options ...SolverOption) *Solver {
	if !definition.IsInitialized() {
		panic(ErrDefinitionNotInitialized)
	}
	solver := &Solver{definition: definition}
	for _, option := range options {
		if option != nil {
			option(solver)
		}
	}
	return solver
}

// Solve は 背骨 → 脚 → 手の自己親子付け → 腕 の順に解き、スナップショットを返す。
// previous の領域は再利用され、無効な段のボーンは前回値のまま残る。
func (s *Solver) Solve(objective Objective, previous Snapshot) Snapshot {
	snapshot := previous
	if !snapshot.IsAllocated() {
		snapshot = NewSnapshot()
	}
	scale := objective.effectiveScale()

	if objective.SolveSpine {
		s.solveSpine(objective, snapshot)
		s.followUpperBody(snapshot, scale)
	}
	for _, isLeft := range []bool{true, false} {
		if objective.SolveLeg(isLeft) {
			s.solveLeg(objective, snapshot, isLeft)
		}
	}

	armObjective := ApplySelfParenting(objective, snapshot)
	for _, isLeft := range []bool{true, false} {
		if armObjective.SelfParentingUsed(isLeft) {
			hand := armObjective.Hand(isLeft)
			s.trace(model.TraceSelfParenting, objective.Hand(isLeft).Position, hand.Position, traceColorBend)
		}
		if armObjective.SolveArm(isLeft) {
			s.solveArm(armObjective, snapshot, isLeft)
		}
	}
	return snapshot
}

// followUpperBody は背骨の解決後に頭部・肩・四肢の根元を追従させる。
func (s *Solver) followUpperBody(snapshot Snapshot, scale float64) {
	def := s.definition
	for _, bone := range []model.HumanBone{model.LEFT_EYE, model.RIGHT_EYE, model.JAW} {
		snapshot.follow(def, bone, scale)
	}
	for _, isLeft := range []bool{true, false} {
		snapshot.follow(def, model.ShoulderBone(isLeft), scale)
		snapshot.ReevaluatePosition(def, model.ArmBones(isLeft).Root, scale)
		snapshot.ReevaluatePosition(def, model.LegBones(isLeft).Root, scale)
	}
}

// Solve は定義・目標・前回スナップショットから新しいスナップショットを求める。
func Solve(definition *AvatarDefinition, objective Objective, previous Snapshot) Snapshot {
	return NewSolver(definition).Solve(objective, previous)
}
