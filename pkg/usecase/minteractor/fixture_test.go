// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"
	"github.com/pkg/errors"
)

// stubSkeleton は回転なしの参照姿勢スケルトン。
type stubSkeleton struct {
	positions map[model.HumanBone]mmath.Vec3
	scales    map[model.HumanBone]mmath.Vec3
}

func newStubSkeleton() *stubSkeleton {
	return &stubSkeleton{
		positions: map[model.HumanBone]mmath.Vec3{
			model.HIPS:            mmath.NewVec3(0, 1, 0),
			model.SPINE:           mmath.NewVec3(0, 1.1, 0),
			model.CHEST:           mmath.NewVec3(0, 1.25, 0),
			model.NECK:            mmath.NewVec3(0, 1.5, 0),
			model.HEAD:            mmath.NewVec3(0, 1.6, 0),
			model.LEFT_SHOULDER:   mmath.NewVec3(0.05, 1.45, 0),
			model.RIGHT_SHOULDER:  mmath.NewVec3(-0.05, 1.45, 0),
			model.LEFT_UPPER_ARM:  mmath.NewVec3(0.15, 1.45, 0),
			model.RIGHT_UPPER_ARM: mmath.NewVec3(-0.15, 1.45, 0),
			model.LEFT_LOWER_ARM:  mmath.NewVec3(0.43, 1.45, 0),
			model.RIGHT_LOWER_ARM: mmath.NewVec3(-0.43, 1.45, 0),
			model.LEFT_HAND:       mmath.NewVec3(0.68, 1.45, 0),
			model.RIGHT_HAND:      mmath.NewVec3(-0.68, 1.45, 0),
			model.LEFT_UPPER_LEG:  mmath.NewVec3(0.09, 0.95, 0),
			model.RIGHT_UPPER_LEG: mmath.NewVec3(-0.09, 0.95, 0),
			model.LEFT_LOWER_LEG:  mmath.NewVec3(0.09, 0.52, 0),
			model.RIGHT_LOWER_LEG: mmath.NewVec3(-0.09, 0.52, 0),
			model.LEFT_FOOT:       mmath.NewVec3(0.09, 0.08, 0),
			model.RIGHT_FOOT:      mmath.NewVec3(-0.09, 0.08, 0),
		},
		scales: map[model.HumanBone]mmath.Vec3{},
	}
}

func (s *stubSkeleton) HasBone(bone model.HumanBone) bool {
	_, ok := s.positions[bone]
	return ok
}

func (s *stubSkeleton) LocalPosition(bone model.HumanBone) mmath.Vec3 {
	parent := model.ParentBone(bone, s.HasBone)
	if parent == model.BONE_NONE {
		return s.positions[bone]
	}
	return s.positions[bone].Subed(s.positions[parent])
}

func (s *stubSkeleton) LocalRotation(bone model.HumanBone) mmath.Quaternion {
	return mmath.NewQuaternion()
}

func (s *stubSkeleton) LocalScale(bone model.HumanBone) mmath.Vec3 {
	if scale, ok := s.scales[bone]; ok {
		return scale
	}
	return mmath.ONE_VEC3
}

func (s *stubSkeleton) WorldPosition(bone model.HumanBone) mmath.Vec3 {
	return s.positions[bone]
}

func (s *stubSkeleton) WorldRotation(bone model.HumanBone) mmath.Quaternion {
	return mmath.NewQuaternion()
}

func (s *stubSkeleton) PostRotation(bone model.HumanBone) mmath.Quaternion {
	return mmath.NewQuaternion()
}

func (s *stubSkeleton) LossyScale() float64 {
	return 1
}

// stubSkeletonReader は固定のスケルトンを返す。
type stubSkeletonReader struct {
	skeleton hik.ISkeletonAccessor
	err      error
}

func (r *stubSkeletonReader) CanLoad(path string) bool {
	return path != ""
}

func (r *stubSkeletonReader) LoadSkeleton(path string) (hik.ISkeletonAccessor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.skeleton, nil
}

// stubLookupReader は常に失敗する。
type stubLookupReader struct{}

func (r *stubLookupReader) Load(path string) (*hik.BendLookupTable, error) {
	return nil, errors.Errorf("missing table: %s", path)
}

// recordingPoseWriter は保存要求を記録する。
type recordingPoseWriter struct {
	paths     []string
	documents []moutput.PoseDocument
}

func (w *recordingPoseWriter) Save(path string, document moutput.PoseDocument) error {
	w.paths = append(w.paths, path)
	w.documents = append(w.documents, document)
	return nil
}

// recordingReporter は進捗イベントを記録する。
type recordingReporter struct {
	events []SolveProgressEventType
}

func (r *recordingReporter) ReportSolveProgress(event SolveProgressEvent) {
	r.events = append(r.events, event.Type)
}

// risingHipsProvider はフレームごとに Hips を持ち上げる。
type risingHipsProvider struct {
	step float64
}

func (p *risingHipsProvider) ObjectiveAt(frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error) {
	objective := hik.ObjectiveFromSnapshot(rest)
	objective.Hips.Position = objective.Hips.Position.Added(mmath.NewVec3(0, p.step*float64(frame), 0))
	return objective, nil
}

// failingProvider は指定フレームで失敗する。
type failingProvider struct {
	failAt int
}

func (p *failingProvider) ObjectiveAt(frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error) {
	if frame == p.failAt {
		return hik.Objective{}, errors.New("expression failed")
	}
	return hik.ObjectiveFromSnapshot(rest), nil
}

// frozenProvider は全段を無効にした参照姿勢の目標を返す。
type frozenProvider struct{}

func (p *frozenProvider) ObjectiveAt(frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error) {
	objective := hik.ObjectiveFromSnapshot(rest)
	objective.SolveSpine = false
	objective.SolveLeftLeg = false
	objective.SolveRightLeg = false
	objective.SolveLeftArm = false
	objective.SolveRightArm = false
	return objective, nil
}
