// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"

// FullBodyIkUsecaseDeps は全身IKユースケースの依存を表す。
type FullBodyIkUsecaseDeps struct {
	SkeletonReader moutput.ISkeletonReader
	LookupReader   moutput.ILookupReader
	PoseWriter     moutput.IPoseWriter
}

// FullBodyIkUsecase はスケルトン読み込みから複数フレーム解決・保存までをまとめたユースケースを表す。
type FullBodyIkUsecase struct {
	skeletonReader moutput.ISkeletonReader
	lookupReader   moutput.ILookupReader
	poseWriter     moutput.IPoseWriter
}

// NewFullBodyIkUsecase は全身IKユースケースを生成する。
func NewFullBodyIkUsecase(deps FullBodyIkUsecaseDeps) *FullBodyIkUsecase {
	return &FullBodyIkUsecase{
		skeletonReader: deps.SkeletonReader,
		lookupReader:   deps.LookupReader,
		poseWriter:     deps.PoseWriter,
	}
}
