// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
)

// ISkeletonReader はスケルトン入力の読み込み契約を表す。
type ISkeletonReader interface {
	CanLoad(path string) bool
	LoadSkeleton(path string) (hik.ISkeletonAccessor, error)
}

// ILookupReader は腕の曲げ方向テーブルの読み込み契約を表す。
type ILookupReader interface {
	Load(path string) (*hik.BendLookupTable, error)
}

// IObjectiveProvider はフレームごとの目標姿勢を提供する契約を表す。
type IObjectiveProvider interface {
	// ObjectiveAt は参照姿勢を基準に、指定フレームの Objective を返す。
	ObjectiveAt(frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error)
}

// IPoseWriter は解決結果の書き込み契約を表す。
type IPoseWriter interface {
	Save(path string, document PoseDocument) error
}

// BonePose は1ボーン分のエンジン空間姿勢を表す。
type BonePose struct {
	Bone     model.HumanBone
	Position mmath.Vec3
	Rotation mmath.Quaternion
}

// PoseFrame は1フレーム分の姿勢を表す。
type PoseFrame struct {
	Index   int
	Seconds float64
	Bones   []BonePose
}

// PoseDocument は出力する姿勢列を表す。
type PoseDocument struct {
	ModelName string
	Fps       float64
	Warnings  []string
	Frames    []PoseFrame
}
