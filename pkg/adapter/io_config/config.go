// 指示: miu200521358
package io_config

import (
	"os"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"gopkg.in/gcfg.v1"
)

// SolverSection は [solver] セクション。
type SolverSection struct {
	Scale                                 float64
	FabrikIterations                      int
	UseShoulder                           float64
	ShoulderForwardMultiplier             float64
	ShoulderUpwardMultiplier              float64
	ArmStruggleStart                      float64
	ArmStruggleEnd                        float64
	LegStruggleStart                      float64
	LegStruggleEnd                        float64
	DoubleJointedKneeWeight               float64
	AlsoUseChestToMoveNeck                bool
	HeadAlignmentMattersMore              bool
	AllowContortionist                    bool
	DoNotPreserveHipsToNeckCurvatureLimit bool
	SolveSpine                            bool
	SolveLeftLeg                          bool
	SolveRightLeg                         bool
	SolveLeftArm                          bool
	SolveRightArm                         bool
}

// TargetSection は [target "name"] セクション。
// X/Y/Z は参照姿勢からの移動量、Pitch/Yaw/Roll は度。いずれも t と frame の式で書ける。
// Use は胸と肘ヒントの重み。
type TargetSection struct {
	X, Y, Z          string
	Pitch, Yaw, Roll string
	Use              string
}

// StraddlingSection は [straddling "leftLeg"] セクション。接地ピボットを参照姿勢の足からの移動量で指定する。
type StraddlingSection struct {
	X, Y, Z string
}

// SelfParentingSection は [selfParenting "leftHand"] セクション。
type SelfParentingSection struct {
	Bone string
	Use  string
}

// Config は解決設定ファイル全体。
type Config struct {
	Solver        SolverSection
	Target        map[string]*TargetSection
	Straddling    map[string]*StraddlingSection
	SelfParenting map[string]*SelfParentingSection
}

// NewConfig は既定値を入れた Config を返す。
func NewConfig() *Config {
	return &Config{
		Solver: SolverSection{
			Scale:                     1,
			FabrikIterations:          hik.DefaultFabrikIterations,
			ShoulderForwardMultiplier: 1,
			ShoulderUpwardMultiplier:  1,
			ArmStruggleStart:          hik.DefaultStruggleStart,
			ArmStruggleEnd:            hik.DefaultStruggleEnd,
			LegStruggleStart:          hik.DefaultStruggleStart,
			LegStruggleEnd:            hik.DefaultStruggleEnd,
			SolveSpine:                true,
			SolveLeftLeg:              true,
			SolveRightLeg:             true,
			SolveLeftArm:              true,
			SolveRightArm:             true,
		},
		Target:        map[string]*TargetSection{},
		Straddling:    map[string]*StraddlingSection{},
		SelfParenting: map[string]*SelfParentingSection{},
	}
}

// ConfigRepository は gcfg 形式の設定ファイルを読み込む。
type ConfigRepository struct{}

// NewConfigRepository はConfigRepositoryを生成する。
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load は設定ファイルを読み込む。パスが空なら既定値を返す。
func (r *ConfigRepository) Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("設定ファイル情報の取得に失敗しました", err)
	}
	if err := gcfg.ReadFileInto(cfg, path); err != nil {
		return nil, io_common.NewIoParseFailed("設定ファイルの解析に失敗しました", err)
	}
	return cfg, nil
}

// Parse は文字列の設定を読み込む。
func (r *ConfigRepository) Parse(text string) (*Config, error) {
	cfg := NewConfig()
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, io_common.NewIoParseFailed("設定の解析に失敗しました", err)
	}
	return cfg, nil
}
