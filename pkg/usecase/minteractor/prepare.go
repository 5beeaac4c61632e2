// 指示: miu200521358
package minteractor

import (
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"github.com/pkg/errors"
)

// PreparedSkeleton は解決前に確定したスケルトンと定義を表す。
type PreparedSkeleton struct {
	Accessor   hik.ISkeletonAccessor
	Definition *hik.AvatarDefinition
	Warnings   []string
}

// PrepareDefinition は入力スケルトンを読み込み、参照姿勢の定義を構築する。
func (uc *FullBodyIkUsecase) PrepareDefinition(inputPath string, reporter ISolveProgressReporter) (*PreparedSkeleton, error) {
	if uc.skeletonReader == nil {
		return nil, errors.New("スケルトン読み込みリポジトリが設定されていません")
	}
	if !uc.skeletonReader.CanLoad(inputPath) {
		return nil, errors.Errorf("読み込めない入力ファイルです: %s", inputPath)
	}
	accessor, err := uc.skeletonReader.LoadSkeleton(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "スケルトンの読み込みに失敗しました")
	}
	if accessor == nil {
		return nil, errors.New("スケルトン読み込み結果が空です")
	}
	reportSolveProgress(reporter, SolveProgressEvent{Type: SolveProgressEventTypeSkeletonLoaded})

	def, err := hik.BuildDefinition(accessor)
	if err != nil {
		return nil, errors.Wrap(err, "参照姿勢の定義構築に失敗しました")
	}
	warnings := collectDefinitionWarnings(accessor, def)
	reportSolveProgress(reporter, SolveProgressEvent{
		Type:         SolveProgressEventTypeDefinitionBuilt,
		WarningCount: len(warnings),
	})

	logger := logging.DefaultLogger()
	logger.Info("定義構築: file=%s hipToHead=%.4f scale=%.4f", filepath.Base(inputPath), def.HipToHeadLength, def.CapturedScale)
	for _, warning := range warnings {
		logger.Warn("参照姿勢の警告: %s", warning)
	}
	if logger.Level() <= logging.LOG_LEVEL_DEBUG {
		missing := make([]string, 0)
		for _, bone := range model.RequiredHumanBones() {
			if !def.HasBone(bone) {
				missing = append(missing, bone.Name())
			}
		}
		if len(missing) > 0 {
			logger.Debug("欠落ボーン: %s", strings.Join(missing, ","))
		}
	}
	return &PreparedSkeleton{Accessor: accessor, Definition: def, Warnings: warnings}, nil
}

// loadLookupTables は左右の曲げ方向テーブルを読み込む。読めない側は警告を返して三信号推定へ戻す。
func (uc *FullBodyIkUsecase) loadLookupTables(leftPath, rightPath string) (*hik.BendLookupTable, *hik.BendLookupTable, []string) {
	warnings := make([]string, 0)
	load := func(path string) *hik.BendLookupTable {
		if strings.TrimSpace(path) == "" {
			return nil
		}
		logger := logging.DefaultLogger()
		if uc.lookupReader == nil {
			logger.Warn("曲げ方向テーブル読み込みリポジトリが未設定のため無視します: %s", path)
			warnings = append(warnings, model.FbikWarningLookupTableIgnored)
			return nil
		}
		table, err := uc.lookupReader.Load(path)
		if err != nil {
			logger.Warn("曲げ方向テーブルを無視します: %v", err)
			warnings = append(warnings, model.FbikWarningLookupTableIgnored)
			return nil
		}
		return table
	}
	left := load(leftPath)
	right := load(rightPath)
	return left, right, warnings
}
