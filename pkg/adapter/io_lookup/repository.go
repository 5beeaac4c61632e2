// 指示: miu200521358
package io_lookup

import (
	"math"
	"os"
	"path/filepath"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"github.com/phil-mansfield/table"
)

// LookupRepository は空白区切り x y z 行の曲げ方向テーブルを読み込む。
// 行の並びは x 最外、z 最内のグリッド順。
type LookupRepository struct{}

// NewLookupRepository はLookupRepositoryを生成する。
func NewLookupRepository() *LookupRepository {
	return &LookupRepository{}
}

// Load はテーブルファイルを読み込む。
func (r *LookupRepository) Load(path string) (*hik.BendLookupTable, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("テーブルファイル情報の取得に失敗しました", err)
	}
	cols, err := table.ReadTable(path, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, io_common.NewIoParseFailed("テーブルの解析に失敗しました: %s", err, filepath.Base(path))
	}
	xs, ys, zs := cols[0], cols[1], cols[2]

	divisions, ok := inferDivisions(len(xs))
	if !ok {
		return nil, io_common.NewIoFormatNotSupported("テーブル行数が立方格子になりません: %d", nil, len(xs))
	}
	vectors := make([]mmath.Vec3, len(xs))
	for i := range xs {
		vectors[i] = mmath.NewVec3(xs[i], ys[i], zs[i])
	}
	lookup, err := hik.NewBendLookupTable(divisions, vectors)
	if err != nil {
		return nil, io_common.NewIoFormatNotSupported("テーブルの構築に失敗しました", err)
	}
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Debug("曲げ方向テーブル読込: file=%s divisions=%d", filepath.Base(path), divisions)
	}
	return lookup, nil
}

// inferDivisions は行数 (2D+1)^3 から分割数 D を求める。
func inferDivisions(rows int) (int, bool) {
	size := int(math.Round(math.Cbrt(float64(rows))))
	if size < 3 || size%2 == 0 || size*size*size != rows {
		return 0, false
	}
	return (size - 1) / 2, true
}
