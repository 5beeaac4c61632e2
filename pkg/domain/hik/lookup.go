// 指示: miu200521358
package hik

import (
	"errors"
	"fmt"
	"math"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
)

// ErrLookupTableSize はテーブル要素数が (2*divisions+1)^3 でない場合のエラー。
var ErrLookupTableSize = errors.New("hik: bend lookup table size mismatch")

// BendLookupTable は胸空間の手位置から肘の曲げ方向を引く立方格子テーブル。
// 要素は x, y, z の順に外側から並ぶ。
type BendLookupTable struct {
	divisions int
	size      int
	vectors   []mmath.Vec3
}

// BendLookupTableSize は divisions に対する要素数を返す。
func BendLookupTableSize(divisions int) int {
	size := 2*divisions + 1
	return size * size * size
}

// NewBendLookupTable は平坦なベクトル列からテーブルを生成する。
func NewBendLookupTable(divisions int, vectors []mmath.Vec3) (*BendLookupTable, error) {
	if divisions < 1 {
		return nil, fmt.Errorf("%w: divisions=%d", ErrLookupTableSize, divisions)
	}
	if want := BendLookupTableSize(divisions); len(vectors) != want {
		return nil, fmt.Errorf("%w: got=%d want=%d", ErrLookupTableSize, len(vectors), want)
	}
	return &BendLookupTable{
		divisions: divisions,
		size:      2*divisions + 1,
		vectors:   append([]mmath.Vec3(nil), vectors...),
	}, nil
}

// Divisions は分割数を返す。
func (t *BendLookupTable) Divisions() int {
	return t.divisions
}

// Lookup は -1..1 に正規化された胸空間位置で三線形補間した方向を返す。
func (t *BendLookupTable) Lookup(position mmath.Vec3) mmath.Vec3 {
	x0, x1, fx := t.axis(position.X)
	y0, y1, fy := t.axis(position.Y)
	z0, z1, fz := t.axis(position.Z)

	c00 := t.at(x0, y0, z0).Lerp(t.at(x1, y0, z0), fx)
	c10 := t.at(x0, y1, z0).Lerp(t.at(x1, y1, z0), fx)
	c01 := t.at(x0, y0, z1).Lerp(t.at(x1, y0, z1), fx)
	c11 := t.at(x0, y1, z1).Lerp(t.at(x1, y1, z1), fx)
	c0 := c00.Lerp(c10, fy)
	c1 := c01.Lerp(c11, fy)
	return c0.Lerp(c1, fz).Normalized()
}

// axis は座標を格子インデックスと補間率へ変換する。
func (t *BendLookupTable) axis(value float64) (int, int, float64) {
	last := t.size - 1
	scaled := (mmath.Clamp(value, -1, 1) + 1) * float64(t.divisions)
	lower := int(math.Floor(scaled))
	if lower >= last {
		return last, last, 0
	}
	return lower, lower + 1, scaled - float64(lower)
}

// at は格子点の値を返す。
func (t *BendLookupTable) at(x, y, z int) mmath.Vec3 {
	return t.vectors[(x*t.size+y)*t.size+z]
}
