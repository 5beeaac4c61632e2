// 指示: miu200521358
package hik

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/stretchr/testify/require"
)

func TestNewBendLookupTableValidatesSize(t *testing.T) {
	_, err := NewBendLookupTable(1, make([]mmath.Vec3, 26))
	if !errors.Is(err, ErrLookupTableSize) {
		t.Fatalf("error mismatch: got=%v want=%v", err, ErrLookupTableSize)
	}
	_, err = NewBendLookupTable(0, nil)
	if !errors.Is(err, ErrLookupTableSize) {
		t.Fatalf("error mismatch: got=%v want=%v", err, ErrLookupTableSize)
	}
	require.Equal(t, 125, BendLookupTableSize(2))
}

func TestBendLookupTableInterpolates(t *testing.T) {
	divisions := 1
	size := 2*divisions + 1
	vectors := make([]mmath.Vec3, 0, BendLookupTableSize(divisions))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				if x == 0 {
					vectors = append(vectors, mmath.UNIT_Y_NEG_VEC3)
				} else {
					vectors = append(vectors, mmath.UNIT_Z_NEG_VEC3)
				}
			}
		}
	}
	table, err := NewBendLookupTable(divisions, vectors)
	require.NoError(t, err)

	if got := table.Lookup(mmath.NewVec3(-1, 0, 0)); !got.NearEquals(mmath.UNIT_Y_NEG_VEC3, 1e-12) {
		t.Fatalf("corner mismatch: got=%v", got)
	}
	if got := table.Lookup(mmath.NewVec3(1, 1, 1)); !got.NearEquals(mmath.UNIT_Z_NEG_VEC3, 1e-12) {
		t.Fatalf("corner mismatch: got=%v", got)
	}
	want := mmath.NewVec3(0, -1, -1).Normalized()
	if got := table.Lookup(mmath.NewVec3(-0.5, 0.3, -0.2)); !got.NearEquals(want, 1e-12) {
		t.Fatalf("midpoint mismatch: got=%v want=%v", got, want)
	}
	// 範囲外はクランプされる
	if got := table.Lookup(mmath.NewVec3(-5, 0, 0)); !got.NearEquals(mmath.UNIT_Y_NEG_VEC3, 1e-12) {
		t.Fatalf("clamp mismatch: got=%v", got)
	}
}
