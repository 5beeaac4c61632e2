// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 はゼロベクトル。
	ZERO_VEC3 = Vec3{}
	// ONE_VEC3 は全要素1のベクトル。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_X_VEC3 はX軸単位ベクトル。
	UNIT_X_VEC3 = Vec3{Vec: r3.Vec{X: 1}}
	// UNIT_Y_VEC3 はY軸単位ベクトル。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{Y: 1}}
	// UNIT_Z_VEC3 はZ軸単位ベクトル。
	UNIT_Z_VEC3 = Vec3{Vec: r3.Vec{Z: 1}}
	// UNIT_X_NEG_VEC3 はX軸負方向単位ベクトル。
	UNIT_X_NEG_VEC3 = Vec3{Vec: r3.Vec{X: -1}}
	// UNIT_Y_NEG_VEC3 はY軸負方向単位ベクトル。
	UNIT_Y_NEG_VEC3 = Vec3{Vec: r3.Vec{Y: -1}}
	// UNIT_Z_NEG_VEC3 はZ軸負方向単位ベクトル。
	UNIT_Z_NEG_VEC3 = Vec3{Vec: r3.Vec{Z: -1}}
)

// NewVec3 は要素指定でVec3を生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// DivedScalar はスカラー除算を返す。0除算時はゼロベクトルを返す。
func (v Vec3) DivedScalar(s float64) Vec3 {
	if s == 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Scale(1.0/s, v.Vec)}
}

// Negated は符号反転を返す。
func (v Vec3) Negated() Vec3 {
	return v.MuledScalar(-1)
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length は長さを返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// LengthSqr は長さの2乗を返す。
func (v Vec3) LengthSqr() float64 {
	return r3.Norm2(v.Vec)
}

// Distance は2点間の距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subed(other).Length()
}

// Normalized は正規化ベクトルを返す。ゼロ長の場合はゼロベクトルを返す。
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length <= EPSILON || math.IsNaN(length) || math.IsInf(length, 0) {
		return ZERO_VEC3
	}
	return v.MuledScalar(1.0 / length)
}

// NormalizedOr は正規化ベクトルを返す。ゼロ長の場合は fallback を返す。
func (v Vec3) NormalizedOr(fallback Vec3) Vec3 {
	normalized := v.Normalized()
	if normalized.IsZero() {
		return fallback
	}
	return normalized
}

// IsZero はゼロ長か判定する。
func (v Vec3) IsZero() bool {
	return v.LengthSqr() <= EPSILON*EPSILON
}

// Lerp は線形補間結果を返す。
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}

// NearEquals は各要素が許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon &&
		math.Abs(v.Y-other.Y) <= epsilon &&
		math.Abs(v.Z-other.Z) <= epsilon
}

// IsFinite は全要素が有限値か判定する。
func (v Vec3) IsFinite() bool {
	for _, value := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

// Orthogonal は v に直交する任意の単位ベクトルを返す。
func (v Vec3) Orthogonal() Vec3 {
	n := v.NormalizedOr(UNIT_Y_VEC3)
	candidate := UNIT_X_VEC3
	if math.Abs(n.X) > 0.9 {
		candidate = UNIT_Y_VEC3
	}
	return n.Cross(candidate).Normalized()
}

// ToMgl はmgl64形式へ変換する。
func (v Vec3) ToMgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// ToMat4 は平行移動行列を返す。
func (v Vec3) ToMat4() Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// ToScaleMat4 はスケール行列を返す。
func (v Vec3) ToScaleMat4() Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}

// String は表示用文字列を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.7f, y=%.7f, z=%.7f]", v.X, v.Y, v.Z)
}

// vec3FromMgl はmgl64形式からVec3を生成する。
func vec3FromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}
