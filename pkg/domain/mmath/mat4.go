// 指示: miu200521358
package mmath

import "github.com/go-gl/mathgl/mgl64"

// Mat4 は列優先の4x4行列を表す。
type Mat4 mgl64.Mat4

// NewMat4 は単位行列を返す。
func NewMat4() Mat4 {
	return Mat4(mgl64.Ident4())
}

// NewMat4FromTRS は平行移動・回転・スケールから行列を生成する。
func NewMat4FromTRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	return translation.ToMat4().Muled(rotation.ToMat4()).Muled(scale.ToScaleMat4())
}

// NewUniformScaleMat4 は一様スケール行列を返す。
func NewUniformScaleMat4(scale float64) Mat4 {
	return Mat4(mgl64.Scale3D(scale, scale, scale))
}

// Muled は m*other を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// Inverted は逆行列を返す。
func (m Mat4) Inverted() Mat4 {
	return Mat4(mgl64.Mat4(m).Inv())
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	col := mgl64.Mat4(m).Col(3)
	return NewVec3(col[0], col[1], col[2])
}

// MulVec3 は座標変換した点を返す。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return vec3FromMgl(mgl64.TransformCoordinate(v.ToMgl(), mgl64.Mat4(m)))
}

// Quaternion は回転成分を返す。スケールは列ごとに除去する。
func (m Mat4) Quaternion() Quaternion {
	raw := mgl64.Mat4(m)
	x := vec3FromMgl(raw.Col(0).Vec3()).Normalized()
	y := vec3FromMgl(raw.Col(1).Vec3()).Normalized()
	z := vec3FromMgl(raw.Col(2).Vec3()).Normalized()
	if x.IsZero() || y.IsZero() || z.IsZero() {
		return NewQuaternion()
	}
	return NewQuaternionFromAxes(x, y, z)
}

// Scale は各軸のスケール成分を返す。
func (m Mat4) Scale() Vec3 {
	raw := mgl64.Mat4(m)
	return NewVec3(
		vec3FromMgl(raw.Col(0).Vec3()).Length(),
		vec3FromMgl(raw.Col(1).Vec3()).Length(),
		vec3FromMgl(raw.Col(2).Vec3()).Length(),
	)
}
