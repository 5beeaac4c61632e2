// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表すクォータニオン。
type Quaternion mgl64.Quat

// NewQuaternion は単位クォータニオンを返す。
func NewQuaternion() Quaternion {
	return Quaternion(mgl64.QuatIdent())
}

// NewQuaternionByValues は要素指定でクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{W: w, V: mgl64.Vec3{x, y, z}}
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)から回転を生成する。
func NewQuaternionFromAxisAngle(axis Vec3, radian float64) Quaternion {
	n := axis.Normalized()
	if n.IsZero() {
		return NewQuaternion()
	}
	return Quaternion(mgl64.QuatRotate(radian, n.ToMgl()))
}

// NewQuaternionFromAxes は基底ベクトル(列)から回転を生成する。
func NewQuaternionFromAxes(x, y, z Vec3) Quaternion {
	m := mgl64.Mat3FromCols(x.ToMgl(), y.ToMgl(), z.ToMgl()).Mat4()
	q := Quaternion(mgl64.Mat4ToQuat(m))
	return q.Normalized()
}

// X はX成分を返す。
func (q Quaternion) X() float64 {
	return q.V[0]
}

// Y はY成分を返す。
func (q Quaternion) Y() float64 {
	return q.V[1]
}

// Z はZ成分を返す。
func (q Quaternion) Z() float64 {
	return q.V[2]
}

// Muled は q*other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion(mgl64.Quat(q).Mul(mgl64.Quat(other)))
}

// MulVec3 はベクトルを回転する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return vec3FromMgl(mgl64.Quat(q).Rotate(v.ToMgl()))
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	if mgl64.Quat(q).Len() == 0 {
		return NewQuaternion()
	}
	return Quaternion(mgl64.Quat(q).Inverse())
}

// Normalized は正規化クォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion(mgl64.Quat(q).Normalize())
}

// Dot は内積を返す。
func (q Quaternion) Dot(other Quaternion) float64 {
	return mgl64.Quat(q).Dot(mgl64.Quat(other))
}

// Slerp は最短経路で球面線形補間する。
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	if t <= 0 {
		return q
	}
	if t >= 1 {
		return other
	}
	target := mgl64.Quat(other)
	if q.Dot(other) < 0 {
		target = target.Scale(-1)
	}
	return Quaternion(mgl64.QuatSlerp(mgl64.Quat(q), target, t)).Normalized()
}

// Nlerp は正規化線形補間する。
func (q Quaternion) Nlerp(other Quaternion, t float64) Quaternion {
	target := mgl64.Quat(other)
	if q.Dot(other) < 0 {
		target = target.Scale(-1)
	}
	return Quaternion(mgl64.QuatNlerp(mgl64.Quat(q), target, t))
}

// NearEquals は同じ回転を表すか許容誤差内で判定する。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	sign := 1.0
	if q.Dot(other) < 0 {
		sign = -1.0
	}
	return math.Abs(q.W-other.W*sign) <= epsilon &&
		math.Abs(q.V[0]-other.V[0]*sign) <= epsilon &&
		math.Abs(q.V[1]-other.V[1]*sign) <= epsilon &&
		math.Abs(q.V[2]-other.V[2]*sign) <= epsilon
}

// IsFinite は全要素が有限値か判定する。
func (q Quaternion) IsFinite() bool {
	for _, value := range []float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

// Right はローカルX軸のワールド方向を返す。
func (q Quaternion) Right() Vec3 {
	return q.MulVec3(UNIT_X_VEC3)
}

// Up はローカルY軸のワールド方向を返す。
func (q Quaternion) Up() Vec3 {
	return q.MulVec3(UNIT_Y_VEC3)
}

// Forward はローカルZ軸のワールド方向を返す。
func (q Quaternion) Forward() Vec3 {
	return q.MulVec3(UNIT_Z_VEC3)
}

// ToMat4 は回転行列を返す。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4(mgl64.Quat(q).Normalize().Mat4())
}

// String は表示用文字列を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.7f, y=%.7f, z=%.7f, w=%.7f]", q.V[0], q.V[1], q.V[2], q.W)
}
