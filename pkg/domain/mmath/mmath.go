// 指示: miu200521358
// Package mmath はIK計算で使うベクトル・クォータニオン・行列とその補助関数を提供する。
package mmath

import "math"

const (
	// EPSILON はゼロ長判定に使う閾値。
	EPSILON = 1e-9
)

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radian float64) float64 {
	return radian * 180.0 / math.Pi
}

// Clamp は値をmin-maxでクランプする。
func Clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 は値を0-1でクランプする。
func Clamp01(value float64) float64 {
	return Clamp(value, 0.0, 1.0)
}

// Lerp はスカラー値を線形補間する。
func Lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}
