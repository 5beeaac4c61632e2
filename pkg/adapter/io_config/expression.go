// 指示: miu200521358
package io_config

import (
	"math"
	"strings"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"gopkg.in/Knetic/govaluate.v3"
)

// expressionFunctions は式中で使える関数。
var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"sin":   unaryFunction(math.Sin),
	"cos":   unaryFunction(math.Cos),
	"abs":   unaryFunction(math.Abs),
	"sqrt":  unaryFunction(math.Sqrt),
	"rad":   unaryFunction(func(v float64) float64 { return v * math.Pi / 180 }),
	"clamp": clampFunction,
}

// unaryFunction は float64 の1引数関数を式関数にする。
func unaryFunction(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, io_common.NewIoParseFailed("関数の引数は1つです: got=%d", nil, len(args))
		}
		value, ok := args[0].(float64)
		if !ok {
			return nil, io_common.NewIoParseFailed("関数の引数が数値ではありません: %v", nil, args[0])
		}
		return fn(value), nil
	}
}

func clampFunction(args ...interface{}) (interface{}, error) {
	if len(args) != 3 {
		return nil, io_common.NewIoParseFailed("clamp の引数は3つです: got=%d", nil, len(args))
	}
	values := make([]float64, 3)
	for i, arg := range args {
		value, ok := arg.(float64)
		if !ok {
			return nil, io_common.NewIoParseFailed("clamp の引数が数値ではありません: %v", nil, arg)
		}
		values[i] = value
	}
	return math.Min(math.Max(values[0], values[1]), values[2]), nil
}

// Expression は t (秒) と frame の式。空文字は定数0。
type Expression struct {
	source    string
	evaluable *govaluate.EvaluableExpression
}

// ParseExpression は式を解析する。
func ParseExpression(source string) (*Expression, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return &Expression{}, nil
	}
	evaluable, err := govaluate.NewEvaluableExpressionWithFunctions(trimmed, expressionFunctions)
	if err != nil {
		return nil, io_common.NewIoParseFailed("式の解析に失敗しました: %s", err, trimmed)
	}
	for _, name := range evaluable.Vars() {
		if name != "t" && name != "frame" {
			return nil, io_common.NewIoParseFailed("式に未知の変数があります: %s", nil, name)
		}
	}
	return &Expression{source: trimmed, evaluable: evaluable}, nil
}

// IsZero は式が未指定か判定する。
func (e *Expression) IsZero() bool {
	return e == nil || e.evaluable == nil
}

// Evaluate は式を評価する。
func (e *Expression) Evaluate(frame int, seconds float64) (float64, error) {
	if e.IsZero() {
		return 0, nil
	}
	result, err := e.evaluable.Evaluate(map[string]interface{}{
		"t":     seconds,
		"frame": float64(frame),
	})
	if err != nil {
		return 0, io_common.NewIoParseFailed("式の評価に失敗しました: %s", err, e.source)
	}
	switch value := result.(type) {
	case float64:
		return value, nil
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, io_common.NewIoParseFailed("式の結果が数値ではありません: %s", nil, e.source)
	}
}
