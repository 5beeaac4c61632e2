// 指示: miu200521358
package io_common

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIoExtInvalid は拡張子不正エラー。
	ErrIoExtInvalid = stderrors.New("拡張子が不正です")
	// ErrIoFileNotFound はファイル未検出エラー。
	ErrIoFileNotFound = stderrors.New("ファイルが見つかりません")
	// ErrIoParseFailed は解析失敗エラー。
	ErrIoParseFailed = stderrors.New("解析に失敗しました")
	// ErrIoFormatNotSupported は未対応形式エラー。
	ErrIoFormatNotSupported = stderrors.New("未対応の形式です")
	// ErrIoSaveFailed は保存失敗エラー。
	ErrIoSaveFailed = stderrors.New("保存に失敗しました")
)

// IoError は入出力エラーの種別・メッセージ・原因を保持する。
type IoError struct {
	Kind    error
	Message string
	Cause   error
}

// Error はメッセージを返す。
func (e *IoError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
}

// Unwrap は種別と原因を返す。errors.Is で両方を判定できる。
func (e *IoError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newIoError(kind error, cause error, format string, params ...any) error {
	message := format
	if len(params) > 0 {
		message = fmt.Sprintf(format, params...)
	}
	return errors.WithStack(&IoError{Kind: kind, Message: message, Cause: cause})
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, cause error) error {
	return newIoError(ErrIoExtInvalid, cause, "path=%s", path)
}

// NewIoFileNotFound はファイル未検出エラーを生成する。
func NewIoFileNotFound(path string, cause error) error {
	return newIoError(ErrIoFileNotFound, cause, "path=%s", path)
}

// NewIoParseFailed は解析失敗エラーを生成する。
func NewIoParseFailed(format string, cause error, params ...any) error {
	return newIoError(ErrIoParseFailed, cause, format, params...)
}

// NewIoFormatNotSupported は未対応形式エラーを生成する。
func NewIoFormatNotSupported(format string, cause error, params ...any) error {
	return newIoError(ErrIoFormatNotSupported, cause, format, params...)
}

// NewIoSaveFailed は保存失敗エラーを生成する。
func NewIoSaveFailed(format string, cause error, params ...any) error {
	return newIoError(ErrIoSaveFailed, cause, format, params...)
}
