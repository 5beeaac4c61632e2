// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultOutputSuffix = "fbik"
	defaultOutputExt    = ".json"
)

var nowFunc = time.Now

// BuildDefaultOutputPath は入力パスから既定の姿勢出力パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	return buildDefaultOutputPathAt(inputPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定の姿勢出力パスを生成する。
func buildDefaultOutputPathAt(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	stamp := now.Format("20060102150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", base, defaultOutputSuffix, stamp, defaultOutputExt))
}

// resolvePoseOutputPath は姿勢の保存先パスを解決し、拡張子を検証する。
func resolvePoseOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", errors.New("保存先パスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), defaultOutputExt) {
		return "", errors.Errorf("保存先拡張子が .json ではありません: %s", resolved)
	}
	return resolved, nil
}

// modelNameFromPath は入力パスからモデル名を求める。
func modelNameFromPath(inputPath string) string {
	return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
}
