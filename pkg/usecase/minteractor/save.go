// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"
	"github.com/pkg/errors"
)

// SavePose は姿勢列を保存する。
func (uc *FullBodyIkUsecase) SavePose(rep moutput.IPoseWriter, path string, document moutput.PoseDocument) error {
	writer := rep
	if writer == nil {
		writer = uc.poseWriter
	}
	if writer == nil {
		return errors.New("姿勢保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("保存先パスが未指定です")
	}
	if len(document.Frames) == 0 {
		return errors.New("保存対象の姿勢がありません")
	}
	if err := writer.Save(path, document); err != nil {
		return errors.Wrap(err, "姿勢の保存に失敗しました")
	}
	return nil
}
