// 指示: miu200521358
package io_pose

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"
)

const (
	outputDirFileMode = 0o755
	outputFileMode    = 0o644
)

// poseFileJSON は姿勢ファイルのJSON表現。
type poseFileJSON struct {
	ModelName string          `json:"modelName"`
	Fps       float64         `json:"fps"`
	Warnings  []string        `json:"warnings,omitempty"`
	Frames    []poseFrameJSON `json:"frames"`
}

type poseFrameJSON struct {
	Index   int            `json:"index"`
	Seconds float64        `json:"seconds"`
	Bones   []bonePoseJSON `json:"bones"`
}

type bonePoseJSON struct {
	Bone     string     `json:"bone"`
	Position [3]float64 `json:"position"`
	// Rotation は x, y, z, w の順。
	Rotation [4]float64 `json:"rotation"`
}

// PoseRepository は解決結果をJSONで保存する。
type PoseRepository struct{}

// NewPoseRepository はPoseRepositoryを生成する。
func NewPoseRepository() *PoseRepository {
	return &PoseRepository{}
}

// CanSave は保存可能な拡張子か判定する。
func (r *PoseRepository) CanSave(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Save は姿勢列をJSONファイルへ保存する。
func (r *PoseRepository) Save(path string, document moutput.PoseDocument) error {
	if !r.CanSave(path) {
		return io_common.NewIoExtInvalid(path, nil)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, outputDirFileMode); err != nil {
			return io_common.NewIoSaveFailed("保存先ディレクトリの作成に失敗しました: %s", err, dir)
		}
	}
	data, err := json.MarshalIndent(toPoseFileJSON(document), "", "  ")
	if err != nil {
		return io_common.NewIoSaveFailed("姿勢のJSON化に失敗しました", err)
	}
	if err := os.WriteFile(path, data, outputFileMode); err != nil {
		return io_common.NewIoSaveFailed("姿勢ファイルの書き込みに失敗しました: %s", err, filepath.Base(path))
	}
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Info("姿勢保存: file=%s frames=%d", filepath.Base(path), len(document.Frames))
	}
	return nil
}

// toPoseFileJSON はドキュメントをJSON表現へ写す。
func toPoseFileJSON(document moutput.PoseDocument) poseFileJSON {
	out := poseFileJSON{
		ModelName: document.ModelName,
		Fps:       document.Fps,
		Warnings:  document.Warnings,
		Frames:    make([]poseFrameJSON, 0, len(document.Frames)),
	}
	for _, frame := range document.Frames {
		bones := make([]bonePoseJSON, 0, len(frame.Bones))
		for _, pose := range frame.Bones {
			rot := pose.Rotation
			bones = append(bones, bonePoseJSON{
				Bone:     pose.Bone.Name(),
				Position: [3]float64{pose.Position.X, pose.Position.Y, pose.Position.Z},
				Rotation: [4]float64{rot.V[0], rot.V[1], rot.V[2], rot.W},
			})
		}
		out.Frames = append(out.Frames, poseFrameJSON{
			Index:   frame.Index,
			Seconds: frame.Seconds,
			Bones:   bones,
		})
	}
	return out
}
