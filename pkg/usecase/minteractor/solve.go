// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"
	"github.com/pkg/errors"
)

const (
	defaultSolveFrames = 1
	defaultSolveFps    = 30.0
)

// Solve は入力スケルトンを読み込み、各フレームの目標を順に解いて保存する。
func (uc *FullBodyIkUsecase) Solve(request SolveRequest) (*SolveResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, errors.New("入力スケルトンパスが未指定です")
	}
	if request.Frames < 0 {
		return nil, errors.Errorf("フレーム数が不正です: %d", request.Frames)
	}
	if request.Fps < 0 {
		return nil, errors.Errorf("FPSが不正です: %v", request.Fps)
	}
	frames := request.Frames
	if frames == 0 {
		frames = defaultSolveFrames
	}
	fps := request.Fps
	if fps == 0 {
		fps = defaultSolveFps
	}
	reportSolveProgress(request.ProgressReporter, SolveProgressEvent{
		Type:       SolveProgressEventTypeInputValidated,
		FrameCount: frames,
	})

	outputPath, err := resolvePoseOutputPath(request.InputPath, request.OutputPath)
	if err != nil {
		return nil, err
	}
	reportSolveProgress(request.ProgressReporter, SolveProgressEvent{
		Type:       SolveProgressEventTypeOutputPathResolved,
		FrameCount: frames,
	})

	prepared, err := uc.PrepareDefinition(request.InputPath, request.ProgressReporter)
	if err != nil {
		return nil, err
	}
	def := prepared.Definition
	warnings := append([]string(nil), prepared.Warnings...)

	left, right, lookupWarnings := uc.loadLookupTables(request.LookupLeftPath, request.LookupRightPath)
	warnings = append(warnings, lookupWarnings...)
	reportSolveProgress(request.ProgressReporter, SolveProgressEvent{
		Type:         SolveProgressEventTypeLookupLoaded,
		FrameCount:   frames,
		WarningCount: len(warnings),
	})

	rest := RestSnapshot(def)
	solver := hik.NewSolver(def, hik.WithBendLookupTables(left, right))
	document := moutput.PoseDocument{
		ModelName: modelNameFromPath(request.InputPath),
		Fps:       fps,
		Warnings:  warnings,
		Frames:    make([]moutput.PoseFrame, 0, frames),
	}
	snapshots := make([]hik.Snapshot, 0, frames)

	current := rest.Clone()
	for frame := 0; frame < frames; frame++ {
		seconds := float64(frame) / fps
		objective, err := objectiveAt(request.Provider, frame, seconds, rest)
		if err != nil {
			return nil, errors.Wrapf(err, "目標姿勢の評価に失敗しました: frame=%d", frame)
		}
		current = solver.Solve(objective, current)
		solved := current.Clone()
		snapshots = append(snapshots, solved)
		document.Frames = append(document.Frames, moutput.PoseFrame{
			Index:   frame,
			Seconds: seconds,
			Bones:   readBonePoses(solved, def),
		})
		reportSolveProgress(request.ProgressReporter, SolveProgressEvent{
			Type:       SolveProgressEventTypeFrameSolved,
			FrameIndex: frame,
			FrameCount: frames,
		})
	}

	if err := uc.SavePose(nil, outputPath, document); err != nil {
		return nil, err
	}
	logging.DefaultLogger().Info("解決完了: frames=%d warnings=%d out=%s", frames, len(warnings), outputPath)
	reportSolveProgress(request.ProgressReporter, SolveProgressEvent{
		Type:         SolveProgressEventTypeCompleted,
		FrameCount:   frames,
		WarningCount: len(warnings),
	})

	return &SolveResult{
		Definition: def,
		Rest:       rest,
		Snapshots:  snapshots,
		Document:   document,
		OutputPath: outputPath,
		Warnings:   warnings,
	}, nil
}

// RestSnapshot は定義の参照姿勢を Hips から階層伝播したスナップショットを返す。
func RestSnapshot(def *hik.AvatarDefinition) hik.Snapshot {
	snapshot := hik.NewSnapshot()
	snapshot.ReferencePose(def, def.ReferenceHipsPos, def.ReferenceHipsRot, 1)
	return snapshot
}

// RestObjective は参照姿勢をそのまま目標にした Objective を返す。
func RestObjective(def *hik.AvatarDefinition) hik.Objective {
	return hik.ObjectiveFromSnapshot(RestSnapshot(def))
}

// objectiveAt は提供元があればフレームの目標を、無ければ参照姿勢の目標を返す。
func objectiveAt(provider moutput.IObjectiveProvider, frame int, seconds float64, rest hik.Snapshot) (hik.Objective, error) {
	if provider == nil {
		return hik.ObjectiveFromSnapshot(rest), nil
	}
	return provider.ObjectiveAt(frame, seconds, rest)
}

// readBonePoses は定義に存在するボーンのエンジン空間姿勢を列挙順で読み出す。
func readBonePoses(snapshot hik.Snapshot, def *hik.AvatarDefinition) []moutput.BonePose {
	poses := make([]moutput.BonePose, 0, model.HUMAN_BONE_COUNT)
	for _, bone := range model.AllHumanBones() {
		if !def.HasBone(bone) {
			continue
		}
		position, rotation := hik.ReadBone(snapshot, def, bone)
		poses = append(poses, moutput.BonePose{Bone: bone, Position: position, Rotation: rotation})
	}
	return poses
}
