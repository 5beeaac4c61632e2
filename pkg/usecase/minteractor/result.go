// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/usecase/port/moutput"
)

// SolveProgressEventType は解決処理の進捗イベント種別を表す。
type SolveProgressEventType string

const (
	// SolveProgressEventTypeInputValidated は入力検証完了イベントを表す。
	SolveProgressEventTypeInputValidated SolveProgressEventType = "input_validated"
	// SolveProgressEventTypeOutputPathResolved は出力パス解決完了イベントを表す。
	SolveProgressEventTypeOutputPathResolved SolveProgressEventType = "output_path_resolved"
	// SolveProgressEventTypeSkeletonLoaded はスケルトン読み込み完了イベントを表す。
	SolveProgressEventTypeSkeletonLoaded SolveProgressEventType = "skeleton_loaded"
	// SolveProgressEventTypeDefinitionBuilt は定義構築完了イベントを表す。
	SolveProgressEventTypeDefinitionBuilt SolveProgressEventType = "definition_built"
	// SolveProgressEventTypeLookupLoaded は曲げ方向テーブル読み込み完了イベントを表す。
	SolveProgressEventTypeLookupLoaded SolveProgressEventType = "lookup_loaded"
	// SolveProgressEventTypeFrameSolved は1フレーム解決完了イベントを表す。
	SolveProgressEventTypeFrameSolved SolveProgressEventType = "frame_solved"
	// SolveProgressEventTypeCompleted は全体完了イベントを表す。
	SolveProgressEventTypeCompleted SolveProgressEventType = "completed"
)

// SolveProgressEvent は解決処理の進捗イベントを表す。
type SolveProgressEvent struct {
	Type         SolveProgressEventType
	FrameIndex   int
	FrameCount   int
	WarningCount int
}

// ISolveProgressReporter は解決処理の進捗通知契約を表す。
type ISolveProgressReporter interface {
	// ReportSolveProgress は解決処理進捗を通知する。
	ReportSolveProgress(event SolveProgressEvent)
}

// SolveRequest は複数フレーム解決要求を表す。
type SolveRequest struct {
	InputPath        string
	OutputPath       string
	Frames           int
	Fps              float64
	Provider         moutput.IObjectiveProvider
	LookupLeftPath   string
	LookupRightPath  string
	ProgressReporter ISolveProgressReporter
}

// SolveResult は複数フレーム解決結果を表す。
type SolveResult struct {
	Definition *hik.AvatarDefinition
	Rest       hik.Snapshot
	Snapshots  []hik.Snapshot
	Document   moutput.PoseDocument
	OutputPath string
	Warnings   []string
}

// reportSolveProgress は解決処理の進捗を通知する。
func reportSolveProgress(reporter ISolveProgressReporter, event SolveProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportSolveProgress(event)
}
