// 指示: miu200521358
package vrm

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_common"
	"github.com/miu200521358/mu_fbik/pkg/domain/hik"
	"github.com/miu200521358/mu_fbik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fbik/pkg/domain/model"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbMagic          = 0x46546C67
	glbJSONChunkType  = 0x4E4F534A
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// LoadProgressEventType はVRM読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeCompleted はVRM読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はVRM読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type           LoadProgressEventType
	FileSizeBytes  int
	ReadBytes      int
	NodeCount      int
	HumanBoneCount int
}

// VrmRepository はVRMからスケルトンを読み込む。
type VrmRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewVrmRepository はVrmRepositoryを生成する。
func NewVrmRepository() *VrmRepository {
	return &VrmRepository{}
}

// SetLoadProgressReporter はVRM読込進捗受信コールバックを設定する。
func (r *VrmRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VrmRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".vrm")
}

// InferName はパスから表示名を推定する。
func (r *VrmRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はVRMを読み込み、ヒューマノイドの参照姿勢スケルトンを返す。
func (r *VrmRepository) Load(path string) (*Skeleton, error) {
	if !r.CanLoad(path) {
		return nil, io_common.NewIoExtInvalid(path, nil)
	}
	loadTargetName := filepath.Base(path)
	logVrmInfo("VRM読込開始: file=%s", loadTargetName)

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("VRMファイルの読み取りに失敗しました", err)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeFileReadComplete,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
	})

	jsonChunk, err := parseGLBJSONChunk(b)
	if err != nil {
		return nil, err
	}
	doc := gltfDocument{}
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, io_common.NewIoParseFailed("VRM JSONチャンクの解析に失敗しました", err)
	}
	version := detectVrmVersion(&doc)
	if version == "" {
		return nil, io_common.NewIoFormatNotSupported("VRM拡張が見つかりません", nil)
	}
	humanNodes, err := resolveHumanBoneNodes(&doc, version)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:           LoadProgressEventTypeJsonParsed,
		FileSizeBytes:  len(b),
		ReadBytes:      len(b),
		NodeCount:      len(doc.Nodes),
		HumanBoneCount: len(humanNodes),
	})
	logVrmInfo("VRM読込ステップ: JSON解析完了 version=%s nodes=%d humanBones=%d", version, len(doc.Nodes), len(humanNodes))

	parentIndexes, err := buildNodeParentIndexes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	worldMats, err := buildNodeWorldMatrices(doc.Nodes, parentIndexes)
	if err != nil {
		return nil, err
	}

	skeleton, err := newSkeleton(r.InferName(path), version, humanNodes, worldMats)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:           LoadProgressEventTypeCompleted,
		FileSizeBytes:  len(b),
		ReadBytes:      len(b),
		NodeCount:      len(doc.Nodes),
		HumanBoneCount: len(humanNodes),
	})
	logVrmInfo("VRM読込完了: file=%s scale=%.4f", loadTargetName, skeleton.LossyScale())
	return skeleton, nil
}

// LoadSkeleton はVRMを読み込み、IK定義構築用のアクセサとして返す。
func (r *VrmRepository) LoadSkeleton(path string) (hik.ISkeletonAccessor, error) {
	skeleton, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	return skeleton, nil
}

// reportLoadProgress は読込進捗イベントを通知する。
func (r *VrmRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logVrmInfo はVRM読込のINFOログを出力する。
func logVrmInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logVrmWarn はVRM読込の警告ログを出力する。
func logVrmWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// gltfDocument はスケルトン読込に必要なglTFトップレベル要素を表す。
type gltfDocument struct {
	Asset          gltfAsset                  `json:"asset"`
	ExtensionsUsed []string                   `json:"extensionsUsed"`
	Nodes          []gltfNode                 `json:"nodes"`
	Extensions     map[string]json.RawMessage `json:"extensions"`
}

// gltfAsset はglTF asset要素を表す。
type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// gltfNode はglTF node要素を表す。
type gltfNode struct {
	Name        string    `json:"name"`
	Children    []int     `json:"children"`
	Matrix      []float64 `json:"matrix"`
	Translation []float64 `json:"translation"`
	Rotation    []float64 `json:"rotation"`
	Scale       []float64 `json:"scale"`
}

// vrm0Extension はVRM0拡張の必要要素を表す。
type vrm0Extension struct {
	ExporterVersion string       `json:"exporterVersion"`
	Humanoid        vrm0Humanoid `json:"humanoid"`
}

// vrm0Humanoid はVRM0 humanoid要素を表す。
type vrm0Humanoid struct {
	HumanBones []vrm0HumanBone `json:"humanBones"`
}

// vrm0HumanBone はVRM0 humanBones要素を表す。
type vrm0HumanBone struct {
	Bone string `json:"bone"`
	Node int    `json:"node"`
}

// vrm1Extension はVRM1拡張の必要要素を表す。
type vrm1Extension struct {
	SpecVersion string       `json:"specVersion"`
	Humanoid    vrm1Humanoid `json:"humanoid"`
}

// vrm1Humanoid はVRM1 humanoid要素を表す。
type vrm1Humanoid struct {
	HumanBones map[string]vrm1HumanBone `json:"humanBones"`
}

// vrm1HumanBone はVRM1 humanBones要素を表す。
type vrm1HumanBone struct {
	Node *int `json:"node"`
}

// vrm1ThumbNames はVRM1の親指名を3関節の親指へ読み替える。
var vrm1ThumbNames = map[string]model.HumanBone{
	"leftThumbMetacarpal":  model.LEFT_THUMB_PROXIMAL,
	"leftThumbProximal":    model.LEFT_THUMB_INTERMEDIATE,
	"leftThumbDistal":      model.LEFT_THUMB_DISTAL,
	"rightThumbMetacarpal": model.RIGHT_THUMB_PROXIMAL,
	"rightThumbProximal":   model.RIGHT_THUMB_INTERMEDIATE,
	"rightThumbDistal":     model.RIGHT_THUMB_DISTAL,
}

// parseGLBJSONChunk はGLBバイナリからJSONチャンクを取り出す。
func parseGLBJSONChunk(b []byte) ([]byte, error) {
	if len(b) < glbMinValidLength {
		return nil, io_common.NewIoParseFailed("VRMヘッダが不足しています", nil)
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != glbMagic {
		return nil, io_common.NewIoParseFailed("GLBマジックが不正です", nil)
	}
	version := binary.LittleEndian.Uint32(b[4:8])
	if version != 2 {
		return nil, io_common.NewIoFormatNotSupported("GLBバージョンが未対応です: %d", nil, version)
	}
	totalLength := binary.LittleEndian.Uint32(b[8:12])
	if totalLength > uint32(len(b)) {
		return nil, io_common.NewIoParseFailed("GLB全体長が不正です", nil)
	}

	offset := glbHeaderLength
	for offset+glbChunkHeadSize <= len(b) {
		chunkLength := int(binary.LittleEndian.Uint32(b[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(b[offset+4 : offset+8])
		chunkStart := offset + glbChunkHeadSize
		chunkEnd := chunkStart + chunkLength
		if chunkLength < 0 || chunkEnd > len(b) {
			return nil, io_common.NewIoParseFailed("GLBチャンク長が不正です", nil)
		}
		if chunkType == glbJSONChunkType {
			return b[chunkStart:chunkEnd], nil
		}
		offset = chunkEnd
	}
	return nil, io_common.NewIoParseFailed("GLB JSONチャンクが見つかりません", nil)
}

// buildNodeParentIndexes はnode配列から親インデックス配列を生成する。
func buildNodeParentIndexes(nodes []gltfNode) ([]int, error) {
	parentIndexes := make([]int, len(nodes))
	for i := range parentIndexes {
		parentIndexes[i] = -1
	}
	for parentIndex, node := range nodes {
		for _, childIndex := range node.Children {
			if childIndex < 0 || childIndex >= len(nodes) {
				return nil, io_common.NewIoParseFailed("node.children のindexが不正です: %d", nil, childIndex)
			}
			if parentIndexes[childIndex] == -1 {
				parentIndexes[childIndex] = parentIndex
			}
		}
	}
	return parentIndexes, nil
}

// buildNodeWorldMatrices はnodeのローカル変換からワールド行列を算出する。
func buildNodeWorldMatrices(nodes []gltfNode, parents []int) ([]mmath.Mat4, error) {
	worldMats := make([]mmath.Mat4, len(nodes))
	state := make([]int, len(nodes))
	for i := range nodes {
		if err := resolveNodeWorldMatrix(nodes, parents, i, state, worldMats); err != nil {
			return nil, err
		}
	}
	return worldMats, nil
}

// resolveNodeWorldMatrix はnodeのワールド行列を再帰的に解決する。
func resolveNodeWorldMatrix(
	nodes []gltfNode,
	parents []int,
	nodeIndex int,
	state []int,
	worldMats []mmath.Mat4,
) error {
	if nodeIndex < 0 || nodeIndex >= len(nodes) {
		return io_common.NewIoParseFailed("node index が不正です: %d", nil, nodeIndex)
	}
	if state[nodeIndex] == 2 {
		return nil
	}
	if state[nodeIndex] == 1 {
		return io_common.NewIoParseFailed("node親子関係に循環があります: %d", nil, nodeIndex)
	}
	state[nodeIndex] = 1
	local, err := nodeLocalMatrix(nodes[nodeIndex])
	if err != nil {
		return err
	}
	parentIndex := parents[nodeIndex]
	if parentIndex >= 0 {
		if err := resolveNodeWorldMatrix(nodes, parents, parentIndex, state, worldMats); err != nil {
			return err
		}
		worldMats[nodeIndex] = worldMats[parentIndex].Muled(local)
	} else {
		worldMats[nodeIndex] = local
	}
	state[nodeIndex] = 2
	return nil
}

// nodeLocalMatrix はnode要素からローカル行列を生成する。
func nodeLocalMatrix(node gltfNode) (mmath.Mat4, error) {
	if len(node.Matrix) > 0 {
		if len(node.Matrix) != 16 {
			return mmath.NewMat4(), io_common.NewIoParseFailed("node.matrix の要素数が不正です: %d", nil, len(node.Matrix))
		}
		mat := mmath.NewMat4()
		for i := 0; i < 16; i++ {
			mat[i] = node.Matrix[i]
		}
		return mat, nil
	}

	translation, err := parseVec3(node.Translation, mmath.ZERO_VEC3, "node.translation")
	if err != nil {
		return mmath.NewMat4(), err
	}
	scale, err := parseVec3(node.Scale, mmath.ONE_VEC3, "node.scale")
	if err != nil {
		return mmath.NewMat4(), err
	}
	rotation, err := parseQuaternion(node.Rotation)
	if err != nil {
		return mmath.NewMat4(), err
	}
	return mmath.NewMat4FromTRS(translation, rotation, scale), nil
}

// parseVec3 はスライスをVec3へ変換する。
func parseVec3(values []float64, defaultValue mmath.Vec3, label string) (mmath.Vec3, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) != 3 {
		return mmath.ZERO_VEC3, io_common.NewIoParseFailed("%s の要素数が不正です: %d", nil, label, len(values))
	}
	return mmath.Vec3{Vec: r3.Vec{X: values[0], Y: values[1], Z: values[2]}}, nil
}

// parseQuaternion はスライスをQuaternionへ変換する。
func parseQuaternion(values []float64) (mmath.Quaternion, error) {
	if len(values) == 0 {
		return mmath.NewQuaternion(), nil
	}
	if len(values) != 4 {
		return mmath.NewQuaternion(), io_common.NewIoParseFailed("node.rotation の要素数が不正です: %d", nil, len(values))
	}
	return mmath.NewQuaternionByValues(values[0], values[1], values[2], values[3]).Normalized(), nil
}

// resolveHumanBoneNodes はVRM拡張からヒューマノイドボーンとnodeの対応を読み出す。
func resolveHumanBoneNodes(doc *gltfDocument, version VrmVersion) (map[model.HumanBone]int, error) {
	nodes := map[model.HumanBone]int{}
	assign := func(name string, bone model.HumanBone, nodeIndex int) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return io_common.NewIoParseFailed("humanBones の node が不正です: %s=%d", nil, name, nodeIndex)
		}
		nodes[bone] = nodeIndex
		return nil
	}

	if version == VRM_VERSION_1 {
		ext := vrm1Extension{}
		if err := json.Unmarshal(doc.Extensions["VRMC_vrm"], &ext); err != nil {
			return nil, io_common.NewIoParseFailed("VRM1拡張のJSON解析に失敗しました", err)
		}
		for name, humanBone := range ext.Humanoid.HumanBones {
			if humanBone.Node == nil {
				continue
			}
			bone, ok := vrm1ThumbNames[name]
			if !ok {
				bone, ok = model.HumanBoneByName(name)
			}
			if !ok {
				logVrmWarn("未対応のhumanBoneを無視しました: %s", name)
				continue
			}
			if err := assign(name, bone, *humanBone.Node); err != nil {
				return nil, err
			}
		}
	} else {
		ext := vrm0Extension{}
		if err := json.Unmarshal(doc.Extensions["VRM"], &ext); err != nil {
			return nil, io_common.NewIoParseFailed("VRM0拡張のJSON解析に失敗しました", err)
		}
		for _, humanBone := range ext.Humanoid.HumanBones {
			bone, ok := model.HumanBoneByName(humanBone.Bone)
			if !ok {
				logVrmWarn("未対応のhumanBoneを無視しました: %s", humanBone.Bone)
				continue
			}
			if err := assign(humanBone.Bone, bone, humanBone.Node); err != nil {
				return nil, err
			}
		}
	}

	if _, ok := nodes[model.HIPS]; !ok {
		return nil, io_common.NewIoFormatNotSupported("hips ボーンが定義されていません", nil)
	}
	return nodes, nil
}

// detectVrmVersion は拡張宣言から優先バージョンを判定する。
func detectVrmVersion(doc *gltfDocument) VrmVersion {
	hasVrm1 := false
	hasVrm0 := false
	if doc.Extensions != nil {
		_, hasVrm1 = doc.Extensions["VRMC_vrm"]
		_, hasVrm0 = doc.Extensions["VRM"]
	}
	if !hasVrm1 && !hasVrm0 && containsIgnoreCase(doc.ExtensionsUsed, "VRMC_vrm") {
		logVrmWarn("VRMC_vrm が宣言されていますが拡張本体がありません")
	}

	// VRM0/1 同時宣言時は VRM1 を優先する。
	if hasVrm1 {
		return VRM_VERSION_1
	}
	if hasVrm0 {
		return VRM_VERSION_0
	}
	return ""
}

// containsIgnoreCase は大文字小文字を無視して要素を検索する。
func containsIgnoreCase(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
