// 指示: miu200521358
package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{
		"-in", "avatar.vrm", "-out", "pose.json", "-config", "solve.ini",
		"-frames", "60", "-fps", "24", "-lookup-left", "l.txt", "-lookup-right", "r.txt", "-log", "fbik.log",
	}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	assert.Equal(t, options{
		inputPath:       "avatar.vrm",
		configPath:      "solve.ini",
		frames:          60,
		fps:             24,
		outputPath:      "pose.json",
		lookupLeftPath:  "l.txt",
		lookupRightPath: "r.txt",
		logPath:         "fbik.log",
	}, opts)
}

func TestParseOptionsWithPositionals(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{"avatar.vrm", "result.json"}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.inputPath != "avatar.vrm" {
		t.Fatalf("inputPath mismatch: %s", opts.inputPath)
	}
	if opts.outputPath != "result.json" {
		t.Fatalf("outputPath mismatch: %s", opts.outputPath)
	}
	if opts.frames != defaultFrames || opts.fps != defaultFps {
		t.Fatalf("defaults mismatch: frames=%d fps=%v", opts.frames, opts.fps)
	}
}

func TestParseOptionsRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing input", args: []string{}, want: "-in"},
		{name: "vrm ext", args: []string{"-in", "avatar.pmx"}, want: ".vrm"},
		{name: "json ext", args: []string{"-in", "avatar.vrm", "-out", "pose.vmd"}, want: ".json"},
		{name: "frames", args: []string{"-in", "avatar.vrm", "-frames", "0"}, want: "フレーム数"},
		{name: "fps", args: []string{"-in", "avatar.vrm", "-fps", "-1"}, want: "フレームレート"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOptions(tc.args, bytes.NewBuffer(nil))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunSolvesVrmToJSON(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "avatar.vrm")
	outPath := filepath.Join(tempDir, "out", "pose.json")
	configPath := filepath.Join(tempDir, "solve.ini")
	logPath := filepath.Join(tempDir, "fbik.log")
	writeTestGLB(t, inPath, newHumanoidDocForTest())
	require.NoError(t, os.WriteFile(configPath, []byte("[target \"leftHand\"]\ny = -0.1 * frame\n"), 0o644))

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	err := run([]string{"-in", inPath, "-out", outPath, "-config", configPath, "-frames", "3", "-log", logPath}, outBuf, errBuf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output not found: %v", err)
	}
	var doc struct {
		ModelName string `json:"modelName"`
		Frames    []struct {
			Index int `json:"index"`
			Bones []struct {
				Bone string `json:"bone"`
			} `json:"bones"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "avatar", doc.ModelName)
	require.Len(t, doc.Frames, 3)
	assert.Equal(t, "hips", doc.Frames[0].Bones[0].Bone)
	assert.Contains(t, outBuf.String(), outPath)

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "定義構築")
}

func TestRunFailsOnBrokenConfig(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "avatar.vrm")
	configPath := filepath.Join(tempDir, "solve.ini")
	writeTestGLB(t, inPath, newHumanoidDocForTest())
	require.NoError(t, os.WriteFile(configPath, []byte("[target \"tail\"]\nx = 1\n"), 0o644))

	err := run([]string{"-in", inPath, "-config", configPath}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
}

// newHumanoidDocForTest はルート直下にヒューマノイドを並べたVRM1文書を返す。
func newHumanoidDocForTest() map[string]any {
	bones := []struct {
		name  string
		world [3]float64
	}{
		{"hips", [3]float64{0, 1, 0}},
		{"spine", [3]float64{0, 1.1, 0}},
		{"chest", [3]float64{0, 1.25, 0}},
		{"neck", [3]float64{0, 1.5, 0}},
		{"head", [3]float64{0, 1.6, 0}},
		{"leftShoulder", [3]float64{0.05, 1.45, 0}},
		{"leftUpperArm", [3]float64{0.15, 1.45, 0}},
		{"leftLowerArm", [3]float64{0.43, 1.45, 0}},
		{"leftHand", [3]float64{0.68, 1.45, 0}},
		{"rightShoulder", [3]float64{-0.05, 1.45, 0}},
		{"rightUpperArm", [3]float64{-0.15, 1.45, 0}},
		{"rightLowerArm", [3]float64{-0.43, 1.45, 0}},
		{"rightHand", [3]float64{-0.68, 1.45, 0}},
		{"leftUpperLeg", [3]float64{0.09, 0.95, 0}},
		{"leftLowerLeg", [3]float64{0.09, 0.52, 0}},
		{"leftFoot", [3]float64{0.09, 0.08, 0}},
		{"rightUpperLeg", [3]float64{-0.09, 0.95, 0}},
		{"rightLowerLeg", [3]float64{-0.09, 0.52, 0}},
		{"rightFoot", [3]float64{-0.09, 0.08, 0}},
	}
	children := make([]int, 0, len(bones))
	nodes := []any{map[string]any{"name": "root"}}
	humanBones := map[string]any{}
	for i, bone := range bones {
		nodes = append(nodes, map[string]any{
			"name":        bone.name,
			"translation": bone.world[:],
		})
		children = append(children, i+1)
		humanBones[bone.name] = map[string]any{"node": i + 1}
	}
	nodes[0].(map[string]any)["children"] = children

	return map[string]any{
		"asset":          map[string]any{"version": "2.0"},
		"extensionsUsed": []string{"VRMC_vrm"},
		"nodes":          nodes,
		"extensions": map[string]any{
			"VRMC_vrm": map[string]any{
				"specVersion": "1.0",
				"humanoid":    map[string]any{"humanBones": humanBones},
			},
		},
	}
}

// writeTestGLB はテスト用JSONをGLB形式で保存する。
func writeTestGLB(t *testing.T, path string, doc map[string]any) {
	t.Helper()
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	padding := (4 - (len(jsonBytes) % 4)) % 4
	if padding > 0 {
		jsonBytes = append(jsonBytes, bytes.Repeat([]byte(" "), padding)...)
	}

	totalLength := uint32(12 + 8 + len(jsonBytes))
	var buf bytes.Buffer
	for _, value := range []uint32{0x46546C67, 2, totalLength, uint32(len(jsonBytes)), 0x4E4F534A} {
		if err := binary.Write(&buf, binary.LittleEndian, value); err != nil {
			t.Fatalf("write header failed: %v", err)
		}
	}
	if _, err := buf.Write(jsonBytes); err != nil {
		t.Fatalf("write chunk body failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write glb file failed: %v", err)
	}
}
