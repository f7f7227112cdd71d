package subprocess

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockChunkReader delivers data in controlled chunks to simulate various buffering scenarios.
type mockChunkReader struct {
	chunks [][]byte
	index  int
}

func newMockChunkReader(chunks ...string) *mockChunkReader {
	byteChunks := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		byteChunks[i] = []byte(chunk)
	}

	return &mockChunkReader{chunks: byteChunks}
}

func (r *mockChunkReader) Read(p []byte) (int, error) {
	if r.index >= len(r.chunks) {
		return 0, io.EOF
	}

	chunk := r.chunks[r.index]
	r.index++

	n := copy(p, chunk)

	return n, nil
}

// TestScanLines_MultipleObjectsInOneRead tests framing when several responses
// arrive in a single read.
func TestScanLines_MultipleObjectsInOneRead(t *testing.T) {
	reader := newMockChunkReader(`{"id":"a","result":{}}` + "\n" + `{"id":"b","result":{}}` + "\n")
	messages := collectJSONLines(t, reader)

	require.Len(t, messages, 2)
	require.Equal(t, "a", messages[0]["id"])
	require.Equal(t, "b", messages[1]["id"])
}

// TestScanLines_EmbeddedNewlines tests JSON string values containing escaped newlines.
func TestScanLines_EmbeddedNewlines(t *testing.T) {
	obj := map[string]any{"id": "a", "result": map[string]any{"text": "Line 1\nLine 2\nLine 3"}}

	data, err := json.Marshal(obj)
	require.NoError(t, err)

	messages := collectJSONLines(t, newMockChunkReader(string(data)+"\n"))

	require.Len(t, messages, 1)

	result, ok := messages[0]["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Line 1\nLine 2\nLine 3", result["text"])
}

// TestScanLines_SkipsBlankLines tests that blank and whitespace-only lines are not emitted.
func TestScanLines_SkipsBlankLines(t *testing.T) {
	reader := newMockChunkReader(`{"id":"a"}` + "\n\n  \r\n" + `{"id":"b"}` + "\r\n")
	messages := collectJSONLines(t, reader)

	require.Len(t, messages, 2)
	require.Equal(t, "b", messages[1]["id"])
}

// TestScanLines_SplitAcrossReads tests a single response split across reads.
func TestScanLines_SplitAcrossReads(t *testing.T) {
	tools := make([]map[string]any, 50)
	for i := range tools {
		tools[i] = map[string]any{"name": "tool", "description": strings.Repeat("x", 40)}
	}

	data, err := json.Marshal(map[string]any{"id": "x", "result": map[string]any{"tools": tools}})
	require.NoError(t, err)

	data = append(data, '\n')

	reader := newMockChunkReader(string(data[:100]), string(data[100:250]), string(data[250:]))
	messages := collectJSONLines(t, reader)

	require.Len(t, messages, 1)

	result, ok := messages[0]["result"].(map[string]any)
	require.True(t, ok)
	require.Len(t, result["tools"], 50)
}

// TestScanLines_LargeLineAcrossChunks tests a line larger than the initial
// scanner buffer delivered in 64KB chunks.
func TestScanLines_LargeLineAcrossChunks(t *testing.T) {
	data, err := json.Marshal(map[string]any{"id": "big", "result": map[string]any{"blob": strings.Repeat("y", 300*1024)}})
	require.NoError(t, err)

	data = append(data, '\n')

	chunkSize := 64 * 1024

	var chunks []string

	for i := 0; i < len(data); i += chunkSize {
		end := min(i+chunkSize, len(data))
		chunks = append(chunks, string(data[i:end]))
	}

	messages := collectJSONLines(t, newMockChunkReader(chunks...))

	require.Len(t, messages, 1)
	require.Equal(t, "big", messages[0]["id"])
}

// TestScanLines_TokenTooLong tests that a line over maxScanTokenSize is an error.
func TestScanLines_TokenTooLong(t *testing.T) {
	huge := `{"data":"` + strings.Repeat("x", maxScanTokenSize) + `"}` + "\n"

	err := scanLines(strings.NewReader(huge), func([]byte) bool { return true })
	require.Error(t, err)
	require.Contains(t, err.Error(), "token too long")
}

// TestScanLines_StopEarly tests that returning false from emit stops scanning.
func TestScanLines_StopEarly(t *testing.T) {
	var seen int

	err := scanLines(strings.NewReader("one\ntwo\nthree\n"), func([]byte) bool {
		seen++

		return false
	})

	require.NoError(t, err)
	require.Equal(t, 1, seen)
}

// TestScanLines_LinesAreCopies tests that emitted slices stay valid after later reads.
func TestScanLines_LinesAreCopies(t *testing.T) {
	var lines [][]byte

	err := scanLines(newMockChunkReader("first\n", "second\n", "third\n"), func(line []byte) bool {
		lines = append(lines, line)

		return true
	})

	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("first"), []byte("second"), []byte("third")}, lines)
}

// TestScanLines_MalformedLinesPassThrough tests that framing does not judge content.
func TestScanLines_MalformedLinesPassThrough(t *testing.T) {
	var lines []string

	err := scanLines(strings.NewReader("{not json\n{\"id\":\"a\"}\n"), func(line []byte) bool {
		lines = append(lines, string(line))

		return true
	})

	require.NoError(t, err)
	require.Equal(t, []string{"{not json", `{"id":"a"}`}, lines)
}

// collectJSONLines runs scanLines over reader and decodes each line.
func collectJSONLines(t *testing.T, reader io.Reader) []map[string]any {
	t.Helper()

	var messages []map[string]any

	err := scanLines(reader, func(line []byte) bool {
		var msg map[string]any

		require.NoError(t, json.Unmarshal(line, &msg), "line: %s", string(line))

		messages = append(messages, msg)

		return true
	})
	require.NoError(t, err)

	return messages
}
