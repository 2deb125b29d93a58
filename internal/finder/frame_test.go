package finder

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameCarriesRecordsInOrder(t *testing.T) {
	want := Ok([]Record{
		{WorkerID: 7, Name: "file.txt", Path: "root/file.txt"},
		{WorkerID: 7, Name: "FILE.TXT", Path: "root/sub/FILE.TXT"},
		{WorkerID: 7, Name: "ü.txt", Path: ""},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteOutcome(&buf, want))

	got, err := ReadOutcome(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFrameEmptyOkIsNotFailure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutcome(&buf, Ok(nil)))

	got, err := ReadOutcome(&buf)
	require.NoError(t, err)
	assert.True(t, got.OK())
	assert.Empty(t, got.Records)
}

func TestFrameCarriesFailure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutcome(&buf, Failed(KindRootInvalid, "no such directory")))

	got, err := ReadOutcome(&buf)
	require.NoError(t, err)
	require.False(t, got.OK())
	assert.Equal(t, KindRootInvalid, got.Failure.Kind)
	assert.Equal(t, "no such directory", got.Failure.Description)
	assert.ErrorIs(t, got.Failure, ErrRootInvalid)
}

func TestFrameTruncationAtEveryOffset(t *testing.T) {
	frame, err := EncodeOutcome(Ok([]Record{
		{WorkerID: 1, Name: "a", Path: "dir/a"},
		{WorkerID: 1, Name: "a", Path: "dir/sub/a"},
	}))
	require.NoError(t, err)

	for cut := 0; cut < len(frame); cut++ {
		_, err := ReadOutcome(bytes.NewReader(frame[:cut]))
		require.ErrorIs(t, err, ErrTransportTruncated, "cut at %d", cut)
	}
}

func TestFrameFailureTruncated(t *testing.T) {
	frame, err := EncodeOutcome(Failed(KindSearchFailed, "permission denied"))
	require.NoError(t, err)

	_, err = ReadOutcome(bytes.NewReader(frame[:len(frame)-3]))
	assert.ErrorIs(t, err, ErrTransportTruncated)
}

func TestFrameRejectsUnknownTag(t *testing.T) {
	_, err := ReadOutcome(bytes.NewReader([]byte{0x7f}))
	assert.ErrorIs(t, err, ErrTransportTruncated)
}

func TestFrameRejectsOversizedString(t *testing.T) {
	frame := []byte{tagFailed, byte(KindSearchFailed), 0xff, 0xff, 0xff, 0xff}
	_, err := ReadOutcome(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrTransportTruncated)
}

func TestFrameReadSurfacesReaderError(t *testing.T) {
	r := io.MultiReader(bytes.NewReader([]byte{tagOK}), errReader{})
	_, err := ReadOutcome(r)
	assert.ErrorIs(t, err, ErrTransportTruncated)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }
