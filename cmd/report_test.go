package cmd

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myfind/internal/finder"
)

func TestSearchPrintsTabInNameVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tab is not allowed in Windows file names")
	}
	root := buildTree(t, "a\tb")

	stdout, _, err := execute(t, root, "a\tb")
	require.NoError(t, err)

	line := strings.TrimSuffix(stdout, "\n")
	parts := strings.SplitN(line, ": ", 3)
	require.Len(t, parts, 3, line)
	assert.Equal(t, "a\tb", parts[1])
	assert.Equal(t, filepath.Join(root, "a\tb"), parts[2])
}

func TestSearchPrintsNewlineInNameVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("newline is not allowed in Windows file names")
	}
	root := buildTree(t, "a\nb")

	stdout, _, err := execute(t, root, "a\nb")
	require.NoError(t, err)

	want := ": a\nb: " + filepath.Join(root, "a\nb") + "\n"
	assert.True(t, strings.HasSuffix(stdout, want), "%q", stdout)
	assert.Equal(t, 3, strings.Count(stdout, "\n"), "one line break each in name and path, then the terminator")
}

func TestFormatRecord(t *testing.T) {
	rec := finder.Record{WorkerID: 7, Name: "a\tb", Path: "/x/a\tb"}

	assert.Equal(t, "7: a\tb: /x/a\tb", formatRecord(rec, false))

	styled := formatRecord(rec, true)
	assert.Contains(t, styled, "a\tb")
	assert.Contains(t, styled, "/x/a\tb")
	assert.NotContains(t, styled, "    ")
}

func TestFormatRecordLeavesMultilineUnstyled(t *testing.T) {
	rec := finder.Record{WorkerID: 7, Name: "a\nb", Path: "/x/a\nb"}

	assert.Equal(t, "a\nb", paint(nameStyle, rec.Name, true))
	styled := formatRecord(rec, true)
	assert.Contains(t, styled, ": a\nb: /x/a\nb")
}

func TestPrintReportUnstyledOnBuffers(t *testing.T) {
	report := &finder.Report{Entries: []finder.Entry{
		{Target: "x", WorkerID: 1, Outcome: finder.Ok([]finder.Record{{WorkerID: 1, Name: "x", Path: "/r/x"}})},
		{Target: "y", WorkerID: 2, Outcome: finder.Ok(nil)},
		{Target: "z", Outcome: finder.Failed(finder.KindSpawnFailed, "no fork")},
	}}

	var out, errOut bytes.Buffer
	printReport(&out, &errOut, report)

	assert.Equal(t, "1: x: /r/x\n", out.String())
	assert.Contains(t, errOut.String(), "y: no matches\n")
	assert.Contains(t, errOut.String(), "z: error: ")
}
