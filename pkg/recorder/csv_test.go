package recorder

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVHeaderAndRowFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf)
	require.NoError(t, err)

	require.NoError(t, l.Write(Row{
		ElapsedMS: 12345,
		RawMedian: 600,
		EMARaw:    599.62,
		Index:     50,
		Status:    "MODERATE",
		CalLoaded: true,
		ClearRaw:  900,
		CloudyRaw: 300,
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "12345,600,599.62,50,MODERATE,1,900,300", lines[1])
}

func TestCSVUncalibratedRowHasZeroReferences(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf)
	require.NoError(t, err)

	require.NoError(t, l.Write(Row{
		ElapsedMS: 1000,
		RawMedian: 512,
		EMARaw:    512,
		Index:     50,
		Status:    "MODERATE",
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1000,512,512.00,50,MODERATE,0,0,0", lines[1])
}

func TestCSVOpenWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Write(Row{ElapsedMS: 1, Status: "CLEAR"}))
	require.NoError(t, l.Close())

	// reopen and append
	l, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Write(Row{ElapsedMS: 2, Status: "CLEAR"}))
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, 1, strings.Count(string(b), Header))
}
