package measlog

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteCreatesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	ts := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write(Row{Time: ts, ChanNr: 1, RxLevDbm: -80, RxQual: 2, NumMeas: 8}))
	require.NoError(t, w.Write(Row{Time: ts.Add(time.Minute), ChanNr: 1, RxLevDbm: -81, RxQual: 1, NumMeas: 8}))

	data, err := os.ReadFile(dir + "/2026-01-02-meas.csv")
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Equal(t, 3, len(lines)) // header + 2 rows
	require.Contains(t, lines[0], "utc_time")
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
