package problem

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	scenarioSingle = Dimensions{Views: 1, Points: 14, Observations: 10}
	scenarioMulti  = Dimensions{Views: 2, Points: 14, Observations: 10}
)

// sequentialText renders a file whose n-th double (counting from 0 after the
// header) has the value n, so every loaded element reveals its file position.
func sequentialText(d Dimensions, doubles int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(d.Views) + " " + strconv.Itoa(d.Points) + " " + strconv.Itoa(d.Observations) + "\n")
	for i := 0; i < doubles; i++ {
		sb.WriteString(strconv.Itoa(i))
		if i%7 == 6 {
			sb.WriteByte('\n')
		} else {
			sb.WriteString("\t ")
		}
	}
	return sb.String()
}

func writeProblemFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func mustSchema(t *testing.T, v Variant) Schema {
	t.Helper()
	s, err := SchemaFor(v)
	require.NoError(t, err)
	return s
}
