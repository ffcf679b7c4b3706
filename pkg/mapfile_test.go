package pedestal

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testMapContent = `! Name          Pedestal           Gain      NormRate(Hz/uA)    VoltPerHz
TQ01_R1              0            7.7          941000        1.5e-06
TQ16_R5L             0            7.7          149000        1.5e-06
TQ21_R2              0            7.7          620000        1.5e-06
TQ23_R2              0            7.7          610000        1.5e-06
`

func writeTestMap(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "mock_parameters.map")
	require.NoError(t, os.WriteFile(path, []byte(testMapContent), 0o644))
	return path
}

func openTestMap(t *testing.T) *MapFile {
	t.Helper()
	m, err := OpenMapFile(writeTestMap(t, t.TempDir()))
	require.NoError(t, err)
	return m
}

func TestOpenMapFileValidation(t *testing.T) {
	dirAsMap := filepath.Join(t.TempDir(), "d.map")
	require.NoError(t, os.Mkdir(dirAsMap, 0o755))

	tests := []struct {
		name string
		path string
	}{
		{name: "too short", path: ".map"},
		{name: "wrong extension", path: filepath.Join(t.TempDir(), "pedestals.txt")},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.map")},
		{name: "directory", path: dirAsMap},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenMapFile(tc.path)
			var pathErr *ErrInvalidMapPath
			require.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestOpenMapFileCounts(t *testing.T) {
	m := openTestMap(t)
	require.Equal(t, 4, m.ColumnCount())
	require.Equal(t, 4, m.RowCount())
	require.Equal(t, []string{"Pedestal", "Gain", "NormRate(Hz/uA)", "VoltPerHz"}, m.Columns())
	require.Equal(t, []string{"TQ01_R1", "TQ16_R5L", "TQ21_R2", "TQ23_R2"}, m.RowNames())
}

func TestOpenMapFileHeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "bang and name", header: "! Name Pedestal Gain"},
		{name: "name only", header: "Name Pedestal Gain"},
		{name: "bare", header: "Pedestal Gain"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "variant.map")
			content := tc.header + "\nTQ01_R1 0 7.7\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			m, err := OpenMapFile(path)
			require.NoError(t, err)
			require.Equal(t, []string{"Pedestal", "Gain"}, m.Columns())
			require.Equal(t, 1, m.RowCount())
		})
	}
}

func TestOpenMapFileSkipsCommentsAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.map")
	content := "! Name Gain\n\n! a comment line\nTQ01_R1 7.7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := OpenMapFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, m.RowCount())
}

func TestOpenMapFileParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short row", content: "! Name Pedestal Gain\nTQ01_R1 0\n"},
		{name: "long row", content: "! Name Pedestal Gain\nTQ01_R1 0 7.7 9\n"},
		{name: "duplicate row", content: "! Name Gain\nTQ01_R1 7.7\nTQ01_R1 7.8\n"},
		{name: "duplicate column", content: "! Name Gain Gain\nTQ01_R1 7.7 7.8\n"},
		{name: "no header", content: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "broken.map")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := OpenMapFile(path)
			var parseErr *ErrParseMap
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestCellAccessors(t *testing.T) {
	m := openTestMap(t)

	cell, err := m.Cell("TQ01_R1", "Gain")
	require.NoError(t, err)
	require.Equal(t, "7.7", cell)

	_, err = m.Cell("TQ99_R1", "Gain")
	var rowErr *ErrUnknownRow
	require.ErrorAs(t, err, &rowErr)

	_, err = m.Cell("TQ01_R1", "Slope")
	var colErr *ErrUnknownColumn
	require.ErrorAs(t, err, &colErr)

	gain, err := m.Gain("TQ16_R5L")
	require.NoError(t, err)
	require.Equal(t, 7.7, gain)

	rate, err := m.NormRate("TQ21_R2")
	require.NoError(t, err)
	require.Equal(t, 620000, rate)

	voltPerHz, err := m.VoltPerHz("TQ23_R2")
	require.NoError(t, err)
	require.Equal(t, 1.5e-06, voltPerHz)
}

func TestSetCell(t *testing.T) {
	m := openTestMap(t)

	require.NoError(t, m.SetCell(0, 1, "8.1"))
	cell, err := m.Cell("TQ01_R1", "Gain")
	require.NoError(t, err)
	require.Equal(t, "8.1", cell)

	require.Error(t, m.SetCell(-1, 0, "x"))
	require.Error(t, m.SetCell(4, 0, "x"))
	require.Error(t, m.SetCell(0, 4, "x"))
}

func TestSetColumn(t *testing.T) {
	m := openTestMap(t)

	require.NoError(t, m.SetColumn(1, 3.5))
	for _, row := range m.RowNames() {
		cell, err := m.Cell(row, "Gain")
		require.NoError(t, err)
		require.Equal(t, "3.5", cell)
	}
}

func TestSetColumnRejectsNaN(t *testing.T) {
	m := openTestMap(t)

	err := m.SetColumn(1, math.NaN())
	require.Error(t, err)
	for _, row := range m.RowNames() {
		cell, err := m.Cell(row, "Gain")
		require.NoError(t, err)
		require.Equal(t, "7.7", cell)
	}
}

func TestSetColumns(t *testing.T) {
	m := openTestMap(t)

	require.NoError(t, m.SetColumns([]string{"Pedestal", "Gain"}, 1.25))
	for _, row := range m.RowNames() {
		for _, column := range []string{"Pedestal", "Gain"} {
			cell, err := m.Cell(row, column)
			require.NoError(t, err)
			require.Equal(t, "1.25", cell)
		}
	}

	err := m.SetColumns([]string{"Pedestal", "Slope"}, 9.0)
	var colErr *ErrUnknownColumn
	require.ErrorAs(t, err, &colErr)
	// unknown name in the list leaves every column untouched
	cell, err := m.Cell("TQ01_R1", "Pedestal")
	require.NoError(t, err)
	require.Equal(t, "1.25", cell)

	require.Error(t, m.SetColumns([]string{"Pedestal"}, math.NaN()))
}

func TestRoundTrip(t *testing.T) {
	m := openTestMap(t)

	out := filepath.Join(t.TempDir(), "copy.map")
	require.NoError(t, m.SaveAs(out, false))

	reread, err := OpenMapFile(out)
	require.NoError(t, err)
	require.Equal(t, m.Columns(), reread.Columns())
	require.Equal(t, m.RowNames(), reread.RowNames())
	for _, row := range m.RowNames() {
		for _, column := range m.Columns() {
			want, err := m.Cell(row, column)
			require.NoError(t, err)
			got, err := reread.Cell(row, column)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestWriteFixedWidthLayout(t *testing.T) {
	m := openTestMap(t)

	out := filepath.Join(t.TempDir(), "layout.map")
	require.NoError(t, m.SaveAs(out, false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5)

	// 12 character name field, then 14 character value fields joined by
	// single spaces.
	require.Equal(t, "! Name      ", lines[0][:12])
	require.Equal(t, "TQ01_R1     ", lines[1][:12])
	for _, line := range lines[1:] {
		require.Len(t, line, 12+4*14+3)
	}
	// NormRate is the third value field, right-justified in 14 chars
	require.Equal(t, "        941000", lines[1][12+2*(14+1):12+2*(14+1)+14])
	// headers are centered in their fields
	require.Contains(t, lines[0], "   Pedestal   ")
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &ErrSaveFailed{Path: "a.map", Err: inner}
	require.ErrorIs(t, err, inner)

	fatal := &ErrSaveInconsistent{Path: "a.map", Backup: "a_old.map", Err: inner}
	require.ErrorIs(t, fatal, inner)
}
