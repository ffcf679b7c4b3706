package pedestal

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names used by the MOLLER pedestal maps.
const (
	PedestalColumn  = "Pedestal"
	GainColumn      = "Gain"
	NormRateColumn  = "NormRate(Hz/uA)"
	VoltPerHzColumn = "VoltPerHz"
)

const mapExtension = ".map"

// MapFile is an in-memory copy of a pedestal .map file: a header row of
// column names and one line of calibration parameters per detector
// element. Mutations happen in memory only, nothing touches the disk
// until Save or SaveAs.
type MapFile struct {
	dir  string
	name string

	columns  []string
	colIndex map[string]int
	names    []string
	rowIndex map[string]int
	entries  [][]string
}

// OpenMapFile parses an existing .map file. The path must end in .map
// and point to an existing file.
func OpenMapFile(path string) (*MapFile, error) {
	if len(path) < len(mapExtension)+1 {
		return nil, &ErrInvalidMapPath{Path: path, Reason: "path too short, expected something like /path/to/file.map"}
	}
	if filepath.Ext(path) != mapExtension {
		return nil, &ErrInvalidMapPath{Path: path, Reason: "file must have a .map extension"}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &ErrInvalidMapPath{Path: path, Reason: "path does not point to an existing file"}
	}

	m := &MapFile{
		dir:      filepath.Dir(path),
		name:     strings.TrimSuffix(filepath.Base(path), mapExtension),
		colIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}
	if err := m.parse(path); err != nil {
		return nil, err
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Read %s: %d rows, %d columns", path, m.RowCount(), m.ColumnCount())
		logger.Info(message, "mapfile")
	}
	return m, nil
}

func (m *MapFile) parse(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &ErrInvalidMapPath{Path: path, Reason: err.Error()}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if m.columns == nil {
			// Header line. The writer puts "! Name" in front of the
			// column names, both tokens are optional on read.
			if fields[0] == "!" {
				fields = fields[1:]
			}
			if len(fields) > 0 && fields[0] == "Name" {
				fields = fields[1:]
			}
			if len(fields) == 0 {
				return &ErrParseMap{Path: path, Line: lineNo, Reason: "empty header"}
			}
			for index, val := range fields {
				if _, dup := m.colIndex[val]; dup {
					return &ErrParseMap{Path: path, Line: lineNo, Reason: fmt.Sprintf("duplicate column %q", val)}
				}
				m.colIndex[val] = index
			}
			m.columns = fields
			continue
		}
		if strings.HasPrefix(fields[0], "!") {
			continue
		}
		name := fields[0]
		cells := fields[1:]
		if len(cells) != len(m.columns) {
			reason := fmt.Sprintf("row %q has %d cells, expected %d", name, len(cells), len(m.columns))
			return &ErrParseMap{Path: path, Line: lineNo, Reason: reason}
		}
		if _, dup := m.rowIndex[name]; dup {
			return &ErrParseMap{Path: path, Line: lineNo, Reason: fmt.Sprintf("duplicate row %q", name)}
		}
		m.rowIndex[name] = len(m.names)
		m.names = append(m.names, name)
		m.entries = append(m.entries, cells)
	}
	if err := scanner.Err(); err != nil {
		return &ErrParseMap{Path: path, Line: lineNo, Reason: err.Error()}
	}
	if m.columns == nil {
		return &ErrParseMap{Path: path, Line: lineNo, Reason: "file has no header line"}
	}
	return nil
}

// Path returns the backing file path, or "" for a table that was not
// loaded from disk.
func (m *MapFile) Path() string {
	if m.name == "" {
		return ""
	}
	return filepath.Join(m.dir, m.name+mapExtension)
}

func (m *MapFile) ColumnCount() int {
	return len(m.columns)
}

func (m *MapFile) RowCount() int {
	return len(m.names)
}

// Columns returns the column names in file order.
func (m *MapFile) Columns() []string {
	return append([]string(nil), m.columns...)
}

// RowNames returns the detector names in file order.
func (m *MapFile) RowNames() []string {
	return append([]string(nil), m.names...)
}

// Cell returns one cell addressed by row and column name.
func (m *MapFile) Cell(row string, column string) (string, error) {
	r, ok := m.rowIndex[row]
	if !ok {
		return "", &ErrUnknownRow{Row: row}
	}
	c, ok := m.colIndex[column]
	if !ok {
		return "", &ErrUnknownColumn{Column: column}
	}
	return m.entries[r][c], nil
}

// CellFloat returns one cell parsed as a float.
func (m *MapFile) CellFloat(row string, column string) (float64, error) {
	cell, err := m.Cell(row, column)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("cell [%s][%s] is not a number: %w", row, column, err)
	}
	return value, nil
}

// Gain returns the gain for one detector in V/ADC count.
func (m *MapFile) Gain(row string) (float64, error) {
	return m.CellFloat(row, GainColumn)
}

// NormRate returns the beam-normalized rate for one detector in Hz/uA.
func (m *MapFile) NormRate(row string) (int, error) {
	cell, err := m.Cell(row, NormRateColumn)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("cell [%s][%s] is not an integer: %w", row, NormRateColumn, err)
	}
	return value, nil
}

// VoltPerHz returns the rate-to-voltage conversion for one detector.
func (m *MapFile) VoltPerHz(row string) (float64, error) {
	return m.CellFloat(row, VoltPerHzColumn)
}

// SetCell overwrites one cell by index.
func (m *MapFile) SetCell(row int, col int, value string) error {
	if row < 0 || row >= len(m.entries) {
		return fmt.Errorf("row index %d out of range [0, %d)", row, len(m.entries))
	}
	if col < 0 || col >= len(m.columns) {
		return fmt.Errorf("column index %d out of range [0, %d)", col, len(m.columns))
	}
	m.entries[row][col] = value
	return nil
}

// SetColumn sets every cell of one column to the same value. NaN is
// rejected before anything is written.
func (m *MapFile) SetColumn(col int, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("value must be a number")
	}
	if col < 0 || col >= len(m.columns) {
		return fmt.Errorf("column index %d out of range [0, %d)", col, len(m.columns))
	}
	cell := formatFloat(value)
	for row := range m.entries {
		m.entries[row][col] = cell
	}
	return nil
}

// SetColumns broadcasts one value to several named columns. All names
// are resolved before the first write so an unknown column leaves the
// table untouched.
func (m *MapFile) SetColumns(columns []string, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("value must be a number")
	}
	indices := make([]int, 0, len(columns))
	for _, name := range columns {
		c, ok := m.colIndex[name]
		if !ok {
			return &ErrUnknownColumn{Column: name}
		}
		indices = append(indices, c)
	}
	for _, c := range indices {
		if err := m.SetColumn(c, value); err != nil {
			return err
		}
	}
	return nil
}

// writeMap writes the table in the canonical fixed-width layout: the
// row name field is 12 characters left-justified, every value field is
// 14 characters right-justified, headers are centered.
func (m *MapFile) writeMap(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "%-12s", "! Name")
	for i, header := range m.columns {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(center(header, 14))
	}
	w.WriteByte('\n')
	for r, name := range m.names {
		fmt.Fprintf(w, "%-12s", name)
		for c := range m.columns {
			if c > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%14s", m.entries[r][c])
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// center pads s to width, the odd spare space goes to the right.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
