package pedestal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Defaults for the rate table layout. Field names are matched exactly,
// including any leading spaces the exporting tool left in the header.
const (
	defaultRatesColumn = NormRateColumn
	defaultTileField   = "tile"
	defaultRateField   = "Average Rate [GHz]"
)

// importCurrent is the beam current the source rate tables were
// normalized at. The nominal current used by the hardware sum is
// 100 uA, the simulated rate tables used 65 uA.
const importCurrent = 65 // uA

// ImportRates reads a rate table (.csv or .xlsx), decodes each tile
// code into a detector name and overwrites that row's cell in the
// normalized rate column. The first tile whose detector name has no
// row in the table aborts the import; cells written before that point
// stay written.
func (m *MapFile) ImportRates(path string) error {
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSVRecords(path)
	case ".xlsx":
		records, err = readXlsxRecords(path)
	default:
		return fmt.Errorf("unsupported rate table %q, expected .csv or .xlsx", path)
	}
	if err != nil {
		return err
	}
	return m.importRateRecords(records)
}

func (m *MapFile) importRateRecords(records [][]string) error {
	if len(records) == 0 {
		return fmt.Errorf("rate table is empty")
	}

	column := configuration.RatesColumn
	if column == "" {
		column = defaultRatesColumn
	}
	tileField := configuration.TileField
	if tileField == "" {
		tileField = defaultTileField
	}
	rateField := configuration.RateField
	if rateField == "" {
		rateField = defaultRateField
	}

	tileIdx, rateIdx := -1, -1
	for i, field := range records[0] {
		switch field {
		case tileField:
			tileIdx = i
		case rateField:
			rateIdx = i
		}
	}
	if tileIdx < 0 {
		return fmt.Errorf("rate table has no %q field", tileField)
	}
	if rateIdx < 0 {
		return fmt.Errorf("rate table has no %q field", rateField)
	}
	col, ok := m.colIndex[column]
	if !ok {
		return &ErrUnknownColumn{Column: column}
	}

	imported := 0
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		if tileIdx >= len(record) || rateIdx >= len(record) {
			return fmt.Errorf("short record in rate table: %q", strings.Join(record, ","))
		}
		tile := record[tileIdx]
		code, err := DecodeTileCode(tile)
		if err != nil {
			return err
		}
		ghz, err := strconv.ParseFloat(record[rateIdx], 64)
		if err != nil {
			return fmt.Errorf("bad rate for tile %q: %w", tile, err)
		}
		// The table rate is GHz, the map column is Hz/uA.
		rate := int(ghz * 1e9 / importCurrent)
		detector := code.DetectorName()
		row, ok := m.rowIndex[detector]
		if !ok {
			return &ErrUnknownDetector{Code: tile, Detector: detector}
		}
		m.entries[row][col] = strconv.Itoa(rate)
		imported++
	}

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Import successful, %d rates written", imported), "rates")
	}
	return nil
}

func readCSVRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening rate table %q: %w", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading rate table %q: %w", path, err)
	}
	return records, nil
}

func readXlsxRecords(path string) ([][]string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening rate table %q: %w", path, err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("error reading Sheet1 of %q: %w", path, err)
	}
	return rows, nil
}
