package pedestal

import (
	"fmt"
	"sort"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	"golang.org/x/exp/maps"
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type PedestalEntry struct {
	Detector  string  `db:"detector"`
	Pedestal  float64 `db:"pedestal"`
	Gain      float64 `db:"gain"`
	NormRate  int     `db:"norm_rate"`
	VoltPerHz float64 `db:"volt_per_hz"`
}

// LoadPedestalsFromDB builds an in-memory table from the pedestal
// parameters valid for one run. The result has no backing file, use
// SaveAs to write it out as a .map file.
func LoadPedestalsFromDB(db *sqlx.DB, runNumber int) (*MapFile, error) {
	query := "SELECT detector, pedestal, gain, norm_rate, volt_per_hz FROM pedestals WHERE min_run <= %d and max_run >= %d"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Pedestal parameters read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	entries := make(map[string]PedestalEntry)
	for rows.Next() {
		result := PedestalEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		entries[result.Detector] = result
	}

	m := &MapFile{
		columns:  []string{PedestalColumn, GainColumn, NormRateColumn, VoltPerHzColumn},
		colIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}
	for index, val := range m.columns {
		m.colIndex[val] = index
	}

	detectors := maps.Keys(entries)
	sort.Strings(detectors)
	for _, detector := range detectors {
		entry := entries[detector]
		m.rowIndex[detector] = len(m.names)
		m.names = append(m.names, detector)
		m.entries = append(m.entries, []string{
			formatFloat(entry.Pedestal),
			formatFloat(entry.Gain),
			strconv.Itoa(entry.NormRate),
			formatFloat(entry.VoltPerHz),
		})
	}
	return m, nil
}
