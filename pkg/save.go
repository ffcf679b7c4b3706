package pedestal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// saveState tracks progress through the backup-write-cleanup ladder.
// Every transition is gated by a filesystem existence check so that a
// crash at any point leaves at least one intact copy on disk.
type saveState int

const (
	saveInitial saveState = iota
	saveBackedUp
	saveWritten
	saveCleaned
)

func (s saveState) String() string {
	switch s {
	case saveInitial:
		return "initial"
	case saveBackedUp:
		return "backed-up"
	case saveWritten:
		return "written"
	case saveCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// Save overwrites the backing file. The current file is first renamed
// to <name>_old.map, the table is written under the original name, and
// the backup is removed only once the new file is confirmed on disk.
// The map holds calibration data for the experiment, so no step
// destroys a copy before the next one is verified.
func (m *MapFile) Save() error {
	if m.name == "" {
		return &ErrNoBackingFile{}
	}
	current := m.Path()
	backup := filepath.Join(m.dir, m.name+"_old"+mapExtension)

	state := saveInitial
	if fileExists(backup) {
		return &ErrStaleBackup{Backup: backup}
	}
	if err := os.Rename(current, backup); err != nil {
		return fmt.Errorf("error marking %q as backup: %w", current, err)
	}
	if !fileExists(backup) || fileExists(current) {
		return fmt.Errorf("save failed to rename %q to %q", current, backup)
	}
	state = saveBackedUp
	if configuration.Verbosity > 1 {
		logger.Info(fmt.Sprintf("save state: %v", state), "save")
	}

	writeErr := m.writeMap(current)
	if writeErr == nil && !fileExists(current) {
		writeErr = fmt.Errorf("new file %q missing after write", current)
	}
	if writeErr != nil {
		// The original data has to survive, put the backup back.
		if err := os.Rename(backup, current); err != nil || !fileExists(current) {
			return &ErrSaveInconsistent{Path: current, Backup: backup, Err: writeErr}
		}
		return &ErrSaveFailed{Path: current, Err: writeErr}
	}
	state = saveWritten
	if configuration.Verbosity > 1 {
		logger.Info(fmt.Sprintf("save state: %v", state), "save")
	}

	if err := os.Remove(backup); err != nil || fileExists(backup) {
		// The new file is safe, only the cleanup is incomplete.
		logger.Error(fmt.Sprintf("Save left backup file %q behind: %v", backup, err))
		return nil
	}
	state = saveCleaned

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Saved %q, state %v", current, state), "save")
	}
	return nil
}

// SaveAs writes the table to another path, appending the .map extension
// when missing. The overwrite flag stands in for the interactive
// confirmation of the original tool. A table that had no backing file,
// e.g. one loaded from the database, adopts the new path.
func (m *MapFile) SaveAs(path string, overwrite bool) error {
	if filepath.Ext(path) != mapExtension {
		path += mapExtension
	}
	if fileExists(path) && !overwrite {
		return fmt.Errorf("file %q already exists, pass overwrite to replace it", path)
	}
	if err := m.writeMap(path); err != nil {
		return fmt.Errorf("error writing %q: %w", path, err)
	}
	if m.name == "" {
		m.dir = filepath.Dir(path)
		m.name = strings.TrimSuffix(filepath.Base(path), mapExtension)
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Saved %q", path), "save")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
