package pedestal

import "fmt"

// ErrInvalidMapPath represents an error validating a map file path.
type ErrInvalidMapPath struct {
	Path   string
	Reason string
}

func (e *ErrInvalidMapPath) Error() string {
	return fmt.Sprintf("invalid map file path %q: %s", e.Path, e.Reason)
}

// ErrParseMap represents an error parsing a map file body.
type ErrParseMap struct {
	Path   string
	Line   int
	Reason string
}

func (e *ErrParseMap) Error() string {
	return fmt.Sprintf("error parsing %q line %d: %s", e.Path, e.Line, e.Reason)
}

// ErrUnknownRow represents a lookup of a row name not present in the table.
type ErrUnknownRow struct {
	Row string
}

func (e *ErrUnknownRow) Error() string {
	return fmt.Sprintf("unknown row %q", e.Row)
}

// ErrUnknownColumn represents a lookup of a column name not present in the table.
type ErrUnknownColumn struct {
	Column string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// ErrStaleBackup is returned by Save when a backup from a previous
// save is still on disk. The caller has to move it out of the way.
type ErrStaleBackup struct {
	Backup string
}

func (e *ErrStaleBackup) Error() string {
	return fmt.Sprintf("please rename or remove backup file %q before saving", e.Backup)
}

// ErrSaveFailed represents a recoverable save failure: the original
// file was restored from its backup.
type ErrSaveFailed struct {
	Path string
	Err  error
}

func (e *ErrSaveFailed) Error() string {
	return fmt.Sprintf("save of %q failed, original file restored: %v", e.Path, e.Err)
}

func (e *ErrSaveFailed) Unwrap() error {
	return e.Err
}

// ErrSaveInconsistent represents the unrecoverable dual failure: the
// new file could not be written and the backup could not be restored.
// Operator intervention is required.
type ErrSaveInconsistent struct {
	Path   string
	Backup string
	Err    error
}

func (e *ErrSaveInconsistent) Error() string {
	return fmt.Sprintf("save of %q failed and backup %q could not be restored, manual recovery required: %v",
		e.Path, e.Backup, e.Err)
}

func (e *ErrSaveInconsistent) Unwrap() error {
	return e.Err
}

// ErrNoBackingFile is returned by Save on a table that was not loaded
// from disk, e.g. one built from the database.
type ErrNoBackingFile struct{}

func (e *ErrNoBackingFile) Error() string {
	return "table has no backing file, use SaveAs"
}

// ErrBadTileCode represents a tile code that cannot be decoded.
type ErrBadTileCode struct {
	Code   string
	Reason string
}

func (e *ErrBadTileCode) Error() string {
	return fmt.Sprintf("bad tile code %q: %s", e.Code, e.Reason)
}

// ErrUnknownDetector aborts a rate import when a decoded detector name
// has no matching row in the table.
type ErrUnknownDetector struct {
	Code     string
	Detector string
}

func (e *ErrUnknownDetector) Error() string {
	return fmt.Sprintf("tile code %q decodes to %q which has no row in the table", e.Code, e.Detector)
}
