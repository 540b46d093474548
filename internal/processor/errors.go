package processor

import "fmt"

// BackupError means the pre-write backup could not be created. Persistence
// is not attempted after it; the original file is untouched.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string { return fmt.Sprintf("backup %s: %v", e.Path, e.Err) }
func (e *BackupError) Unwrap() error { return e.Err }

// PersistError means writing the fixed document back failed. The on-disk
// file keeps whatever the last successful write left.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist %s: %v", e.Path, e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }
