// Package fileutil provides directory listing over a billy filesystem.
//
// The finder lists lane directories through this package so that listing,
// pattern matching and existence re-verification behave the same everywhere,
// whether the filesystem is the real OS filesystem or an in-memory one in tests.
//
// # Main Components
//
// ScanOptions - Configuration struct for directory scanning:
//   - Pattern: compiled regexp matched against each entry's full name
//   - Recursive: descend into subdirectories, reporting files only
//   - IncludeDirs: report matching directories in a flat listing
//   - ExcludeDirs: directory names to skip when recursing
//   - SkipHidden: ignore entries starting with "."
//
// ScanResult - Results of a scan:
//   - Files: paths of all matched entries (sorted)
//   - Errors: non-fatal errors encountered below the scanned directory
//
// # Usage Examples
//
// Files of one type directly inside a lane directory:
//
//	result, err := fileutil.ScanDirectory(fs, laneDir, fileutil.ScanOptions{
//	    Pattern:     regexp.MustCompile(`\.fastq\.gz$`),
//	    IncludeDirs: true,
//	})
//
// Every file below a directory, for archiving:
//
//	result, err := fileutil.ScanDirectory(fs, laneDir, fileutil.ScanOptions{
//	    Recursive: true,
//	})
//
// # Error Tolerance
//
// Only a failure to stat or list the scanned directory itself is fatal. Entries
// that disappear between the listing and the Stat re-check are silently dropped;
// other per-entry errors are collected so callers can log them.
package fileutil
