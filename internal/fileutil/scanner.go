package fileutil

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Pattern is matched against each entry's full name; nil matches everything
	Pattern *regexp.Regexp
	// Recursive descends into subdirectories and reports only files
	Recursive bool
	// IncludeDirs reports matching directories as entries (non-recursive scans only)
	IncludeDirs bool
	// ExcludeDirs is a list of directory names never descended into
	ExcludeDirs []string
	// SkipHidden ignores entries whose name starts with "."
	SkipHidden bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the paths of all matched entries, sorted
	Files []string
	// Errors contains any non-fatal errors encountered during scanning
	Errors []error
}

// ScanDirectory lists dir on fs and returns the entries matching opts.
//
// Every candidate is re-checked with Stat after the listing, so an entry that
// vanished (or a dangling symlink) is never reported. Failing to list dir itself
// is fatal; failures below it are collected in ScanResult.Errors.
func ScanDirectory(fs billy.Filesystem, dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	excludeMap := make(map[string]bool)
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	s := &scanner{fs: fs, opts: opts, exclude: excludeMap, result: result}
	s.scanEntries(dir, entries)

	sort.Strings(result.Files)
	return result, nil
}

// Exists reports whether path exists on fs, following symlinks
func Exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory on fs, following symlinks
func IsDir(fs billy.Filesystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

type scanner struct {
	fs      billy.Filesystem
	opts    ScanOptions
	exclude map[string]bool
	result  *ScanResult
}

func (s *scanner) scanEntries(dir string, entries []os.FileInfo) {
	for _, entry := range entries {
		name := entry.Name()
		if s.opts.SkipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := s.fs.Join(dir, name)

		// Re-verify: listings can be stale or contain dangling links
		info, err := s.fs.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				s.result.Errors = append(s.result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			}
			continue
		}

		if info.IsDir() && s.opts.Recursive {
			// Symlinked directories are not followed to avoid cycles
			if entry.Mode()&os.ModeSymlink != 0 || s.exclude[name] {
				continue
			}
			children, err := s.fs.ReadDir(path)
			if err != nil {
				s.result.Errors = append(s.result.Errors, fmt.Errorf("error listing %s: %w", path, err))
				continue
			}
			s.scanEntries(path, children)
			continue
		}

		if info.IsDir() && !s.opts.IncludeDirs {
			continue
		}

		if s.opts.Pattern != nil && !s.opts.Pattern.MatchString(name) {
			continue
		}

		s.result.Files = append(s.result.Files, path)
	}
}
