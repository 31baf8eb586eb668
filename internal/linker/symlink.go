package linker

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/harrison/pathfind/internal/models"
)

// LockFunc acquires an exclusive lock named by path and returns its release function.
type LockFunc func(path string) (release func() error, err error)

// Linker performs the filesystem side effects of a link plan.
type Linker struct {
	FS   billy.Filesystem
	Lock LockFunc // Optional; serializes writers of the same target
}

// NewLinker creates a Linker. lock may be nil.
func NewLinker(fs billy.Filesystem, lock LockFunc) *Linker {
	return &Linker{FS: fs, Lock: lock}
}

// LinkReport summarizes a best-effort symlink pass.
type LinkReport struct {
	Target  string   // Directory the links were created in
	Created int      // Links created or replaced
	Failed  int      // Entries that could not be linked
	Errors  []error  // One LinkError per failed entry
	Names   []string // Names of the created links, in plan order
}

// Err returns nil when every entry was linked, otherwise a LinkError joining the failures.
func (r *LinkReport) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}
	return &models.Error{
		Kind:    models.KindLink,
		Op:      r.Target,
		Message: fmt.Sprintf("%d of %d links failed", r.Failed, r.Failed+r.Created),
		Err:     errors.Join(r.Errors...),
	}
}

// CreateSymlinks creates target (if absent) and one symlink per plan entry.
// Existing symlinks with the same name are replaced; any other existing file
// is left alone and counted as a failure. Failing entries do not stop the pass.
// The returned error is non-nil only when the target itself is unusable.
func (l *Linker) CreateSymlinks(target string, plan []models.LinkEntry) (*LinkReport, error) {
	release, err := l.acquire(target)
	if err != nil {
		return nil, models.NewLinkError(target, err)
	}
	defer release()

	if err := l.FS.MkdirAll(target, 0755); err != nil {
		return nil, models.NewLinkError(target, err)
	}
	info, err := l.FS.Stat(target)
	if err != nil {
		return nil, models.NewLinkError(target, err)
	}
	if !info.IsDir() {
		return nil, models.NewLinkError(target, fmt.Errorf("not a directory"))
	}

	report := &LinkReport{Target: target}
	for _, entry := range plan {
		if err := l.link(target, entry); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, models.NewLinkError(entry.Name, err))
			continue
		}
		report.Created++
		report.Names = append(report.Names, entry.Name)
	}

	return report, nil
}

func (l *Linker) link(target string, entry models.LinkEntry) error {
	linkPath := l.FS.Join(target, entry.Name)

	if info, err := l.FS.Lstat(linkPath); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a symlink", linkPath)
		}
		if err := l.FS.Remove(linkPath); err != nil {
			return fmt.Errorf("remove existing link: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	return l.FS.Symlink(entry.Source, linkPath)
}

// acquire takes the target's lock, if a lock function was configured
func (l *Linker) acquire(target string) (func() error, error) {
	if l.Lock == nil {
		return func() error { return nil }, nil
	}
	return l.Lock(target + ".lock")
}
