package linker

import (
	"archive/tar"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/harrison/pathfind/internal/fileutil"
	"github.com/harrison/pathfind/internal/models"
)

// CreateArchive writes every plan entry into <target><extension>, stored as
// <base of target>/<entry name>. A target already ending in the extension is
// used as is. Directory sources are added recursively.
//
// The archive is staged in a temporary file next to the destination and
// renamed into place only after it was written completely; the staging file is
// removed on every failure path. Returns the archive path.
func (l *Linker) CreateArchive(target string, plan []models.LinkEntry, c Compressor) (archivePath string, err error) {
	target = strings.TrimSuffix(target, c.Extension())
	archivePath = target + c.Extension()

	release, err := l.acquire(archivePath)
	if err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}
	defer release()

	dir := filepath.Dir(archivePath)
	if err := l.FS.MkdirAll(dir, 0755); err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}

	staging, err := l.FS.TempFile(dir, ".pathfind-archive-")
	if err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}
	stagingName := staging.Name()
	closed := false
	defer func() {
		if !closed {
			staging.Close()
		}
		if err != nil {
			l.FS.Remove(stagingName)
		}
	}()

	cw, err := c.Compress(staging)
	if err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}
	tw := tar.NewWriter(cw)

	prefix := filepath.Base(target)
	for _, entry := range plan {
		if err = l.addEntry(tw, path.Join(prefix, entry.Name), entry.Source); err != nil {
			cw.Close()
			return "", models.NewArchiveError(archivePath, err)
		}
	}

	if err = tw.Close(); err != nil {
		cw.Close()
		return "", models.NewArchiveError(archivePath, err)
	}
	if err = cw.Close(); err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}
	closed = true
	if err = staging.Close(); err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}
	if err = l.FS.Rename(stagingName, archivePath); err != nil {
		return "", models.NewArchiveError(archivePath, err)
	}

	return archivePath, nil
}

// addEntry adds a file, or every file below a directory, under member
func (l *Linker) addEntry(tw *tar.Writer, member, source string) error {
	info, err := l.FS.Stat(source)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return l.addFile(tw, member, source)
	}

	scan, err := fileutil.ScanDirectory(l.FS, source, fileutil.ScanOptions{Recursive: true})
	if err != nil {
		return err
	}
	if len(scan.Errors) > 0 {
		return scan.Errors[0]
	}
	for _, file := range scan.Files {
		rel, err := filepath.Rel(source, file)
		if err != nil {
			return err
		}
		if err := l.addFile(tw, path.Join(member, filepath.ToSlash(rel)), file); err != nil {
			return err
		}
	}
	return nil
}

func (l *Linker) addFile(tw *tar.Writer, member, source string) error {
	// Stat follows symlinks, so linked files are archived by content
	info, err := l.FS.Stat(source)
	if err != nil {
		return err
	}

	hdr := &tar.Header{
		Name:    member,
		Mode:    int64(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Format:  tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", source, err)
	}

	f, err := l.FS.Open(source)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}
	return nil
}
