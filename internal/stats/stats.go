// Package stats writes the per-run summary CSV that accompanies a result set.
package stats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/harrison/pathfind/internal/filelock"
	"github.com/harrison/pathfind/internal/models"
)

// Vocabulary is the column set and row builder of one mode's stats file.
type Vocabulary struct {
	Header []string
	Row    func(fs billy.Filesystem, m models.MatchedPath) []string
}

// WriteFunc persists the rendered file.
type WriteFunc func(path string, data []byte) error

// Generator renders and writes stats files.
type Generator struct {
	FS         billy.Filesystem
	Vocabulary Vocabulary
	Write      WriteFunc
}

// NewGenerator creates a Generator for a mode. Files are written with
// filelock.LockAndWrite.
func NewGenerator(fs billy.Filesystem, mode string) (*Generator, error) {
	vocab, err := VocabularyFor(mode)
	if err != nil {
		return nil, err
	}
	return &Generator{FS: fs, Vocabulary: vocab, Write: filelock.LockAndWrite}, nil
}

// VocabularyFor returns the built-in vocabulary of a mode.
func VocabularyFor(mode string) (Vocabulary, error) {
	switch mode {
	case models.ModePathfind:
		return LaneVocabulary(), nil
	case models.ModeAssemblyfind:
		return AssemblyVocabulary(), nil
	default:
		return Vocabulary{}, fmt.Errorf("no stats vocabulary for mode %q", mode)
	}
}

// DefaultName is <sanitized id>.<mode>_stats.csv.
func DefaultName(mode, sanitizedID string) string {
	return sanitizedID + "." + mode + "_stats.csv"
}

// Render returns the CSV document for matches, one row per match in order.
func (g *Generator) Render(matches []models.MatchedPath) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(g.Vocabulary.Header); err != nil {
		return nil, err
	}
	for _, m := range matches {
		if err := w.Write(g.Vocabulary.Row(g.FS, m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders matches and writes them to path.
func (g *Generator) WriteFile(path string, matches []models.MatchedPath) error {
	data, err := g.Render(matches)
	if err != nil {
		return fmt.Errorf("render stats: %w", err)
	}
	write := g.Write
	if write == nil {
		write = filelock.LockAndWrite
	}
	if err := write(path, data); err != nil {
		return fmt.Errorf("write stats %s: %w", path, err)
	}
	return nil
}

// LaneVocabulary describes sequencing lanes.
func LaneVocabulary() Vocabulary {
	return Vocabulary{
		Header: []string{"Study", "Sample", "Lane", "QC Status", "Cycles", "Reads", "Bases", "Path"},
		Row: func(_ billy.Filesystem, m models.MatchedPath) []string {
			l := laneOf(m)
			return []string{
				l.Study,
				l.Sample,
				l.Name,
				l.QCStatus,
				strconv.Itoa(l.Cycles),
				strconv.FormatInt(l.Reads, 10),
				strconv.FormatInt(l.Bases, 10),
				m.Path,
			}
		},
	}
}

// AssemblyVocabulary describes assemblies; contig statistics are computed
// from the matched file. Directories and unreadable files report zeros.
func AssemblyVocabulary() Vocabulary {
	return Vocabulary{
		Header: []string{"Lane", "Sample", "Assembler", "Contigs", "Total Length", "N50", "Path"},
		Row: func(fs billy.Filesystem, m models.MatchedPath) []string {
			l := laneOf(m)
			var fa FastaStats
			if fs != nil {
				if s, err := ReadFasta(fs, m.Path); err == nil {
					fa = s
				}
			}
			return []string{
				l.Name,
				l.Sample,
				Assembler(m),
				strconv.Itoa(fa.Contigs),
				strconv.FormatInt(fa.TotalLength, 10),
				strconv.FormatInt(fa.N50, 10),
				m.Path,
			}
		},
	}
}

// Assembler derives the assembler name from the producer subdirectory.
func Assembler(m models.MatchedPath) string {
	role := m.Subdir
	if role == "" && m.LaneDir != "" && filepath.Dir(m.Path) != filepath.Clean(m.LaneDir) {
		role = filepath.Base(filepath.Dir(m.Path))
	}
	return strings.TrimSuffix(role, "_assembly")
}

func laneOf(m models.MatchedPath) *models.Lane {
	if m.Lane == nil {
		return &models.Lane{}
	}
	return m.Lane
}
