package stats

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// FastaStats summarizes the sequences of one FASTA file.
type FastaStats struct {
	Contigs     int
	TotalLength int64
	N50         int64
}

// ReadFasta computes FastaStats for path. A directory is an error.
func ReadFasta(fs billy.Filesystem, path string) (FastaStats, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return FastaStats{}, err
	}
	if info.IsDir() {
		return FastaStats{}, fmt.Errorf("%s is a directory", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		return FastaStats{}, err
	}
	defer f.Close()

	var lengths []int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			lengths = append(lengths, 0)
			continue
		}
		if len(lengths) == 0 {
			return FastaStats{}, fmt.Errorf("%s: sequence data before the first header", path)
		}
		lengths[len(lengths)-1] += int64(len(line))
	}
	if err := scanner.Err(); err != nil {
		return FastaStats{}, fmt.Errorf("read %s: %w", path, err)
	}

	return summarize(lengths), nil
}

// summarize computes totals and N50: the length L such that contigs of
// length >= L cover at least half of the total.
func summarize(lengths []int64) FastaStats {
	s := FastaStats{Contigs: len(lengths)}
	for _, l := range lengths {
		s.TotalLength += l
	}
	if s.TotalLength == 0 {
		return s
	}

	sorted := append([]int64(nil), lengths...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	var cum int64
	for _, l := range sorted {
		cum += l
		if 2*cum >= s.TotalLength {
			s.N50 = l
			break
		}
	}
	return s
}
