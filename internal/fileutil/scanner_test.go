package fileutil

import (
	"regexp"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, f, []byte("test content"), 0644))
	}
	return fs
}

func TestScanDirectory_Flat(t *testing.T) {
	fs := newTestFS(t,
		"/lane/a.fastq.gz",
		"/lane/b.fastq.gz",
		"/lane/notes.txt",
		"/lane/.hidden.fastq.gz",
		"/lane/sub/c.fastq.gz",
	)

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "pattern only",
			opts: ScanOptions{Pattern: regexp.MustCompile(`\.fastq\.gz$`)},
			want: []string{"/lane/.hidden.fastq.gz", "/lane/a.fastq.gz", "/lane/b.fastq.gz"},
		},
		{
			name: "skip hidden",
			opts: ScanOptions{Pattern: regexp.MustCompile(`\.fastq\.gz$`), SkipHidden: true},
			want: []string{"/lane/a.fastq.gz", "/lane/b.fastq.gz"},
		},
		{
			name: "include dirs",
			opts: ScanOptions{IncludeDirs: true, SkipHidden: true},
			want: []string{"/lane/a.fastq.gz", "/lane/b.fastq.gz", "/lane/notes.txt", "/lane/sub"},
		},
		{
			name: "recursive",
			opts: ScanOptions{Recursive: true, Pattern: regexp.MustCompile(`^c\.`)},
			want: []string{"/lane/sub/c.fastq.gz"},
		},
		{
			name: "recursive with exclusion",
			opts: ScanOptions{Recursive: true, ExcludeDirs: []string{"sub"}, SkipHidden: true},
			want: []string{"/lane/a.fastq.gz", "/lane/b.fastq.gz", "/lane/notes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(fs, "/lane", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Files)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestScanDirectory_DanglingSymlinkIsSkipped(t *testing.T) {
	fs := newTestFS(t, "/lane/a.bam")
	require.NoError(t, fs.Symlink("/elsewhere/missing.bam", "/lane/b.bam"))

	result, err := ScanDirectory(fs, "/lane", ScanOptions{Pattern: regexp.MustCompile(`\.bam$`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"/lane/a.bam"}, result.Files)
}

func TestScanDirectory_Errors(t *testing.T) {
	fs := newTestFS(t, "/lane/a.bam")

	_, err := ScanDirectory(fs, "/missing", ScanOptions{})
	assert.Error(t, err)

	_, err = ScanDirectory(fs, "/lane/a.bam", ScanOptions{})
	assert.Error(t, err)
}

func TestExistsAndIsDir(t *testing.T) {
	fs := newTestFS(t, "/lane/a.bam")

	assert.True(t, Exists(fs, "/lane/a.bam"))
	assert.True(t, Exists(fs, "/lane"))
	assert.False(t, Exists(fs, "/lane/b.bam"))

	assert.True(t, IsDir(fs, "/lane"))
	assert.False(t, IsDir(fs, "/lane/a.bam"))
}
