package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchType(t *testing.T) {
	for _, st := range SearchTypes {
		got, err := ParseSearchType(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseSearchType("Study")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestParseQCStatus(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"passed", false},
		{"failed", false},
		{"pending", false},
		{"Passed", true},
		{"pass", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQCStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestLaneSpeciesParts(t *testing.T) {
	l := &Lane{Species: "Streptococcus pneumoniae Taiwan19F-14"}
	assert.Equal(t, "Streptococcus", l.Genus())
	assert.Equal(t, "pneumoniae_Taiwan19F-14", l.SpeciesSubspecies())

	empty := &Lane{}
	assert.Empty(t, empty.Genus())
	assert.Empty(t, empty.SpeciesSubspecies())
}

func TestLaneHasProcessed(t *testing.T) {
	l := &Lane{Processed: ProcessedImport | ProcessedAssembled}
	assert.True(t, l.HasProcessed(ProcessedAssembled))
	assert.True(t, l.HasProcessed(0))
	assert.False(t, l.HasProcessed(ProcessedAnnotated))
}

func TestModePattern(t *testing.T) {
	m := PathfindMode()

	re, err := m.Pattern("fastq")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a.fastq.gz"))
	assert.False(t, re.MatchString("notes.txt"))

	_, err = m.Pattern("contigs")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestModeOverridesDoNotLeak(t *testing.T) {
	base := AssemblyMode()
	extended := base.WithFileTypes(map[string]string{"fasta": `\.fasta$`}).
		WithRoleSuffixes(map[string]string{"unicycler_assembly": "_unicycler.fa"})

	assert.Contains(t, extended.FileTypes, "fasta")
	assert.NotContains(t, base.FileTypes, "fasta")

	suffix, ok := extended.RoleSuffix("unicycler_assembly")
	assert.True(t, ok)
	assert.Equal(t, "_unicycler.fa", suffix)
	_, ok = base.RoleSuffix("unicycler_assembly")
	assert.False(t, ok)
}

func TestModeByName(t *testing.T) {
	m, err := ModeByName("assemblyfind")
	require.NoError(t, err)
	assert.Equal(t, "contigs", m.LinkDefaultType)
	assert.Equal(t, []string{"velvet_assembly", "spades_assembly", "iva_assembly", "pacbio_assembly"}, m.Subdirectories)

	_, err = ModeByName("annotationfind")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("run: %w", NewArchiveError("out.tar.gz", cause))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindArchive, kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "out.tar.gz: cannot create archive: disk full")

	joined := errors.Join(errors.New("plain"), NewCatalogError("db1", "open", cause))
	assert.True(t, IsKind(joined, KindCatalog))
	assert.False(t, IsKind(errors.New("plain"), KindCatalog))

	nm := NewNoMatches(SearchRequest{Type: SearchStudy, ID: "My Study"})
	assert.Equal(t, `no matches found for study "My Study"`, nm.Error())
}
