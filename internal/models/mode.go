package models

import (
	"fmt"
	"regexp"
	"sort"
)

// Mode is the identity and vocabulary of one finder command. The name doubles as
// the script identity used when synthesizing link and stats names.
type Mode struct {
	Name            string            // Script identity, e.g. pathfind
	FileTypes       map[string]string // File type name -> filename regexp
	LinkDefaultType string            // File type used when linking without an explicit type (optional)
	Subdirectories  []string          // Permitted producer subdirectories, in scan order (optional)
	RoleSuffixes    map[string]string // Producer subdirectory -> replacement suffix
	ProcessedFlag   uint32            // Processed bits a lane must carry to be listed
}

// Mode names
const (
	ModePathfind     = "pathfind"
	ModeAssemblyfind = "assemblyfind"
)

// PathfindMode returns the built-in mode for raw sequencing data.
func PathfindMode() Mode {
	return Mode{
		Name: ModePathfind,
		FileTypes: map[string]string{
			"fastq":     `\.fastq\.gz$`,
			"bam":       `\.bam$`,
			"pacbio":    `\.h5$`,
			"corrected": `\.corrected\.fastq\.gz$`,
		},
		RoleSuffixes:  map[string]string{},
		ProcessedFlag: ProcessedImport,
	}
}

// AssemblyMode returns the built-in mode for assemblies.
func AssemblyMode() Mode {
	return Mode{
		Name: ModeAssemblyfind,
		FileTypes: map[string]string{
			"contigs":  `contigs\.fa$`,
			"scaffold": `scaffolds\.fa$`,
			"all":      `(contigs|scaffolds)\.fa$`,
		},
		LinkDefaultType: "contigs",
		Subdirectories:  []string{"velvet_assembly", "spades_assembly", "iva_assembly", "pacbio_assembly"},
		RoleSuffixes: map[string]string{
			"velvet_assembly": "_velvet.fa",
			"spades_assembly": "_spades.fa",
			"iva_assembly":    "_iva.fa",
			"pacbio_assembly": "_pacbio.fa",
		},
		ProcessedFlag: ProcessedAssembled,
	}
}

// ModeByName returns a built-in mode.
func ModeByName(name string) (Mode, error) {
	switch name {
	case ModePathfind:
		return PathfindMode(), nil
	case ModeAssemblyfind:
		return AssemblyMode(), nil
	default:
		return Mode{}, fmt.Errorf("unknown mode %q", name)
	}
}

// WithFileTypes returns a copy of the mode with extra or replaced file types.
func (m Mode) WithFileTypes(types map[string]string) Mode {
	merged := make(map[string]string, len(m.FileTypes)+len(types))
	for k, v := range m.FileTypes {
		merged[k] = v
	}
	for k, v := range types {
		merged[k] = v
	}
	m.FileTypes = merged
	return m
}

// WithRoleSuffixes returns a copy of the mode with extra or replaced role suffixes.
func (m Mode) WithRoleSuffixes(suffixes map[string]string) Mode {
	merged := make(map[string]string, len(m.RoleSuffixes)+len(suffixes))
	for k, v := range m.RoleSuffixes {
		merged[k] = v
	}
	for k, v := range suffixes {
		merged[k] = v
	}
	m.RoleSuffixes = merged
	return m
}

// FileTypeNames returns the mode's file type names, sorted.
func (m Mode) FileTypeNames() []string {
	names := make([]string, 0, len(m.FileTypes))
	for name := range m.FileTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern compiles the filename pattern for a file type.
func (m Mode) Pattern(fileType string) (*regexp.Regexp, error) {
	src, ok := m.FileTypes[fileType]
	if !ok {
		return nil, InvalidInputf("invalid file type %q for %s, must be one of: %v", fileType, m.Name, m.FileTypeNames())
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, InvalidInputf("file type %q has an invalid pattern %q: %v", fileType, src, err)
	}
	return re, nil
}

// RoleSuffix returns the replacement suffix for a producer subdirectory.
func (m Mode) RoleSuffix(role string) (string, bool) {
	suffix, ok := m.RoleSuffixes[role]
	return suffix, ok
}
