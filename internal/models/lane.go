package models

import "strings"

// QC status labels attached to a lane by upstream quality processes
const (
	QCPassed  = "passed"
	QCFailed  = "failed"
	QCPending = "pending"
)

// ParseQCStatus validates a QC constraint. The match is exact and case-sensitive.
// An empty string means "no constraint" and is accepted.
func ParseQCStatus(s string) (string, error) {
	switch s {
	case "", QCPassed, QCFailed, QCPending:
		return s, nil
	default:
		return "", InvalidInputf("invalid qc status %q, must be one of: %s, %s, %s", s, QCPassed, QCFailed, QCPending)
	}
}

// Lane is one sequencing run record from a catalog
type Lane struct {
	ID          int64  `yaml:"id"`           // Catalog row ID
	Name        string `yaml:"name"`         // Lane name, e.g. 5477_6#1
	Sample      string `yaml:"sample"`       // Sample name
	Library     string `yaml:"library"`      // Library name
	Technology  string `yaml:"technology"`   // Sequencing technology, e.g. SLX
	Study       string `yaml:"study"`        // Study name
	ProjectSSID string `yaml:"project_ssid"` // Sequencescape study id
	Species     string `yaml:"species"`      // Full species name, genus first
	QCStatus    string `yaml:"qc_status"`    // passed, failed, pending or empty
	Processed   uint32 `yaml:"processed"`    // Processing flag bitmask
	Reads       int64  `yaml:"reads"`        // Raw read count
	Bases       int64  `yaml:"bases"`        // Raw base count
	Cycles      int    `yaml:"cycles"`       // Read length
}

// Genus returns the first word of the species name
func (l *Lane) Genus() string {
	fields := strings.Fields(l.Species)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// SpeciesSubspecies returns the species name without the genus, words joined by underscores
func (l *Lane) SpeciesSubspecies() string {
	fields := strings.Fields(l.Species)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], "_")
}

// Processed flag bits, as used by the tracking database
const (
	ProcessedImport    uint32 = 1
	ProcessedQC        uint32 = 2
	ProcessedMapped    uint32 = 4
	ProcessedStored    uint32 = 8
	ProcessedImproved  uint32 = 128
	ProcessedSNPCalled uint32 = 256
	ProcessedRNASeq    uint32 = 512
	ProcessedAssembled uint32 = 1024
	ProcessedAnnotated uint32 = 2048
)

// HasProcessed reports whether every bit in flag is set on the lane
func (l *Lane) HasProcessed(flag uint32) bool {
	return l.Processed&flag == flag
}
