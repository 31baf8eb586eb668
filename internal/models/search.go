package models

import "fmt"

// SearchType selects how a search identifier is resolved against a catalog
type SearchType string

// Supported search types
const (
	SearchStudy    SearchType = "study"
	SearchLane     SearchType = "lane"
	SearchFile     SearchType = "file"
	SearchSample   SearchType = "sample"
	SearchSpecies  SearchType = "species"
	SearchDatabase SearchType = "database"
)

// SearchTypes lists every supported search type in display order
var SearchTypes = []SearchType{SearchStudy, SearchLane, SearchFile, SearchSample, SearchSpecies, SearchDatabase}

// ParseSearchType converts a string into a SearchType
func ParseSearchType(s string) (SearchType, error) {
	for _, st := range SearchTypes {
		if string(st) == s {
			return st, nil
		}
	}
	return "", InvalidInputf("invalid search type %q, must be one of: study, lane, file, sample, species, database", s)
}

// SearchRequest is the input to a catalog query
type SearchRequest struct {
	Type          SearchType
	ID            string
	ProcessedFlag uint32
}

// String renders the request for logs
func (r SearchRequest) String() string {
	return fmt.Sprintf("%s=%q (processed&%d)", r.Type, r.ID, r.ProcessedFlag)
}
