// Package linker materializes a result set as symlinks or as one archive.
//
// Names are planned up front so that every link or archive member is unique
// within an invocation: <lane>.<filename>, with producer subdirectory roles
// folded into the filename through the mode's role suffix table.
package linker

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/harrison/pathfind/internal/models"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._#+-]+`)

// SanitizeID reduces a search id to a file name: the last component after
// splitting on "/" and whitespace, with any other unsafe characters replaced by "_".
func SanitizeID(id string) string {
	fields := strings.FieldsFunc(id, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return "_"
	}
	return unsafeNameChars.ReplaceAllString(fields[len(fields)-1], "_")
}

// DefaultName synthesizes <identity>_<sanitized id>.
func DefaultName(identity, searchID string) string {
	return identity + "_" + SanitizeID(searchID)
}

// ResolveTarget returns the absolute target for links or an archive. An
// explicit name wins over the synthesized one; relative names resolve against cwd.
func ResolveTarget(explicit, identity, searchID, cwd string) string {
	name := explicit
	if name == "" {
		name = DefaultName(identity, searchID)
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(cwd, name)
	}
	return filepath.Clean(name)
}

// EffectiveFileType returns the file type used for filtering. When the caller
// materializes results without asking for a type, the mode's default link type
// is used instead and useDefault is true.
func EffectiveFileType(mode models.Mode, requested string, materializing bool) (fileType string, useDefault bool) {
	if requested != "" || !materializing || mode.LinkDefaultType == "" {
		return requested, false
	}
	return mode.LinkDefaultType, true
}
