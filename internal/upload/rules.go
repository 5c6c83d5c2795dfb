// Package upload validates reference documents attached to a campaign or to
// a persona. A batch of candidate files is checked against content-type and
// size rules and merged into an existing list only when every file passes.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// Content types accepted by DefaultRules.
const (
	TypePDF  = "application/pdf"
	TypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeDOC  = "application/msword"
)

// DefaultMaxBytes is the 5 MiB per-file size limit.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

const mib = 1024 * 1024

// knownType maps a content type to its extension and the family name shown
// in the rejection message.
type knownType struct {
	ext    string
	family string
}

var knownTypes = map[string]knownType{
	TypePDF:  {ext: ".pdf", family: "PDF"},
	TypeXLSX: {ext: ".xlsx", family: "XLSX"},
	TypeDOCX: {ext: ".docx", family: "WORD"},
	TypeDOC:  {ext: ".doc", family: "WORD"},
}

// Rules configures validation.
type Rules struct {
	AllowedTypes []string `mapstructure:"allowed_types" yaml:"allowed_types"`
	MaxBytes     int64    `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// DefaultRules returns PDF, XLSX, DOCX and DOC up to 5 MiB.
func DefaultRules() Rules {
	return Rules{
		AllowedTypes: []string{TypePDF, TypeXLSX, TypeDOCX, TypeDOC},
		MaxBytes:     DefaultMaxBytes,
	}
}

// Allows reports whether contentType is one of the allowed types. Case and
// media-type parameters are ignored.
func (r Rules) Allows(contentType string) bool {
	if contentType == "" {
		return false
	}
	return mimetype.EqualsAny(contentType, r.AllowedTypes...)
}

// Extensions returns the file extensions of the allowed types that have a
// known extension, in rule order. Used to filter the file picker.
func (r Rules) Extensions() []string {
	var exts []string
	for _, t := range r.AllowedTypes {
		if kt, ok := knownTypes[normalize(t)]; ok {
			exts = append(exts, kt.ext)
		}
	}
	return exts
}

// TypeMessage is the reason given for a disallowed file, e.g.
// "Only PDF, XLSX, and WORD files are allowed".
func (r Rules) TypeMessage() string {
	var families []string
	seen := make(map[string]bool)
	for _, t := range r.AllowedTypes {
		name := t
		if kt, ok := knownTypes[normalize(t)]; ok {
			name = kt.family
		}
		if !seen[name] {
			seen[name] = true
			families = append(families, name)
		}
	}
	return fmt.Sprintf("Only %s files are allowed", joinList(families))
}

// SizeMessage is the reason given for an oversize file, e.g.
// "File size must be less than 5MB".
func (r Rules) SizeMessage() string {
	return "File size must be less than " + r.LimitLabel()
}

// LimitLabel renders MaxBytes. Whole mebibytes print as "5MB" the way users
// expect; anything else falls back to an IEC size.
func (r Rules) LimitLabel() string {
	if r.MaxBytes > 0 && r.MaxBytes%mib == 0 {
		return fmt.Sprintf("%dMB", r.MaxBytes/mib)
	}
	return humanize.IBytes(uint64(max(r.MaxBytes, 0)))
}

// typeFromExtension is the fallback when content sniffing is inconclusive.
func typeFromExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for t, kt := range knownTypes {
		if kt.ext == ext {
			return t
		}
	}
	return ""
}

func normalize(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// joinList renders "a", "a and b", "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return "no"
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
