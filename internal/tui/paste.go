package tui

import (
	"regexp"
	"strings"
)

// ansiEscapePattern matches CSI escape sequences.
var ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// lineEndings maps CRLF and bare CR to LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SanitizePaste cleans pasted or dropped text: ANSI escapes and control
// characters other than \n and \t are removed, line endings become \n and
// trailing whitespace is trimmed.
func SanitizePaste(content string) string {
	content = ansiEscapePattern.ReplaceAllString(content, "")
	content = lineEndings.Replace(content)
	content = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 32 || r == 127:
			return -1
		}
		return r
	}, content)
	return strings.TrimRight(content, " \t\n")
}

var newlinePattern = regexp.MustCompile(`\n+`)

// collapseNewlines replaces runs of newlines with a single space for
// single-line inputs.
func collapseNewlines(content string) string {
	return newlinePattern.ReplaceAllString(content, " ")
}
