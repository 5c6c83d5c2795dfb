package testfixtures

import (
	"bytes"
	"testing"

	"github.com/mark3labs/stratagem/internal/persona"
)

// pdfHeader is enough for content sniffing to report application/pdf.
const pdfHeader = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"

// PDF writes a PDF of exactly size bytes (at least the header) into dir.
func PDF(t *testing.T, dir, name string, size int) string {
	t.Helper()
	data := []byte(pdfHeader)
	if size > len(data) {
		data = append(data, bytes.Repeat([]byte{' '}, size-len(data))...)
	}
	return WriteFile(t, dir, name, data)
}

// Text writes a plain text file, which the default rules reject.
func Text(t *testing.T, dir, name string) string {
	t.Helper()
	return WriteFile(t, dir, name, []byte("meeting notes\nnot a brief\n"))
}

// Persona returns a named persona built from the default template.
func Persona(name, category string) persona.Persona {
	p := persona.DefaultTemplate().NewPersona()
	p.Name = name
	p.Category = category
	return p
}
