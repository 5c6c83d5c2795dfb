package tui

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stratagem/internal/tui/theme"
	"github.com/mark3labs/stratagem/internal/upload"
)

// filesChosenMsg is sent when the picker submits one or more files.
type filesChosenMsg struct {
	Paths []string
}

// fileEntry is a file or directory in the picker.
type fileEntry struct {
	name  string
	path  string
	isDir bool
	size  int64
}

// FilePicker browses directories and lists only files whose extension the
// upload rules accept. Space marks several files for one batch.
type FilePicker struct {
	dir     string
	entries []fileEntry
	exts    []string
	cursor  int
	offset  int
	rows    int
	marked  map[string]bool
	err     string
}

// NewFilePicker creates a picker rooted at dir showing files with exts.
func NewFilePicker(dir string, exts []string) *FilePicker {
	f := &FilePicker{
		exts:   exts,
		rows:   10,
		marked: make(map[string]bool),
	}
	if dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		} else {
			dir = "."
		}
	}
	_ = f.Load(dir)
	return f
}

// Dir returns the directory being listed.
func (f *FilePicker) Dir() string {
	return f.dir
}

// SetRows sets how many entries are visible at once.
func (f *FilePicker) SetRows(rows int) {
	f.rows = max(rows, 3)
	f.clampOffset()
}

// Load lists dir: the parent entry, directories, then accepted files.
func (f *FilePicker) Load(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		f.err = err.Error()
		return err
	}

	f.entries = f.entries[:0]
	if parent := filepath.Dir(abs); parent != abs {
		f.entries = append(f.entries, fileEntry{name: "..", path: parent, isDir: true})
	}

	var dirs, files []fileEntry
	for _, e := range dirEntries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		full := filepath.Join(abs, e.Name())
		if e.IsDir() {
			dirs = append(dirs, fileEntry{name: e.Name(), path: full, isDir: true})
			continue
		}
		if !f.accepts(e.Name()) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, fileEntry{name: e.Name(), path: full, size: size})
	}

	byName := func(list []fileEntry) func(i, j int) bool {
		return func(i, j int) bool { return strings.ToLower(list[i].name) < strings.ToLower(list[j].name) }
	}
	sort.Slice(dirs, byName(dirs))
	sort.Slice(files, byName(files))

	f.entries = append(f.entries, dirs...)
	f.entries = append(f.entries, files...)
	f.dir = abs
	f.cursor = 0
	f.offset = 0
	f.err = ""
	clear(f.marked)
	return nil
}

func (f *FilePicker) accepts(name string) bool {
	if len(f.exts) == 0 {
		return true
	}
	return slices.Contains(f.exts, strings.ToLower(filepath.Ext(name)))
}

// Marked returns the marked file paths in listing order.
func (f *FilePicker) Marked() []string {
	var out []string
	for _, e := range f.entries {
		if f.marked[e.path] {
			out = append(out, e.path)
		}
	}
	return out
}

// Selected returns the entry under the cursor.
func (f *FilePicker) Selected() (fileEntry, bool) {
	if f.cursor < 0 || f.cursor >= len(f.entries) {
		return fileEntry{}, false
	}
	return f.entries[f.cursor], true
}

// Update handles picker keys.
func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < len(f.entries)-1 {
			f.cursor++
		}
	case "backspace", "left", "h":
		if parent := filepath.Dir(f.dir); parent != f.dir {
			_ = f.Load(parent)
		}
	case "space":
		if e, ok := f.Selected(); ok && !e.isDir {
			f.marked[e.path] = !f.marked[e.path]
			if !f.marked[e.path] {
				delete(f.marked, e.path)
			}
			if f.cursor < len(f.entries)-1 {
				f.cursor++
			}
		}
	case "enter", "right", "l":
		e, ok := f.Selected()
		if !ok {
			return nil
		}
		if e.isDir {
			_ = f.Load(e.path)
			return nil
		}
		if keyMsg.String() != "enter" {
			return nil
		}
		paths := f.Marked()
		if len(paths) == 0 {
			paths = []string{e.path}
		}
		clear(f.marked)
		return func() tea.Msg { return filesChosenMsg{Paths: paths} }
	}
	f.clampOffset()
	return nil
}

func (f *FilePicker) clampOffset() {
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+f.rows {
		f.offset = f.cursor - f.rows + 1
	}
	f.offset = max(f.offset, 0)
}

// View renders the listing at width.
func (f *FilePicker) View(width int, focused bool) string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Dim.Render(truncate(f.dir, width)))
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString(st.Error.Render(truncate(f.err, width)))
		b.WriteString("\n")
	}

	hasFiles := false
	for _, e := range f.entries {
		if !e.isDir {
			hasFiles = true
			break
		}
	}
	if !hasFiles {
		b.WriteString(st.Muted.Italic(true).Render("No " + strings.Join(f.exts, ", ") + " files in this directory"))
		b.WriteString("\n")
	}

	end := min(f.offset+f.rows, len(f.entries))
	for i := f.offset; i < end; i++ {
		e := f.entries[i]
		icon := "📄"
		if e.isDir {
			icon = "📁"
		}
		mark := "  "
		if f.marked[e.path] {
			mark = st.Check.Render("✓ ")
		}
		line := icon + " " + e.name
		if !e.isDir {
			line += "  " + st.Muted.Render(upload.HumanSize(e.size))
		}
		line = truncate(line, width-4)

		if i == f.cursor && focused {
			b.WriteString(st.ItemSelected.Render("▸ " + mark + line))
		} else {
			b.WriteString("  " + mark + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
