package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/stratagem/internal/logger"
)

// File is one uploaded document.
type File struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size" yaml:"size"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Rejection is a file that failed validation.
type Rejection struct {
	Name   string
	Reason string
}

// Message is the user-facing "<name>: <reason>" line.
func (r Rejection) Message() string {
	return r.Name + ": " + r.Reason
}

// Result partitions a batch.
type Result struct {
	Accepted []File
	Rejected []Rejection
}

// OK reports whether nothing was rejected.
func (r Result) OK() bool {
	return len(r.Rejected) == 0
}

// BatchError is returned when at least one file of a batch is rejected.
type BatchError struct {
	Rejections []Rejection
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Rejections))
	for i, r := range e.Rejections {
		msgs[i] = r.Message()
	}
	return strings.Join(msgs, ", ")
}

// ErrIndexOutOfRange is matched by errors.Is for any *IndexOutOfRangeError.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexOutOfRangeError reports a removal index outside the list.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Check validates each candidate independently. The type check runs first,
// so a file that is both the wrong type and too large reports only the type.
func Check(candidates []File, rules Rules) Result {
	var res Result
	for _, f := range candidates {
		switch {
		case !rules.Allows(f.ContentType):
			res.Rejected = append(res.Rejected, Rejection{Name: f.Name, Reason: rules.TypeMessage()})
		case f.Size > rules.MaxBytes:
			res.Rejected = append(res.Rejected, Rejection{Name: f.Name, Reason: rules.SizeMessage()})
		default:
			res.Accepted = append(res.Accepted, f)
		}
	}
	return res
}

// ValidateBatch checks candidates and merges them into existing.
//
// The batch is all-or-nothing: if any candidate is rejected the result is a
// copy of existing and a *BatchError listing every rejection. Otherwise the
// result is existing followed by all candidates. existing is never modified.
func ValidateBatch(candidates, existing []File, rules Rules) ([]File, error) {
	res := Check(candidates, rules)
	out := make([]File, 0, len(existing)+len(res.Accepted))
	out = append(out, existing...)

	if !res.OK() {
		err := &BatchError{Rejections: res.Rejected}
		logger.Debug("upload batch of %d discarded: %v", len(candidates), err)
		return out, err
	}

	out = append(out, res.Accepted...)
	logger.Debug("upload batch accepted: %d file(s), %d total", len(res.Accepted), len(out))
	return out, nil
}

// RemoveFile returns existing without the element at index.
func RemoveFile(existing []File, index int) ([]File, error) {
	if index < 0 || index >= len(existing) {
		return existing, &IndexOutOfRangeError{Index: index, Len: len(existing)}
	}
	out := make([]File, 0, len(existing)-1)
	out = append(out, existing[:index]...)
	out = append(out, existing[index+1:]...)
	return out, nil
}

// TotalSize sums the sizes of files.
func TotalSize(files []File) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}
