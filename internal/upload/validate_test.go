package upload

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func pdf(name string, size int64) File {
	return File{Name: name, Size: size, ContentType: TypePDF}
}

func TestValidateBatch_SingleValidPDF(t *testing.T) {
	f := pdf("brief.pdf", 1*mb)

	got, err := ValidateBatch([]File{f}, nil, DefaultRules())
	require.NoError(t, err)
	require.Equal(t, []File{f}, got)
}

func TestValidateBatch_AllOrNothing(t *testing.T) {
	ok := pdf("ok.pdf", 1*mb)
	big := pdf("big.pdf", 6*mb)

	got, err := ValidateBatch([]File{ok, big}, nil, DefaultRules())
	require.Error(t, err)
	assert.Empty(t, got, "valid file in a failing batch must not be kept")
	assert.Equal(t, "big.pdf: File size must be less than 5MB", err.Error())

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Rejections, 1)
	assert.Equal(t, "big.pdf", batchErr.Rejections[0].Name)
}

func TestValidateBatch_WrongType(t *testing.T) {
	existing := []File{pdf("keep.pdf", 10)}
	txt := File{Name: "notes.txt", Size: 100, ContentType: "text/plain"}

	got, err := ValidateBatch([]File{txt}, existing, DefaultRules())
	require.Error(t, err)
	assert.Equal(t, "notes.txt: Only PDF, XLSX, and WORD files are allowed", err.Error())
	assert.Equal(t, existing, got)
}

func TestValidateBatch_TypeCheckedBeforeSize(t *testing.T) {
	huge := File{Name: "movie.mp4", Size: 100 * mb, ContentType: "video/mp4"}

	_, err := ValidateBatch([]File{huge}, nil, DefaultRules())
	require.Error(t, err)
	assert.Equal(t, "movie.mp4: Only PDF, XLSX, and WORD files are allowed", err.Error())
}

func TestValidateBatch_JoinsMessages(t *testing.T) {
	batch := []File{
		{Name: "a.txt", Size: 1, ContentType: "text/plain"},
		pdf("b.pdf", 1),
		pdf("c.pdf", 7*mb),
	}

	_, err := ValidateBatch(batch, nil, DefaultRules())
	require.Error(t, err)
	assert.Equal(t,
		"a.txt: Only PDF, XLSX, and WORD files are allowed, c.pdf: File size must be less than 5MB",
		err.Error())
}

func TestValidateBatch_AppendsInOrder(t *testing.T) {
	existing := []File{pdf("one.pdf", 1)}
	batch := []File{
		{Name: "two.xlsx", Size: 2, ContentType: TypeXLSX},
		{Name: "three.docx", Size: 3, ContentType: TypeDOCX},
		{Name: "four.doc", Size: 4, ContentType: TypeDOC},
	}

	got, err := ValidateBatch(batch, existing, DefaultRules())
	require.NoError(t, err)
	require.Len(t, got, 4)
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"one.pdf", "two.xlsx", "three.docx", "four.doc"}, names)
	assert.Len(t, existing, 1, "existing must not be modified")
}

func TestValidateBatch_SizeBoundary(t *testing.T) {
	rules := DefaultRules()

	_, err := ValidateBatch([]File{pdf("exact.pdf", rules.MaxBytes)}, nil, rules)
	assert.NoError(t, err)

	_, err = ValidateBatch([]File{pdf("over.pdf", rules.MaxBytes+1)}, nil, rules)
	assert.Error(t, err)
}

func TestValidateBatch_EmptyBatch(t *testing.T) {
	existing := []File{pdf("one.pdf", 1)}
	got, err := ValidateBatch(nil, existing, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestCheck_Partitions(t *testing.T) {
	res := Check([]File{
		pdf("good.pdf", 1),
		{Name: "bad.png", Size: 1, ContentType: "image/png"},
	}, DefaultRules())

	assert.False(t, res.OK())
	require.Len(t, res.Accepted, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "bad.png: Only PDF, XLSX, and WORD files are allowed", res.Rejected[0].Message())
}

func TestRemoveFile(t *testing.T) {
	files := []File{pdf("a", 1), pdf("b", 2), pdf("c", 3)}

	got, err := RemoveFile(files, 1)
	require.NoError(t, err)
	assert.Equal(t, []File{pdf("a", 1), pdf("c", 3)}, got)
	assert.Len(t, files, 3, "input must not be modified")

	for _, idx := range []int{-1, 3} {
		_, err := RemoveFile(files, idx)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		var oor *IndexOutOfRangeError
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, idx, oor.Index)
		assert.Equal(t, 3, oor.Len)
	}
}

func TestRules_Allows(t *testing.T) {
	r := DefaultRules()

	assert.True(t, r.Allows(TypePDF))
	assert.True(t, r.Allows("APPLICATION/PDF"))
	assert.True(t, r.Allows("application/pdf; charset=binary"))
	assert.False(t, r.Allows(""))
	assert.False(t, r.Allows("text/plain"))
}

func TestRules_Messages(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, "Only PDF, XLSX, and WORD files are allowed", r.TypeMessage())
	assert.Equal(t, "File size must be less than 5MB", r.SizeMessage())
	assert.Equal(t, []string{".pdf", ".xlsx", ".docx", ".doc"}, r.Extensions())

	pdfOnly := Rules{AllowedTypes: []string{TypePDF}, MaxBytes: 2 * mb}
	assert.Equal(t, "Only PDF files are allowed", pdfOnly.TypeMessage())
	assert.Equal(t, "File size must be less than 2MB", pdfOnly.SizeMessage())

	odd := Rules{AllowedTypes: []string{TypePDF, "image/png"}, MaxBytes: 1500}
	assert.Equal(t, "Only PDF and image/png files are allowed", odd.TypeMessage())
	assert.True(t, strings.HasPrefix(odd.SizeMessage(), "File size must be less than 1.5 KiB"))
}

func TestTotalSize(t *testing.T) {
	assert.Equal(t, int64(6), TotalSize([]File{pdf("a", 1), pdf("b", 2), pdf("c", 3)}))
	assert.Equal(t, int64(0), TotalSize(nil))
}
