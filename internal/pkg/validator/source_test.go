package validator

import (
	"mime/multipart"
	"testing"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxFileSize:   1024,
		MaxUploadSize: 2048,
	}, ".CS")
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		files []*multipart.FileHeader
		want  error
	}{
		{
			name:  "no files",
			files: nil,
			want:  entity.ErrMissingField,
		},
		{
			name: "multiple files",
			files: []*multipart.FileHeader{
				{Filename: "a.cs", Size: 10},
				{Filename: "b.cs", Size: 10},
			},
			want: entity.ErrTooManyFiles,
		},
		{
			name:  "wrong extension",
			files: []*multipart.FileHeader{{Filename: "main.go", Size: 10}},
			want:  entity.ErrInvalidExtension,
		},
		{
			name:  "empty file",
			files: []*multipart.FileHeader{{Filename: "Program.cs", Size: 0}},
			want:  entity.ErrEmptyFile,
		},
		{
			name:  "too large",
			files: []*multipart.FileHeader{{Filename: "Program.cs", Size: 4096}},
			want:  entity.ErrFileTooLarge,
		},
		{
			name:  "valid with upper case extension",
			files: []*multipart.FileHeader{{Filename: "Program.CS", Size: 100}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.files)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "My_File1.cs", SanitizeFilename("../dir/My File(1).cs"))
}
