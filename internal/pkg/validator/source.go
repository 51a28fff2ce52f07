package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
)

// Validator validates source file uploads
type Validator struct {
	cfg       config.FileUploadConfig
	extension string
}

func NewFileValidator(cfg config.FileUploadConfig, extension string) *Validator {
	return &Validator{
		cfg:       cfg,
		extension: strings.ToLower(extension),
	}
}

// Extension returns the single accepted file extension
func (v *Validator) Extension() string {
	return v.extension
}

// ValidateUpload checks that exactly one acceptable source file was uploaded
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if len(files) > 1 {
		return fmt.Errorf("%w: exactly one file allowed, got %d", entity.ErrTooManyFiles, len(files))
	}

	return v.ValidateSourceFile(files[0].Filename, files[0].Size)
}

// ValidateSourceFile checks name and size of a single source file
func (v *Validator) ValidateSourceFile(filename string, size int64) error {
	if filename == "" {
		return fmt.Errorf("%w: filename", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != v.extension {
		return fmt.Errorf("%w: %q (allowed: %s)", entity.ErrInvalidExtension, ext, v.extension)
	}

	if size == 0 {
		return fmt.Errorf("%w: '%s'", entity.ErrEmptyFile, filename)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, filename, size, v.cfg.MaxFileSize)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"\"", "",
	)
	return replacer.Replace(filename)
}
