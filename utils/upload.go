package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extensions the panel accepts for article and requirement uploads.
var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".zip":  true,
}

// MaxUploadSize is the per-file limit in bytes.
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// AllowedUploadExt reports whether the filename's extension is accepted.
func AllowedUploadExt(filename string) bool {
	return allowedUploadExts[strings.ToLower(filepath.Ext(filename))]
}

// StoredFilename generates the unique on-disk name for an upload. The
// original name never reaches the filesystem; only its extension survives.
func StoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s%s", uuid.New().String(), ext)
}

// UploadDir resolves and creates the upload directory from the environment.
func UploadDir() (string, error) {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", err
	}
	return uploadPath, nil
}
