package uploads

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Images arrive as base64 data URLs. The MIME prefix is validated before any
// byte is decoded, and decoded payloads are capped at 5 MB.
const maxImageSize = 5 << 20

var dataURLRegex = regexp.MustCompile(`^data:image/(jpeg|jpg|png|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)

// BasePath returns the root upload directory, configurable via UPLOAD_PATH.
func BasePath() string {
	if p := os.Getenv("UPLOAD_PATH"); p != "" {
		return p
	}
	return "./uploads"
}

// Uploaded describes one successfully stored image.
type Uploaded struct {
	OriginalName string
	NewName      string
	RelativePath string
	FullPath     string
	Size         int
}

// UploadFailure describes one image that could not be stored.
type UploadFailure struct {
	OriginalName string
	Err          error
}

// UploadResult is the per-batch report returned by UploadFiles.
type UploadResult struct {
	Success []Uploaded
	Failed  []UploadFailure
}

// Errors joins the failure messages for reporting back to the caller.
func (r UploadResult) Errors() string {
	msgs := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		msgs = append(msgs, f.Err.Error())
	}
	return strings.Join(msgs, ", ")
}

// UploadFiles decodes each base64 data URL in files and writes it below
// BasePath()/customPath. File names are made unique with a nanosecond
// timestamp and the batch index. Failures never abort the batch; callers
// decide whether a partial result counts as failure.
func UploadFiles(customPath, imageName string, files []string) UploadResult {
	cleanPath := strings.ReplaceAll(customPath, "\\", "/")
	for strings.Contains(cleanPath, "//") {
		cleanPath = strings.ReplaceAll(cleanPath, "//", "/")
	}
	finalDir := filepath.Join(BasePath(), cleanPath)

	var result UploadResult

	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		for i := range files {
			result.Failed = append(result.Failed, UploadFailure{
				OriginalName: fmt.Sprintf("image_%d", i),
				Err:          fmt.Errorf("create upload directory: %w", err),
			})
		}
		return result
	}

	for i, encoded := range files {
		name := fmt.Sprintf("image_%d", i)

		if !IsValidImageBase64(encoded) {
			result.Failed = append(result.Failed, UploadFailure{
				OriginalName: name,
				Err:          fmt.Errorf("invalid base64 image format"),
			})
			continue
		}

		payload := encoded[strings.Index(encoded, ",")+1:]
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			result.Failed = append(result.Failed, UploadFailure{
				OriginalName: name,
				Err:          fmt.Errorf("decode base64: %w", err),
			})
			continue
		}

		if len(data) > maxImageSize {
			result.Failed = append(result.Failed, UploadFailure{
				OriginalName: name,
				Err:          fmt.Errorf("file exceeds the 5MB limit"),
			})
			continue
		}

		ext := extensionFor(encoded)
		uniqueName := fmt.Sprintf("%s_%d_%d%s", imageName, time.Now().UnixNano(), i, ext)
		fullPath := filepath.Join(finalDir, uniqueName)

		if err := os.WriteFile(fullPath, data, 0o644); err != nil {
			result.Failed = append(result.Failed, UploadFailure{
				OriginalName: name,
				Err:          fmt.Errorf("write file: %w", err),
			})
			continue
		}

		result.Success = append(result.Success, Uploaded{
			OriginalName: name + ext,
			NewName:      uniqueName,
			RelativePath: filepath.ToSlash(filepath.Join(BasePath(), cleanPath, uniqueName)),
			FullPath:     fullPath,
			Size:         len(data),
		})
	}

	return result
}

// IsValidImageBase64 reports whether s is a data URL for a supported image type.
func IsValidImageBase64(s string) bool {
	return dataURLRegex.MatchString(s)
}

// extensionFor maps the MIME type of an already validated data URL to a
// file extension.
func extensionFor(encoded string) string {
	m := dataURLRegex.FindStringSubmatch(encoded)
	switch m[1] {
	case "jpeg":
		return ".jpg"
	case "svg+xml":
		return ".svg"
	default:
		return "." + m[1]
	}
}

// DeleteImage removes a single stored image. Best effort: a missing file or a
// filesystem error is logged and reported as false, never fatal.
func DeleteImage(imagePath string) bool {
	if imagePath == "" {
		return false
	}
	if _, err := os.Stat(imagePath); err != nil {
		log.Printf("image not found: %s", imagePath)
		return false
	}
	if err := os.Remove(imagePath); err != nil {
		log.Printf("failed to delete image %s: %v", imagePath, err)
		return false
	}
	return true
}

// DeleteDirectory removes a directory and everything below it.
func DeleteDirectory(dirPath string) bool {
	if _, err := os.Stat(dirPath); err != nil {
		log.Printf("directory not found: %s", dirPath)
		return false
	}
	if err := os.RemoveAll(dirPath); err != nil {
		log.Printf("failed to delete directory %s: %v", dirPath, err)
		return false
	}
	return true
}

// ChangeDirectoryName renames a directory. It refuses to overwrite an
// existing target so a rename never silently merges two galleries.
func ChangeDirectoryName(oldPath, newPath string) bool {
	if _, err := os.Stat(oldPath); err != nil {
		log.Printf("directory not found: %s", oldPath)
		return false
	}
	if _, err := os.Stat(newPath); err == nil {
		log.Printf("target directory already exists: %s", newPath)
		return false
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		log.Printf("failed to rename directory %s -> %s: %v", oldPath, newPath, err)
		return false
	}
	return true
}

var turkishFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ş", "s", "ö", "o", "ü", "u",
	"Ç", "c", "Ğ", "g", "İ", "i", "Ş", "s", "Ö", "o", "Ü", "u",
	" ", "-", "(", "", ")", "",
)

// SafeName folds Turkish characters to ASCII and strips path-hostile
// punctuation so entity names can be used as directory names.
func SafeName(name string) string {
	return strings.ToLower(turkishFold.Replace(name))
}
