package fsutil

import (
	"mime"
	"path/filepath"
	"strings"
)

// binaryExtensions lists suffixes always treated as binary, regardless of
// content probing.
var binaryExtensions = map[string]struct{}{
	".pyc": {}, ".pyo": {}, ".so": {}, ".dylib": {}, ".dll": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".pdf": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".exe": {}, ".bin": {},
	".ico": {}, ".svg": {}, ".woff": {}, ".woff2": {}, ".ttf": {},
	".eot": {}, ".otf": {}, ".mp3": {}, ".mp4": {}, ".avi": {},
	".mov": {}, ".webm": {}, ".webp": {}, ".bmp": {}, ".tiff": {},
	".psd": {}, ".ai": {}, ".eps": {},
}

// SystemBinaryDetector classifies files as text vs binary using MIME type
// guessing, an extension denylist, and a null-byte probe over a bounded
// content sample.
type SystemBinaryDetector struct {
	SampleSize int // Number of bytes to sample for binary detection
}

// NewSystemBinaryDetector creates a new SystemBinaryDetector with the
// specified sample size.
func NewSystemBinaryDetector(sampleSize int) *SystemBinaryDetector {
	return &SystemBinaryDetector{SampleSize: sampleSize}
}

// IsBinaryContent checks if content bytes contain binary data by looking for
// null bytes. It handles UTF-16 and UTF-32 BOMs specially to avoid false
// positives.
func (r *SystemBinaryDetector) IsBinaryContent(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false // UTF-16 BOM - treat as text, skip null check
		}
	}
	if len(content) >= 4 {
		if (content[0] == 0xFF && content[1] == 0xFE && content[2] == 0x00 && content[3] == 0x00) ||
			(content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF) {
			return false // UTF-32 BOM - treat as text, skip null check
		}
	}

	sampleSize := min(len(content), r.SampleSize)
	for i := range sampleSize {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

// IsTextPath classifies a path as text by name alone: a MIME type guessed
// from the extension must be textual (or unknown), and the extension must not
// be on the binary denylist. Content probing is a separate, second gate.
func (r *SystemBinaryDetector) IsTextPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := binaryExtensions[ext]; ok {
		return false
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType != "" && !strings.HasPrefix(mimeType, "text/") &&
		!strings.Contains(mimeType, "json") && !strings.Contains(mimeType, "xml") {
		return false
	}

	return true
}
