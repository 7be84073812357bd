package utils

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// PreviewClass groups files by how they can be previewed
type PreviewClass int

const (
	PreviewUnknown PreviewClass = iota
	PreviewCode
	PreviewImage
	PreviewAudio
	PreviewVideo
)

func (c PreviewClass) String() string {
	switch c {
	case PreviewCode:
		return "code"
	case PreviewImage:
		return "image"
	case PreviewAudio:
		return "audio"
	case PreviewVideo:
		return "video"
	default:
		return "unknown"
	}
}

var previewClasses = map[string]PreviewClass{
	"txt": PreviewCode, "ini": PreviewCode, "xml": PreviewCode, "cpp": PreviewCode,
	"h": PreviewCode, "pro": PreviewCode, "js": PreviewCode, "html": PreviewCode,
	"css": PreviewCode, "csv": PreviewCode, "json": PreviewCode, "go": PreviewCode,
	"png": PreviewImage, "jpg": PreviewImage, "jpeg": PreviewImage, "bmp": PreviewImage, "gif": PreviewImage,
	"mp3": PreviewAudio, "wav": PreviewAudio,
	"mp4": PreviewVideo, "flv": PreviewVideo,
}

// PreviewClassOf classifies a file name or key by the text after its last dot
func PreviewClassOf(name string) PreviewClass {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return PreviewUnknown
	}
	ext := strings.ToLower(name[i+1:])
	if strings.Contains(ext, "/") {
		return PreviewUnknown
	}
	return previewClasses[ext]
}

// DetectContentType detects the MIME type of a file using multiple methods
func DetectContentType(filePath string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType, nil
	}

	if reader != nil {
		buffer := make([]byte, 512)
		n, err := reader.Read(buffer)
		if err != nil && err != io.EOF {
			return "", err
		}
		if contentType := http.DetectContentType(buffer[:n]); contentType != "application/octet-stream" {
			return contentType, nil
		}
	}

	// mime tables differ between systems
	commonTypes := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".bmp":  "image/bmp",
		".pdf":  "application/pdf",
		".txt":  "text/plain",
		".ini":  "text/plain",
		".cpp":  "text/x-c",
		".h":    "text/x-c",
		".go":   "text/x-go",
		".csv":  "text/csv",
		".html": "text/html",
		".css":  "text/css",
		".js":   "application/javascript",
		".json": "application/json",
		".xml":  "application/xml",
		".chm":  "application/vnd.ms-htmlhelp",
		".zip":  "application/zip",
		".rar":  "application/vnd.rar",
		".tar":  "application/x-tar",
		".gz":   "application/gzip",
		".bz2":  "application/x-bzip2",
		".mp4":  "video/mp4",
		".flv":  "video/x-flv",
		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
	}
	if contentType, ok := commonTypes[ext]; ok {
		return contentType, nil
	}
	return "application/octet-stream", nil
}

// GetFileCategory returns a general category for the content type
func GetFileCategory(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case strings.HasPrefix(contentType, "text/"), strings.Contains(contentType, "json"),
		strings.Contains(contentType, "javascript"), strings.Contains(contentType, "xml"):
		return "text"
	case strings.Contains(contentType, "pdf"), strings.Contains(contentType, "htmlhelp"):
		return "document"
	case strings.Contains(contentType, "zip"), strings.Contains(contentType, "tar"),
		strings.Contains(contentType, "rar"), strings.Contains(contentType, "bzip"):
		return "archive"
	default:
		return "other"
	}
}

// CategoryOf returns the display category of a file name
func CategoryOf(name string) string {
	contentType, err := DetectContentType(name, nil)
	if err != nil {
		return "other"
	}
	return GetFileCategory(contentType)
}
