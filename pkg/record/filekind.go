package record

import "strings"

// allowedExtensions is the fixed allow-list of attachment file extensions.
var allowedExtensions = map[string]struct{}{
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}, "bmp": {}, "svg": {},
	"zip": {}, "rar": {}, "7z": {}, "tar": {}, "gz": {},
	"txt": {}, "csv": {}, "rtf": {}, "md": {},
	"mp3": {}, "wav": {}, "mp4": {}, "mov": {}, "avi": {},
	"html": {}, "htm": {}, "xml": {}, "json": {},
}

var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"jpg":  "image/jpeg", "jpeg": "image/jpeg",
	"png": "image/png", "gif": "image/gif", "webp": "image/webp", "bmp": "image/bmp",
	"zip": "application/zip", "rar": "application/x-rar-compressed",
	"txt": "text/plain", "csv": "text/csv",
	"html": "text/html", "htm": "text/html",
	"json": "application/json", "xml": "application/xml",
}

var fileKinds = map[string]string{
	"pdf": "pdf",
	"doc": "document", "docx": "document",
	"xls": "spreadsheet", "xlsx": "spreadsheet",
	"ppt": "presentation", "pptx": "presentation",
	"jpg": "image", "jpeg": "image", "png": "image", "gif": "image", "webp": "image",
	"zip": "archive", "rar": "archive", "7z": "archive",
	"mp3": "audio", "wav": "audio",
	"mp4": "video", "mov": "video",
}

var fileIcons = map[string]string{
	"pdf": "📄",
	"doc": "📝", "docx": "📝",
	"xls": "📊", "xlsx": "📊",
	"ppt": "📽️", "pptx": "📽️",
	"jpg": "🖼️", "jpeg": "🖼️", "png": "🖼️", "gif": "🖼️",
	"zip": "📦", "rar": "📦", "7z": "📦",
	"mp3": "🎵", "wav": "🎵",
	"mp4": "🎬", "mov": "🎬",
}

// Ext returns the lowercased extension of name, without the dot.  Returns ""
// when name has no extension.
func Ext(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// ValidFilename reports whether name looks like a real attachment file name:
// minimum length, an extension present, and the extension allow-listed.
func ValidFilename(name string) bool {
	if len(name) < 3 {
		return false
	}
	ext := Ext(name)
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// MimeType maps a file name to its MIME type, defaulting to octet-stream.
func MimeType(name string) string {
	if mt, ok := mimeTypes[Ext(name)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// FileKind classifies a file name into a coarse category for display.
func FileKind(name string) string {
	if k, ok := fileKinds[Ext(name)]; ok {
		return k
	}
	return "other"
}

// FileIcon returns the emoji used to decorate an attachment reference.
func FileIcon(name string) string {
	if ic, ok := fileIcons[Ext(name)]; ok {
		return ic
	}
	return "📎"
}
