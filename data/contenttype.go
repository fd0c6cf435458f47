package data

import (
	"path/filepath"
	"strings"
)

// ContentType is the MIME type recorded for a stored file.
type ContentType string

const (
	ContentTypeTextPlain         ContentType = "text/plain"
	ContentTypeTextHTML          ContentType = "text/html"
	ContentTypeTextCSS           ContentType = "text/css"
	ContentTypeTextJavaScript    ContentType = "text/javascript"
	ContentTypeTextCSV           ContentType = "text/csv"
	ContentTypeImageJPEG         ContentType = "image/jpeg"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageGIF          ContentType = "image/gif"
	ContentTypeImageWebP         ContentType = "image/webp"
	ContentTypeImageSVGXML       ContentType = "image/svg+xml"
	ContentTypeAudioMpeg         ContentType = "audio/mpeg"
	ContentTypeAudioWAV          ContentType = "audio/wav"
	ContentTypeAudioOGG          ContentType = "audio/ogg"
	ContentTypeAudioWebM         ContentType = "audio/webm"
	ContentTypeVideoMP4          ContentType = "video/mp4"
	ContentTypeVideoWebM         ContentType = "video/webm"
	ContentTypeVideoQuickTime    ContentType = "video/quicktime"
	ContentTypeApplicationPDF    ContentType = "application/pdf"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationGZip   ContentType = "application/gzip"
	ContentTypeApplicationXTar   ContentType = "application/x-tar"
	ContentTypeApplicationJson   ContentType = "application/json"
	ContentTypeApplicationXML    ContentType = "application/xml"
	ContentTypeApplicationStream ContentType = "application/octet-stream"
)

// ExtensionToMIME maps file extensions to MIME types
var ExtensionToMIME = map[string]ContentType{
	".txt":  ContentTypeTextPlain,
	".html": ContentTypeTextHTML,
	".css":  ContentTypeTextCSS,
	".js":   ContentTypeTextJavaScript,
	".csv":  ContentTypeTextCSV,
	".jpg":  ContentTypeImageJPEG,
	".jpeg": ContentTypeImageJPEG,
	".png":  ContentTypeImagePNG,
	".gif":  ContentTypeImageGIF,
	".webp": ContentTypeImageWebP,
	".svg":  ContentTypeImageSVGXML,
	".mp3":  ContentTypeAudioMpeg,
	".wav":  ContentTypeAudioWAV,
	".ogg":  ContentTypeAudioOGG,
	".mp4":  ContentTypeVideoMP4,
	".webm": ContentTypeVideoWebM,
	".pdf":  ContentTypeApplicationPDF,
	".zip":  ContentTypeApplicationZip,
	".gz":   ContentTypeApplicationGZip,
	".tar":  ContentTypeApplicationXTar,
	".json": ContentTypeApplicationJson,
	".xml":  ContentTypeApplicationXML,
	".bin":  ContentTypeApplicationStream,
	".db":   ContentTypeApplicationStream,
}

// GetMIMEType returns the MIME type for a file name, based on its extension
func GetMIMEType(path string) ContentType {
	// Extract extension
	ext := strings.ToLower(filepath.Ext(path))

	if mimeType, exists := ExtensionToMIME[ext]; exists {
		return mimeType
	}

	// Default to octet-stream for unknown types
	return ContentTypeApplicationStream
}
