package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
// Capping the prefix keeps classification cheap for large binary files.
const sniffLength = 8000

// binaryExtensions lists file extensions that are always treated as binary
// without reading any content.
var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".rar": {}, ".7z": {},
	".bin": {}, ".exe": {}, ".dll": {}, ".so": {}, ".dylib": {},
	".class": {}, ".jar": {}, ".pyc": {}, ".wasm": {},
}

// HasBinaryExtension reports whether the path carries a known binary file extension.
func HasBinaryExtension(path string) bool {
	extension := strings.ToLower(filepath.Ext(path))
	_, known := binaryExtensions[extension]
	return known
}

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary classifies the file at path as binary, first by extension and
// then by sniffing up to sniffLength bytes of content.
func IsFileBinary(path string) bool {
	if HasBinaryExtension(path) {
		return true
	}
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(buffer[:bytesRead])
}
