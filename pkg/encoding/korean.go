// Package encoding converts the EUC-KR text found in Ragnarok Online archives.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRToUTF8 decodes EUC-KR bytes. ASCII input is returned unchanged and
// undecodable input is returned as-is.
func EUCKRToUTF8(data []byte) string {
	if isASCII(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToEUCKR encodes s as EUC-KR, returning the UTF-8 bytes if s has no
// EUC-KR representation.
func UTF8ToEUCKR(s string) []byte {
	if isASCII([]byte(s)) || !utf8.ValidString(s) {
		return []byte(s)
	}
	result, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// CString decodes a NUL-terminated EUC-KR string.
func CString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return EUCKRToUTF8(data)
}

// NormalizePath converts an archive path to the lowercase, slash-separated
// form used for lookups.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
