package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrNotDataURL   = errors.New("not a base64 data URL")
	ErrEmptyData    = errors.New("data URL carries no data")
	ErrBadMediaType = errors.New("data URL has no media type")
)

const prefix = "data:"

// IsDataURL reports whether s looks like a base64-encoded data URL.
func IsDataURL(s string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	return strings.Contains(s, ";base64,")
}

// MediaType extracts the declared media type of a data URL.
func MediaType(s string) (string, error) {
	if !strings.HasPrefix(s, prefix) {
		return "", ErrNotDataURL
	}
	rest := s[len(prefix):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", ErrNotDataURL
	}
	mt := rest[:sep]
	if mt == "" {
		return "", ErrBadMediaType
	}
	return mt, nil
}

// Payload returns the base64 payload of a data URL.
func Payload(s string) (string, error) {
	sep := strings.Index(s, ";base64,")
	if !strings.HasPrefix(s, prefix) || sep < 0 {
		return "", ErrNotDataURL
	}
	data := s[sep+len(";base64,"):]
	if data == "" {
		return "", ErrEmptyData
	}
	return data, nil
}

// DecodedSize returns the number of bytes the base64 payload of a data URL
// decodes to. Accepts a bare base64 string as well, so legacy records that
// store the payload without the data: prefix are measured the same way.
func DecodedSize(s string) int64 {
	if IsDataURL(s) {
		payload, err := Payload(s)
		if err != nil {
			return 0
		}
		s = payload
	}
	n := int64(len(s))
	if n == 0 {
		return 0
	}
	size := n / 4 * 3
	switch {
	case strings.HasSuffix(s, "=="):
		size -= 2
	case strings.HasSuffix(s, "="):
		size--
	}
	return size
}

// Encode builds a base64 data URL from raw bytes and a media type.
func Encode(mediaType string, raw []byte) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(mediaType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(raw)))
	b.WriteString(prefix)
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(raw))
	return b.String()
}

// Decode returns the media type and raw bytes of a data URL.
func Decode(s string) (string, []byte, error) {
	mt, err := MediaType(s)
	if err != nil {
		return "", nil, err
	}
	payload, err := Payload(s)
	if err != nil {
		return "", nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrNotDataURL
	}
	return mt, raw, nil
}
