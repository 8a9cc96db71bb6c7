package transfer

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// FilenameFromContentDisposition extracts a filename from a
// Content-Disposition header value. The extended filename*=UTF-8''
// form wins over the plain filename= form; the plain form is stripped
// of trailing ;-parameters and surrounding quotes. Returns false when
// the header carries no usable filename.
func FilenameFromContentDisposition(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	if _, rest, ok := strings.Cut(header, "filename*=UTF-8''"); ok {
		name := strings.TrimSpace(rest)
		if i := strings.IndexByte(name, ';'); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		if name != "" {
			return name, true
		}
	}

	if _, rest, ok := strings.Cut(header, "filename="); ok {
		name := strings.TrimSpace(rest)
		if i := strings.IndexByte(name, ';'); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), `"`))
		if name != "" {
			return name, true
		}
	}

	return "", false
}

// FilenameFromURL derives a filename from the last path segment of the
// URL, ignoring any query string. Falls back to "download" when the
// URL has no usable segment.
func FilenameFromURL(rawURL string) string {
	const fallback = "download"

	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}

// TotalFromContentRange parses the total size out of a Content-Range
// header ("bytes <start>-<end>/<total>"). Returns false when the
// header is absent, malformed, or reports an unknown total ("*").
func TotalFromContentRange(header string) (int64, bool) {
	if header == "" {
		return 0, false
	}

	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return 0, false
	}

	total, err := strconv.ParseInt(strings.TrimSpace(header[i+1:]), 10, 64)
	if err != nil || total < 0 {
		return 0, false
	}
	return total, true
}
