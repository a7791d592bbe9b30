package extract

import (
	"encoding/base64"
	"fmt"
	"html"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	MimePlain = "text/plain"
	MimeHTML  = "text/html"
	MimePDF   = "application/pdf"
	MimeDOC   = "application/msword"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionMimes = map[string]string{
	".txt":  MimePlain,
	".text": MimePlain,
	".md":   MimePlain,
	".htm":  MimeHTML,
	".html": MimeHTML,
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

var (
	pdfStringPattern = regexp.MustCompile(`\(([^)]+)\)`)
	htmlPolicy       = bluemonday.StrictPolicy()
)

// NormalizeMimeType lower-cases the declared type and drops parameters. When
// the declared type is missing or generic, the filename extension decides.
func NormalizeMimeType(mimeType, filename string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt, ok := extensionMimes[strings.ToLower(filepath.Ext(filename))]; ok {
			return byExt
		}
	}
	return mimeType
}

// ExtractDocumentText is a best-effort text dump of an uploaded file. PDF
// and Word support is naive: no real format parsing is attempted. Unknown
// types yield "".
func ExtractDocumentText(data []byte, mimeType string) string {
	switch NormalizeMimeType(mimeType, "") {
	case MimePlain:
		return decodePlain(data)
	case MimeHTML:
		return html.UnescapeString(htmlPolicy.Sanitize(decodePlain(data)))
	case MimePDF:
		return extractPDFStrings(data)
	case MimeDOC, MimeDOCX:
		return printableASCII(data)
	default:
		return ""
	}
}

// decodePlain honours a UTF-8 or UTF-16 byte order mark and assumes UTF-8
// otherwise.
func decodePlain(data []byte) string {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}

// extractPDFStrings collects the literal strings inside parentheses, which
// covers uncompressed text streams and little else.
func extractPDFStrings(data []byte) string {
	matches := pdfStringPattern.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.ToValidUTF8(string(m[1]), "\uFFFD"))
	}
	return strings.Join(parts, " ")
}

func printableASCII(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, r := range strings.ToValidUTF8(string(data), "\uFFFD") {
		if r == '\n' || (r >= 0x20 && r <= 0x7E) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// DecodeBase64 decodes an upload payload, accepting an optional data URL
// prefix such as "data:application/pdf;base64,".
func DecodeBase64(payload string) ([]byte, error) {
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	payload = strings.Join(strings.Fields(payload), "")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64 file: %w", err)
		}
	}
	return data, nil
}
