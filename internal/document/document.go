// Package document turns uploaded files into plain text for summarization.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	TypeText = "text/plain"
	TypePDF  = "application/pdf"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")
	ErrUnreadable      = errors.New("document could not be read")
)

// DetectType resolves the media type of an upload from its declared Content-Type,
// falling back to the filename extension when none was sent.
func DetectType(filename, contentType string) (string, error) {
	if contentType == "" || contentType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			return TypeText, nil
		case ".pdf":
			return TypePDF, nil
		default:
			return "", ErrUnsupportedType
		}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedType
	}
	switch mediaType {
	case TypeText, TypePDF:
		return mediaType, nil
	default:
		return "", ErrUnsupportedType
	}
}

// ExtractText returns the text content of an upload of the given media type.
func ExtractText(mediaType string, content []byte) (string, error) {
	switch mediaType {
	case TypeText:
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnreadable)
		}
		return string(content), nil
	case TypePDF:
		text, err := extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return text, nil
	default:
		return "", ErrUnsupportedType
	}
}

func extractPDF(content []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
