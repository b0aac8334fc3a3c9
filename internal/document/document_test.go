package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
		wantErr     bool
	}{
		{"declared text", "notes.txt", "text/plain", TypeText, false},
		{"declared text with charset", "notes", "text/plain; charset=utf-8", TypeText, false},
		{"declared pdf", "paper.pdf", "application/pdf", TypePDF, false},
		{"missing type falls back to txt extension", "notes.TXT", "", TypeText, false},
		{"octet-stream falls back to pdf extension", "paper.pdf", "application/octet-stream", TypePDF, false},
		{"unknown extension", "notes.docx", "", "", true},
		{"unsupported declared type", "notes.doc", "application/msword", "", true},
		{"garbage content type", "notes.txt", ";;;", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText(TypeText, []byte("The quick brown fox jumps over the lazy dog."))
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", text)
}

func TestExtractTextRejectsInvalidUTF8(t *testing.T) {
	_, err := ExtractText(TypeText, []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractTextMalformedPDF(t *testing.T) {
	_, err := ExtractText(TypePDF, []byte("this is not a pdf"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText("image/png", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
