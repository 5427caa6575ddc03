package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token string
		want  TargetFormat
	}{
		{"", FormatPDF},
		{"pdf", FormatPDF},
		{"PDF", FormatPDF},
		{"word", FormatWord},
		{"Word", FormatWord},
		{"excel", FormatExcel},
		{"EXCEL", FormatExcel},
		{"jpeg", FormatJPEG},
		{"jpg", FormatJPEG},
		{"JPG", FormatJPEG},
		{"png", FormatPNG},
		{"html", FormatHTML},
		{"  HtMl ", FormatHTML},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("token=%q", tt.token), func(t *testing.T) {
			got, err := ParseFormat(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_Unsupported(t *testing.T) {
	for _, token := range []string{"foo", "docx", "xlsx", "gif", "pdf2", "j p g"} {
		_, err := ParseFormat(token)
		require.Error(t, err, token)
		assert.Equal(t, ErrorTypeUnsupportedFormat, ErrorTypeOf(err))
		assert.True(t, IsClientError(err))
	}
}

func TestSupportedTokensAllParse(t *testing.T) {
	for _, token := range SupportedTokens {
		_, err := ParseFormat(token)
		assert.NoError(t, err, token)
	}
}

func TestTargetFormat_Extension(t *testing.T) {
	assert.Equal(t, "pdf", FormatPDF.Extension("pdf"))
	assert.Equal(t, "docx", FormatWord.Extension("word"))
	assert.Equal(t, "xlsx", FormatExcel.Extension("excel"))
	assert.Equal(t, "jpeg", FormatJPEG.Extension("jpeg"))
	assert.Equal(t, "jpg", FormatJPEG.Extension("JPG"))
	assert.Equal(t, "png", FormatPNG.Extension("png"))
	assert.Equal(t, "html", FormatHTML.Extension("html"))
}

func TestConversionRequest_OutputPath(t *testing.T) {
	req := &ConversionRequest{
		Token:          "jpg",
		Format:         FormatJPEG,
		OutputBasePath: "outputs/converted_1",
	}
	assert.Equal(t, "outputs/converted_1.jpg", req.OutputPath())
}

func TestDomainError(t *testing.T) {
	cause := errors.New("disk full")
	err := IOError("write output", cause)

	assert.Equal(t, "[io] write output: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsClientError(err))

	wrapped := fmt.Errorf("convert: %w", ConversionError("render failed", nil))
	assert.Equal(t, ErrorTypeConversion, ErrorTypeOf(wrapped))
	assert.Equal(t, ErrorType(""), ErrorTypeOf(cause))
}
