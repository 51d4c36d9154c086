package receipt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	pdfHeader  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		file     File
		wantType string
		wantErr  error
	}{
		{"png", File{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}, "image/png", nil},
		{"jpeg", File{Size: int64(len(jpegHeader)), Body: bytes.NewReader(jpegHeader)}, "image/jpeg", nil},
		{"pdf", File{Size: int64(len(pdfHeader)), Body: bytes.NewReader(pdfHeader)}, "application/pdf", nil},
		{"plain text", File{Size: 5, Body: strings.NewReader("hello")}, "", domainerror.ErrUnsupportedReceiptType},
		{"declared too large", File{Size: MaxSize + 1, Body: bytes.NewReader(pngHeader)}, "", domainerror.ErrReceiptTooLarge},
		{"missing body", File{}, "", domainerror.ErrMissingReceiptFile},
		{"empty body", File{Body: strings.NewReader("")}, "", domainerror.ErrMissingReceiptFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checked, err := Check(tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Check() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if checked.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", checked.ContentType, tt.wantType)
			}
		})
	}
}

func TestCheck_BodyReplaysSniffedBytes(t *testing.T) {
	content := append(append([]byte{}, pdfHeader...), bytes.Repeat([]byte("x"), 2048)...)

	checked, err := Check(File{Size: int64(len(content)), Body: bytes.NewReader(content)})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	got, err := io.ReadAll(checked.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("body has %d bytes, want %d", len(got), len(content))
	}
}

func TestCheck_UnderstatedSizeStillLimited(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxSize)...)

	checked, err := Check(File{Size: 10, Body: bytes.NewReader(content)})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if _, err := io.ReadAll(checked.Body); !errors.Is(err, domainerror.ErrReceiptTooLarge) {
		t.Errorf("ReadAll() error = %v, want ErrReceiptTooLarge", err)
	}
}

func TestObjectName(t *testing.T) {
	owner := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	record := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	name := ObjectName("expenses", owner, record, ".pdf")

	prefix := "expenses/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222-"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("ObjectName() = %q", name)
	}
}
