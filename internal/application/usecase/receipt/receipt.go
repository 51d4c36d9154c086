// Package receipt validates uploaded receipt files before they are stored.
package receipt

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// MaxSize is the largest receipt accepted, in bytes.
const MaxSize = 5 << 20

// allowedTypes maps sniffed content types to the object extension.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// File is an uploaded receipt as received from the client.
type File struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Checked is a validated receipt ready for upload.
type Checked struct {
	ContentType string
	Extension   string
	Body        io.Reader
}

// Check enforces the size limit and sniffs the content type from the first
// bytes of the body. The returned body replays the sniffed bytes.
func Check(file File) (*Checked, error) {
	if file.Body == nil {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeMissingReceiptFile,
			"receipt file is required",
			domainerror.ErrMissingReceiptFile,
		)
	}
	if file.Size > MaxSize {
		return nil, tooLarge()
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeMissingReceiptFile,
			"receipt file is empty",
			domainerror.ErrMissingReceiptFile,
		)
	}

	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeUnsupportedReceiptType,
			"receipt must be a JPEG, PNG or PDF file",
			domainerror.ErrUnsupportedReceiptType,
		)
	}

	// The declared size can lie; cap what is actually read.
	body := io.MultiReader(bytes.NewReader(head), file.Body)
	return &Checked{
		ContentType: contentType,
		Extension:   ext,
		Body:        &limitedBody{r: io.LimitReader(body, MaxSize+1)},
	}, nil
}

// ObjectName builds the storage name for a record's receipt.
func ObjectName(area string, ownerID, recordID uuid.UUID, ext string) string {
	return path.Join(area, ownerID.String(), recordID.String()+"-"+uuid.NewString()[:8]+ext)
}

type limitedBody struct {
	r    io.Reader
	read int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += int64(n)
	if b.read > MaxSize {
		return n, tooLarge()
	}
	return n, err
}

func tooLarge() error {
	return domainerror.NewReceiptError(
		domainerror.ErrCodeReceiptTooLarge,
		"receipt file exceeds the 5MB limit",
		domainerror.ErrReceiptTooLarge,
	)
}
