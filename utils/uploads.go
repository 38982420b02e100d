package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotImage is returned when an uploaded file does not sniff as an image.
var ErrNotImage = errors.New("uploaded file is not an image")

const maxImageSize = 20 * 1024 * 1024

// SaveImage stores an uploaded post image under uploadsDir/<year>/<month>/
// with a UUID filename and returns the public URL below /static/uploads.
// The content is sniffed; anything that is not image/* is rejected.
func SaveImage(header *multipart.FileHeader, uploadsDir string) (string, error) {
	if header.Size > maxImageSize {
		return "", ErrNotImage
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(src, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return "", ErrNotImage
	}

	now := time.Now()
	dir := filepath.Join(uploadsDir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.Write(sniff[:n]); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, io.LimitReader(src, maxImageSize)); err != nil {
		return "", err
	}

	return path.Join("/static/uploads", now.Format("2006"), now.Format("01"), name), nil
}
