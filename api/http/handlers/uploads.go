package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 15 << 20 // 15MB

var errFileTooLarge = errors.New("file exceeds the maximum allowed size")

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, errFileTooLarge
	}
	return data, nil
}

// saveUpload сохраняет файл под случайным именем в baseDir и возвращает
// путь вместе с содержимым. Расширение проверяется до чтения.
func saveUpload(fh *multipart.FileHeader, baseDir string, allowedExt ...string) (path string, data []byte, err error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	ok := false
	for _, a := range allowedExt {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return "", nil, errors.New("unsupported file format")
	}
	file, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()
	data, err = readAtMost(file, maxUploadBytes)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", nil, err
	}
	path = filepath.Join(baseDir, uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nil, err
	}
	return path, data, nil
}
