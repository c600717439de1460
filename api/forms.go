package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/zuriwear/zuri-backend/wardrobe"
)

const maxUploadSize = 10 << 20

// readFormFile reads one uploaded file from a parsed multipart form.
func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty file %q", field)
	}
	return data, contentTypeOf(header, data), nil
}

// readFormFiles reads every file under one multipart field.
func readFormFiles(r *http.Request, field string) ([]wardrobe.UploadFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var files []wardrobe.UploadFile
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		files = append(files, wardrobe.UploadFile{
			Filename: header.Filename,
			MimeType: contentTypeOf(header, data),
			Data:     data,
		})
	}
	return files, nil
}

func contentTypeOf(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}
