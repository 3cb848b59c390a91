package product

import (
	"bytes"
	"mime/multipart"
	"testing"
)

type TestFile struct {
	Field    string
	Filename string
	Content  []byte
}

// NewMultipartBody encodes fields and files the way a browser form post would.
func NewMultipartBody(t *testing.T, fields map[string]string, files ...TestFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func readForm(t *testing.T, fields map[string]string, files ...TestFile) *multipart.Form {
	t.Helper()

	body, contentType := NewMultipartBody(t, fields, files...)
	_, boundary, ok := bytes.Cut([]byte(contentType), []byte("boundary="))
	if !ok {
		t.Fatalf("no boundary in %q", contentType)
	}

	form, err := multipart.NewReader(body, string(boundary)).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}
