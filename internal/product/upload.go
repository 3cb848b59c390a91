package product

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"
)

const ImageField = "image"

// Uploader stores create-request images under a millisecond-timestamp name.
// Two uploads in the same millisecond with the same extension overwrite each
// other.
type Uploader struct {
	Dir string
	// Prefix is Dir relative to the static root, slash-separated with a
	// trailing slash ("uploads/").
	Prefix string
	Now    func() time.Time
	// OnWritten receives the byte count of each stored file.
	OnWritten func(n int64)
}

func NewUploader(dir, prefix string) *Uploader {
	return &Uploader{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Save writes the file under the image field and returns its path relative
// to the static root. An empty path means no file was attached. Files under
// any other field are rejected.
func (u *Uploader) Save(form *multipart.Form) (string, error) {
	if form == nil {
		return "", nil
	}
	for field := range form.File {
		if field != ImageField {
			return "", fmt.Errorf("%w: unexpected file field %q", ErrUpload, field)
		}
	}

	files := form.File[ImageField]
	switch len(files) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", fmt.Errorf("%w: expected one %q file, got %d", ErrUpload, ImageField, len(files))
	}

	return u.SaveFile(files[0])
}

func (u *Uploader) SaveFile(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(u.Dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: create upload dir: %v", ErrUpload, err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open part: %v", ErrUpload, err)
	}
	defer src.Close()

	name := strconv.FormatInt(u.now().UnixMilli(), 10) + fileExt(fh.Filename)

	dst, err := os.OpenFile(filepath.Join(u.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrUpload, name, err)
	}

	if u.OnWritten != nil {
		u.OnWritten(n)
	}
	return u.Prefix + name, nil
}

func (u *Uploader) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

// fileExt returns the extension of the base name including the dot. A
// leading dot alone (".env") does not count as an extension.
func fileExt(name string) string {
	base := path.Base(filepath.ToSlash(name))
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}
