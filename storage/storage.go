// Package storage uploads binary files to external object storage and
// returns the (url, publicId) pair recorded on the owning row.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/meinhoongagan/roadside-assist/config"
)

// File is one upload.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Object identifies a stored file.
type Object struct {
	URL      string
	PublicID string
}

type Uploader interface {
	Upload(ctx context.Context, file File, folder string) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// New returns the uploader selected by STORAGE_DRIVER.
func New(cfg *config.Config) (Uploader, error) {
	switch cfg.StorageDriver {
	case "cloudinary", "":
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadPreset)
	case "s3":
		return NewS3(context.Background(), S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	default:
		return nil, fmt.Errorf("storage: unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// OpenMultipart wraps a multipart file header as a File. The caller closes
// the returned closer after the upload.
func OpenMultipart(fh *multipart.FileHeader) (File, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, nil, err
	}
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, f, nil
}
