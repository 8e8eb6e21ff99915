package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// NewCloudinary initializes the Cloudinary client
func NewCloudinary(cloudName, apiKey, apiSecret, preset string) (Uploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("storage/cloudinary: credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage/cloudinary: %w", err)
	}
	return &cloudinaryUploader{cld: cld, preset: preset}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file File, folder string) (Object, error) {
	resp, err := u.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:         folder,
		UploadPreset:   u.preset,
		Transformation: "c_limit,w_1600,h_1600",
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage/cloudinary: upload %s: %w", file.Name, err)
	}
	if resp.Error.Message != "" {
		return Object{}, fmt.Errorf("storage/cloudinary: upload %s: %s", file.Name, resp.Error.Message)
	}
	return Object{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (u *cloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	resp, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("storage/cloudinary: destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("storage/cloudinary: destroy %s: %s", publicID, resp.Error.Message)
	}
	return nil
}
