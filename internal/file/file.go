package file

import (
	"context"
	"errors"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	uploadTimeout = 30 * time.Second

	// documentsFolder holds scanned identification documents of members
	documentsFolder = "member-documents"
)

type Uploader interface {
	UploadFile(fileName string) (string, error)
}

type FileUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
}

func New(cloudName, apiKey, apiSecret string) *FileUploader {
	return &FileUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// UploadFile sends the local file to Cloudinary and returns its https URL.
func (f *FileUploader) UploadFile(fileName string) (string, error) {
	cld, err := cloudinary.NewFromParams(f.cloudName, f.apiKey, f.apiSecret)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, fileName, uploader.UploadParams{
		Folder: documentsFolder,
	})
	if err != nil {
		return "", err
	}

	// cloudinary reports API failures in the result, not the error
	if uploadResult.Error.Message != "" {
		return "", errors.New(uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}
