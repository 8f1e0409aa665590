package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cradoe/memberreg/internal/response"
	"github.com/cradoe/memberreg/internal/validator"
)

const maxUploadSize = 10 << 20 // 10 MB

// ID scans come in as photos or PDFs
var allowedDocumentExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

func (util *RouteHandler) HandleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)

	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		util.ErrHandler.BadRequest(w, r, errors.New("invalid request data"))
		return
	}

	// Get the uploaded file
	file, header, err := r.FormFile("file")
	if err != nil {
		util.ErrHandler.BadRequest(w, r, errors.New("error retrieving the file"))
		return
	}
	defer file.Close()

	fileExtension := strings.ToLower(filepath.Ext(header.Filename))

	if !validator.In(fileExtension, allowedDocumentExtensions...) {
		util.ErrHandler.FailedValidation(w, r, []string{"file must be a jpg, png or pdf document"})
		return
	}

	// Save the file temporarily to the server
	tempFile, err := os.CreateTemp("", fmt.Sprintf("upload-*%s", fileExtension))
	if err != nil {
		util.ErrHandler.ServerError(w, r, err)
		return
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	_, err = tempFile.ReadFrom(file)
	if err != nil {
		util.ErrHandler.ServerError(w, r, err)
		return
	}

	// upload to cloud storage
	fileURL, err := util.FileUploader.UploadFile(tempFile.Name())
	if err != nil {
		util.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]any{
		"url": fileURL,
	}

	err = response.JSONCreatedResponse(w, data, "File uploaded successfully")
	if err != nil {
		util.ErrHandler.ServerError(w, r, err)
	}
}
