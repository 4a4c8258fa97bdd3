package controllers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// UploadController receives admin media uploads and stores them on the
// configured disk. Entity endpoints then reference the returned URL.
type UploadController struct{}

func NewUploadController() *UploadController { return &UploadController{} }

// Store accepts a multipart "file" field and writes it under a
// content-addressed-ish unique name so re-uploads never clobber each other.
func (c *UploadController) Store(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		response.Error(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MiB limit")
		return
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		response.Error(w, http.StatusUnsupportedMediaType, "Only image uploads are allowed")
		return
	}

	dir := path.Clean(r.URL.Query().Get("dir"))
	if dir == "" || dir == "." || strings.Contains(dir, "..") {
		dir = "uploads"
	}
	name := fmt.Sprintf("%s/%s%s", dir, uuid.NewString(), ext)

	if err := storage.PutStream(name, file); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not store file")
		return
	}

	response.Created(w, map[string]string{
		"path": name,
		"url":  storage.URL(name),
	})
}

// Destroy removes an uploaded file by its storage path.
func (c *UploadController) Destroy(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" || strings.Contains(p, "..") {
		response.Error(w, http.StatusBadRequest, "Missing or invalid path")
		return
	}
	if !storage.Exists(p) {
		response.NotFound(w, "File not found")
		return
	}
	if err := storage.Delete(p); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete file")
		return
	}
	response.Message(w, "File deleted")
}
