package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/storage"
)

type UploadHandler struct {
	store storage.Store
}

func NewUploadHandler(store storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload stores the multipart "file" field. Images come back as WebP.
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 || fh.Size > storage.MaxUploadBytes {
		httpresp.InvalidInputs(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		httpresp.InvalidInputs(c)
		return
	}
	defer f.Close()

	prepared, err := storage.Prepare(f)
	if err != nil {
		if !errors.Is(err, storage.ErrUnsupportedType) {
			log.Printf("upload %q: %v", fh.Filename, err)
		}
		httpresp.InvalidInputs(c)
		return
	}

	if err := h.store.Save(c.Request.Context(), prepared.Name, bytes.NewReader(prepared.Data), prepared.ContentType); err != nil {
		httpresp.Error(c, "save upload", err)
		return
	}

	httpresp.Success(c, http.StatusCreated, "", gin.H{
		"name": prepared.Name,
		"url":  h.store.URL(prepared.Name),
	})
}

// Delete removes a stored file. Missing files count as deleted.
func (h *UploadHandler) Delete(c *gin.Context) {
	name, err := storage.CleanName(c.Param("name"))
	if err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), name); err != nil {
		httpresp.Error(c, "delete upload", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "file deleted", nil)
}
