package handlers

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/config"
)

// UploadHandler stores product images on local disk under uuid names.
// The rest of the system treats the returned URLs as opaque strings.
type UploadHandler struct {
	cfg config.UploadConfig
	log *zap.Logger
}

func NewUploadHandler(cfg config.UploadConfig, log *zap.Logger) *UploadHandler {
	return &UploadHandler{cfg: cfg, log: log}
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

const maxFilesPerRequest = 10

// Single handles POST /api/upload/single (form field "image").
func (h *UploadHandler) Single(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	url, err := h.save(c, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if url == "" {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// Multiple handles POST /api/upload/multiple (form field "images").
func (h *UploadHandler) Multiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}
	if len(files) > maxFilesPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files"})
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.save(c, file)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		if url == "" {
			return
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}

// save validates one upload and writes it under a fresh uuid name. It
// writes the 400 response itself for rejected files and returns an empty
// URL in that case.
func (h *UploadHandler) save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + ext})
		return "", nil
	}
	if file.Size > h.cfg.MaxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return "", nil
	}

	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.cfg.Dir, name)); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// Delete handles DELETE /api/upload/:filename.
func (h *UploadHandler) Delete(c *gin.Context) {
	name := c.Param("filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.cfg.Dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
