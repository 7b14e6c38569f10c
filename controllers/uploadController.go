package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/storage"
)

const maxUploadSize = 2 << 30 // 2GB

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// UploadController stores evidence files and returns their public URLs.
type UploadController struct {
	Storage *storage.SupabaseStorage
}

func NewUploadController(store *storage.SupabaseStorage) *UploadController {
	return &UploadController{Storage: store}
}

// UploadEvidence accepts a single image or video and uploads it to the
// evidence bucket.
func (uc *UploadController) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only images and videos are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	sanitized := unsafeFileChars.ReplaceAllString(fileHeader.Filename, "_")
	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitized)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	publicURL, err := uc.Storage.PutObject(ctx, fileName, data, contentType)
	if err != nil {
		log.Println("Upload Error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": publicURL, "type": contentType})
}
