package server

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const maxReceiptUploadBytes = 10 << 20

// UploadReceipt stores a scanned receipt or proof-of-payment image and
// returns the URL to reference from a record's note.
func (s *Server) UploadReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if header.Size > maxReceiptUploadBytes {
		AbortWithError(c, newValidationError("file", "invalid_file", "file too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	url, err := s.uploads.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (s *Server) ServeReceipt(c *gin.Context) {
	name := c.Param("name")

	content, err := s.uploads.Open(c.Request.Context(), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, content, nil)
}
