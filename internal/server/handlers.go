package server

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/easystore"
	"github.com/hupe1980/easystore/disk"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type diskInfo struct {
	Name         string    `json:"name"`
	Default      bool      `json:"default"`
	Capabilities []disk.Op `json:"capabilities"`
}

func (s *Server) listDisks(c *gin.Context) {
	registry := s.store.Registry()
	disks := make([]diskInfo, 0)
	for _, name := range registry.Names() {
		d, err := registry.Get(name)
		if err != nil {
			continue
		}
		disks = append(disks, diskInfo{
			Name:         name,
			Default:      name == s.store.DefaultDisk(),
			Capabilities: disk.Capabilities(d),
		})
	}
	c.JSON(http.StatusOK, gin.H{"disks": disks})
}

func (s *Server) download(c *gin.Context) {
	// Errors are always raised here so they can be mapped to status codes;
	// logging still follows the dispatcher configuration.
	store := s.store.OnDisk(c.Param("disk")).WithError(true)

	dl, err := store.Download(c.Request.Context(), c.Param("path"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if dl == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	defer func() { _ = dl.Body.Close() }()

	headers := map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": dl.Name}),
	}
	c.DataFromReader(http.StatusOK, -1, dl.MimeType, dl.Body, headers)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, easystore.ErrNotFound), errors.Is(err, easystore.ErrUnknownDisk):
		return http.StatusNotFound
	case errors.Is(err, easystore.ErrUnsupportedOperation):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
