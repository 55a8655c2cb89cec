package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const downloadTimeout = 30 * time.Second

// ErrDownload marks a failed or non-document download.
var ErrDownload = errors.New("failed to download document")

// downloadFile fetches a document URL to a temp file and returns its
// path. The extension comes from the URL suffix when recognized, else
// from the response Content-Type.
func downloadFile(ctx context.Context, rawURL string) (string, error) {
	log.Info().Str("url", rawURL).Msg("Downloading file")

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	ext := urlExtension(rawURL)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		return "", fmt.Errorf("%w: unsupported file type", ErrDownload)
	}

	tmp, err := os.CreateTemp("", "docqa-*"+ext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	tmp.Close()

	log.Info().Str("path", tmp.Name()).Msg("File downloaded")
	return tmp.Name(), nil
}

func urlExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".pdf", ".docx", ".eml", ".msg", ".xlsx":
		return ext
	}
	return ""
}

func extensionFromContentType(contentType string) string {
	contentType = strings.ToLower(contentType)
	switch {
	case strings.Contains(contentType, "pdf"):
		return ".pdf"
	case strings.Contains(contentType, "word"), strings.Contains(contentType, "officedocument"):
		return ".docx"
	case strings.Contains(contentType, "message"):
		return ".eml"
	}
	return ""
}

// cleanupFile removes a downloaded temp file. Only paths inside the OS
// temp dir are ever deleted.
func cleanupFile(filePath string) {
	if filePath == "" || !strings.HasPrefix(filePath, os.TempDir()) {
		return
	}
	if err := os.Remove(filePath); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("Failed to clean up temporary file")
		return
	}
	log.Debug().Str("path", filePath).Msg("Cleaned up temporary file")
}
