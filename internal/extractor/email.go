package extractor

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// extractEML parses an RFC 5322 email: subject/sender/recipient headers,
// text/plain body paragraphs, and document attachments. Any parse failure
// falls back to naive paragraph splitting of the raw file.
func extractEML(filePath string) ([]models.Chunk, error) {
	chunks, err := parseEML(filePath)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("Email parse failed, using raw text fallback")
		return fallbackChunks(filePath), nil
	}
	return chunks, nil
}

func parseEML(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mr, err := mail.CreateReader(f)
	if err != nil {
		return nil, err
	}

	chunks := headerChunks(
		headerText(mr.Header.Subject()),
		headerText(mr.Header.Text("From")),
		headerText(mr.Header.Text("To")),
	)

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if strings.HasPrefix(contentType, "text/plain") {
				body, err := io.ReadAll(part.Body)
				if err != nil {
					return nil, err
				}
				chunks = append(chunks, textChunks(string(body), models.ChunkEmailBody)...)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			chunks = append(chunks, attachmentChunks(filename, part.Body)...)
		}
	}
	return chunks, nil
}

// headerChunks renders the non-empty headers as individual chunks in
// subject, sender, recipient order.
func headerChunks(subject, from, to string) []models.Chunk {
	var chunks []models.Chunk
	add := func(prefix, value string) {
		if value == "" {
			return
		}
		chunks = append(chunks, models.Chunk{
			Text: prefix + value,
			Page: 1,
			Type: models.ChunkEmailHeader,
		})
	}
	add("Email Subject: ", subject)
	add("From: ", from)
	add("To: ", to)
	return chunks
}

func headerText(value string, err error) string {
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// attachmentChunks recovers chunks from a supported document attachment.
// PDF and DOCX attachments go through their full extractors (DOCX chunks
// are retagged as attachment text); plain text and markdown are split
// directly. Unsupported attachment types yield nothing.
func attachmentChunks(filename string, body io.Reader) []models.Chunk {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		data, err := io.ReadAll(body)
		if err != nil {
			return nil
		}
		return textChunks(string(data), models.ChunkAttachment)
	case ".md":
		data, err := io.ReadAll(body)
		if err != nil {
			return nil
		}
		return textChunks(markdownText(data), models.ChunkAttachment)
	case ".pdf", ".docx":
		return documentAttachmentChunks(ext, body)
	default:
		return nil
	}
}

// documentAttachmentChunks spools the attachment to a temp file so the
// regular file-based extractors can run over it.
func documentAttachmentChunks(ext string, body io.Reader) []models.Chunk {
	tmp, err := os.CreateTemp("", "attachment-*"+ext)
	if err != nil {
		return nil
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return nil
	}
	tmp.Close()

	var chunks []models.Chunk
	switch ext {
	case ".pdf":
		chunks, err = extractPDF(tmp.Name())
	case ".docx":
		chunks, err = extractDOCX(tmp.Name())
		for i := range chunks {
			chunks[i].Type = models.ChunkAttachment
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("ext", ext).Msg("Attachment extraction failed")
		return nil
	}
	return chunks
}
