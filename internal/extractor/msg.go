package extractor

import (
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// MAPI property streams inside an Outlook .msg compound file. The 001F
// suffix marks UTF-16LE string properties.
const (
	msgStreamSubject   = "__substg1.0_0037001F"
	msgStreamSender    = "__substg1.0_0C1A001F"
	msgStreamDisplayTo = "__substg1.0_0E04001F"
	msgStreamBody      = "__substg1.0_1000001F"
)

// extractMSG reads an Outlook .msg file: subject/sender/recipient headers
// plus the plain-text body split into paragraphs. Attachments are embedded
// as nested storages and are not recovered. Any parse failure falls back
// to naive paragraph splitting of the raw file.
func extractMSG(filePath string) ([]models.Chunk, error) {
	chunks, err := parseMSG(filePath)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("MSG parse failed, using raw text fallback")
		return fallbackChunks(filePath), nil
	}
	return chunks, nil
}

func parseMSG(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, err
	}

	var subject, sender, to, body string
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case msgStreamSubject:
			subject = readUTF16Stream(entry)
		case msgStreamSender:
			sender = readUTF16Stream(entry)
		case msgStreamDisplayTo:
			to = readUTF16Stream(entry)
		case msgStreamBody:
			body = readUTF16Stream(entry)
		}
	}

	chunks := headerChunks(subject, sender, to)
	chunks = append(chunks, textChunks(body, models.ChunkEmailBody)...)
	return chunks, nil
}

func readUTF16Stream(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	codes := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		codes = append(codes, uint16(data[i])|uint16(data[i+1])<<8)
	}
	return strings.TrimRight(string(utf16.Decode(codes)), "\x00 \t\r\n")
}
