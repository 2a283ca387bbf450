package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gapguard-be/internal/apperror"
)

// DocxExtractor pulls the text runs out of a DOCX archive locally,
// without any OCR backend.
type DocxExtractor struct {
	Client *http.Client
}

func NewDocxExtractor() TextExtractor {
	return &DocxExtractor{
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (e *DocxExtractor) ExtractText(ctx context.Context, fileURL string, mimeType string) (string, error) {
	fileBytes, err := fetchFile(ctx, e.Client, fileURL)
	if err != nil {
		return "", err
	}

	text, err := extractDocxText(fileBytes)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "parse docx content", err)
	}
	return text, nil
}

// extractDocxText reads word/document.xml from the archive and collects
// the character data of every text run. Paragraph ends and explicit
// breaks become newlines, tabs become tabs.
func extractDocxText(fileBytes []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(rc)
	inTextRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inTextRun = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}

func fetchFile(ctx context.Context, client *http.Client, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindExtraction, "create file request", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindExtraction, "fetch file content", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apperror.New(apperror.KindExtraction,
			fmt.Sprintf("fetch file content, status %d", res.StatusCode))
	}

	fileBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindExtraction, "read file content", err)
	}
	return fileBytes, nil
}
