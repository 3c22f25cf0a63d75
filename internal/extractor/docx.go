package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDOCX returns the body paragraphs followed by table rows, one per line.
// Row cells are joined with " | ". Nested tables fold into the enclosing cell.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%w: docx: %s is missing", ErrCorruptDocument, docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}
	defer rc.Close()

	paragraphs, rows, err := walkDocument(xml.NewDecoder(rc))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}

	lines := make([]string, 0, len(paragraphs)+len(rows))
	lines = append(lines, paragraphs...)
	lines = append(lines, rows...)

	return strings.Join(lines, "\n"), nil
}

func walkDocument(dec *xml.Decoder) ([]string, []string, error) {
	var (
		paragraphs []string
		rows       []string

		tblDepth int
		para     strings.Builder
		cell     strings.Builder
		cells    []string
		inText   bool
		inRun    bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if tblDepth == 1 {
					cell.Reset()
				}
			case "p":
				para.Reset()
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					para.WriteString("\t")
				}
			case "br", "cr":
				if inRun {
					para.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				inRun = false
			case "p":
				text := strings.TrimSpace(para.String())
				if tblDepth == 0 {
					if text != "" {
						paragraphs = append(paragraphs, text)
					}
					continue
				}
				if text != "" {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
					cell.WriteString(text)
				}
			case "tc":
				if tblDepth == 1 {
					cells = append(cells, strings.TrimSpace(cell.String()))
				}
			case "tr":
				if tblDepth == 1 && hasText(cells) {
					rows = append(rows, strings.Join(cells, " | "))
				}
			case "tbl":
				if tblDepth > 0 {
					tblDepth--
				}
			}
		}
	}

	return paragraphs, rows, nil
}

func hasText(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
