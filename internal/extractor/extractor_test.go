package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const docxNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?><w:document ` + docxNS + `><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func cell(content string) string {
	return `<w:tc>` + content + `</w:tc>`
}

func TestExtractPlainText(t *testing.T) {
	e := New(zap.NewNop())

	cases := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  error
	}{
		{name: "utf8 trimmed", filename: "notes.TXT", data: []byte("  Welding basics\n\n"), want: "Welding basics"},
		{name: "bom stripped", filename: "notes.md", data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("# Title")...), want: "# Title"},
		{name: "windows-1252 fallback", filename: "legacy.txt", data: []byte("caf\xe9 \x93quoted\x94"), want: "café “quoted”"},
		{name: "undecodable", filename: "binary.txt", data: []byte{0x81, 0x00, 0x9d}, wantErr: ErrUnsupportedEncoding},
		{name: "whitespace only", filename: "empty.md", data: []byte(" \n\t "), wantErr: ErrEmptyExtraction},
		{name: "unknown utf8 extension", filename: "data.csv", data: []byte("a,b\n"), want: "a,b"},
		{name: "unknown binary extension", filename: "image.png", data: []byte{0xff, 0xd8, 0xff}, wantErr: ErrUnsupportedFileType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Extract(tc.filename, tc.data)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractDOCXParagraphsThenTables(t *testing.T) {
	body := para("Course overview") +
		`<w:p><w:r><w:t>   </w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Unit</w:t></w:r><w:r><w:tab/><w:t>one</w:t></w:r></w:p>` +
		`<w:tbl>` +
		`<w:tr>` + cell(para("Module")) + cell(para("Hours")) + `</w:tr>` +
		`<w:tr>` + cell(para("")) + cell(para("")) + `</w:tr>` +
		`<w:tr>` + cell(para("Safety")+para("PPE")) + cell(`<w:tbl><w:tr>`+cell(para("4"))+`</w:tr></w:tbl>`) + `</w:tr>` +
		`</w:tbl>` +
		para("Closing notes")

	got, err := New(zap.NewNop()).Extract("course.DOCX", buildDOCX(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"Course overview",
		"Unit\tone",
		"Closing notes",
		"Module | Hours",
		"Safety PPE | 4",
	}, "\n")

	if got != want {
		t.Fatalf("unexpected docx text:\n%q\nwant:\n%q", got, want)
	}
}

func TestExtractDOCXFailures(t *testing.T) {
	e := New(zap.NewNop())

	if _, err := e.Extract("empty.docx", buildDOCX(t, para(" "))); !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("expected empty extraction, got %v", err)
	}

	if _, err := e.Extract("broken.docx", []byte("not a zip")); !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected corrupt document, got %v", err)
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := New(zap.NewNop()).Extract("scan.pdf", []byte("%PDF-1.4 truncated"))
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected corrupt document, got %v", err)
	}
}

type fakePages struct {
	pages []string
	errs  map[int]error
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(n int) (string, error) {
	if err, ok := f.errs[n]; ok {
		return "", err
	}
	return f.pages[n-1], nil
}

func TestJoinPagesMarksFailedPages(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := fakePages{
		pages: []string{"First page", "", "Third page"},
		errs:  map[int]error{2: errors.New("bad font")},
	}

	got := strings.TrimSpace(joinPages(src, zap.New(core)))
	want := "First page\n[Error extracting page 2: bad font]\nThird page"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if logs.FilterMessage("pdf page extraction failed").Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestJoinPagesSkipsBlankPages(t *testing.T) {
	got := joinPages(fakePages{pages: []string{" ", "\n"}}, zap.NewNop())
	if strings.TrimSpace(got) != "" {
		t.Fatalf("expected blank output, got %q", got)
	}
}
