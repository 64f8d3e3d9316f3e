package analyzer

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/akira-bot/akira/internal/brain"
)

type stubBrain struct {
	reply  string
	err    error
	gotReq brain.CompletionRequest
}

func (s *stubBrain) Complete(_ context.Context, req brain.CompletionRequest) (string, error) {
	s.gotReq = req
	return s.reply, s.err
}

func TestDetectMode(t *testing.T) {
	cases := []struct {
		body string
		want Mode
	}{
		{"", ModeSummary},
		{"resúmelo porfa", ModeSummary},
		{"Explícame este documento", ModeExplain},
		{"puedes explicar esto?", ModeExplain},
	}
	for _, tc := range cases {
		if got := DetectMode(tc.body); got != tc.want {
			t.Fatalf("DetectMode(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestHandleDocumentPlainTextSummary(t *testing.T) {
	b := &stubBrain{reply: "resumen del texto"}
	a := New(b, 0)

	got := a.HandleDocument(context.Background(), "text/plain", []byte("hola documento"), ModeSummary)
	if got != "resumen del texto" {
		t.Fatalf("HandleDocument() = %q", got)
	}
	prompt := b.gotReq.Messages[len(b.gotReq.Messages)-1].Content
	if !strings.Contains(prompt, "Resume el contenido") || !strings.Contains(prompt, "hola documento") {
		t.Fatalf("prompt = %q, want summary instruction with document text", prompt)
	}
}

func TestHandleDocumentExplainMode(t *testing.T) {
	b := &stubBrain{reply: "explicación"}
	a := New(b, 0)

	a.HandleDocument(context.Background(), "text/plain", []byte("contenido"), ModeExplain)
	prompt := b.gotReq.Messages[len(b.gotReq.Messages)-1].Content
	if !strings.Contains(prompt, "Explica detalladamente") {
		t.Fatalf("prompt = %q, want explain instruction", prompt)
	}
}

func TestHandleDocumentEmptyText(t *testing.T) {
	a := New(&stubBrain{reply: "nope"}, 0)
	got := a.HandleDocument(context.Background(), "text/plain", []byte("   \n "), ModeSummary)
	if !strings.HasPrefix(got, "[No se pudo extraer texto") {
		t.Fatalf("HandleDocument() = %q, want bracketed empty-document notice", got)
	}
}

func TestHandleDocumentTruncatesLongText(t *testing.T) {
	b := &stubBrain{reply: "ok"}
	a := New(b, 100)

	a.HandleDocument(context.Background(), "text/plain", []byte(strings.Repeat("x", 500)), ModeSummary)
	prompt := b.gotReq.Messages[len(b.gotReq.Messages)-1].Content
	if strings.Count(prompt, "x") != 100 {
		t.Fatalf("document text count = %d, want capped at 100", strings.Count(prompt, "x"))
	}
}

func TestHandleDocumentBrainFailureIsBracketed(t *testing.T) {
	b := &stubBrain{err: &brain.Error{Reason: brain.ReasonTimeout, Detail: "deadline"}}
	a := New(b, 0)

	got := a.HandleDocument(context.Background(), "text/plain", []byte("texto"), ModeSummary)
	if !strings.HasPrefix(got, "[Error procesando documento:") {
		t.Fatalf("HandleDocument() = %q, want bracketed brain failure", got)
	}
}

func TestExtractDocx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	_, _ = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Primera línea</w:t></w:r></w:p>
    <w:p><w:r><w:t>Segunda</w:t></w:r><w:r><w:t> línea</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got, err := extractDocx(buf.Bytes())
	if err != nil {
		t.Fatalf("extractDocx() error = %v", err)
	}
	if !strings.Contains(got, "Primera línea") || !strings.Contains(got, "Segunda línea") {
		t.Fatalf("extractDocx() = %q, want both paragraphs", got)
	}
}

func TestExtractDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	_, _ = w.Write([]byte("<styles/>"))
	_ = zw.Close()

	if _, err := extractDocx(buf.Bytes()); err == nil {
		t.Fatalf("extractDocx() expected error when document.xml is missing")
	}
}

func TestAnalyzeImageWithoutVisionSupport(t *testing.T) {
	a := New(&stubBrain{}, 0)
	got := a.AnalyzeImage(context.Background(), "image/png", []byte{1, 2, 3}, "")
	if !strings.HasPrefix(got, "[Análisis de imagen no disponible") {
		t.Fatalf("AnalyzeImage() = %q, want bracketed unsupported notice", got)
	}
}

func TestAnalyzeImageUsesCaptionAsGoal(t *testing.T) {
	mock := brain.NewMockAdapter()
	a := New(mock, 0)
	got := a.AnalyzeImage(context.Background(), "image/jpeg", []byte{0xff}, "resuelve el ejercicio")
	if strings.TrimSpace(got) == "" {
		t.Fatalf("AnalyzeImage() returned empty description")
	}
}
