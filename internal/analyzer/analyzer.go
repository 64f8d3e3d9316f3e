// Package analyzer handles inbound media: images are described through the
// brain's vision capability, documents are reduced to text and summarized.
// By convention every failure is rendered as a bracketed inline string so
// the webhook can always answer with something readable.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/akira-bot/akira/internal/brain"
)

// Mode selects what the user wants done with a document.
type Mode string

const (
	ModeSummary Mode = "resumen"
	ModeExplain Mode = "explicar"
)

// DetectMode picks the document mode from the message accompanying the
// upload; any "explain" phrasing switches from the default summary.
func DetectMode(body string) Mode {
	bl := strings.ToLower(body)
	for _, k := range []string{"explica", "explícame", "explicame", "explicar"} {
		if strings.Contains(bl, k) {
			return ModeExplain
		}
	}
	return ModeSummary
}

const (
	defaultImageGoal = "Analiza y resuelve si es una tarea; explica paso a paso."
	visionPersona    = "Eres Akira, una mascota IA que analiza imágenes de manera útil y amigable."
	documentPersona  = "Eres Akira, una IA útil y amigable."
)

// DefaultDocMaxChars caps extracted document text fed to the model.
const DefaultDocMaxChars = 10000

type Analyzer struct {
	brain       brain.Adapter
	docMaxChars int
}

func New(adapter brain.Adapter, docMaxChars int) *Analyzer {
	if docMaxChars <= 0 {
		docMaxChars = DefaultDocMaxChars
	}
	return &Analyzer{brain: adapter, docMaxChars: docMaxChars}
}

// AnalyzeImage describes an inbound image, using the caption as the goal
// when the user wrote one.
func (a *Analyzer) AnalyzeImage(ctx context.Context, contentType string, data []byte, goal string) string {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = defaultImageGoal
	}

	vision, ok := a.brain.(brain.VisionAdapter)
	if !ok {
		return "[Análisis de imagen no disponible con este proveedor.]"
	}

	desc, err := vision.DescribeImage(ctx, brain.VisionRequest{
		ContentType: contentType,
		Data:        data,
		Goal:        goal,
		Persona:     visionPersona,
	})
	if err != nil {
		return fmt.Sprintf("[Error al analizar imagen: %v]", err)
	}
	return strings.TrimSpace(desc)
}

// HandleDocument extracts text from a PDF, DOCX, or plain-text upload and
// asks the model for a summary or explanation.
func (a *Analyzer) HandleDocument(ctx context.Context, contentType string, data []byte, mode Mode) string {
	text, err := a.extractText(contentType, data)
	if err != nil {
		return fmt.Sprintf("[Error extrayendo el documento: %v]", err)
	}
	if strings.TrimSpace(text) == "" {
		return "[No se pudo extraer texto del documento.]"
	}

	if runes := []rune(text); len(runes) > a.docMaxChars {
		text = string(runes[:a.docMaxChars])
	}

	prompt := "Resume el contenido del documento brevemente."
	if mode == ModeExplain {
		prompt = "Explica detalladamente el contenido del documento."
	}

	reply, err := a.brain.Complete(ctx, brain.CompletionRequest{
		Messages: []brain.Message{
			{Role: brain.RoleSystem, Content: documentPersona},
			{Role: brain.RoleUser, Content: prompt + "\n\nTexto:\n" + text},
		},
	})
	if err != nil {
		return fmt.Sprintf("[Error procesando documento: %v]", err)
	}
	return strings.TrimSpace(reply)
}

func (a *Analyzer) extractText(contentType string, data []byte) (string, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return extractPDF(data)
	case strings.Contains(ct, "word") || strings.Contains(ct, "docx") || strings.Contains(ct, "officedocument"):
		return extractDocx(data)
	default:
		return string(data), nil
	}
}
