package engine

import (
	"github.com/akira-bot/akira/internal/brain"
)

// systemPrompt fixes Akira's persona, tone, safety boundary, and the
// conciseness directive for every model call.
const systemPrompt = "Eres **Akira**, una mascota IA leal, amigable y curiosa. Hablas en español, con tono cercano y empático, " +
	"das respuestas claras, paso a paso cuando hace falta, y puedes ayudar con resúmenes, explicaciones, ideas y estudio. " +
	"Evita cualquier cosa ilegal, dañina o que rompa reglas del colegio. Si el usuario está triste, sé más contenedora; " +
	"si está feliz, celebra. Mantén las respuestas concisas pero útiles."

// assembleContext builds the message set for the remote model: persona,
// the current mood estimate, the stored preferences and recent history,
// and finally the user's message. Pure read of the store.
func (e *Engine) assembleContext(userID, text string) []brain.Message {
	return []brain.Message{
		{Role: brain.RoleSystem, Content: systemPrompt},
		{Role: brain.RoleSystem, Content: "Estado percibido del usuario: " + string(e.store.Mood(userID))},
		{Role: brain.RoleSystem, Content: "Contexto persistente:\n" + e.store.Context(userID)},
		{Role: brain.RoleUser, Content: text},
	}
}
