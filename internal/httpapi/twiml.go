package httpapi

import (
	"encoding/xml"
	"net/http"
)

// messagingResponse is the minimal TwiML document Twilio expects back from
// a messaging webhook: one <Message> element per outbound message.
type messagingResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

func writeTwiML(w http.ResponseWriter, parts []string) {
	w.Header().Set("Content-Type", "application/xml")

	out, err := xml.Marshal(messagingResponse{Messages: parts})
	if err != nil {
		// xml.Marshal on a string slice cannot realistically fail, but Twilio
		// must still get a valid document.
		out = []byte("<Response></Response>")
	}
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
