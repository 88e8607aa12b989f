package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/haven-app/haven/server/elevenlabs"
)

// speechFallbackReply is spoken when the model returns no usable text.
const speechFallbackReply = "Sorry, I didn't catch that."

type chatParams struct {
	Text string `json:"text"`
}

// speechRelayHandler relays a prompt through text generation & speech
// synthesis, returning the synthesized mp3 audio. No state is kept
// between invocations.
func speechRelayHandler(rw http.ResponseWriter, r *http.Request) {
	params := chatParams{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeChatError(rw, err)
		return
	}

	if params.Text == "" {
		writeResponse(rw, chatErrorPayload{Error: "No text provided"}, http.StatusBadRequest)
		return
	}

	logg.Infof("Received text: %v", params.Text)

	reply, err := textGenerator.GenerateReply(r.Context(), params.Text)
	if err != nil {
		writeChatError(rw, err)
		return
	}

	if reply == "" {
		reply = speechFallbackReply
	}

	logg.Infof("Gemini reply: %v", reply)

	voiceID := speechVoiceID
	if voiceID == "" {
		voiceID = elevenlabs.DefaultVoiceID
	}

	audio, err := synthesizer.Synthesize(r.Context(), voiceID, elevenlabs.DefaultModelID, reply)
	if err != nil {
		writeChatError(rw, err)
		return
	}

	logg.Infof("Generated audio, size: %v", len(audio))

	rw.Header().Set("Content-Type", "audio/mpeg")
	rw.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	rw.Write(audio)
}

func writeChatError(rw http.ResponseWriter, err error) {
	logg.Errorf("Chat route error: %v", err)

	message := err.Error()
	if message == "" {
		message = "Server error"
	}

	writeResponse(rw, errorPayload{Error: message}, http.StatusInternalServerError)
}
