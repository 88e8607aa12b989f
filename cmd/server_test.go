package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haven-app/haven/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerYML = `
haven:
  listener:
    port: 3000

sqlite:
  passPhrase: passphrase

gemini:
  apiKey: "file-gemini-key"
  model: "gemini-2.0-flash-exp"

elevenlabs:
  apiKey: "file-elevenlabs-key"
  voiceId: "file-voice"
`

func writeTestConfigFile(t *testing.T) {
	t.Helper()

	configFilePath := filepath.Join(t.TempDir(), "server.yml")
	require.Nil(t, os.WriteFile(configFilePath, []byte(testServerYML), 0600))

	previous := serverConfigFile
	serverConfigFile = configFilePath
	t.Cleanup(func() { serverConfigFile = previous })
}

func TestServerConfigFromFile(t *testing.T) {
	writeTestConfigFile(t)

	decoded := shared.ServerConfig{}
	require.Nil(t, serverConfig().Unmarshal(&decoded))

	assert.Equal(t, 3000, decoded.Haven.Listener.Port)
	assert.Equal(t, "file-gemini-key", decoded.Gemini.APIKey)
	assert.Equal(t, "file-elevenlabs-key", decoded.ElevenLabs.APIKey)
	assert.Equal(t, "file-voice", decoded.ElevenLabs.VoiceID)
}

func TestServerConfigEnvOverrides(t *testing.T) {
	writeTestConfigFile(t)

	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("ELEVENLABS_API_KEY", "env-elevenlabs-key")
	t.Setenv("ELEVENLABS_VOICE_ID", "env-voice")

	decoded := shared.ServerConfig{}
	require.Nil(t, serverConfig().Unmarshal(&decoded))

	assert.Equal(t, "env-gemini-key", decoded.Gemini.APIKey, "env value should win over the config file")
	assert.Equal(t, "env-elevenlabs-key", decoded.ElevenLabs.APIKey)
	assert.Equal(t, "env-voice", decoded.ElevenLabs.VoiceID)

	// untouched keys still come from the file
	assert.Equal(t, "passphrase", decoded.Sqlite.PassPhrase)
}
