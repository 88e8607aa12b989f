package config

const SERVER_YML = `
haven:
  listener:
    port: 3000

sqlite:
  passPhrase: passphrase

gemini:
  apiKey:
  model: "gemini-2.0-flash-exp"

elevenlabs:
  apiKey:
  voiceId:
`
