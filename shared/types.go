package shared

type ServerConfig struct {
	Haven      HavenConfig      `mapstructure:"haven" validate:"required"`
	Sqlite     SqliteConfig     `mapstructure:"sqlite" validate:"required"`
	Gemini     GeminiConfig     `mapstructure:"gemini" validate:"required"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs" validate:"required"`
}

type HavenConfig struct {
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"apiKey" validate:"required"`
	Model  string `mapstructure:"model"`
}

type ElevenLabsConfig struct {
	APIKey string `mapstructure:"apiKey" validate:"required"`

	// VoiceID is optional; the speech relay falls back to a built-in
	// default voice when it's not set.
	VoiceID string `mapstructure:"voiceId"`
}
