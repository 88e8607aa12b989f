package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	devConfig "github.com/haven-app/haven/dev/config"
	"github.com/haven-app/haven/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a haven server",
	Long:  `The haven server exposes the voice-chat relay & the user directory HTTP API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(serverConfig(), isDevEnv)
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

func serverConfig() *viper.Viper {
	config = viper.New()

	if isDevEnv {
		serverConfigFile = devConfigFilePath()
	}

	config.SetConfigFile(serverConfigFile)

	// API keys & the voice override can be supplied through the
	// environment instead of the config file; env values win.
	config.BindEnv("gemini.apiKey", "GEMINI_API_KEY")
	config.BindEnv("elevenlabs.apiKey", "ELEVENLABS_API_KEY")
	config.BindEnv("elevenlabs.voiceId", "ELEVENLABS_VOICE_ID")
	config.AutomaticEnv()

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		log.Panic(fmt.Sprintf("error reading server config file: %v", err))
	}

	return config
}

// devConfigFilePath returns the dev-mode config file, creating it from
// the embedded default when it doesn't exist yet.
func devConfigFilePath() string {
	configDir, err := os.Getwd()
	if err != nil {
		log.Panic(err)
	}

	configFilePath := filepath.Join(configDir, "dev", "config", "server.yml")
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if err := os.WriteFile(configFilePath, []byte(devConfig.SERVER_YML), 0600); err != nil {
			log.Panic(err)
		}
	}

	return configFilePath
}
