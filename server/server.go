package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/haven-app/haven/server/elevenlabs"
	"github.com/haven-app/haven/server/gemini"
	"github.com/haven-app/haven/server/logger"
	"github.com/haven-app/haven/server/models"
	"github.com/haven-app/haven/server/profile"
	"github.com/haven-app/haven/shared"
	"github.com/spf13/viper"
)

var (
	logg     = logger.NewLogger(true)
	validate = validator.New()

	textGenerator     gemini.TextGenerator
	synthesizer       elevenlabs.Synthesizer
	profileAggregator *profile.Aggregator

	// Optional voice override from config; empty means use the
	// elevenlabs default voice.
	speechVoiceID string
)

// Start runs the haven server until SIGINT/SIGTERM.
func Start(config *viper.Viper, devMode bool) {
	logg = logger.NewLogger(devMode)

	serverConfig := shared.ServerConfig{}
	fatalOnError(config.Unmarshal(&serverConfig))
	fatalOnError(validate.Struct(serverConfig))

	fatalOnError(models.AutoMigrate(serverConfig.Sqlite.PassPhrase, configDirectory(devMode)))

	geminiClient, err := gemini.NewClient(serverConfig.Gemini.APIKey, serverConfig.Gemini.Model)
	fatalOnError(err)

	textGenerator = geminiClient
	synthesizer = elevenlabs.NewClient(serverConfig.ElevenLabs.APIKey)
	profileAggregator = profile.NewAggregator()
	speechVoiceID = serverConfig.ElevenLabs.VoiceID

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Haven.Listener.Port),
		Handler: newRouter(),
	}

	go serve(server)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cleanup(server)
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/api/chat", speechRelayHandler).Methods("POST")

	usersRouter := router.PathPrefix("/api/users").Subrouter()
	usersRouter.HandleFunc("", createUserHandler).Methods("POST")
	usersRouter.HandleFunc("/email/{email}", findUserByEmailHandler).Methods("GET")
	usersRouter.HandleFunc("/{id:[0-9]+}", findUserHandler).Methods("GET")
	usersRouter.HandleFunc("/{id:[0-9]+}", updateUserHandler).Methods("PUT")
	usersRouter.HandleFunc("/{id:[0-9]+}/profile", findProfileHandler).Methods("GET")
	usersRouter.HandleFunc("/{id:[0-9]+}/contacts", addContactHandler).Methods("POST")
	usersRouter.HandleFunc("/{id:[0-9]+}/contacts/{contactId:[0-9]+}", updateContactHandler).Methods("PATCH")
	usersRouter.HandleFunc("/{id:[0-9]+}/contacts/{contactId:[0-9]+}", deleteContactHandler).Methods("DELETE")

	return router
}
