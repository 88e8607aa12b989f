package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/haven-app/haven/utils"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type chatErrorPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeResponse(rw http.ResponseWriter, payload interface{}, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payload)
}

// writeUpstreamError reports a collaborator failure: logs the handler's
// diagnostic label & responds 500 with the upstream message attached.
func writeUpstreamError(rw http.ResponseWriter, label string, err error) {
	logg.Errorf("%v: %v", label, err)
	writeResponse(rw, errorPayload{Error: label, Message: err.Error()}, http.StatusInternalServerError)
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Haven server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server) {
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Haven server shutdown failed:%+s", err)
	}

	logg.Infof("Haven server stopped properly")
}

// configDirectory retrieves the directory used for the sqlite store
// Or logs an error message and then calls os.Exit if it's unable to.
func configDirectory(devMode bool) string {
	// Use 'haven' folder in home directory for prod
	configFolderName := "haven"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
