package main

import (
	"fmt"
	"os"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/config"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/datakey"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/db"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store/file"
	storegorm "github.com/doodlesbykumbi/oauth2-client-authn/pkg/store/gorm"
)

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCipher builds the data key cipher from CLIENTAUTHN_DATA_KEY.
func loadCipher() (*datakey.Symmetric, error) {
	dataKeyB64, ok := os.LookupEnv("CLIENTAUTHN_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("CLIENTAUTHN_DATA_KEY environment variable is required")
	}

	cipher, err := datakey.FromBase64(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("invalid CLIENTAUTHN_DATA_KEY: %w", err)
	}
	return cipher, nil
}

// openDatabaseDirectory connects to DATABASE_URL and returns the GORM backed directory.
func openDatabaseDirectory() (*storegorm.ClientDirectory, error) {
	cipher, err := loadCipher()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return storegorm.NewClientDirectory(database, cipher), nil
}

// openDirectory opens the client directory named by cfg.
func openDirectory(cfg *config.Config) (store.ClientDirectory, error) {
	switch cfg.ClientDirectory {
	case config.DirectoryDatabase:
		directory, err := openDatabaseDirectory()
		if err != nil {
			return nil, err
		}
		return directory, nil
	case config.DirectoryFile:
		directory, err := file.Open(cfg.ClientsFile)
		if err != nil {
			return nil, err
		}
		return directory, nil
	default:
		return nil, fmt.Errorf("invalid client_directory value: %s", cfg.ClientDirectory)
	}
}
