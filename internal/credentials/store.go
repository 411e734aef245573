package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	EnvUsername = "GITHUB_USERNAME"
	EnvToken    = "GITHUB_TOKEN"
)

type Config struct {
	// File is the dotenv file credentials are persisted to.
	File string
}

// Store reads and writes the operator's account identity.
// Reads consult the process environment first and fall back to the file.
type Store struct {
	config Config

	lookupEnv func(string) (string, bool)
	setEnv    func(string, string) error

	logger *zap.Logger
}

func NewStore(config Config, logger *zap.Logger) *Store {
	return &Store{
		config: config,

		lookupEnv: os.LookupEnv,
		setEnv:    os.Setenv,

		logger: logger,
	}
}

// Load returns the current credentials. Missing values are left empty;
// callers decide which fields they require.
func (s *Store) Load() (Credentials, error) {
	file, err := s.readFile()
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Username: s.value(EnvUsername, file),
		Token:    s.value(EnvToken, file),
	}, nil
}

// Save persists the credentials to the file and exports them to the process environment.
func (s *Store) Save(creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.config.File); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create credentials directory: %w", err)
		}
	}

	if err := godotenv.Write(map[string]string{
		EnvUsername: creds.Username,
		EnvToken:    creds.Token,
	}, s.config.File); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := s.setEnv(EnvUsername, creds.Username); err != nil {
		return fmt.Errorf("failed to export username: %w", err)
	}
	if err := s.setEnv(EnvToken, creds.Token); err != nil {
		return fmt.Errorf("failed to export token: %w", err)
	}

	s.logger.Info("credentials saved",
		zap.String("file", s.config.File),
		zap.String("username", creds.Username))

	return nil
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.config.File
}

func (s *Store) value(key string, file map[string]string) string {
	if v, ok := s.lookupEnv(key); ok && v != "" {
		return v
	}
	return file[key]
}

func (s *Store) readFile() (map[string]string, error) {
	if s.config.File == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(s.config.File)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		s.logger.Error("failed to read credentials file", zap.String("file", s.config.File), zap.Error(err))
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return values, nil
}
