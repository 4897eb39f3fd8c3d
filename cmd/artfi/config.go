package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"Artfi/internal/ledger"
)

// Config holds the CLI configuration.
type Config struct {
	// DataPath is the directory for persistent storage.
	DataPath string

	// KeyPath is the path to the Ed25519 private key file of the sender.
	KeyPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Journal enables the persistent event journal.
	Journal bool

	// PrivateKey is the sender's Ed25519 key.
	PrivateKey ed25519.PrivateKey
}

// Sender returns the ledger address of the configured key.
func (c *Config) Sender() ledger.Address {
	var addr ledger.Address
	copy(addr[:], c.PrivateKey.Public().(ed25519.PublicKey))

	return addr
}

// registerFlags declares the global flags on fs.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.String("data", "./data", "Data directory path")
	fs.String("key", "./artfi.key", "Ed25519 private key path (generates new if missing)")
	fs.String("log-level", "info", "Log level: debug|info|warn|error")
	fs.Bool("journal", true, "Persist committed events")
}

// loadConfig layers flags over an optional YAML file and ARTFI_* environment
// variables. Explicit flags win, then env, then the file, then flag defaults.
func loadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("ARTFI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags:\n%w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s:\n%w", path, err)
		}
	}

	cfg := &Config{
		DataPath: v.GetString("data"),
		KeyPath:  v.GetString("key"),
		LogLevel: v.GetString("log-level"),
		Journal:  v.GetBool("journal"),
	}

	if cfg.DataPath == "" {
		return nil, fmt.Errorf("data path is empty")
	}

	return cfg, nil
}

// loadOrGenerateKey loads the private key from file or generates a new one.
func loadOrGenerateKey(keyPath string) (ed25519.PrivateKey, error) {
	if keyPath == "" {
		return generateNewKey()
	}

	data, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		return generateAndSaveKey(keyPath)
	}

	if err != nil {
		return nil, fmt.Errorf("read key file:\n%w", err)
	}

	if len(data) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid key size: got %d, want %d", len(data), ed25519.PrivateKeySize)
	}

	return ed25519.PrivateKey(data), nil
}

// generateNewKey creates a new Ed25519 private key.
func generateNewKey() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key:\n%w", err)
	}

	return priv, nil
}

// generateAndSaveKey creates a new key and saves it to the given path.
func generateAndSaveKey(path string) (ed25519.PrivateKey, error) {
	priv, err := generateNewKey()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, priv, 0600); err != nil {
		return nil, fmt.Errorf("save key to %s:\n%w", path, err)
	}

	return priv, nil
}
