package klaviyo

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/lexfrei/go-klaviyo/apierror"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPublicKey  = "KLAVIYO_PUBLIC_KEY"
	EnvPrivateKey = "KLAVIYO_PRIVATE_KEY"
	EnvBaseURL    = "KLAVIYO_BASE_URL"
)

// ConfigFromEnv builds a ClientConfig from the environment after loading the
// given dotenv files (".env" when none are given). Missing files are ignored
// and variables already set in the environment win over file values.
func ConfigFromEnv(files ...string) (*ClientConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load env file")
	}

	cfg := &ClientConfig{
		PublicKey:  os.Getenv(EnvPublicKey),
		PrivateKey: os.Getenv(EnvPrivateKey),
		BaseURL:    os.Getenv(EnvBaseURL),
	}

	if cfg.PublicKey == "" && cfg.PrivateKey == "" {
		return nil, apierror.Configurationf("%s or %s is required", EnvPublicKey, EnvPrivateKey)
	}

	return cfg, nil
}
