// Package cli defines the commands of the klaviyo tool.
package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexfrei/go-klaviyo/internal/iostreams"
)

// Viper keys shared by every command.
const (
	keyPublicKey  = "public_key"
	keyPrivateKey = "private_key"
	keyBaseURL    = "base_url"
	keyTimeout    = "timeout"
	keyRetries    = "retries"
	keyDebug      = "debug"
	keyQuiet      = "quiet"
)

type app struct {
	streams *iostreams.IOStreams
	v       *viper.Viper

	envFile    string
	configFile string
	jq         string
	jsonOut    bool

	// setupErr holds flag binding failures until a command runs.
	setupErr error
}

// NewRootCmd returns the klaviyo command tree writing to streams.
func NewRootCmd(streams *iostreams.IOStreams) *cobra.Command {
	a := &app{streams: streams, v: viper.New()}

	root := &cobra.Command{
		Use:   "klaviyo",
		Short: "Klaviyo CLI - track events, identify profiles and call the legacy API",
		Long: `klaviyo is a command-line client for the Klaviyo legacy API.

Public endpoints (track, identify) use the public key; v1 and v2 endpoints use
the private key. Keys are read from flags, the KLAVIYO_PUBLIC_KEY and
KLAVIYO_PRIVATE_KEY environment variables, a .env file, or
~/.config/klaviyo/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if a.setupErr != nil {
				return a.setupErr
			}
			return a.loadConfig()
		},
	}

	a.v.SetEnvPrefix("KLAVIYO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	pf := root.PersistentFlags()
	pf.String("public-key", "", "Public API key (env: KLAVIYO_PUBLIC_KEY)")
	pf.String("private-key", "", "Private API key (env: KLAVIYO_PRIVATE_KEY)")
	pf.String("base-url", "", "API base URL (env: KLAVIYO_BASE_URL)")
	pf.Duration("timeout", 0, "Request timeout, e.g. 10s (default 30s)")
	pf.Int("retries", 0, "Retry rate limited and failed requests up to N times")
	pf.Bool("debug", false, "Log HTTP requests to stderr")
	pf.BoolP("quiet", "q", false, "Suppress non-essential output")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringVar(&a.configFile, "config", "", "YAML config file (default ~/.config/klaviyo/config.yaml)")
	pf.StringVar(&a.jq, "jq", "", "Filter JSON output with a jq expression")
	pf.BoolVar(&a.jsonOut, "json", false, "Print raw JSON instead of a table")

	for key, flag := range map[string]string{
		keyPublicKey:  "public-key",
		keyPrivateKey: "private-key",
		keyBaseURL:    "base-url",
		keyTimeout:    "timeout",
		keyRetries:    "retries",
		keyDebug:      "debug",
		keyQuiet:      "quiet",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			a.setupErr = errors.CombineErrors(a.setupErr, errors.Wrapf(err, "failed to bind flag --%s", flag))
		}
	}

	root.AddCommand(
		a.newTrackCmd(),
		a.newIdentifyCmd(),
		a.newListsCmd(),
		a.newProfilesCmd(),
		a.newMetricsCmd(),
		a.newTemplatesCmd(),
		a.newRequestCmd(),
		a.newVersionCmd(),
	)

	return root
}

// loadConfig reads the dotenv and YAML config files. Environment variables
// already set win over dotenv values; flags win over everything.
func (a *app) loadConfig() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "failed to load env file %s", a.envFile)
		}
	}

	a.streams.SetQuiet(a.v.GetBool(keyQuiet))

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		return a.v.ReadInConfig() //nolint:wrapcheck // viper errors name the file
	}

	if home, err := os.UserHomeDir(); err == nil {
		a.v.SetConfigFile(filepath.Join(home, ".config", "klaviyo", "config.yaml"))
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(err, "failed to read config file")
		}
	}

	return nil
}

// Execute runs the CLI against the process streams.
func Execute(ctx context.Context) error {
	streams := iostreams.New()

	if err := NewRootCmd(streams).ExecuteContext(ctx); err != nil {
		streams.Errorf("%s\n", streams.Failure("Error: "+err.Error()))
		return err
	}

	return nil
}
