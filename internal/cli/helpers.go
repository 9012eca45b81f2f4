package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/internal/output"
	"github.com/lexfrei/go-klaviyo/observability"
)

// newClient creates a client from flags, environment and config files.
func (a *app) newClient() (*klaviyo.Client, error) {
	cfg := &klaviyo.ClientConfig{
		PublicKey:  a.v.GetString(keyPublicKey),
		PrivateKey: a.v.GetString(keyPrivateKey),
		BaseURL:    a.v.GetString(keyBaseURL),
		Timeout:    a.v.GetDuration(keyTimeout),
	}

	if a.v.GetBool(keyDebug) {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(a.streams.ErrOut),
			zap.DebugLevel,
		)
		cfg.Logger = observability.NewZapLogger(zap.New(core, zap.Development()))
	}

	return klaviyo.NewWithConfig(cfg)
}

// call runs op, wrapped in klaviyo.Retry when --retries is set.
func (a *app) call(cmd *cobra.Command, op func(ctx context.Context) (*klaviyo.Result, error)) (*klaviyo.Result, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	retries := a.v.GetInt(keyRetries)
	if retries <= 0 {
		return op(ctx)
	}

	return klaviyo.Retry(ctx, klaviyo.RetryConfig{MaxRetries: retries, Endpoint: cmd.CommandPath()}, op)
}

// printResult writes the decoded body as JSON, filtered by --jq when set.
// Public results, which carry no decoded data, print their raw body.
func (a *app) printResult(result *klaviyo.Result) error {
	if result.Data == nil {
		a.streams.Printf("%s\n", strings.TrimSpace(string(result.Body)))
		return nil
	}

	if a.jq != "" {
		return output.ApplyJQ(a.streams.Out, result.Data, a.jq)
	}

	return output.PrintJSON(a.streams.Out, result.Data)
}

// printItems prints the records of result as a table, or as JSON when --json
// or --jq is set.
func (a *app) printItems(result *klaviyo.Result, field string, columns []output.Column) error {
	if a.jsonOut || a.jq != "" {
		return a.printResult(result)
	}

	return output.PrintRecords(a.streams.Out, output.Records(result.Data, field), columns, a.streams.IsTerminal())
}

// parseKeyValues turns repeated key=value flags into ordered params.
func parseKeyValues(pairs []string) (klaviyo.Params, error) {
	var params klaviyo.Params
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return params, errors.Newf("invalid parameter %q, expected key=value", pair)
		}
		params.Set(key, value)
	}

	return params, nil
}

// parseObject decodes a JSON object flag. An empty string yields nil.
func parseObject(name, raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, errors.Wrapf(err, "--%s must be a JSON object", name)
	}

	return obj, nil
}
