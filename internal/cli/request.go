package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
)

type requestOptions struct {
	query []string
	form  []string
	data  string
}

func (a *app) newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Send a raw request to any endpoint",
		Long: `Send a request to an endpoint the other commands do not cover. Paths are
relative to the API generation, e.g. "lists" for v2 or "metrics" for v1.`,
		Example: `  klaviyo request v2 GET lists
  klaviyo request v2 POST lists --data '{"list_name":"VIP"}'
  klaviyo request v1 GET metrics --query count=10
  klaviyo request v1 POST email-template/AbC123/render --form context='{"name":"Bo"}'
  klaviyo request public track --query event=Ping --query customer_properties='{"$email":"a@b.c"}'`,
	}

	cmd.AddCommand(
		a.newPrivateRequestCmd("v1", func(c *klaviyo.Client) privateRequester { return c.RequestV1 }),
		a.newPrivateRequestCmd("v2", func(c *klaviyo.Client) privateRequester { return c.RequestV2 }),
		a.newPublicRequestCmd(),
	)

	return cmd
}

type privateRequester func(ctx context.Context, method, path string, opts *klaviyo.Options) (*klaviyo.Result, error)

func (a *app) newPrivateRequestCmd(generation string, pick func(*klaviyo.Client) privateRequester) *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   generation + " <method> <path>",
		Short: "Send a request to a " + generation + " endpoint with the private key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqOpts, err := opts.build()
			if err != nil {
				return err
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			send := pick(client)
			method := strings.ToUpper(args[0])
			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return send(ctx, method, args[1], reqOpts)
			})
			if err != nil {
				return err
			}

			return a.printResult(result)
		},
	}

	cmd.Flags().StringArrayVar(&opts.query, "query", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.form, "form", nil, "Form field as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.data, "data", "", "JSON request body")

	return cmd
}

func (a *app) newPublicRequestCmd() *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:   "public <path>",
		Short: "Send a request to a public endpoint with the public key",
		Long: `Send a GET to a public endpoint. Values that look like JSON objects or
arrays are sent as JSON; everything else is sent as a string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseKeyValues(query)
			if err != nil {
				return err
			}
			params = decodeJSONValues(params)

			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.PublicRequest(ctx, args[0], params)
			})
			if err != nil {
				return err
			}

			return a.printResult(result)
		},
	}

	cmd.Flags().StringArrayVar(&query, "query", nil, "Payload field as key=value (repeatable)")

	return cmd
}

func (o *requestOptions) build() (*klaviyo.Options, error) {
	query, err := parseKeyValues(o.query)
	if err != nil {
		return nil, err
	}
	form, err := parseKeyValues(o.form)
	if err != nil {
		return nil, err
	}

	opts := &klaviyo.Options{Query: query, Form: form}
	if o.data != "" {
		if form.Len() > 0 {
			return nil, errors.New("--data and --form are mutually exclusive")
		}
		if !json.Valid([]byte(o.data)) {
			return nil, errors.New("--data must be valid JSON")
		}
		opts.JSON = json.RawMessage(o.data)
	}

	return opts, nil
}

// decodeJSONValues replaces object and array strings with their decoded value.
func decodeJSONValues(params klaviyo.Params) klaviyo.Params {
	var out klaviyo.Params
	params.Range(func(key string, value any) bool {
		s, _ := value.(string)
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				value = decoded
			}
		}
		out.Set(key, value)
		return true
	})

	return out
}
