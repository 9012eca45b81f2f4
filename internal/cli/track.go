package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
)

const maxLineSize = 1 << 20

type trackOptions struct {
	event       string
	email       string
	id          string
	phone       string
	customer    string
	properties  string
	unixTime    int64
	once        bool
	file        string
	concurrency int
}

func (a *app) newTrackCmd() *cobra.Command {
	opts := &trackOptions{}

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track customer events",
		Long: `Track one event described by flags, or many events read from a JSON Lines
file. Each line holds an object with "event", "customer_properties",
"properties" and an optional unix "time".`,
		Example: `  # Track a single event
  klaviyo track --event "Viewed Product" --email alice@example.com --properties '{"sku":"A1"}'

  # Track a batch with 8 concurrent requests
  klaviyo track --file events.jsonl --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.file != "" {
				return a.runTrackFile(cmd, opts)
			}
			return a.runTrackOne(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.event, "event", "", "Event name")
	f.StringVar(&opts.email, "email", "", "Customer email")
	f.StringVar(&opts.id, "id", "", "Customer external ID")
	f.StringVar(&opts.phone, "phone", "", "Customer phone number")
	f.StringVar(&opts.customer, "customer", "", "Extra customer properties as a JSON object")
	f.StringVar(&opts.properties, "properties", "", "Event properties as a JSON object")
	f.Int64Var(&opts.unixTime, "time", 0, "Event time as a unix timestamp (default now)")
	f.BoolVar(&opts.once, "once", false, "Track only if the customer has no event with this name yet")
	f.StringVar(&opts.file, "file", "", "JSON Lines file of events, - for stdin")
	f.IntVar(&opts.concurrency, "concurrency", 4, "Concurrent requests when tracking a file")

	return cmd
}

func (a *app) runTrackOne(cmd *cobra.Command, opts *trackOptions) error {
	attrs, err := parseObject("customer", opts.customer)
	if err != nil {
		return err
	}
	customer, err := profileFromFlags(attrs, opts.email, opts.id, opts.phone)
	if err != nil {
		return err
	}
	properties, err := parseObject("properties", opts.properties)
	if err != nil {
		return err
	}

	event := &klaviyo.Event{Name: opts.event, Customer: customer, Properties: properties}
	if opts.unixTime != 0 {
		event.Time = time.Unix(opts.unixTime, 0)
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
		if opts.once {
			return client.Public().TrackOnce(ctx, event)
		}
		return client.Public().Track(ctx, event)
	})
	if err != nil {
		return err
	}

	if !klaviyo.Accepted(result) {
		return errors.New("event was not accepted")
	}

	a.streams.Printf("%s\n", a.streams.Success("event tracked"))
	return nil
}

type eventLine struct {
	Event      string         `json:"event"`
	Customer   map[string]any `json:"customer_properties"`
	Properties map[string]any `json:"properties"`
	Time       int64          `json:"time"`
}

func (a *app) runTrackFile(cmd *cobra.Command, opts *trackOptions) error {
	if opts.concurrency < 1 {
		return errors.New("--concurrency must be at least 1")
	}

	var in io.Reader = a.streams.In
	if opts.file != "-" {
		file, err := os.Open(opts.file)
		if err != nil {
			return errors.Wrap(err, "failed to open events file")
		}
		defer file.Close()
		in = file
	}

	events, err := readEvents(in)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var tracked atomic.Int64
	p := pool.New().WithMaxGoroutines(opts.concurrency).WithErrors().WithContext(ctx)
	for i, event := range events {
		p.Go(func(context.Context) error {
			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Public().Track(ctx, event)
			})
			if err != nil {
				return errors.Wrapf(err, "event %d", i+1)
			}
			if !klaviyo.Accepted(result) {
				return errors.Newf("event %d was not accepted", i+1)
			}
			tracked.Add(1)
			return nil
		})
	}

	err = p.Wait()
	a.streams.Printf("tracked %d of %d events\n", tracked.Load(), len(events))

	return err //nolint:wrapcheck // joined per-event errors
}

// readEvents parses and validates every line before anything is sent.
func readEvents(in io.Reader) ([]*klaviyo.Event, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []*klaviyo.Event
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw eventLine
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}

		customer, err := klaviyo.ProfileFromMap(raw.Customer)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}

		event := &klaviyo.Event{Name: raw.Event, Customer: customer, Properties: raw.Properties}
		if raw.Time != 0 {
			event.Time = time.Unix(raw.Time, 0)
		}
		if err := event.Validate(); err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}

		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read events")
	}
	if len(events) == 0 {
		return nil, errors.New("no events to track")
	}

	return events, nil
}

// profileFromFlags merges identifier flags into attrs and builds a profile.
func profileFromFlags(attrs map[string]any, email, id, phone string) (*klaviyo.Profile, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	for key, value := range map[string]string{
		klaviyo.AttrEmail:       email,
		klaviyo.AttrID:          id,
		klaviyo.AttrPhoneNumber: phone,
	} {
		if value != "" {
			attrs[key] = value
		}
	}

	return klaviyo.ProfileFromMap(attrs)
}
