// Package klaviyo is a client for the Klaviyo legacy REST API.
//
// Three API generations share one request pipeline and differ only in how
// credentials travel:
//   - Public endpoints (track, identify) carry the public key inside a base64
//     JSON "data" query parameter and are always GET.
//   - v1 endpoints carry the private key as the "api_key" query parameter.
//   - v2 endpoints carry the private key in the "api-key" header.
//
// # Example Usage
//
//	client, err := klaviyo.New("PUBLIC_KEY", "pk_private")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Lists().CreateList(ctx, "Newsletter")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Map()["list_id"])
//
// Raw calls go through the facade:
//
//	result, err := client.RequestV2(ctx, http.MethodPost, "lists", &klaviyo.Options{
//	    JSON: klaviyo.NewParams("list_name", "Newsletter"),
//	})
//
// # Errors
//
// Every failure is an *apierror.Error. Use errors.Is with the apierror
// sentinels to branch on its kind:
//
//	if errors.Is(err, apierror.ErrRateLimited) {
//	    wait, _ := apierror.RetryAfter(err)
//	    ...
//	}
//
// Requests are never retried implicitly; see Retry for an opt-in policy.
//
// # Rate Limiting
//
// Each generation has its own client-side token bucket, 700 requests per
// minute by default. Set a negative rate in ClientConfig to disable one.
//
// # Observability
//
// ClientConfig accepts an observability.Logger and MetricsRecorder.
// Credentials never appear in logs or error messages.
package klaviyo
