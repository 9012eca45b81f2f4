package klaviyo

import "context"

// API is the request surface of Client. It lets consumers substitute a mock
// in their tests.
//
// Example with testify/mock:
//
//	type MockAPI struct {
//	    mock.Mock
//	}
//
//	func (m *MockAPI) RequestV2(ctx context.Context, method, path string, opts *klaviyo.Options) (*klaviyo.Result, error) {
//	    args := m.Called(ctx, method, path, opts)
//	    return args.Get(0).(*klaviyo.Result), args.Error(1)
//	}
type API interface {
	// PublicRequest sends a GET to a public endpoint authenticated by the public key.
	PublicRequest(ctx context.Context, path string, query Params) (*Result, error)

	// RequestV1 sends a request to a v1 endpoint authenticated by the api_key parameter.
	RequestV1(ctx context.Context, method, path string, opts *Options) (*Result, error)

	// RequestV2 sends a request to a v2 endpoint authenticated by the api-key header.
	RequestV2(ctx context.Context, method, path string, opts *Options) (*Result, error)
}
