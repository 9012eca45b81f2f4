package klaviyo

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/lexfrei/go-klaviyo/apierror"
)

// IDType names the kind of identifier in a deletion request.
type IDType string

// Identifier kinds accepted by RequestProfileDeletion.
const (
	IDTypeEmail       IDType = "email"
	IDTypePhoneNumber IDType = "phone_number"
	IDTypePersonID    IDType = "person_id"
)

var deletionIDTypes = []IDType{IDTypeEmail, IDTypePhoneNumber, IDTypePersonID}

// DataPrivacyService handles data subject requests (v2).
type DataPrivacyService struct {
	client *Client
}

// RequestProfileDeletion asks for every profile matching identifier to be deleted.
// An empty idType means IDTypeEmail.
func (s *DataPrivacyService) RequestProfileDeletion(ctx context.Context, identifier string, idType IDType) (*Result, error) {
	if idType == "" {
		idType = IDTypeEmail
	}
	if !slices.Contains(deletionIDTypes, idType) {
		names := make([]string, len(deletionIDTypes))
		for i, t := range deletionIDTypes {
			names[i] = string(t)
		}
		return nil, apierror.Configurationf("invalid id type %q, must be one of: %s", idType, strings.Join(names, ", "))
	}

	return s.client.RequestV2(ctx, http.MethodPost, "data-privacy/deletion-request", &Options{
		JSON: NewParams(string(idType), identifier),
	})
}
