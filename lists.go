package klaviyo

import (
	"context"
	"net/http"
)

// ListsService manages lists, segments and their members (v2).
type ListsService struct {
	client *Client
}

// Identifiers selects list members by email, phone number or push token.
// Empty slices are omitted.
type Identifiers struct {
	Emails       []string
	PhoneNumbers []string
	PushTokens   []string
}

func (ids Identifiers) params() Params {
	return NewParams(
		"emails", emptyToNil(ids.Emails),
		"phone_numbers", emptyToNil(ids.PhoneNumbers),
		"push_tokens", emptyToNil(ids.PushTokens),
	)
}

func emptyToNil(s []string) any {
	if len(s) == 0 {
		return nil
	}
	return s
}

// CreateList creates a list named name.
func (s *ListsService) CreateList(ctx context.Context, name string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodPost, "lists", &Options{
		JSON: NewParams("list_name", name),
	})
}

// GetLists returns every list.
func (s *ListsService) GetLists(ctx context.Context) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "lists", nil)
}

// GetListByID returns the details of one list.
func (s *ListsService) GetListByID(ctx context.Context, listID string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "list/"+listID, nil)
}

// UpdateListName renames a list.
func (s *ListsService) UpdateListName(ctx context.Context, listID, name string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodPut, "list/"+listID, &Options{
		Form: NewParams("list_name", name),
	})
}

// DeleteList deletes a list.
func (s *ListsService) DeleteList(ctx context.Context, listID string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodDelete, "list/"+listID, nil)
}

// AddSubscribersToList subscribes profiles to a list, honoring its opt-in settings.
func (s *ListsService) AddSubscribersToList(ctx context.Context, listID string, profiles []*Profile) (*Result, error) {
	return s.postProfiles(ctx, "list/"+listID+"/subscribe", profiles)
}

// CheckListSubscriptions returns which identifiers are subscribed to a list.
func (s *ListsService) CheckListSubscriptions(ctx context.Context, listID string, ids Identifiers) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "list/"+listID+"/subscribe", &Options{
		JSON: filterParams(ids.params()),
	})
}

// DeleteSubscribersFromList unsubscribes emails from a list.
func (s *ListsService) DeleteSubscribersFromList(ctx context.Context, listID string, emails []string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodDelete, "list/"+listID+"/subscribe", &Options{
		JSON: NewParams("emails", emails),
	})
}

// AddMembersToList adds profiles to a list without opt-in checks.
func (s *ListsService) AddMembersToList(ctx context.Context, listID string, profiles []*Profile) (*Result, error) {
	return s.postProfiles(ctx, "list/"+listID+"/members", profiles)
}

// CheckListMembership returns which identifiers are members of a list.
func (s *ListsService) CheckListMembership(ctx context.Context, listID string, ids Identifiers) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "list/"+listID+"/members", &Options{
		JSON: filterParams(ids.params()),
	})
}

// RemoveMembersFromList removes emails from a list.
func (s *ListsService) RemoveMembersFromList(ctx context.Context, listID string, emails []string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodDelete, "list/"+listID+"/members", &Options{
		JSON: NewParams("emails", emails),
	})
}

// GetListExclusions returns one page of the emails excluded from a list.
// Pass the "marker" of the previous page to continue; zero starts over.
func (s *ListsService) GetListExclusions(ctx context.Context, listID string, marker int) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "list/"+listID+"/exclusions/all", &Options{
		Query: NewParams("marker", optional(marker)),
	})
}

// GetAllMembers returns one page of the members of a list or segment.
// Pass the "marker" of the previous page to continue; zero starts over.
func (s *ListsService) GetAllMembers(ctx context.Context, groupID string, marker int) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "group/"+groupID+"/members/all", &Options{
		Query: NewParams("marker", optional(marker)),
	})
}

func (s *ListsService) postProfiles(ctx context.Context, path string, profiles []*Profile) (*Result, error) {
	payload := make([]Params, 0, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		payload = append(payload, p.ToParams())
	}

	return s.client.RequestV2(ctx, http.MethodPost, path, &Options{
		JSON: NewParams("profiles", payload),
	})
}
