package klaviyo

import (
	"context"
	"net/http"
)

// TemplatesService manages email templates (v1). Bodies are form encoded.
type TemplatesService struct {
	client *Client
}

// SendOptions describes an email sent from a template.
type SendOptions struct {
	FromEmail string
	FromName  string
	Subject   string
	// To is a JSON array of recipients, e.g. `[{"email":"a@b.c","name":"A"}]`.
	To string
	// Context is a JSON object of template variables.
	Context string
}

// GetAllTemplates returns every email template.
func (s *TemplatesService) GetAllTemplates(ctx context.Context) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "email-templates", nil)
}

// CreateTemplate creates a template from html.
func (s *TemplatesService) CreateTemplate(ctx context.Context, name, html string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPost, "email-templates", &Options{
		Form: NewParams("name", name, "html", html),
	})
}

// UpdateTemplate replaces the name and html of a template.
func (s *TemplatesService) UpdateTemplate(ctx context.Context, templateID, name, html string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPut, "email-template/"+templateID, &Options{
		Form: NewParams("name", name, "html", html),
	})
}

// DeleteTemplate deletes a template.
func (s *TemplatesService) DeleteTemplate(ctx context.Context, templateID string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodDelete, "email-template/"+templateID, nil)
}

// CloneTemplate copies a template under a new name.
func (s *TemplatesService) CloneTemplate(ctx context.Context, templateID, name string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPost, "email-template/"+templateID+"/clone", &Options{
		Form: NewParams("name", optional(name)),
	})
}

// RenderTemplate renders a template with the JSON object templateContext.
func (s *TemplatesService) RenderTemplate(ctx context.Context, templateID, templateContext string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPost, "email-template/"+templateID+"/render", &Options{
		Form: NewParams("context", templateContext),
	})
}

// SendTemplate renders a template and sends it.
func (s *TemplatesService) SendTemplate(ctx context.Context, templateID string, opts SendOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPost, "email-template/"+templateID+"/send", &Options{
		Form: NewParams(
			"from_email", optional(opts.FromEmail),
			"from_name", optional(opts.FromName),
			"subject", optional(opts.Subject),
			"to", optional(opts.To),
			"context", opts.Context,
		),
	})
}
