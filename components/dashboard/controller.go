package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const defaultPageTemplate = "dashboard.html"

var errMissingRenderer = errors.New("dashboard: controller requires a renderer")

// PageResolver resolves the page of a viewer.
type PageResolver interface {
	Page(ctx context.Context, viewer ViewerContext) (Page, error)
}

// ControllerOptions configure the HTML controller.
type ControllerOptions struct {
	Service  PageResolver
	Renderer Renderer
	Template string
}

// Controller renders dashboard pages through a template renderer.
type Controller struct {
	service  PageResolver
	renderer Renderer
	template string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	template := opts.Template
	if template == "" {
		template = defaultPageTemplate
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: template,
	}
}

// Page resolves the page model for a viewer.
func (c *Controller) Page(ctx context.Context, viewer ViewerContext) (Page, error) {
	if c.service == nil {
		return Page{}, errors.New("dashboard: controller requires a service")
	}
	return c.service.Page(ctx, viewer)
}

// RenderTemplate renders the full page of the viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	page, err := c.Page(ctx, viewer)
	if err != nil {
		return err
	}
	payload, err := c.PagePayload(page)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}

// PagePayload converts the page into the template context. Every widget
// carries its pre-rendered partial under "html".
func (c *Controller) PagePayload(page Page) (map[string]any, error) {
	payload, err := toTemplateMap(page)
	if err != nil {
		return nil, err
	}
	payload["theme_css"] = page.Theme.CSSVariablesInline()
	payload["logo_url"] = page.Theme.Assets.AssetURL("logo")
	if c.renderer == nil {
		return payload, nil
	}
	rows, _ := payload["rows"].([]any)
	for r, row := range page.Rows {
		if r >= len(rows) {
			break
		}
		rowMap, _ := rows[r].(map[string]any)
		widgets, _ := rowMap["widgets"].([]any)
		for i, widget := range row.Widgets {
			if i >= len(widgets) {
				break
			}
			widgetMap, ok := widgets[i].(map[string]any)
			if !ok {
				continue
			}
			html, err := c.renderer.Render(widget.Template, map[string]any{
				"widget":     widgetMap,
				"data":       widgetMap["data"],
				"state":      payload["state"],
				"session_id": page.SessionID,
			})
			if err != nil {
				return nil, fmt.Errorf("dashboard: render widget %s: %w", widget.ID, err)
			}
			widgetMap["html"] = html
		}
	}
	return payload, nil
}

func toTemplateMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode page: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("dashboard: decode page: %w", err)
	}
	return out, nil
}
