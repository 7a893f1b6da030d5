package templates

import (
	"context"
	_ "embed"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

//go:embed dashboard.css
var dashboardCSS string

//go:embed dashboard.js
var dashboardJS string

// DashboardPage renders the sidebar, the competition selector and the view
// container the script fills from the JSON API.
func DashboardPage(data DashboardPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &pageWriter{w: w}

		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		p.text(data.Title)
		p.raw("</title><style>\n" + dashboardCSS + "</style></head><body>")

		sidebar(p, data)

		p.raw("<main><h1>")
		p.text(data.Title)
		p.raw("</h1>")
		if data.Ready {
			p.raw(`<div id="view" data-view="`)
			p.text(data.Active)
			p.raw(`" data-competition="`)
			p.text(data.Selected)
			p.raw(`">Loading…</div>`)
		} else {
			p.raw("<p>No dataset has been loaded yet.</p>")
		}
		p.raw("</main><script>\n" + dashboardJS + "</script></body></html>")
		return p.err
	})
}

func sidebar(p *pageWriter, data DashboardPageData) {
	p.raw("<nav><h2>")
	p.text(data.Club)
	p.raw("</h2>")
	for _, item := range data.Menu {
		href := "?" + url.Values{"view": {item.Key}, "competition": {data.Selected}}.Encode()
		p.raw(`<a href="`)
		p.text(href)
		p.raw(`" data-icon="`)
		p.text(item.Icon)
		p.raw(`"`)
		if item.Key == data.Active {
			p.raw(` class="active"`)
		}
		p.raw(">")
		p.text(item.Title)
		p.raw("</a>")
	}

	p.raw(`<form method="get"><input type="hidden" name="view" value="`)
	p.text(data.Active)
	p.raw(`"><label for="competition">Select Competition</label>`)
	p.raw(`<select id="competition" name="competition" onchange="this.form.submit()">`)
	for _, c := range data.Competitions {
		if c == data.Selected {
			p.raw("<option selected>")
		} else {
			p.raw("<option>")
		}
		p.text(c)
		p.raw("</option>")
	}
	p.raw("</select></form><small>")
	p.text(data.Version)
	p.raw("</small></nav>")
}

// pageWriter keeps the first write error so rendering reads top to bottom.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}
