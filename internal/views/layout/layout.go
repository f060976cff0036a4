// Package layout provides the HTML document shell.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"keyiflimasa/internal/views/components"
	"keyiflimasa/internal/views/theme"
)

func bodyWrapperClass(hasSidebar bool) string {
	if hasSidebar {
		return "app-shell grid min-h-screen grid-cols-1 md:grid-cols-[16rem_1fr]"
	}
	return "page-shell mx-auto min-h-screen max-w-3xl"
}

func mainClass(hasSidebar bool) string {
	if hasSidebar {
		return "app-main p-6"
	}
	return "page-main p-4"
}

// Layout wraps content in the document shell. sidebar may be nil.
func Layout(title string, sidebar templ.Component, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hasSidebar := sidebar != nil
		hw := components.NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="tr"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.Text(title)
		hw.Raw(`</title><link rel="stylesheet" href="/assets/app.css"><script src="https://unpkg.com/htmx.org@1.9.12" defer></script></head>`)
		hw.Raw(`<body`)
		hw.Attr("class", theme.BodyClass)
		hw.Raw(`><div`)
		hw.Attr("class", bodyWrapperClass(hasSidebar))
		hw.Raw(`>`)
		if hasSidebar {
			hw.Raw(`<aside class="app-sidebar">`)
			hw.Component(ctx, sidebar)
			hw.Raw(`</aside>`)
		}
		hw.Raw(`<main`)
		hw.Attr("class", mainClass(hasSidebar))
		hw.Raw(`>`)
		hw.Component(ctx, content)
		hw.Raw(`</main></div></body></html>`)
		return hw.Err()
	})
}
