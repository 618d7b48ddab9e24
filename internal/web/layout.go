package web

import (
	"net/url"

	"github.com/liftmate/liftmate/internal/auth"
	g "maragu.dev/gomponents"
	comp "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const siteDescription = "Find and post shared rides and parcel deliveries across South Africa."

// logoSVG is the thumbs-up mark on an emerald disc
const logoSVG = `<svg width="%[1]d" height="%[1]d" viewBox="0 0 48 48" fill="none" xmlns="http://www.w3.org/2000/svg" aria-hidden="true">` +
	`<circle cx="24" cy="24" r="24" fill="#10B981"/>` +
	`<rect x="14" y="22" width="6" height="10" rx="2" fill="white"/>` +
	`<path d="M20 30h9c1.38 0 2.5-1.12 2.5-2.5v-7c0-1.38-1.12-2.5-2.5-2.5h-4.3l0.7-3.1c0.35-1.53-0.63-3.04-2.16-3.39-0.97-0.22-1.99 0.16-2.58 0.96L17 17.5V28c0 1.1 0.9 2 2 2z" fill="white"/>` +
	`</svg>`

func logo(size int) g.Node {
	return g.Rawf(logoSVG, size)
}

func page(v view, title string, body ...g.Node) g.Node {
	if title == "" {
		title = "LiftMate"
	} else {
		title += " | LiftMate"
	}

	return comp.HTML5(comp.HTML5Props{
		Title:       title,
		Description: siteDescription,
		Language:    v.Lang,
		Head: []g.Node{
			Link(Rel("icon"), Href("/static/logo.svg"), Type("image/svg+xml")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
			Script(Src("/static/app.js"), Defer()),
		},
		Body: []g.Node{
			siteHeader(v),
			Main(body...),
			siteFooter(),
		},
	})
}

func siteHeader(v view) g.Node {
	return Header(Class("site-header"),
		Nav(Class("container site-header__nav"),
			A(Href("/"), Class("brand"), logo(40), Span(g.Text("LiftMate"))),
			Div(Class("site-header__links"),
				A(Href("/#features"), g.Text("Features")),
				A(Href("/#how-it-works"), g.Text("How It Works")),
				A(Href("/#safety"), g.Text("Safety")),
				A(Href("/#pricing"), g.Text("Pricing")),
			),
			Div(Class("site-header__actions"),
				account(v),
				A(Href("/post"), Class("button"), g.Text(v.t("posting.title"))),
			),
		),
	)
}

func account(v view) g.Node {
	switch {
	case v.User != nil:
		return Form(Method("post"), Action("/auth/logout"), Class("account"),
			Span(Class("account__name"), g.Text(v.User.Name)),
			Button(Type("submit"), Class("link"), g.Text("Sign Out")),
		)
	case v.CanSignIn:
		return A(Href(auth.LoginPath+"?next="+url.QueryEscape(v.Path)), Class("link"), g.Text("Sign In"))
	default:
		return nil
	}
}

func siteFooter() g.Node {
	return Footer(Class("site-footer"),
		Div(Class("container site-footer__grid"),
			Div(
				Div(Class("brand"), logo(32), Span(g.Text("LiftMate"))),
				P(g.Text("Connecting drivers and riders across South Africa. Safe, affordable, and reliable.")),
			),
			Div(
				H3(g.Text("Quick Links")),
				Ul(
					Li(A(Href("/#features"), g.Text("Features"))),
					Li(A(Href("/#how-it-works"), g.Text("How It Works"))),
					Li(A(Href("/#safety"), g.Text("Safety"))),
				),
			),
			Div(
				H3(g.Text("Support")),
				Ul(
					Li(Span(Class("muted"), g.Text("Help Center (coming soon)"))),
					Li(Span(Class("muted"), g.Text("Safety Tips (coming soon)"))),
					Li(A(Href("/#safety"), g.Text("Safety & Community Guidelines"))),
				),
			),
			Div(
				H3(g.Text("Contact")),
				Ul(
					Li(A(Href("mailto:support@liftmate.co.za"), g.Text("support@liftmate.co.za"))),
					Li(g.Text("+27 11 123 4567")),
					Li(g.Text("Johannesburg, South Africa")),
				),
			),
		),
		Div(Class("container site-footer__bottom"),
			P(g.Text("© 2024 LiftMate. All rights reserved.")),
			A(Href("/terms"), g.Text("Terms of Use")),
		),
	)
}
