package web

import (
	g "maragu.dev/gomponents"
	comp "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

func homePage(v view, st listingState) g.Node {
	return page(v, "",
		hero(v),
		listingSection(v, st),
		features(),
		howItWorks(),
		safety(),
		pricing(),
		callToAction(v),
	)
}

func hero(v view) g.Node {
	stat := func(value, label string) g.Node {
		return Div(Class("stat"), Strong(g.Text(value)), P(g.Text(label)))
	}

	return Section(Class("hero"),
		Div(Class("container hero__grid"),
			Div(
				H1(g.Text("Connect. Travel. Deliver."), Span(Class("hero__accent"), g.Text("Across South Africa"))),
				P(Class("lead"), g.Text("Join thousands of drivers and riders sharing journeys and delivering packages safely and affordably across provinces.")),
				Div(Class("actions"),
					A(Href("#find-ride"), Class("button"), g.Text("Find a Ride")),
					A(Href("/post"), Class("button button--outline"), g.Text(v.t("posting.title"))),
				),
				Div(Class("stats"),
					stat("5,000+", "Active Users"),
					stat("15,000+", "Trips Completed"),
					stat("4.8★", "Average Rating"),
				),
			),
			Div(Class("hero__art"), logo(240)),
		),
	)
}

type card struct {
	Title string
	Body  string
}

func cards(items []card) g.Node {
	return Div(Class("cards"),
		g.Map(items, func(c card) g.Node {
			return Div(Class("card"), H3(g.Text(c.Title)), P(g.Text(c.Body)))
		}),
	)
}

func features() g.Node {
	return Section(ID("features"), Class("section"),
		Div(Class("container"),
			Div(Class("section__intro"),
				H2(g.Text("Why Move from Facebook to LiftMate?")),
				P(g.Text("All the convenience of Facebook lift groups, without the chaos. Find, compare, and book trips safely in one place.")),
			),
			cards([]card{
				{"Easy Trip Discovery", "Scroll through available trips by route, date, and price. No endless Facebook posts, comments, or screenshots."},
				{"Verified Drivers", "All drivers undergo background checks and verification to ensure your safety."},
				{"Clear Pricing & Availability", "See clear, affordable prices upfront and share travel costs without negotiating in comments or inboxes. Save up to 70% compared to solo trips."},
				{"Community Ratings", "Rate and review drivers and riders to build a trusted community."},
				{"In-App Messaging", "Connect directly with drivers and riders via WhatsApp to confirm details before your journey."},
				{"Flexible Scheduling", "Plan trips in advance or find last-minute rides that fit your schedule."},
			}),
		),
	)
}

func steps(title string, items []card) g.Node {
	return Div(Class("steps"),
		H3(g.Text(title)),
		Ol(
			g.Map(items, func(c card) g.Node {
				return Li(Class("step"), Strong(g.Text(c.Title)), P(g.Text(c.Body)))
			}),
		),
	)
}

// howItWorks shows the rider and driver steps side by side
func howItWorks() g.Node {
	return Section(ID("how-it-works"), Class("section section--alt"),
		Div(Class("container"),
			Div(Class("section__intro"),
				H2(g.Text("How It Works")),
				P(g.Text("Simple steps to connect drivers and riders across South Africa.")),
			),
			Div(Class("columns"),
				steps("For Riders", []card{
					{"Search for Trips", "Browse available trips between provinces that match your travel needs."},
					{"Contact Drivers", "Message drivers directly to confirm details and arrange your journey."},
					{"Join & Travel", "Meet your driver, share the journey, and save money on travel costs."},
				}),
				steps("For Drivers", []card{
					{"Plan Your Trip", "Post your planned journey with departure time, route, and available seats."},
					{"Connect with Riders", "Receive requests and messages from riders interested in joining your trip."},
					{"Start Your Journey", "Confirm riders, share costs, and enjoy the company on your travels."},
				}),
			),
			Div(Class("banner"),
				H3(g.Text("Also Available: Package Delivery")),
				P(g.Text("Send packages safely with verified drivers traveling your route.")),
			),
		),
	)
}

func safety() g.Node {
	return Section(ID("safety"), Class("section"),
		Div(Class("container"),
			Div(Class("section__intro"),
				Span(Class("eyebrow"), g.Text("Safety First")),
				H2(g.Text("Safety First")),
				P(g.Text("We prioritise trust and safety on every journey by verifying drivers and riders before they connect.")),
			),
			cards([]card{
				{"Identity Verification", "All users are required to submit a selfie verification, which we securely store to confirm identity and reduce impersonation."},
				{"Vehicle Details", "Drivers must provide vehicle information, including number plates, to ensure transparency and traceability for every trip."},
				{"Verified Profiles", "Profile verification helps you know exactly who you're travelling with before the journey begins."},
			}),
			P(Class("badge-line"), g.Text("Community Verified · Safe & Reliable · Free & Hassle-Free")),
		),
	)
}

type tier struct {
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
	Popular     bool
	CTA         string
}

var tiers = []tier{
	{
		Name:        "Free",
		Price:       "R0",
		Period:      "Forever",
		Description: "Perfect for occasional travelers",
		Features:    []string{"Browse and search trips", "Basic messaging", "Community ratings", "Trip booking", "Standard support"},
		CTA:         "Get Started",
	},
	{
		Name:        "LiftMate Plus",
		Price:       "R79",
		Period:      "per month",
		Description: "Best for frequent travelers",
		Features: []string{
			"Everything in Free", "Priority trip listings", "Advanced search filters", "Unlimited messages",
			"Premium support", "Trip cancellation protection", "Exclusive deals & discounts",
		},
		Popular: true,
		CTA:     "Start Free Trial",
	},
	{
		Name:        "Business",
		Price:       "R299",
		Period:      "per month",
		Description: "For package delivery businesses",
		Features: []string{
			"Everything in Plus", "Bulk package delivery", "Business dashboard", "Analytics & reporting",
			"Dedicated account manager", "Custom delivery solutions", "API access",
		},
		CTA: "Contact Sales",
	},
}

func pricing() g.Node {
	return Section(ID("pricing"), Class("section section--alt"),
		Div(Class("container"),
			Div(Class("section__intro"),
				H2(g.Text("Simple, Transparent Pricing")),
				P(g.Text("Choose the plan that works best for you. All plans include our core features.")),
			),
			Div(Class("tiers"),
				g.Map(tiers, func(t tier) g.Node {
					return Div(comp.Classes{"tier": true, "tier--popular": t.Popular},
						g.If(t.Popular, Span(Class("tier__flag"), g.Text("Most Popular"))),
						H3(g.Text(t.Name)),
						P(Class("tier__price"),
							Strong(g.Text(t.Price)),
							g.If(t.Period != "Forever", Small(g.Text("/"+t.Period))),
						),
						P(Class("muted"), g.Text(t.Description)),
						Ul(g.Map(t.Features, func(f string) g.Node { return Li(g.Text(f)) })),
						Span(comp.Classes{"button": true, "button--muted": !t.Popular}, g.Text(t.CTA)),
					)
				}),
			),
			P(Class("muted center"), g.Text("All plans include our safety features and community ratings.")),
		),
	)
}

func callToAction(v view) g.Node {
	return Section(Class("section cta"),
		Div(Class("container center"),
			H2(g.Text("Ready to Start Your Journey?")),
			P(Class("lead"), g.Text("Join thousands of South Africans connecting, traveling, and delivering across the country.")),
			Div(Class("actions"),
				A(Href("#find-ride"), Class("button button--light"), g.Text("Find a Ride")),
				A(Href("/post"), Class("button button--outline"), g.Text(v.t("posting.title"))),
			),
		),
	)
}
