package web

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type clause struct {
	Heading string
	Body    []string
}

var termsClauses = []clause{
	{"1. Acceptance of Terms", []string{
		"By creating an account or using LiftMate, you agree to these Terms of Service and our Community Guidelines. If you do not agree, you must not use the platform.",
	}},
	{"2. Platform Description", []string{
		"LiftMate provides tools to connect drivers with riders and parcel senders, manage bookings, and communicate. All services are provided by independent users. LiftMate is not a carrier, courier, or logistics provider.",
	}},
	{"3. Eligibility and Registration", []string{
		"You must be at least 18, legally able to enter contracts, and provide accurate information. You are responsible for keeping your account secure and must not share your login with others.",
		"Drivers must have a valid South African driver's licence, a roadworthy and legally registered vehicle, and appropriate insurance that covers ride-sharing or commercial use. Drivers must comply with all South African traffic and transport laws.",
	}},
	{"4. Bookings and Service", []string{
		"Riders/senders request trips or deliveries through LiftMate. Drivers choose whether to accept. A booking is only confirmed when a driver accepts, creating a direct agreement between driver and rider/sender. Drivers must arrive on time, drive safely, and respect passengers and property. Riders/senders must be ready on time, respect the driver and vehicle, and not transport prohibited items.",
	}},
	{"5. Payments", []string{
		"Payments are made directly between users (typically cash). LiftMate does not hold, process, or guarantee any payment. Drivers may set their own prices, which should be shown clearly before confirming a booking. Any disputes over payment are between users.",
	}},
	{"6. Cancellations and No-Shows", []string{
		"Users should cancel as early as possible. Repeated late cancellations or no-shows (by either drivers or riders) may affect ratings and can lead to account restrictions or suspension.",
	}},
	{"7. Safety", []string{
		"Always verify the driver, rider, and vehicle before starting a trip. Share trip details with someone you trust and use seatbelts at all times. Driving or riding under the influence, harassment, discrimination, intimidation, or any illegal behaviour is strictly prohibited and may result in immediate termination and reporting to authorities.",
	}},
	{"8. Insurance and Liability", []string{
		"Drivers are solely responsible for maintaining suitable insurance. By using LiftMate, you acknowledge that you use the platform at your own risk. LiftMate is not responsible for accidents, injuries, losses, delays, property damage, or disputes between users, to the fullest extent permitted by South African law.",
	}},
	{"9. Ratings and Reviews", []string{
		"Users may rate and review each other after trips. Reviews must be honest, respectful, and based on real experiences. Manipulating ratings, posting fake reviews, or using reviews to threaten or harass others is prohibited.",
	}},
	{"10. User Conduct", []string{
		"You must follow our Community Guidelines. We may warn, suspend, or terminate accounts for unsafe behaviour, fraud, repeated complaints, or any conduct that harms other users or LiftMate.",
	}},
	{"11. Privacy", []string{
		"We process your personal information in line with POPIA. We collect data such as account details, trip information, and communications to operate the platform and keep users safe. You may request access, correction, or deletion of your data, subject to legal and safety requirements.",
	}},
	{"12. Reporting and Disputes", []string{
		"If you experience behaviour that violates these Terms or our guidelines, report it through LiftMate. In an emergency, contact the police or emergency services first. Disputes between users should first be resolved directly; LiftMate may step in at its discretion but is not obligated to resolve every dispute.",
	}},
	{"13. Intellectual Property", []string{
		"The LiftMate name, logo, and platform design are protected by intellectual property laws. You may not copy, modify, or resell the platform or content without our written permission.",
	}},
	{"14. Changes and Termination", []string{
		`We may update these Terms and change or discontinue features at any time. We will update the "Last updated" date when we do. If you continue using LiftMate after changes, you accept the new Terms. You may close your account at any time; we may suspend or terminate accounts that violate these Terms or create safety risks.`,
	}},
	{"15. Governing Law", []string{
		"These Terms are governed by the laws of the Republic of South Africa. Any legal disputes must be brought before South African courts.",
	}},
}

type guideline struct {
	Allowed bool
	Text    string
}

var integrityGuidelines = []guideline{
	{true, "Provide accurate information in your profile and ride listings: name, phone number, vehicle and trip details."},
	{true, "Use WhatsApp and LiftMate only to arrange trips and share practical trip information, and keep communication respectful."},
	{true, "Leave honest, constructive feedback after trips to help others travel safely."},
	{false, "No fake profiles, misrepresented trips, fraudulent activity or manipulation of ratings."},
	{false, "Do not use LiftMate for illegal activities, prohibited items or any unauthorised commercial purpose."},
}

var violationConsequences = [][2]string{
	{"First violation", "Warning and temporary account restriction."},
	{"Serious violations", "Immediate account suspension pending investigation."},
	{"Repeated violations", "Permanent account termination."},
	{"Criminal activity", "Immediate termination and reporting to authorities."},
}

var reportingSteps = []string{
	"Contact LiftMate support at support@liftmate.co.za.",
	"Include the date, location and trip details of the incident.",
	"Contact emergency services immediately if you are in danger.",
	"Our safety team reviews every report within 24 to 48 hours.",
}

func guidelinesSection() g.Node {
	return Section(ID("policies"), Class("section"),
		Div(Class("container prose"),
			H2(g.Text("Platform Integrity")),
			P(g.Text("LiftMate is a community platform. These guidelines keep everyone safe and accountable.")),
			Ul(Class("guidelines"),
				g.Map(integrityGuidelines, func(gl guideline) g.Node {
					mark, class := "✓", "guideline-do"
					if !gl.Allowed {
						mark, class = "✗", "guideline-dont"
					}
					return Li(Class(class), Span(Aria("hidden", "true"), g.Text(mark+" ")), g.Text(gl.Text))
				}),
			),
			H3(g.Text("Consequences of Violations")),
			g.Map(violationConsequences, func(c [2]string) g.Node {
				return P(Strong(g.Text(c[0]+": ")), g.Text(c[1]))
			}),
			H3(g.Text("Reporting Violations")),
			Ul(g.Map(reportingSteps, func(step string) g.Node { return Li(g.Text(step)) })),
		),
	)
}

func termsPage(v view) g.Node {
	return page(v, "Terms of Service",
		Section(ID("terms"), Class("section"),
			Div(Class("container prose"),
				H1(g.Text("LiftMate Terms of Service")),
				P(Class("muted"), g.Text("Last updated: 15 December 2025")),
				P(g.Text("LiftMate is a ride-sharing and package delivery marketplace platform. We connect independent drivers and riders/parcel senders. We do not provide transport or delivery services ourselves and do not employ drivers.")),
				g.Map(termsClauses, func(cl clause) g.Node {
					return g.Group{
						H2(g.Text(cl.Heading)),
						g.Map(cl.Body, func(body string) g.Node { return P(g.Text(body)) }),
					}
				}),
				H2(g.Text("16. Contact")),
				P(
					g.Text("For questions about these Terms, contact us at "),
					A(Href("mailto:support@liftmate.co.za"), g.Text("support@liftmate.co.za")),
					g.Text(". In an emergency, always contact local emergency services first."),
				),
			),
		),
		guidelinesSection(),
	)
}

func notFoundPage(v view) g.Node {
	return page(v, "Page not found",
		Section(Class("section"),
			Div(Class("container center"),
				H1(g.Text("Page not found")),
				P(Class("lead"), g.Text("The page you are looking for does not exist.")),
				A(Href("/"), Class("button"), g.Text("Back to rides")),
			),
		),
	)
}
