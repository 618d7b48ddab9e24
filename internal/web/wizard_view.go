package web

import (
	"fmt"
	"strconv"

	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/validation"
	g "maragu.dev/gomponents"
	comp "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

type wizardState struct {
	Draft    *posting.Draft
	Fields   map[string]string
	Message  string
	Expired  bool
	MaxImage int64
}

func wizardPage(v view, st wizardState) g.Node {
	return page(v, v.t("posting.title"),
		Section(Class("section"),
			Div(Class("container wizard"),
				H1(g.Text(v.t("posting.title"))),
				g.Iff(st.Draft != nil, func() g.Node { return progress(v, st.Draft.Step) }),
				g.If(st.Message != "", Div(Class("alert"), Role("alert"), g.Text(st.Message))),
				wizardBody(v, st),
			),
		),
	)
}

func wizardBody(v view, st wizardState) g.Node {
	if st.Draft == nil {
		return Div(Class("wizard__step"),
			A(Href(wizardPath), Class("button"), g.Text("Start again")),
		)
	}

	switch st.Draft.Step {
	case posting.StepDetails:
		return detailsStep(v, st)
	case posting.StepVerify:
		return verifyStep(v, st)
	case posting.StepDone:
		return doneStep(v, st.Draft)
	default:
		return categoryStep(v)
	}
}

func progress(v view, step posting.Step) g.Node {
	item := func(s posting.Step, label string) g.Node {
		return Li(comp.Classes{"progress__item": true, "progress__item--active": s == step}, g.Text(label))
	}
	return Ol(Class("progress"),
		item(posting.StepCategory, v.t("posting.step.category")),
		item(posting.StepDetails, v.t("posting.step.details")),
		item(posting.StepVerify, v.t("posting.step.verify")),
	)
}

// postButton is a one-button form for a wizard action
func postButton(action, label, class string, extra ...g.Node) g.Node {
	return Form(Method("post"), Action(action), Class("inline"),
		g.Group(extra),
		Button(Type("submit"), Class(class), g.Text(label)),
	)
}

func navigation(step posting.Step) g.Node {
	return Div(Class("wizard__nav"),
		g.If(step != posting.StepCategory, postButton(wizardPath+"/back", "Back", "button button--muted")),
		postButton(wizardPath+"/cancel", "Cancel", "link"),
	)
}

func categoryStep(v view) g.Node {
	choice := func(value, title, body string) g.Node {
		return Button(Type("submit"), Name("post_type"), Value(value), Class("choice"),
			Strong(g.Text(title)),
			Span(g.Text(body)),
		)
	}

	return Div(Class("wizard__step"),
		H2(g.Text(v.t("posting.step.category"))),
		Form(Method("post"), Action(wizardPath+"/category"), Class("choices"),
			choice(string(rides.PostTypePassengers), v.t("rides.filter.passengers"), "Offer seats in your car or find a lift."),
			choice(string(rides.PostTypeParcel), v.t("rides.filter.parcels"), "Carry a parcel on your route or find someone who will."),
		),
		navigation(posting.StepCategory),
	)
}

func detailsStep(v view, st wizardState) g.Node {
	d := st.Draft.Details
	passengers := st.Draft.PostType == string(rides.PostTypePassengers)

	offerLabel, requestLabel := "I'm offering seats", "I need a ride"
	if !passengers {
		offerLabel, requestLabel = "I can deliver parcels", "I need a parcel delivered"
	}

	text := func(name, value string, extra ...g.Node) g.Node {
		return Input(Type("text"), ID(name), Name(name), Value(value), g.Group(extra))
	}

	return Div(Class("wizard__step"),
		H2(g.Text(v.t("posting.step.details"))),
		Form(Method("post"), Action(wizardPath+"/details"), Class("form"), g.Attr("novalidate"),
			FieldSet(Class("field"),
				Legend(g.Text("What are you doing?")),
				radio("ride_type", string(rides.RideTypeOffer), offerLabel, d.RideType),
				radio("ride_type", string(rides.RideTypeRequest), requestLabel, d.RideType),
				fieldError(st, "ride_type"),
			),
			field(st, "driver_name", "Your name", text("driver_name", d.DriverName, Required(), MaxLength("100"), AutoComplete("name")), ""),
			field(st, "phone_number", "Phone number",
				Input(Type("tel"), ID("phone_number"), Name("phone_number"), Value(d.PhoneNumber), Required(), AutoComplete("tel")), ""),
			Div(Class("field field--check"),
				Label(
					Input(Type("checkbox"), Name("is_whatsapp"), Value("true"), g.If(d.IsWhatsApp, Checked())),
					g.Text(" Contact me on WhatsApp"),
				),
			),
			Div(Class("field-row"),
				field(st, "pickup_location", "Pickup town", text("pickup_location", d.PickupLocation, Required(), Placeholder("Cape Town, Western Cape")), ""),
				field(st, "pickup_area", "Pickup area", text("pickup_area", d.PickupArea, Placeholder("Sea Point")), "Optional"),
			),
			Div(Class("field-row"),
				field(st, "dropoff_location", "Dropoff town", text("dropoff_location", d.DropoffLocation, Required(), Placeholder("Stellenbosch, Western Cape")), ""),
				field(st, "dropoff_area", "Dropoff area", text("dropoff_area", d.DropoffArea), "Optional"),
			),
			Div(Class("field-row"),
				field(st, "departure_date", "Departure date",
					Input(Type("date"), ID("departure_date"), Name("departure_date"), Value(d.DepartureDate), Required(),
						Min(validation.Today().Format(validation.DateLayout))), ""),
				field(st, "departure_time", "Departure time",
					Input(Type("time"), ID("departure_time"), Name("departure_time"), Value(d.DepartureTime), Required()), ""),
			),
			g.If(passengers, Div(Class("field-row"),
				field(st, "seats_available", "Seats",
					Input(Type("number"), ID("seats_available"), Name("seats_available"), Value(intValue(d.SeatsAvailable)), Min("1"), Max("10")),
					"Seats you offer, or seats you need"),
				field(st, "price_per_seat", "Price per seat (R)",
					Input(Type("number"), ID("price_per_seat"), Name("price_per_seat"), Value(floatValue(d.PricePerSeat)), Min("0"), Step("1")),
					"Only for ride offers"),
			)),
			Div(Class("field-row"),
				field(st, "vehicle", "Vehicle", text("vehicle", d.Vehicle, Placeholder("Toyota Corolla 2020")), "Required when offering"),
				field(st, "vehicle_registration", "Registration", text("vehicle_registration", d.VehicleRegistration, Placeholder("CA 123-456")), "Required when offering"),
			),
			field(st, "comments", "Comments",
				Textarea(ID("comments"), Name("comments"), Rows("3"), MaxLength("500"), g.Text(d.Comments)), "Optional"),
			Button(Type("submit"), Class("button"), g.Text("Continue")),
		),
		navigation(posting.StepDetails),
	)
}

func radio(name, value, label, current string) g.Node {
	return Label(Class("radio"),
		Input(Type("radio"), Name(name), Value(value), g.If(current == value, Checked())),
		g.Text(" "+label),
	)
}

func field(st wizardState, name, label string, input g.Node, hint string) g.Node {
	_, bad := st.Fields[name]
	return Div(comp.Classes{"field": true, "field--error": bad},
		Label(For(name), g.Text(label)),
		input,
		g.If(hint != "", Small(Class("field__hint"), g.Text(hint))),
		fieldError(st, name),
	)
}

func fieldError(st wizardState, name string) g.Node {
	msg, bad := st.Fields[name]
	if !bad {
		return nil
	}
	return Small(Class("field__error"), g.Text(msg))
}

func intValue(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatValue(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func verifyStep(v view, st wizardState) g.Node {
	d := st.Draft
	message := ""
	if st.Message == "" && d.LastError != "" {
		message = v.t("posting.error.submit", d.LastError)
	}

	return Div(Class("wizard__step verify"),
		H2(g.Text(v.t("posting.step.verify"))),
		g.If(message != "", Div(Class("alert"), Role("alert"), g.Text(message))),
		P(g.Text("Take a quick selfie so the people you travel with know who to expect. It is stored securely and only used to confirm your identity.")),
		g.If(d.HasCapture, Div(Class("selfie"),
			Img(Src(wizardPath+"/preview?v="+strconv.FormatInt(d.Generation, 10)), Alt("Your selfie"), Class("selfie__image")),
			postButton(wizardPath+"/retake", "Retake", "button button--muted"),
		)),
		g.If(!d.HasCapture, captureForms(v, st.MaxImage)),
		Form(Method("post"), Action(wizardPath+"/submit"), Class("form"),
			Div(Class("field field--check"),
				Label(
					Input(Type("checkbox"), Name("human_confirmed"), Value("true"), g.If(d.HumanConfirmed, Checked())),
					g.Text(" I am human"),
				),
			),
			P(Class("summary"),
				g.Text(d.Details.PickupLocation+" → "+d.Details.DropoffLocation+", "+formatDate(d.Details.DepartureDate)+" "+d.Details.DepartureTime),
			),
			Button(Type("submit"), Class("button"), g.If(!d.HasCapture, Disabled()), g.Text(v.t("posting.title"))),
		),
		navigation(posting.StepVerify),
	)
}

// captureForms offers the front camera and, when it is unavailable, a plain upload
func captureForms(v view, maxImage int64) g.Node {
	limit := ""
	if maxImage > 0 {
		limit = fmt.Sprintf("Photos up to %d MB.", maxImage>>20)
	}

	return g.Group{
		Form(Method("post"), Action(wizardPath+"/capture"), EncType("multipart/form-data"), Class("capture"),
			Label(For("selfie-camera"), Class("button button--outline"), g.Text("Take a selfie")),
			Input(Type("file"), ID("selfie-camera"), Name("selfie"), Accept("image/*"), g.Attr("capture", "user"),
				g.Attr("data-autosubmit"), Class("visually-hidden")),
			Button(Type("submit"), Class("button button--muted js-hide"), g.Text("Use this photo")),
		),
		Form(Method("post"), Action(wizardPath+"/capture"), EncType("multipart/form-data"), Class("capture capture--upload"),
			P(Class("muted"), g.Text(v.t("posting.error.camera"))),
			Input(Type("file"), Name("selfie"), Accept("image/jpeg,image/png,image/webp"), Aria("label", "Upload a photo")),
			g.If(limit != "", Small(Class("field__hint"), g.Text(limit))),
			Button(Type("submit"), Class("button button--muted"), g.Text("Upload photo")),
		),
	}
}

func doneStep(v view, d *posting.Draft) g.Node {
	return Div(Class("wizard__step done"),
		H2(g.Text(v.t("posting.success"))),
		P(g.Text(d.Details.PickupLocation+" → "+d.Details.DropoffLocation+", "+formatDate(d.Details.DepartureDate))),
		Div(Class("actions"),
			postButton(wizardPath+"/cancel", "View rides", "button"),
			postButton(wizardPath+"/cancel", "Post another ride", "button button--muted",
				Input(Type("hidden"), Name("next"), Value(wizardPath)),
			),
		),
	)
}
