package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
	"github.com/liftmate/liftmate/pkg/validation"
	g "maragu.dev/gomponents"
	comp "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const currency = "ZAR"

type listingState struct {
	Filter      rides.Filter
	Listing     *rides.Listing
	Err         error
	CountryCode string
}

// bindFilter reads the listing filter from the query. Values that fail
// validation fall back to showing everything for that predicate.
func bindFilter(c *gin.Context) rides.Filter {
	f := rides.Filter{
		RideType: c.Query("ride_type"),
		PostType: c.Query("post_type"),
		City:     strings.TrimSpace(c.Query("city")),
		Search:   c.Query("q"),
	}
	if err := validation.ValidateStruct(&f); err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			if _, bad := verr.GetFieldError("ride_type"); bad {
				f.RideType = ""
			}
			if _, bad := verr.GetFieldError("post_type"); bad {
				f.PostType = ""
			}
			if _, bad := verr.GetFieldError("city"); bad {
				f.City = ""
			}
			if _, bad := verr.GetFieldError("q"); bad {
				f.Search = ""
			}
		}
	}
	return f
}

func errorStatus(err error) int {
	if appErr, ok := common.AsAppError(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// filterURL links to the listing with f applied
func filterURL(f rides.Filter) string {
	q := url.Values{}
	if f.RideType != "" && f.RideType != rides.FilterAll {
		q.Set("ride_type", f.RideType)
	}
	if f.PostType != "" && f.PostType != rides.FilterAll {
		q.Set("post_type", f.PostType)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("q", s)
	}
	if len(q) == 0 {
		return "/#find-ride"
	}
	return "/?" + q.Encode() + "#find-ride"
}

func formatDate(date string) string {
	d, err := time.Parse(validation.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon, 2 Jan 2006")
}

func formatTime(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

func listingSection(v view, st listingState) g.Node {
	return Section(ID("find-ride"), Class("section listing"),
		Div(Class("container"),
			Div(Class("section__intro"),
				H2(g.Text(v.t("rides.heading"))),
				P(g.Text("Browse available rides and connect with drivers traveling your route.")),
			),
			filterForm(v, st.Filter),
			g.Iff(st.Listing != nil, func() g.Node { return cityCapsules(st.Filter, st.Listing) }),
			P(ID("refresh-note"), Class("notice"), g.Attr("hidden"), g.Text(v.t("rides.loading"))),
			listingBody(v, st),
		),
	)
}

func filterForm(v view, f rides.Filter) g.Node {
	option := func(value, label, current string) g.Node {
		return Option(Value(value), g.Text(label), g.If(value == current || (value == rides.FilterAll && current == ""), Selected()))
	}

	return Form(Class("filters"), Method("get"), Action("/#find-ride"), Role("search"),
		g.If(f.City != "", Input(Type("hidden"), Name("city"), Value(f.City))),
		Input(Type("search"), Name("q"), Value(f.Search), Class("filters__search"),
			Placeholder(v.t("rides.search.placeholder")), Aria("label", v.t("rides.search.placeholder"))),
		Select(Name("ride_type"), Aria("label", "Ride type"),
			option(rides.FilterAll, v.t("rides.filter.all"), f.RideType),
			option(string(rides.RideTypeOffer), v.t("rides.filter.offers"), f.RideType),
			option(string(rides.RideTypeRequest), v.t("rides.filter.requests"), f.RideType),
		),
		Select(Name("post_type"), Aria("label", "Post type"),
			option(rides.FilterAll, v.t("rides.filter.all"), f.PostType),
			option(string(rides.PostTypePassengers), v.t("rides.filter.passengers"), f.PostType),
			option(string(rides.PostTypeParcel), v.t("rides.filter.parcels"), f.PostType),
		),
		Button(Type("submit"), Class("button"), g.Text(v.t("rides.filter.apply"))),
		g.If(f != (rides.Filter{}), A(Href("/#find-ride"), Class("filters__clear"), g.Text(v.t("rides.filter.clear")))),
	)
}

// cityCapsules links each city to the listing with that city toggled
func cityCapsules(f rides.Filter, listing *rides.Listing) g.Node {
	if len(listing.Cities) == 0 {
		return nil
	}
	return Nav(Class("capsules"), Aria("label", "Cities"),
		g.Map(listing.Cities, func(cc rides.CityCount) g.Node {
			next := f
			next.City = rides.ToggleCity(f.City, cc.City)
			active := strings.EqualFold(f.City, cc.City)
			return A(Href(filterURL(next)),
				comp.Classes{"capsule": true, "capsule--active": active},
				g.If(active, Aria("current", "true")),
				g.Text(cc.City),
				Span(Class("capsule__count"), g.Text(strconv.Itoa(cc.Count))),
			)
		}),
	)
}

func listingBody(v view, st listingState) g.Node {
	if st.Err != nil {
		msg := v.t("rides.error.generic", errorMessage(st.Err))
		if errors.Is(st.Err, rides.ErrBackendPaused) {
			msg = v.t("rides.error.paused")
		}
		return Div(Class("empty empty--error"), Role("alert"),
			P(g.Text(msg)),
			A(Href(filterURL(st.Filter)), Class("button"), g.Text(v.t("rides.retry"))),
		)
	}

	found := st.Listing.Rides
	return g.Group{
		P(Class("listing__count"), g.Text(v.t("rides.count", len(found), st.Listing.Total))),
		g.If(len(found) == 0, Div(Class("empty"),
			P(Class("empty__title"), g.Text(v.t("rides.empty"))),
			P(g.Text(v.t("rides.empty.hint"))),
		)),
		Div(Class("rides"),
			g.Map(found, func(r rides.RidePost) g.Node {
				return rideCard(v, &r, st.CountryCode)
			}),
		),
	}
}

const genericFailure = "Something went wrong. Please try again."

// errorMessage is the user facing text of err
func errorMessage(err error) string {
	if appErr, ok := common.AsAppError(err); ok {
		return appErr.Message
	}
	return genericFailure
}

func rideCard(v view, r *rides.RidePost, countryCode string) g.Node {
	kind := v.t("rides.filter.passengers")
	if r.PostType == rides.PostTypeParcel {
		kind = v.t("rides.filter.parcels")
	}
	intent := v.t("rides.type.offer")
	if r.RideType == rides.RideTypeRequest {
		intent = v.t("rides.type.request")
	}
	contact := v.t("rides.contact")
	if r.IsWhatsApp {
		contact = v.t("rides.contact.whatsapp")
	}

	return Article(Class("ride-card ride-card--"+string(r.PostType)),
		Div(Class("ride-card__main"),
			Div(Class("ride-card__badges"),
				Span(Class("badge badge--"+string(r.PostType)), g.Text(kind)),
				Span(Class("badge badge--"+string(r.RideType)), g.Text(intent)),
			),
			P(Class("ride-card__route"),
				Span(g.Text(r.PickupDisplay())),
				Span(Class("ride-card__arrow"), Aria("hidden", "true"), g.Text("↓")),
				Span(g.Text(r.DropoffDisplay())),
			),
			P(Class("ride-card__when"),
				g.Text(formatDate(r.DepartureDate)), g.Text(" · "), g.Text(formatTime(r.DepartureTime)),
			),
			g.If(r.ShowsVehicle(), P(Class("ride-card__vehicle"), g.Text(deref(r.Vehicle)))),
			P(Class("ride-card__driver"), g.Text(r.DriverName)),
			g.If(deref(r.Comments) != "", P(Class("ride-card__comments"), g.Text(deref(r.Comments)))),
		),
		Div(Class("ride-card__aside"),
			g.Iff(r.ShowsSeats(), func() g.Node { return P(Class("ride-card__seats"), g.Text(seatsText(v, r))) }),
			g.If(r.ShowsPrice(), P(Class("ride-card__price"),
				g.Text(i18n.FormatAmount(priceOf(r), currency)),
				Small(g.Text(v.t("rides.per_seat"))),
			)),
			g.If(r.PostType == rides.PostTypeParcel, P(Class("ride-card__price ride-card__price--open"), g.Text(v.t("rides.price.contact")))),
			A(Href(rides.ContactLink(r, countryCode)), Class("button"), Target("_blank"), Rel("noopener noreferrer"), g.Text(contact)),
		),
	)
}

func seatsText(v view, r *rides.RidePost) string {
	if *r.SeatsAvailable == 1 {
		return v.t("rides.seats.one")
	}
	return v.t("rides.seats", *r.SeatsAvailable)
}

func priceOf(r *rides.RidePost) float64 {
	if r.PricePerSeat == nil {
		return 0
	}
	return *r.PricePerSeat
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
