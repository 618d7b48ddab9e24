package i18n

// Supported languages: en (English), af (Afrikaans).
var supported = map[string]struct{}{
	"en": {},
	"af": {},
}

// translations maps key → language code → format string.
var translations = map[string]map[string]string{

	// ─── Listing ─────────────────────────────────────────────────────────────
	"rides.heading": {
		"en": "Available Rides",
		"af": "Beskikbare Ritte",
	},
	// %d = filtered count, %d = total count
	"rides.count": {
		"en": "Showing %d of %d posts",
		"af": "Wys %d van %d plasings",
	},
	"rides.empty": {
		"en": "No rides found",
		"af": "Geen ritte gevind nie",
	},
	"rides.empty.hint": {
		"en": "Try another filter or post the first ride for this route.",
		"af": "Probeer 'n ander filter of plaas die eerste rit vir hierdie roete.",
	},
	"rides.loading": {
		"en": "Loading rides...",
		"af": "Laai ritte...",
	},
	"rides.error.paused": {
		"en": "Our ride board is temporarily unavailable. Please try again in a few minutes.",
		"af": "Ons ritbord is tydelik onbeskikbaar. Probeer asseblief oor 'n paar minute weer.",
	},
	// %s = store message
	"rides.error.generic": {
		"en": "Could not load rides: %s",
		"af": "Kon nie ritte laai nie: %s",
	},
	"rides.retry": {
		"en": "Try again",
		"af": "Probeer weer",
	},
	"rides.search.placeholder": {
		"en": "Search by town, vehicle or driver",
		"af": "Soek volgens dorp, voertuig of bestuurder",
	},

	// ─── Posting ─────────────────────────────────────────────────────────────
	"posting.title": {
		"en": "Post a Ride",
		"af": "Plaas 'n Rit",
	},
	"posting.step.category": {
		"en": "What are you posting?",
		"af": "Wat plaas jy?",
	},
	"posting.step.details": {
		"en": "Trip details",
		"af": "Ritbesonderhede",
	},
	"posting.step.verify": {
		"en": "Verify you are human",
		"af": "Bevestig dat jy 'n mens is",
	},
	"posting.success": {
		"en": "Your ride has been posted!",
		"af": "Jou rit is geplaas!",
	},
	"posting.error.name": {
		"en": "Please enter your name",
		"af": "Voer asseblief jou naam in",
	},
	"posting.error.capture": {
		"en": "Please take a selfie before posting",
		"af": "Neem asseblief 'n selfie voordat jy plaas",
	},
	"posting.error.human": {
		"en": "Please confirm that you are human",
		"af": "Bevestig asseblief dat jy 'n mens is",
	},
	"posting.error.image": {
		"en": "Please use a JPEG, PNG or WebP photo",
		"af": "Gebruik asseblief 'n JPEG-, PNG- of WebP-foto",
	},
	"posting.error.camera": {
		"en": "Camera unavailable. You can upload a photo instead.",
		"af": "Kamera onbeskikbaar. Jy kan eerder 'n foto oplaai.",
	},
	// %s = store message
	"posting.error.submit": {
		"en": "Could not post your ride: %s",
		"af": "Kon nie jou rit plaas nie: %s",
	},
	"posting.error.expired": {
		"en": "Your draft expired. Please start again.",
		"af": "Jou konsep het verval. Begin asseblief weer.",
	},
	"posting.login": {
		"en": "Log in with Facebook to post",
		"af": "Teken aan met Facebook om te plaas",
	},

	// ─── Listing cards and filters ───────────────────────────────────────────
	"rides.filter.all": {
		"en": "All",
		"af": "Alles",
	},
	"rides.filter.offers": {
		"en": "Offers",
		"af": "Aanbiedinge",
	},
	"rides.filter.requests": {
		"en": "Requests",
		"af": "Versoeke",
	},
	"rides.filter.passengers": {
		"en": "Passengers",
		"af": "Passasiers",
	},
	"rides.filter.parcels": {
		"en": "Parcel Delivery",
		"af": "Pakkie-aflewering",
	},
	"rides.filter.apply": {
		"en": "Search",
		"af": "Soek",
	},
	"rides.filter.clear": {
		"en": "Clear filters",
		"af": "Maak filters skoon",
	},
	"rides.type.offer": {
		"en": "Offering",
		"af": "Bied aan",
	},
	"rides.type.request": {
		"en": "Looking for",
		"af": "Soek",
	},
	// %d = seats
	"rides.seats": {
		"en": "%d seats available",
		"af": "%d sitplekke beskikbaar",
	},
	"rides.seats.one": {
		"en": "1 seat available",
		"af": "1 sitplek beskikbaar",
	},
	"rides.per_seat": {
		"en": "/seat",
		"af": "/sitplek",
	},
	"rides.price.contact": {
		"en": "Contact for pricing",
		"af": "Kontak vir pryse",
	},
	"rides.contact": {
		"en": "Contact Driver",
		"af": "Kontak Bestuurder",
	},
	"rides.contact.whatsapp": {
		"en": "WhatsApp Driver",
		"af": "WhatsApp Bestuurder",
	},
	"rides.refresh": {
		"en": "New rides posted. Refreshing...",
		"af": "Nuwe ritte geplaas. Herlaai...",
	},
}
