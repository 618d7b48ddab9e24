package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/liftmate/liftmate/internal/auth"
	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/internal/posting/capture"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

// MockRideLister is a mock implementation of RideLister
type MockRideLister struct {
	mock.Mock
}

func (m *MockRideLister) ListRides(ctx context.Context, filter rides.Filter) (*rides.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rides.Listing), args.Error(1)
}

func (m *MockRideLister) CountryCode() string { return rides.DefaultCountryCode }

// MockRideCreator is a mock implementation of posting.RideCreator
type MockRideCreator struct {
	mock.Mock
}

func (m *MockRideCreator) CreateRide(ctx context.Context, ride *rides.RidePost) error {
	return m.Called(ctx, ride).Error(0)
}

// stubProvider reports user as logged in when set
type stubProvider struct {
	user *auth.User
}

func (p *stubProvider) Session(*http.Request) (*auth.User, bool) { return p.user, p.user != nil }
func (p *stubProvider) LoginURL(state string) string {
	return "https://example.test/login?state=" + state
}
func (p *stubProvider) Complete(context.Context, string) (*auth.User, error) {
	return p.user, nil
}
func (p *stubProvider) Logout(http.ResponseWriter) {}

type fixture struct {
	router  *gin.Engine
	lister  *MockRideLister
	creator *MockRideCreator
	cookies []*http.Cookie
}

func newFixture(t *testing.T, provider auth.Provider) *fixture {
	t.Helper()
	f := &fixture{lister: new(MockRideLister), creator: new(MockRideCreator)}

	wizard := posting.NewService(
		posting.NewMemoryDraftStore(30*time.Minute),
		capture.NewRegistry(t.TempDir(), 1<<20),
		f.creator,
		nil,
		30*time.Minute,
	)
	h := NewHandler(f.lister, wizard, provider, Options{MaxImageBytes: 1 << 20})

	f.router = gin.New()
	h.RegisterRoutes(f.router)
	f.router.NoRoute(h.NotFound)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == draftCookie {
			f.cookies = []*http.Cookie{c}
			if c.MaxAge < 0 {
				f.cookies = nil
			}
		}
	}
	return w
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (f *fixture) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fixture) upload(path string, image []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("selfie", "selfie.png")
	_, _ = part.Write(image)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return f.do(req)
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(v float64) *float64 { return &v }
func capeTownRide() rides.RidePost {
	return rides.RidePost{
		ID:              uuid.New(),
		RideType:        rides.RideTypeOffer,
		PostType:        rides.PostTypePassengers,
		PickupLocation:  "Cape Town, WC",
		DropoffLocation: "Stellenbosch, WC",
		DepartureDate:   "2099-12-21",
		DepartureTime:   "09:00",
		SeatsAvailable:  intPtr(1),
		PricePerSeat:    floatPtr(150),
		Vehicle:         strPtr("BMW 3 Series 2020"),
		DriverName:      "Lisa W.",
		PhoneNumber:     "0821234567",
		IsWhatsApp:      true,
	}
}

func parcelRequest() rides.RidePost {
	return rides.RidePost{
		ID:              uuid.New(),
		RideType:        rides.RideTypeRequest,
		PostType:        rides.PostTypeParcel,
		PickupLocation:  "Durban, KZN",
		DropoffLocation: "Johannesburg, GP",
		DepartureDate:   "2099-12-18",
		DepartureTime:   "06:30",
		DriverName:      "Sipho N.",
		PhoneNumber:     "0831112222",
	}
}

func listingOf(rows ...rides.RidePost) *rides.Listing {
	return &rides.Listing{Rides: rows, Total: len(rows), Cities: rides.CityCounts(rows)}
}

// ========================================
// LISTING PAGE TESTS
// ========================================

func TestHome_RendersListingAndMarketing(t *testing.T) {
	f := newFixture(t, nil)
	f.lister.On("ListRides", mock.Anything, rides.Filter{}).Return(listingOf(capeTownRide()), nil)

	w := f.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Cape Town, WC")
	assert.Contains(t, body, "Stellenbosch, WC")
	assert.Contains(t, body, "Mon, 21 Dec 2099")
	assert.Contains(t, body, "R150.00")
	assert.Contains(t, body, "1 seat available")
	assert.Contains(t, body, "https://wa.me/27821234567")
	assert.Contains(t, body, "Showing 1 of 1 posts")
	assert.Contains(t, body, "Why Move from Facebook to LiftMate?")
	assert.Contains(t, body, "Simple, Transparent Pricing")
	assert.Contains(t, body, `/static/app.js`)
	assert.NotContains(t, body, "Sign In", "no sign-in link without a provider")
}

func TestHome_PassesFilterAndDropsInvalidValues(t *testing.T) {
	f := newFixture(t, nil)
	want := rides.Filter{PostType: "parcel", City: "Cape Town", Search: "stell"}
	f.lister.On("ListRides", mock.Anything, want).Return(&rides.Listing{Total: 1}, nil)

	w := f.get("/?ride_type=taxi&post_type=parcel&city=Cape+Town&q=stell")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No rides found")
	f.lister.AssertExpectations(t)
}

func TestHome_DisplayRules(t *testing.T) {
	request := capeTownRide()
	request.RideType = rides.RideTypeRequest

	tests := []struct {
		name      string
		ride      rides.RidePost
		contains  []string
		forbidden []string
	}{
		{
			name:      "parcel shows no seats or price",
			ride:      parcelRequest(),
			contains:  []string{"Contact for pricing", "tel:0831112222", "Parcel Delivery"},
			forbidden: []string{"/seat", "seats available"},
		},
		{
			name:      "passenger request shows seats but no price",
			ride:      request,
			contains:  []string{"1 seat available", "Looking for"},
			forbidden: []string{"R150.00", "BMW 3 Series 2020"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.lister.On("ListRides", mock.Anything, rides.Filter{}).Return(listingOf(tt.ride), nil)

			body := f.get("/").Body.String()

			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.forbidden {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestHome_ErrorStates(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{
			name:       "backend paused",
			err:        common.NewAppError(http.StatusServiceUnavailable, rides.PausedMessage, rides.ErrBackendPaused),
			wantStatus: http.StatusServiceUnavailable,
			wantText:   "temporarily unavailable",
		},
		{
			name:       "generic failure shows the store message",
			err:        common.NewInternalError("permission denied for table rides", nil),
			wantStatus: http.StatusInternalServerError,
			wantText:   "Could not load rides: permission denied for table rides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.lister.On("ListRides", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := f.get("/?q=cape")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
			assert.Contains(t, w.Body.String(), "Try again")
			assert.Contains(t, w.Body.String(), `href="/?q=cape#find-ride"`)
		})
	}
}

func TestCityCapsules_ToggleActiveCity(t *testing.T) {
	f := newFixture(t, nil)
	f.lister.On("ListRides", mock.Anything, rides.Filter{City: "Cape Town"}).Return(listingOf(capeTownRide()), nil)

	body := f.get("/?city=Cape+Town").Body.String()

	assert.Contains(t, body, `class="capsule capsule--active"`)
	assert.Contains(t, body, `href="/?city=Stellenbosch#find-ride"`)
}

func TestFilterURL(t *testing.T) {
	tests := []struct {
		filter rides.Filter
		want   string
	}{
		{rides.Filter{}, "/#find-ride"},
		{rides.Filter{RideType: "all", PostType: "all"}, "/#find-ride"},
		{rides.Filter{City: "Cape Town"}, "/?city=Cape+Town#find-ride"},
		{rides.Filter{RideType: "offer", Search: " stell "}, "/?q=stell&ride_type=offer#find-ride"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, filterURL(tt.filter))
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Mon, 2 Jan 2006", formatDate("2006-01-02"))
	assert.Equal(t, "soon", formatDate("soon"))
	assert.Equal(t, "08:00", formatTime("08:00:00"))
	assert.Equal(t, "08:00", formatTime("08:00"))
}

// ========================================
// STATIC PAGE TESTS
// ========================================

func TestTermsPage(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get("/terms")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LiftMate Terms of Service")
	assert.Contains(t, w.Body.String(), "15. Governing Law")

	body := w.Body.String()
	assert.Contains(t, body, `id="policies"`)
	assert.Contains(t, body, "Platform Integrity")
	assert.Equal(t, 3, strings.Count(body, `class="guideline-do"`))
	assert.Equal(t, 2, strings.Count(body, `class="guideline-dont"`))
	assert.Contains(t, body, "Criminal activity")
	assert.Contains(t, body, "Reporting Violations")
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get("/terms/extra")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = f.get("/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get("/static/app.js")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rides.changed")
}

// ========================================
// WIZARD TESTS
// ========================================

func detailsForm() url.Values {
	return url.Values{
		"ride_type":            {"offer"},
		"driver_name":          {"Lisa W."},
		"phone_number":         {"082 123 4567"},
		"is_whatsapp":          {"true"},
		"pickup_location":      {"Cape Town, WC"},
		"dropoff_location":     {"Stellenbosch, WC"},
		"departure_date":       {"2099-12-21"},
		"departure_time":       {"09:00"},
		"seats_available":      {"1"},
		"price_per_seat":       {"150"},
		"vehicle":              {"BMW 3 Series 2020"},
		"vehicle_registration": {"CA 123-456"},
	}
}

// toVerify walks a fresh wizard to the verify step with a selfie captured
func (f *fixture) toVerify(t *testing.T) {
	t.Helper()
	require.Equal(t, http.StatusOK, f.get("/post").Code)
	require.Equal(t, http.StatusSeeOther, f.post("/post/category", url.Values{"post_type": {"passengers"}}).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/post/details", detailsForm()).Code)
	require.Equal(t, http.StatusSeeOther, f.upload("/post/capture", pngBytes).Code)
}

func TestWizard_PostsRide(t *testing.T) {
	f := newFixture(t, nil)
	f.creator.On("CreateRide", mock.Anything, mock.MatchedBy(func(r *rides.RidePost) bool {
		return r.DriverName == "Lisa W." && r.SelfieURL != nil && strings.HasPrefix(*r.SelfieURL, "data:image/png;base64,")
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*rides.RidePost).ID = uuid.New()
	}).Return(nil)

	f.toVerify(t)

	preview := f.get("/post/preview")
	require.Equal(t, http.StatusOK, preview.Code)
	assert.Equal(t, "image/png", preview.Header().Get("Content-Type"))

	w := f.post("/post/submit", url.Values{"human_confirmed": {"true"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post", w.Header().Get("Location"))

	done := f.get("/post")
	assert.Contains(t, done.Body.String(), "Your ride has been posted!")
	f.creator.AssertExpectations(t)

	w = f.post("/post/cancel", url.Values{"next": {"/post"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post", w.Header().Get("Location"))
	assert.Empty(t, f.cookies)
}

func TestWizard_StartsAtCategory(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get("/post")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "What are you posting?")
	require.Len(t, f.cookies, 1)
	assert.True(t, f.cookies[0].HttpOnly)
}

func TestWizard_DetailsFieldErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.get("/post")
	f.post("/post/category", url.Values{"post_type": {"passengers"}})

	form := detailsForm()
	form.Del("phone_number")
	form.Set("price_per_seat", "")
	w := f.post("/post/details", form)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please fix the highlighted fields.")
	assert.Contains(t, body, "field--error")
	assert.Contains(t, body, `value="Lisa W."`, "entered values are kept")
}

func TestWizard_SubmitWithoutHumanMakesNoInsert(t *testing.T) {
	f := newFixture(t, nil)
	f.toVerify(t)

	w := f.post("/post/submit", url.Values{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please confirm that you are human")
	f.creator.AssertNotCalled(t, "CreateRide", mock.Anything, mock.Anything)
}

func TestWizard_InsertFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, nil)
	f.creator.On("CreateRide", mock.Anything, mock.Anything).
		Return(common.NewInternalError("duplicate key value", nil))
	f.toVerify(t)

	w := f.post("/post/submit", url.Values{"human_confirmed": {"true"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Could not post your ride: duplicate key value")
	assert.Contains(t, w.Body.String(), "Retake", "still on the verify step with the selfie")
}

func TestWizard_RejectsNonImageCapture(t *testing.T) {
	f := newFixture(t, nil)
	f.get("/post")
	f.post("/post/category", url.Values{"post_type": {"passengers"}})
	f.post("/post/details", detailsForm())

	w := f.upload("/post/capture", []byte("not a photo"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please use a JPEG, PNG or WebP photo")
}

func TestWizard_BackReturnsToCategory(t *testing.T) {
	f := newFixture(t, nil)
	f.toVerify(t)

	require.Equal(t, http.StatusSeeOther, f.post("/post/back", nil).Code)

	assert.Contains(t, f.get("/post").Body.String(), "What are you posting?")
	assert.Equal(t, http.StatusNotFound, f.get("/post/preview").Code)
}

func TestWizard_ExpiredDraft(t *testing.T) {
	f := newFixture(t, nil)
	f.cookies = []*http.Cookie{{Name: draftCookie, Value: "gone"}}

	w := f.post("/post/category", url.Values{"post_type": {"parcel"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Start again")
	assert.Empty(t, f.cookies)
}

func TestWizard_Gate(t *testing.T) {
	t.Run("redirects to login without a session", func(t *testing.T) {
		f := newFixture(t, &stubProvider{})

		w := f.get("/post")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, auth.LoginPath+"?next=%2Fpost", w.Header().Get("Location"))
	})

	t.Run("prefills the driver name", func(t *testing.T) {
		f := newFixture(t, &stubProvider{user: &auth.User{ID: "1", Name: "Thabo M."}})
		f.get("/post")
		f.post("/post/category", url.Values{"post_type": {"parcel"}})

		body := f.get("/post").Body.String()

		assert.Contains(t, body, `value="Thabo M."`)
		assert.Contains(t, body, "Sign Out")
	})
}
