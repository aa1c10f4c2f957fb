package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/search"
	"github.com/muurk/fieldkit/internal/validation"
)

// Backend paths
const (
	CitiesPath = "/api/cities"
	SignupPath = "/api/signup"
)

// Signup is the body posted by the demo form.
type Signup struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	City   string   `json:"city"`
	Fruits []string `json:"fruits"`
	Size   string   `json:"size"`
}

// SignupResponse is returned for an accepted signup.
type SignupResponse struct {
	ID int `json:"id"`
}

var cities = []option.Option{
	{Value: "lis", Text: "Lisbon", DetailText: "Portugal"},
	{Value: "opo", Text: "Porto", DetailText: "Portugal"},
	{Value: "sao", Text: "São Paulo", DetailText: "Brazil"},
	{Value: "rio", Text: "Rio de Janeiro", DetailText: "Brazil"},
	{Value: "bsb", Text: "Brasília", DetailText: "Brazil"},
	{Value: "mad", Text: "Madrid", DetailText: "Spain"},
	{Value: "bcn", Text: "Barcelona", DetailText: "Spain"},
	{Value: "par", Text: "Paris", DetailText: "France"},
	{Value: "lyn", Text: "Lyon", DetailText: "France"},
	{Value: "ber", Text: "Berlin", DetailText: "Germany"},
	{Value: "muc", Text: "Munich", DetailText: "Germany"},
	{Value: "ams", Text: "Amsterdam", DetailText: "Netherlands"},
	{Value: "lon", Text: "London", DetailText: "United Kingdom"},
	{Value: "dub", Text: "Dublin", DetailText: "Ireland"},
	{Value: "rom", Text: "Rome", DetailText: "Italy"},
	{Value: "mil", Text: "Milan", DetailText: "Italy"},
	{Value: "nyc", Text: "New York", DetailText: "United States"},
	{Value: "mtl", Text: "Montréal", DetailText: "Canada"},
	{Value: "bog", Text: "Bogotá", DetailText: "Colombia"},
	{Value: "tyo", Text: "Tokyo", DetailText: "Japan"},
}

// Backend is an in-process stand-in for a form backend. It answers city
// searches and validates signups the way a real API would: field errors
// come back as a 400 with an {"errors": {...}} body.
//
// A few inputs trigger failures on purpose:
//   - an email at taken.example is already registered (400)
//   - a city missing from the list is unknown (400)
//   - the name "boom" fails with a 500
//   - the name "slow" answers after Delay
type Backend struct {
	Delay  time.Duration
	Logger *zap.Logger

	mu      sync.Mutex
	nextID  int
	signups []Signup
	mux     *http.ServeMux
}

// NewBackend returns a backend with its routes registered.
func NewBackend() *Backend {
	b := &Backend{Delay: 2 * time.Second, nextID: 1}
	b.mux = http.NewServeMux()
	b.mux.HandleFunc("GET "+CitiesPath, b.handleCities)
	b.mux.HandleFunc("POST "+SignupPath, b.handleSignup)
	return b
}

// Start serves b on a loopback listener. Close the server when done.
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.logger().Debug("Request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	b.mux.ServeHTTP(w, r)
}

func (b *Backend) logger() *zap.Logger {
	return logging.OrDefault(b.Logger, "demo.backend")
}

// Signups returns the accepted signups.
func (b *Backend) Signups() []Signup {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Signup(nil), b.signups...)
}

func (b *Backend) handleCities(w http.ResponseWriter, r *http.Request) {
	token := search.GenerateSearchToken(r.URL.Query().Get("q"))
	items := []option.Option{}
	for _, c := range cities {
		if search.Contains(token, search.GenerateSearchToken(c.Text), search.GenerateSearchToken(c.DetailText)) {
			items = append(items, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var s Signup
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]any{validation.GlobalFieldName: "Malformed request"}})
		return
	}

	switch strings.ToLower(strings.TrimSpace(s.Name)) {
	case "boom":
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	case "slow":
		select {
		case <-time.After(b.Delay):
		case <-r.Context().Done():
			return
		}
	}

	errs := map[string][]string{}
	if strings.HasSuffix(strings.ToLower(s.Email), "@taken.example") {
		errs["Email"] = append(errs["Email"], "This email is already registered")
	}
	if s.City != "" && !knownCity(s.City) {
		errs["city"] = append(errs["city"], "Unknown city")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.signups = append(b.signups, s)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, SignupResponse{ID: id})
}

func knownCity(v string) bool {
	_, ok := option.Find(option.NormalizeOptions(cities), v)
	return ok
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
