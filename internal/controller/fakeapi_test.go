// ABOUTME: In-process fake of the coffee catalog API for controller tests
// ABOUTME: Wires a real client, repository and in-memory session store against httptest

package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/repository"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

type fakeAPI struct {
	mu       sync.Mutex
	tokens   map[string]bool
	coffees  []client.CoffeeItem
	comments map[int][]client.CommentItem
	nextID   int
	// fail maps "METHOD /path" to a status code returned instead of the normal reply
	fail  map[string]int
	calls map[string]int
	// block, when set, is waited on before replying to GET /coffee
	block chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tokens: map[string]bool{"good": true},
		coffees: []client.CoffeeItem{
			{ID: 1, Name: "Latte", Description: "milky", CommentCount: 1},
			{ID: 2, Name: "Mocha", Description: "chocolate"},
		},
		comments: map[int][]client.CommentItem{
			1: {{ID: 1, CoffeeID: 1, User: "bob", Text: "nice"}},
		},
		nextID: 100,
		fail:   map[string]int{},
		calls:  map[string]int{},
	}
}

func (f *fakeAPI) failWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = status
}

func (f *fakeAPI) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls[route]++
	status, failing := f.fail[route]
	block := f.block
	f.mu.Unlock()

	if r.Method == http.MethodGet && r.URL.Path == "/coffee" && block != nil {
		<-block
	}

	if failing {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":"%s"}`, http.StatusText(status))
		return
	}

	if r.URL.Path == "/login" {
		f.login(w, r)
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	valid := f.tokens[token]
	f.mu.Unlock()
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/coffee":
		json.NewEncoder(w).Encode(f.coffees)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/coffee/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/coffee/"))
		for _, c := range f.coffees {
			if c.ID == id {
				json.NewEncoder(w).Encode(c)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/comments/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/comments/"))
		list := f.comments[id]
		if list == nil {
			list = []client.CommentItem{}
		}
		json.NewEncoder(w).Encode(list)
	case r.Method == http.MethodPost && r.URL.Path == "/comments":
		var c client.CommentItem
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.nextID++
		c.ID = f.nextID
		f.comments[c.CoffeeID] = append(f.comments[c.CoffeeID], c)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(c)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	json.NewDecoder(r.Body).Decode(&creds)
	if creds.Password != "secret" {
		json.NewEncoder(w).Encode(client.LoginResponse{OK: false, Message: "bad credentials"})
		return
	}
	token := "tok-" + creds.Username
	f.mu.Lock()
	f.tokens[token] = true
	f.mu.Unlock()
	json.NewEncoder(w).Encode(client.LoginResponse{OK: true, Token: token})
}

// revoke makes the server reject token with 401
func (f *fakeAPI) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

type harness struct {
	api     *fakeAPI
	server  *httptest.Server
	backend *session.MemoryBackend
	store   *session.Store
	repo    *repository.Repository
}

func newHarness(t *testing.T, initial session.Session) *harness {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	backend := session.NewMemoryBackend(initial)
	store, err := session.Open(backend)
	require.NoError(t, err)

	return &harness{
		api:     api,
		server:  server,
		backend: backend,
		store:   store,
		repo:    repository.New(client.New(server.URL), store),
	}
}

var signedIn = session.Session{Token: "good", Username: "alice"}
