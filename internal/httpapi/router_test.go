package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"PolicyPal/internal/auth"
	"PolicyPal/internal/domain"
	"PolicyPal/internal/infrastructure/storage"
	"PolicyPal/internal/infrastructure/storage/storagetest"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/usecase"
)

type testAPI struct {
	router *gin.Engine
	bills  *storage.BillRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := storagetest.DB(t)
	logger := logging.Nop()

	bills := storage.NewBillRepository(db)
	votes := storage.NewVoteStore(db)
	tokens, err := auth.NewJWTIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwt issuer: %v", err)
	}

	accounts := usecase.NewAccounts(usecase.AccountsDeps{
		Users:  storage.NewUserRepository(db),
		Votes:  votes,
		Hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens: tokens,
		Logger: logger,
	})
	catalog := usecase.NewCatalog(bills, storage.NewTrackingRepository(db))
	ledger := usecase.NewLedger(votes, bills, logger)

	router := NewRouter(RouterConfig{
		AuthHandler:    NewAuthHandler(accounts),
		BillHandler:    NewBillHandler(catalog, ledger),
		UserHandler:    NewUserHandler(accounts, ledger),
		Tokens:         tokens,
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &testAPI{router: router, bills: bills}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seedBill(t *testing.T, number, title string) domain.Bill {
	t.Helper()
	key := domain.BillKey{Congress: 118, Type: "hr", Number: number}
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	bill, err := a.bills.Insert(context.Background(), domain.Bill{
		Key:              key,
		Title:            title,
		OriginChamber:    "House",
		Sponsor:          "Rep. Example",
		LatestActionDate: now,
		UpdateDate:       now,
		URL:              key.PublicURL(),
		TextPreview:      "preview of " + title,
		FullText:         "full text of " + title,
	})
	if err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return bill
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func register(t *testing.T, api *testAPI, username string, age int) string {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":                 username + "@example.com",
		"username":              username,
		"password":              "hunter22",
		"age":                   age,
		"gender":                "Female",
		"state":                 "California",
		"political_affiliation": "independent",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[authResponse](t, rec)
	if resp.AccessToken == "" || resp.User.Username != username {
		t.Fatalf("unexpected register response: %+v", resp)
	}
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "ada", 36)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ada@example.com", "username": "ada2", "password": "x",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "bob@example.com", "username": "bob", "password": "x", "gender": "robot",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown attribute status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ada", "password": "hunter22"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login by username status = %d body=%s", rec.Code, rec.Body.String())
	}
	if resp := decode[authResponse](t, rec); resp.Message != "Logged in successfully" || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ADA@example.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}
	env := decode[ErrorEnvelope](t, rec)
	if env.Error.Code != "invalid_credentials" {
		t.Fatalf("error code = %q", env.Error.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	bill := api.seedBill(t, "1", "Clean Water Act")

	cases := []struct {
		method, path, token string
	}{
		{http.MethodPost, fmt.Sprintf("/api/bills/%d/vote", bill.ID), ""},
		{http.MethodGet, "/api/user/profile", ""},
		{http.MethodGet, "/api/user/votes", "not-a-jwt"},
	}
	for _, tc := range cases {
		rec := api.do(t, tc.method, tc.path, tc.token, map[string]string{"vote_status": "upvote"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestVoteFlow(t *testing.T) {
	api := newTestAPI(t)
	bill := api.seedBill(t, "7", "Farm Bill")
	token := register(t, api, "minor", 16)
	votePath := fmt.Sprintf("/api/bills/%d/vote", bill.ID)

	rec := api.do(t, http.MethodPost, votePath, token, map[string]string{"vote_status": "none"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("removing absent vote status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, votePath, token, map[string]string{"vote_status": "sideways"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, votePath, token, map[string]string{"vote_status": "upvote"})
	if rec.Code != http.StatusOK {
		t.Fatalf("upvote status = %d body=%s", rec.Code, rec.Body.String())
	}
	vote := decode[voteResponse](t, rec)
	if vote.Change != domain.ChangeAdded || vote.VoteCount != 1 || vote.UpvoteCount != 1 {
		t.Fatalf("unexpected upvote response: %+v", vote)
	}
	if got := vote.Demographics.Upvote.Age["under_18"]; got != 1 {
		t.Fatalf("under_18 upvotes = %d", got)
	}
	if got := vote.Demographics.Upvote.State["ca"]; got != 1 {
		t.Fatalf("ca upvotes = %d", got)
	}

	rec = api.do(t, http.MethodPost, votePath, token, map[string]string{"vote_status": "downvote"})
	vote = decode[voteResponse](t, rec)
	if vote.Change != domain.ChangeSwapped || vote.VoteCount != 1 || vote.UpvoteCount != 0 || vote.DownvoteCount != 1 {
		t.Fatalf("unexpected swap response: %+v", vote)
	}

	rec = api.do(t, http.MethodGet, "/api/user/votes", token, nil)
	votes := decode[struct {
		Votes map[string]string `json:"votes"`
	}](t, rec)
	if votes.Votes[fmt.Sprint(bill.ID)] != "downvote" {
		t.Fatalf("user votes = %v", votes.Votes)
	}

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/bills/%d/demographics", bill.ID), "", nil)
	demo := decode[struct {
		BillID       int64             `json:"bill_id"`
		Demographics domain.VoteRecord `json:"demographics"`
	}](t, rec)
	if demo.Demographics.Downvote.Age["under_18"] != 1 || demo.Demographics.Upvote.Age["under_18"] != 0 {
		t.Fatalf("demographics = %+v", demo.Demographics)
	}

	rec = api.do(t, http.MethodPost, votePath, token, map[string]string{"vote_status": "none"})
	vote = decode[voteResponse](t, rec)
	if vote.Change != domain.ChangeRemoved || vote.VoteCount != 0 || vote.VoteStatus != "none" {
		t.Fatalf("unexpected removal response: %+v", vote)
	}
}

func TestVoteUnknownBill(t *testing.T) {
	api := newTestAPI(t)
	token := register(t, api, "voter", 40)

	rec := api.do(t, http.MethodPost, "/api/bills/999/vote", token, map[string]string{"vote_status": "upvote"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodGet, "/api/bills/999/demographics", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("demographics status = %d", rec.Code)
	}
}

func TestBillsListingAndSearch(t *testing.T) {
	api := newTestAPI(t)
	api.seedBill(t, "1", "Clean Water Act")
	api.seedBill(t, "2", "Highway Funding")
	full := api.seedBill(t, "3", "Water Rights Compact")

	rec := api.do(t, http.MethodGet, "/api/bills?per_page=2&page=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[listResponse](t, rec)
	if list.Pagination.Total != 3 || list.Pagination.Pages != 2 || len(list.Bills) != 2 {
		t.Fatalf("pagination = %+v, bills = %d", list.Pagination, len(list.Bills))
	}
	if list.Bills[0].FullText != "" {
		t.Fatalf("listing must not carry full text")
	}

	rec = api.do(t, http.MethodGet, "/api/search?keyword=WATER", "", nil)
	found := decode[struct {
		Bills []billView `json:"bills"`
	}](t, rec)
	if len(found.Bills) != 2 {
		t.Fatalf("search found %d bills", len(found.Bills))
	}

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/bills/%d/full", full.ID), "", nil)
	view := decode[billView](t, rec)
	if view.FullText != "full text of Water Rights Compact" {
		t.Fatalf("full text = %q", view.FullText)
	}

	rec = api.do(t, http.MethodGet, "/api/bills/12345/full", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing bill status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodGet, "/api/bills/trending", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trending status = %d", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t)
	token := register(t, api, "grace", 70)

	rec := api.do(t, http.MethodPut, "/api/user/profile", token, map[string]any{"state": "Atlantis"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad state status = %d", rec.Code)
	}

	rec = api.do(t, http.MethodPut, "/api/user/profile", token, map[string]any{"age": 71, "state": "new york", "gender": "female"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodGet, "/api/user/profile", token, nil)
	profile := decode[profileView](t, rec)
	if profile.Profile.State != "ny" || profile.Profile.Age == nil || *profile.Profile.Age != 71 {
		t.Fatalf("profile = %+v", profile.Profile)
	}
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/bills", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}
