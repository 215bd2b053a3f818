package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/auth"
	"github.com/brightpath-labs/vendoreval/internal/decision"
	"github.com/brightpath-labs/vendoreval/internal/evaluation"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

const testSecret = "router-test-secret"

// mockStore is an in-memory Store for handler tests.
type mockStore struct {
	vendors  map[uuid.UUID]*store.Vendor
	evals    map[string]*store.Evaluation
	votes    []*store.Vote
	settings store.FeatureSettings
}

func newMockStore() *mockStore {
	return &mockStore{
		vendors: make(map[uuid.UUID]*store.Vendor),
		evals:   make(map[string]*store.Evaluation),
		settings: store.FeatureSettings{
			ChatEnabled:           true,
			DirectDecisionEnabled: true,
			PrintEnabled:          true,
			ExportEnabled:         true,
		},
	}
}

func pairKey(vendorID, evaluatorID uuid.UUID) string {
	return vendorID.String() + "/" + evaluatorID.String()
}

func (m *mockStore) CreateVendor(_ context.Context, v *store.Vendor) error {
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	m.vendors[v.ID] = v
	return nil
}

func (m *mockStore) GetVendor(_ context.Context, id uuid.UUID) (*store.Vendor, error) {
	return m.vendors[id], nil
}

func (m *mockStore) ListVendors(_ context.Context) ([]*store.Vendor, error) {
	out := make([]*store.Vendor, 0, len(m.vendors))
	for _, v := range m.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (m *mockStore) UpsertEvaluation(_ context.Context, e *store.Evaluation) error {
	key := pairKey(e.VendorID, e.EvaluatorID)
	if prev, ok := m.evals[key]; ok {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	} else {
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = time.Now()
	m.evals[key] = e
	return nil
}

func (m *mockStore) GetEvaluation(_ context.Context, vendorID, evaluatorID uuid.UUID) (*store.Evaluation, error) {
	return m.evals[pairKey(vendorID, evaluatorID)], nil
}

func (m *mockStore) ListEvaluations(_ context.Context, vendorID uuid.UUID) ([]*store.Evaluation, error) {
	var out []*store.Evaluation
	for _, e := range m.evals {
		if e.VendorID == vendorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) CreateVote(_ context.Context, v *store.Vote) error {
	v.CreatedAt = time.Now()
	m.votes = append(m.votes, v)
	return nil
}

func (m *mockStore) ListVotes(_ context.Context, vendorID uuid.UUID) ([]*store.Vote, error) {
	var out []*store.Vote
	for _, v := range m.votes {
		if v.VendorID == vendorID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockStore) DecideVendor(_ context.Context, vendorID uuid.UUID, dec store.Decision, decidedBy uuid.UUID) (bool, error) {
	v, ok := m.vendors[vendorID]
	if !ok || v.FinalDecision != store.DecisionPending {
		return false, nil
	}
	now := time.Now()
	v.FinalDecision = dec
	v.DecidedBy = &decidedBy
	v.DecidedAt = &now
	v.UpdatedAt = now
	return true, nil
}

func (m *mockStore) GetSettings(_ context.Context) (*store.FeatureSettings, error) {
	fs := m.settings
	return &fs, nil
}

func (m *mockStore) UpdateSettings(_ context.Context, s *store.FeatureSettings) error {
	s.UpdatedAt = time.Now()
	m.settings = *s
	return nil
}

func (m *mockStore) Close() error { return nil }

type testEnv struct {
	store  *mockStore
	rubric *rubric.Rubric
	server http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ms := newMockStore()
	rb := rubric.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Deps{
		Store:    ms,
		Rubric:   rb,
		Manager:  evaluation.NewManager(rb, ms, logger),
		Decision: decision.NewService(ms, logger),
		Resolver: auth.NewResolver(testSecret),
		Logger:   logger,
	})
	return &testEnv{store: ms, rubric: rb, server: router}
}

type tokenOpts struct {
	id     uuid.UUID
	name   string
	role   string
	print  bool
	export bool
	chat   bool
}

func issueToken(t *testing.T, o tokenOpts) string {
	t.Helper()
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	claims := auth.Claims{
		Name:            o.name,
		Role:            o.role,
		CanAccessChat:   o.chat,
		CanPrintReports: o.print,
		CanExportData:   o.export,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   o.id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) addVendor(name string) *store.Vendor {
	v := &store.Vendor{ID: uuid.New(), Name: name, FinalDecision: store.DecisionPending}
	_ = env.store.CreateVendor(context.Background(), v)
	return v
}

func fullScores(rb *rubric.Rubric, value float64) map[string]float64 {
	scores := make(map[string]float64)
	for _, key := range rb.CriteriaKeys() {
		scores[key] = value
	}
	return scores
}

func TestRouterRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/vendors", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHealthIsOpen(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSubmitEvaluation(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{name: "Dana", role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", token, ScoreSubmissionRequest{
		Scores: fullScores(env.rubric, 8),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ScoreSubmissionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OverallScore != 80 {
		t.Errorf("expected overall 80, got %v", resp.OverallScore)
	}
	if resp.Status != string(store.EvaluationSubmitted) {
		t.Errorf("expected SUBMITTED, got %s", resp.Status)
	}
}

func TestSubmitRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	scores := fullScores(env.rubric, 8)
	scores["experience"] = 11
	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", token, ScoreSubmissionRequest{Scores: scores})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(env.store.evals) != 0 {
		t.Errorf("nothing should be persisted on validation failure")
	}
}

func TestSubmitUnknownVendor(t *testing.T) {
	env := newTestEnv(t)
	token := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})
	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+uuid.NewString()+"/evaluation", token, ScoreSubmissionRequest{
		Scores: fullScores(env.rubric, 5),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminCannotSubmit(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "ADMIN"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", token, ScoreSubmissionRequest{
		Scores: fullScores(env.rubric, 8),
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestContributorCannotListAll(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/evaluations", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDraftThenGetOwn(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	evaluator := uuid.New()
	token := issueToken(t, tokenOpts{id: evaluator, name: "Dana", role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodPut, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation/draft", token, ScoreSubmissionRequest{
		Scores: map[string]float64{"experience": 7},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got store.Evaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if got.Status != store.EvaluationDraft {
		t.Errorf("expected DRAFT, got %s", got.Status)
	}
	if got.Scores["experience"] != 7 {
		t.Errorf("expected experience 7, got %v", got.Scores["experience"])
	}
}

func TestAdminDraftOverride(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	evaluator := uuid.New()
	contributor := issueToken(t, tokenOpts{id: evaluator, name: "Dana", role: "CONTRIBUTOR"})
	admin := issueToken(t, tokenOpts{name: "Root", role: "ADMIN"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", contributor, ScoreSubmissionRequest{
		Scores: fullScores(env.rubric, 8),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d", rec.Code)
	}

	// The evaluator cannot touch their own submitted record.
	rec = env.do(t, http.MethodPut, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation/draft", contributor, ScoreSubmissionRequest{
		Scores: map[string]float64{"experience": 2},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for own draft after submit, got %d", rec.Code)
	}

	adminPath := "/api/v1/vendors/" + vendor.ID.String() + "/evaluations/" + evaluator.String() + "/draft"

	rec = env.do(t, http.MethodPut, adminPath, contributor, ScoreSubmissionRequest{
		Scores: map[string]float64{"experience": 2},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin on the override route, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, adminPath, admin, ScoreSubmissionRequest{
		Scores: map[string]float64{"experience": 2},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin override, got %d: %s", rec.Code, rec.Body.String())
	}

	got := env.store.evals[pairKey(vendor.ID, evaluator)]
	if got.Status != store.EvaluationDraft {
		t.Errorf("override must reopen the record as DRAFT, got %s", got.Status)
	}
	if got.EvaluatorName != "Dana" {
		t.Errorf("override must keep the evaluator's name, got %q", got.EvaluatorName)
	}
}

func TestAdminDraftOverrideUnknownEvaluation(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	admin := issueToken(t, tokenOpts{role: "ADMIN"})

	rec := env.do(t, http.MethodPut, "/api/v1/vendors/"+vendor.ID.String()+"/evaluations/"+uuid.NewString()+"/draft", admin, ScoreSubmissionRequest{
		Scores: map[string]float64{"experience": 2},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a record that does not exist, got %d", rec.Code)
	}
}

func TestGetOwnMissing(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDecisionFlowAndConflict(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	first := issueToken(t, tokenOpts{name: "Maya", role: "DECISION_MAKER"})
	second := issueToken(t, tokenOpts{name: "Omar", role: "DECISION_MAKER"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/decision", first, DecisionRequest{Choice: "ACCEPT"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var decided store.Vendor
	if err := json.Unmarshal(rec.Body.Bytes(), &decided); err != nil {
		t.Fatalf("decode vendor: %v", err)
	}
	if decided.FinalDecision != store.DecisionAccepted {
		t.Errorf("expected ACCEPTED, got %s", decided.FinalDecision)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/decision", second, DecisionRequest{Choice: "REJECT"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if env.store.vendors[vendor.ID].FinalDecision != store.DecisionAccepted {
		t.Errorf("losing decision must not change the outcome")
	}
}

func TestDecisionBlockedWhenFeatureDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.store.settings.DirectDecisionEnabled = false
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "DECISION_MAKER"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/decision", token, DecisionRequest{Choice: "ACCEPT"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["reason"] != "FEATURE_DISABLED" {
		t.Errorf("expected FEATURE_DISABLED, got %q", resp["reason"])
	}
}

func TestContributorCannotDecide(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	token := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/decision", token, DecisionRequest{Choice: "ACCEPT"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestSummaryForDecisionMaker(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")
	contributor := issueToken(t, tokenOpts{name: "Dana", role: "CONTRIBUTOR"})
	maker := issueToken(t, tokenOpts{role: "DECISION_MAKER"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/evaluation", contributor, ScoreSubmissionRequest{
		Scores: fullScores(env.rubric, 6),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/summary", maker, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary struct {
		EvaluationCount int      `json:"evaluation_count"`
		OverallAverage  *float64 `json:"overall_average"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.EvaluationCount != 1 {
		t.Errorf("expected 1 evaluation, got %d", summary.EvaluationCount)
	}
	if summary.OverallAverage == nil || *summary.OverallAverage != 60 {
		t.Errorf("expected overall average 60, got %v", summary.OverallAverage)
	}
}

func TestReportPrintGating(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.addVendor("Acme Media")

	noGrant := issueToken(t, tokenOpts{role: "DECISION_MAKER"})
	rec := env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/report?format=print", noGrant, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without print grant, got %d", rec.Code)
	}

	granted := issueToken(t, tokenOpts{role: "DECISION_MAKER", print: true})
	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/report?format=print", granted, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with print grant, got %d: %s", rec.Code, rec.Body.String())
	}

	env.store.settings.PrintEnabled = false
	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+vendor.ID.String()+"/report?format=print", granted, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with printing disabled globally, got %d", rec.Code)
	}
}

func TestSettingsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := issueToken(t, tokenOpts{name: "Root", role: "ADMIN"})
	contributor := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodGet, "/api/v1/admin/settings", contributor, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for contributor, got %d", rec.Code)
	}

	off := false
	rec = env.do(t, http.MethodPut, "/api/v1/admin/settings", admin, SettingsUpdateRequest{ChatEnabled: &off})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.store.settings.ChatEnabled {
		t.Errorf("chat should be disabled")
	}
	if !env.store.settings.DirectDecisionEnabled {
		t.Errorf("untouched settings must keep their value")
	}
}

func TestVendorManagement(t *testing.T) {
	env := newTestEnv(t)
	admin := issueToken(t, tokenOpts{role: "ADMIN"})
	contributor := issueToken(t, tokenOpts{role: "CONTRIBUTOR"})

	rec := env.do(t, http.MethodPost, "/api/v1/vendors", contributor, CreateVendorRequest{Name: "Acme Media"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for contributor, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/vendors", admin, CreateVendorRequest{
		Name:   "Acme Media",
		Scopes: []string{"Social Media Management"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created store.Vendor
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode vendor: %v", err)
	}
	if created.FinalDecision != store.DecisionPending {
		t.Errorf("new vendors start PENDING, got %s", created.FinalDecision)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+created.ID.String(), contributor, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
