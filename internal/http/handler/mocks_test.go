package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

type mockRegistrationService struct {
	registerFn       func(ctx context.Context, input model.RegistrationInput) (*model.RegistrationResult, error)
	emailAvailableFn func(ctx context.Context, email string) (bool, error)
}

func (m *mockRegistrationService) RegisterDojo(ctx context.Context, input model.RegistrationInput) (*model.RegistrationResult, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, nil
}

func (m *mockRegistrationService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	if m.emailAvailableFn != nil {
		return m.emailAvailableFn(ctx, email)
	}
	return true, nil
}

type mockSubscriptionService struct {
	checkFn   func(ctx context.Context, orgID int64) (model.TrialStatus, error)
	extendFn  func(ctx context.Context, orgID int64, days int) (*model.Organization, error)
	convertFn func(ctx context.Context, orgID int64, tier model.Tier) (*model.Organization, error)
}

func (m *mockSubscriptionService) CheckTrialStatus(ctx context.Context, orgID int64) (model.TrialStatus, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, orgID)
	}
	return model.ExpiredTrial, nil
}

func (m *mockSubscriptionService) ExtendTrial(ctx context.Context, orgID int64, days int) (*model.Organization, error) {
	if m.extendFn != nil {
		return m.extendFn(ctx, orgID, days)
	}
	return nil, nil
}

func (m *mockSubscriptionService) ConvertToSubscription(ctx context.Context, orgID int64, tier model.Tier) (*model.Organization, error) {
	if m.convertFn != nil {
		return m.convertFn(ctx, orgID, tier)
	}
	return nil, nil
}

func (m *mockSubscriptionService) ExpireTrials(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*service.Session, error)
	meFn    func(ctx context.Context, userID int64) (*model.User, *model.Organization, error)
	issueFn func(user *model.User) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*model.User, *model.Organization, error) {
	if m.meFn != nil {
		return m.meFn(ctx, userID)
	}
	return nil, nil, nil
}

func (m *mockAuthService) IssueToken(user *model.User) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(user)
	}
	return "token", nil
}

type mockSchoolService struct {
	listFn   func(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error)
	getFn    func(ctx context.Context, orgID, schoolID int64) (*model.School, error)
	createFn func(ctx context.Context, orgID int64, input model.SchoolInput) (*model.School, error)
	updateFn func(ctx context.Context, orgID, schoolID int64, patch model.SchoolPatch) (*model.School, error)
	deleteFn func(ctx context.Context, orgID, schoolID int64) error
	statsFn  func(ctx context.Context, orgID, schoolID int64) (*model.SchoolStats, error)
}

func (m *mockSchoolService) List(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error) {
	if m.listFn != nil {
		return m.listFn(ctx, orgID, filter)
	}
	return nil, nil
}

func (m *mockSchoolService) Get(ctx context.Context, orgID, schoolID int64) (*model.School, error) {
	if m.getFn != nil {
		return m.getFn(ctx, orgID, schoolID)
	}
	return nil, service.ErrNotFound
}

func (m *mockSchoolService) Create(ctx context.Context, orgID int64, input model.SchoolInput) (*model.School, error) {
	if m.createFn != nil {
		return m.createFn(ctx, orgID, input)
	}
	return nil, nil
}

func (m *mockSchoolService) Update(ctx context.Context, orgID, schoolID int64, patch model.SchoolPatch) (*model.School, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, orgID, schoolID, patch)
	}
	return nil, nil
}

func (m *mockSchoolService) Delete(ctx context.Context, orgID, schoolID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, orgID, schoolID)
	}
	return nil
}

func (m *mockSchoolService) Stats(ctx context.Context, orgID, schoolID int64) (*model.SchoolStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, orgID, schoolID)
	}
	return nil, nil
}

type mockCache struct {
	clearedOrgs    []int64
	clearedSchools []int64
}

func (m *mockCache) ClearOrganization(_ context.Context, orgID int64) {
	m.clearedOrgs = append(m.clearedOrgs, orgID)
}

func (m *mockCache) ClearSchool(_ context.Context, schoolID int64) {
	m.clearedSchools = append(m.clearedSchools, schoolID)
}

const testSecret = "handler-test-secret"

func newIssuer() *auth.TokenIssuer {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	Expect(err).NotTo(HaveOccurred())
	return issuer
}

func bearer(issuer *auth.TokenIssuer, claims auth.Claims) string {
	token, err := issuer.Issue(claims)
	Expect(err).NotTo(HaveOccurred())
	return "Bearer " + token
}

func adminClaims(orgID int64) auth.Claims {
	return auth.Claims{UserID: 1, Email: "owner@dojo.example", Role: model.RoleOrgAdmin, OrganizationID: orgID}
}

func jsonRequest(method, path string, body any, authHeader string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			Expect(json.NewEncoder(&buf).Encode(b)).To(Succeed())
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func int64Ptr(v int64) *int64 {
	return &v
}
