package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	applisting "github.com/rentfold/backend/internal/application/listing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

type applyHandlerFixture struct {
	handler         *ApplyHandler
	listingRepo     *mockListingRepository
	unitRepo        *mockUnitRepository
	applicationRepo *mockApplicationRepository
}

func newApplyHandlerFixture(t *testing.T) *applyHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	listingRepo := new(mockListingRepository)
	unitRepo := new(mockUnitRepository)
	applicationRepo := new(mockApplicationRepository)
	logger := zap.NewNop()

	listingService := applisting.NewListingService(listingRepo, unitRepo, &stubFeatureGate{}, &stubPhotoStorage{viewURL: "https://cdn.example.com/"}, logger)
	applicationService := appleasing.NewApplicationService(applicationRepo, unitRepo, logger)

	return &applyHandlerFixture{
		handler:         NewApplyHandler(listingRepo, listingService, applicationService),
		listingRepo:     listingRepo,
		unitRepo:        unitRepo,
		applicationRepo: applicationRepo,
	}
}

func publishedListingFixture(t *testing.T, businessID uuid.UUID) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(businessID, uuid.New())
	require.NoError(t, err)
	l.Headline = "Bright 2BR near the park"
	l.Description = "Second floor, in-unit laundry."
	l.MonthlyRentCents = 185000
	require.NoError(t, l.Publish())
	return l
}

func applyRequest(t *testing.T, method, code string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	c.Request, _ = http.NewRequest(method, "/apply/"+code, payload)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "code", Value: code}}
	return c, w
}

func TestApplyHandler_GetListing_Published(t *testing.T) {
	f := newApplyHandlerFixture(t)
	businessID := uuid.New()
	l := publishedListingFixture(t, businessID)

	f.listingRepo.On("FindByID", mock.Anything, l.ID).Return(l, nil)
	// PhotoURLs resolves the listing again through the business scope
	f.listingRepo.On("FindByIDForBusiness", mock.Anything, l.ID, businessID).Return(l, nil)

	c, w := applyRequest(t, http.MethodGet, l.ID.String(), nil)
	f.handler.GetListing(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, l.ID.String(), data["code"])
	assert.Equal(t, "Bright 2BR near the park", data["headline"])
	assert.Equal(t, float64(185000), data["monthly_rent_cents"])
}

func TestApplyHandler_GetListing_UnpublishedIs404(t *testing.T) {
	f := newApplyHandlerFixture(t)
	businessID := uuid.New()

	draft, err := listing.NewListing(businessID, uuid.New())
	require.NoError(t, err)

	f.listingRepo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

	c, w := applyRequest(t, http.MethodGet, draft.ID.String(), nil)
	f.handler.GetListing(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyHandler_GetListing_UnknownCode(t *testing.T) {
	f := newApplyHandlerFixture(t)
	id := uuid.New()

	f.listingRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	c, w := applyRequest(t, http.MethodGet, id.String(), nil)
	f.handler.GetListing(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyHandler_GetListing_MalformedCode(t *testing.T) {
	f := newApplyHandlerFixture(t)

	c, w := applyRequest(t, http.MethodGet, "not-a-uuid", nil)
	f.handler.GetListing(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyHandler_Submit_Success(t *testing.T) {
	f := newApplyHandlerFixture(t)
	businessID := uuid.New()
	l := publishedListingFixture(t, businessID)

	unit, err := portfolio.NewUnit(businessID, uuid.New(), "4B", 2, decimal.NewFromFloat(1.5), 185000)
	require.NoError(t, err)

	f.listingRepo.On("FindByID", mock.Anything, l.ID).Return(l, nil)
	f.unitRepo.On("FindByIDForBusiness", mock.Anything, l.UnitID, businessID).Return(unit, nil)
	f.applicationRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	c, w := applyRequest(t, http.MethodPost, l.ID.String(), SubmitApplicationRequest{
		ApplicantName:      "Dana Whitfield",
		ApplicantEmail:     "dana@example.com",
		MonthlyIncomeCents: 650000,
		ReferralCode:       "SPRING24",
	})
	f.handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	f.applicationRepo.AssertExpectations(t)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Dana Whitfield", data["applicant_name"])
	assert.Equal(t, "SPRING24", data["referral_code"])
}

func TestApplyHandler_Submit_InvalidBody(t *testing.T) {
	f := newApplyHandlerFixture(t)
	businessID := uuid.New()
	l := publishedListingFixture(t, businessID)

	f.listingRepo.On("FindByID", mock.Anything, l.ID).Return(l, nil)

	c, w := applyRequest(t, http.MethodPost, l.ID.String(), gin.H{"applicant_name": "No Email"})
	f.handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.applicationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyHandler_Submit_UnrentableUnit(t *testing.T) {
	f := newApplyHandlerFixture(t)
	businessID := uuid.New()
	l := publishedListingFixture(t, businessID)

	unit, err := portfolio.NewUnit(businessID, uuid.New(), "4B", 2, decimal.NewFromFloat(1.5), 185000)
	require.NoError(t, err)
	unit.Status = portfolio.UnitStatusMaintenance

	f.listingRepo.On("FindByID", mock.Anything, l.ID).Return(l, nil)
	f.unitRepo.On("FindByIDForBusiness", mock.Anything, l.UnitID, businessID).Return(unit, nil)

	c, w := applyRequest(t, http.MethodPost, l.ID.String(), SubmitApplicationRequest{
		ApplicantName:  "Dana Whitfield",
		ApplicantEmail: "dana@example.com",
	})
	f.handler.Submit(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
