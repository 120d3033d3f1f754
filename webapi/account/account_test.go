package account_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/dto"
	accountweb "github.com/amirasaad/strides/webapi/account"
	"github.com/amirasaad/strides/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	suite.Suite
	ta     *testutils.TestApp
	token  string
	userID uuid.UUID
}

func (s *AccountTestSuite) SetupTest() {
	s.ta = testutils.NewTestApp(s.T(), nil)
	s.token, s.userID = s.ta.SignupAndLogin(s.T())
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) create(body string) *accountweb.AccountDTO {
	resp := s.ta.Request(http.MethodPost, "/accounts", body, s.token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var a accountweb.AccountDTO
	testutils.DecodeData(s.T(), resp, &a)
	return &a
}

const bankBody = `{
	"provider": "HDFC",
	"accountName": "Salary",
	"accountType": "bank_account",
	"balance": 2500.75,
	"country": "IN",
	"currency": "inr",
	"linkedModes": [{"name": "GPay", "type": "upi"}]
}`

func (s *AccountTestSuite) TestCreateGetList() {
	a := s.create(bankBody)
	s.Equal("Salary", a.AccountName)
	s.Equal("INR", a.Currency)
	s.InDelta(2500.75, a.Balance, 0.0001)
	s.Equal(s.userID, a.UserID)
	s.Len(a.LinkedModes, 1)

	resp := s.ta.Request(http.MethodGet, "/accounts/"+a.ID.String(), "", s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var got accountweb.AccountDTO
	testutils.DecodeData(s.T(), resp, &got)
	s.Equal(a.ID, got.ID)

	resp = s.ta.Request(http.MethodGet, "/accounts", "", s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var list []accountweb.AccountDTO
	testutils.DecodeData(s.T(), resp, &list)
	s.Len(list, 1)
}

func (s *AccountTestSuite) TestCreate_Rejects() {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"provider":"HDFC","accountType":"bank_account","country":"IN","currency":"INR"}`},
		{"bad type", `{"provider":"HDFC","accountName":"x","accountType":"savings","country":"IN","currency":"INR"}`},
		{"bad country", `{"provider":"HDFC","accountName":"x","accountType":"cash","country":"GB","currency":"GBP"}`},
		{"credit field on bank", `{"provider":"HDFC","accountName":"x","accountType":"bank_account","country":"IN","currency":"INR","creditLimit":100}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp := s.ta.Request(http.MethodPost, "/accounts", tt.body, s.token)
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func (s *AccountTestSuite) TestOwnership() {
	a := s.create(bankBody)
	otherToken, _ := s.ta.SignupAndLogin(s.T())

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/accounts/" + a.ID.String(), ""},
		{http.MethodPut, "/accounts/" + a.ID.String(), `{"accountName":"Mine now"}`},
		{http.MethodDelete, "/accounts/" + a.ID.String(), ""},
	} {
		resp := s.ta.Request(req.method, req.path, req.body, otherToken)
		s.Equal(fiber.StatusNotFound, resp.StatusCode, req.method)
	}

	resp := s.ta.Request(http.MethodGet, "/accounts/not-a-uuid", "", s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AccountTestSuite) TestUpdate() {
	a := s.create(bankBody)

	resp := s.ta.Request(http.MethodPut, "/accounts/"+a.ID.String(), `{}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.ta.Request(http.MethodPut, "/accounts/"+a.ID.String(), `{"creditLimit": 10}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.ta.Request(http.MethodPut, "/accounts/"+a.ID.String(),
		`{"accountName":"Household","balance":1}`, s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var updated accountweb.AccountDTO
	testutils.DecodeData(s.T(), resp, &updated)
	s.Equal("Household", updated.AccountName)
	// balance is not editable
	s.InDelta(2500.75, updated.Balance, 0.0001)
}

func (s *AccountTestSuite) TestDelete() {
	a := s.create(bankBody)
	resp := s.ta.Request(http.MethodDelete, "/accounts/"+a.ID.String(), "", s.token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.ta.Request(http.MethodGet, "/accounts/"+a.ID.String(), "", s.token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *AccountTestSuite) TestCreditAnalysis() {
	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	limit := decimal.NewFromInt(1000)
	minDue := decimal.NewFromInt(50)
	cardID := s.ta.Store.SeedAccount(dto.AccountRead{
		UserID:            s.userID,
		Provider:          "Axis",
		AccountName:       "Card",
		AccountType:       account.CreditCard,
		Balance:           decimal.NewFromInt(400),
		CreditLimit:       &limit,
		MinimumPaymentDue: &minDue,
		PaymentDueDate:    &due,
		Country:           account.CountryIN,
		Currency:          "INR",
	})

	resp := s.ta.Request(http.MethodGet, "/accounts/"+cardID.String()+"/credit-analysis", "", s.token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var analysis accountweb.CreditAnalysisDTO
	testutils.DecodeData(s.T(), resp, &analysis)
	s.InDelta(600, analysis.AvailableCredit, 0.0001)
	s.InDelta(40, analysis.CreditUtilization, 0.0001)
	s.False(analysis.IsOverdue)
	s.Len(analysis.PaymentOptions, 3)

	resp = s.ta.Request(http.MethodGet,
		fmt.Sprintf("/accounts/%s/payment-suggestions?available_budget=70", cardID), "", s.token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var suggestion accountweb.PaymentSuggestionDTO
	testutils.DecodeData(s.T(), resp, &suggestion)
	s.Equal("high", suggestion.Urgency)
	s.InDelta(70, suggestion.RecommendedAmount, 0.0001)

	resp = s.ta.Request(http.MethodGet,
		fmt.Sprintf("/accounts/%s/payment-suggestions?available_budget=lots", cardID), "", s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AccountTestSuite) TestCreditAnalysis_NotCreditCard() {
	a := s.create(bankBody)
	resp := s.ta.Request(http.MethodGet, "/accounts/"+a.ID.String()+"/credit-analysis", "", s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal("account is not a credit card", testutils.DecodeProblem(s.T(), resp).Detail)
}
