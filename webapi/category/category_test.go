package category_test

import (
	"net/http"
	"testing"

	categoryweb "github.com/amirasaad/strides/webapi/category"
	"github.com/amirasaad/strides/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type CategoryTestSuite struct {
	suite.Suite
	ta    *testutils.TestApp
	token string
}

func (s *CategoryTestSuite) SetupTest() {
	s.ta = testutils.NewTestApp(s.T(), nil)
	s.token, _ = s.ta.SignupAndLogin(s.T())
}

func TestCategoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryTestSuite))
}

func (s *CategoryTestSuite) create(name string) *categoryweb.CategoryDTO {
	resp := s.ta.Request(http.MethodPost, "/categories", `{"name":"`+name+`"}`, s.token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var c categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &c)
	return &c
}

func (s *CategoryTestSuite) TestCreateAndList() {
	c := s.create("  Groceries ")
	s.Equal("Groceries", c.Name)
	s.False(c.IsDefault)
	s.Empty(c.SubCategories)

	resp := s.ta.Request(http.MethodPost, "/categories", `{"name":"Groceries"}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.ta.Request(http.MethodPost, "/categories", `{"name":""}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.ta.Request(http.MethodGet, "/categories", "", s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var list []categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &list)
	s.Len(list, 1)
}

func (s *CategoryTestSuite) TestRenameAndDelete() {
	a := s.create("Food")
	s.create("Travel")

	resp := s.ta.Request(http.MethodPut, "/categories/"+a.ID.String(), `{"name":"Travel"}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.ta.Request(http.MethodPut, "/categories/"+a.ID.String(), `{"name":"Dining"}`, s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var renamed categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &renamed)
	s.Equal("Dining", renamed.Name)

	resp = s.ta.Request(http.MethodDelete, "/categories/"+a.ID.String(), "", s.token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.ta.Request(http.MethodDelete, "/categories/"+a.ID.String(), "", s.token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *CategoryTestSuite) TestSubCategories() {
	c := s.create("Bills")

	resp := s.ta.Request(http.MethodPost, "/categories/"+c.ID.String()+"/subcategories", `{"name":"Power"}`, s.token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var withSub categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &withSub)
	s.Require().Len(withSub.SubCategories, 1)
	subID := withSub.SubCategories[0].ID

	resp = s.ta.Request(http.MethodPost, "/categories/"+c.ID.String()+"/subcategories", `{"name":"Power"}`, s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	path := "/categories/" + c.ID.String() + "/subcategories/" + subID.String()
	resp = s.ta.Request(http.MethodPut, path, `{"name":"Electricity"}`, s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var renamed categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &renamed)
	s.Equal("Electricity", renamed.SubCategories[0].Name)

	resp = s.ta.Request(http.MethodDelete, path, "", s.token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.ta.Request(http.MethodDelete, path, "", s.token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.ta.Request(http.MethodDelete, "/categories/"+c.ID.String()+"/subcategories/nope", "", s.token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *CategoryTestSuite) TestOwnership() {
	c := s.create("Private")
	otherToken, _ := s.ta.SignupAndLogin(s.T())

	resp := s.ta.Request(http.MethodPut, "/categories/"+c.ID.String(), `{"name":"Mine"}`, otherToken)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.ta.Request(http.MethodGet, "/categories", "", otherToken)
	var list []categoryweb.CategoryDTO
	testutils.DecodeData(s.T(), resp, &list)
	s.Empty(list)

	resp = s.ta.Request(http.MethodGet, "/categories", "", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}
