package dto_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/http/dto"
)

func validRegistration() map[string]any {
	return map[string]any{
		"organizationName":  "  Tiger Dojo  ",
		"businessType":      "dojo",
		"martialArtTypes":   []string{"Karate"},
		"numberOfSchools":   1,
		"estimatedStudents": 50,
		"email":             "Owner@Tiger.example",
		"phone":             "+1 (555) 010-2000",
		"address":           "1 Main St",
		"city":              "Springfield",
		"state":             "IL",
		"zipCode":           "62701",
		"country":           "USA",
		"firstName":         "Kim",
		"lastName":          "Lee",
		"password":          "Secret123",
	}
}

func bind(body map[string]any) (*dto.RegisterRequest, error) {
	raw, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")

	var req dto.RegisterRequest
	return &req, c.ShouldBindJSON(&req)
}

var _ = Describe("RegisterRequest binding", func() {
	It("accepts a complete form and trims text fields", func() {
		req, err := bind(validRegistration())
		Expect(err).NotTo(HaveOccurred())

		in := req.ToModel()
		Expect(in.OrganizationName).To(Equal("Tiger Dojo"))
		Expect(in.Address.Street).To(Equal("1 Main St"))
		Expect(in.Website).To(BeNil())
	})

	DescribeTable("rejects invalid fields",
		func(field string, value any, message string) {
			body := validRegistration()
			body[field] = value
			_, err := bind(body)
			Expect(err).To(HaveOccurred())
			Expect(dto.ValidationMessages(err)).To(ContainElement(ContainSubstring(message)))
		},
		Entry("short organization name", "organizationName", " A ", "organizationName must be at least 2 characters"),
		Entry("no martial arts", "martialArtTypes", []string{}, "martialArtTypes"),
		Entry("blank martial art", "martialArtTypes", []string{"  "}, "is required"),
		Entry("too many schools", "numberOfSchools", 101, "numberOfSchools must be at most 100"),
		Entry("too many students", "estimatedStudents", 10001, "estimatedStudents must be at most 10000"),
		Entry("bad email", "email", "not-an-email", "email must be a valid email address"),
		Entry("bad phone", "phone", "call me", "phone must be a valid phone number"),
		Entry("short password", "password", "Ab1", "password must be at least 8 characters"),
		Entry("weak password", "password", "alllowercase1", "uppercase letter"),
		Entry("bad website", "website", "not a url", "website must be a valid URL"),
		Entry("short school name", "firstSchoolName", "X", "firstSchoolName must be at least 2 characters"),
	)

	It("reports missing required fields by their JSON name", func() {
		body := validRegistration()
		delete(body, "zipCode")
		_, err := bind(body)
		Expect(dto.ValidationMessages(err)).To(ContainElement("zipCode is required"))
	})

	It("falls back to the raw error for malformed JSON", func() {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req dto.RegisterRequest
		err := c.ShouldBindJSON(&req)
		Expect(err).To(HaveOccurred())
		Expect(dto.ValidationMessages(err)).To(HaveLen(1))
	})
})

var _ = Describe("UpdateSchoolRequest", func() {
	It("maps only present fields onto the patch", func() {
		var req dto.UpdateSchoolRequest
		Expect(json.Unmarshal([]byte(`{"name":" North ","maxStudents":40}`), &req)).To(Succeed())

		patch := req.ToPatch()
		Expect(*patch.Name).To(Equal("North"))
		Expect(*patch.MaxStudents).To(Equal(40))
		Expect(patch.City).To(BeNil())
		Expect(patch.MartialArts).To(BeNil())
	})
})
