package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/model"
)

var _ = Describe("TokenIssuer", func() {
	var issuer *TokenIssuer

	BeforeEach(func() {
		var err error
		issuer, err = NewTokenIssuer("test-secret", 30*24*time.Hour)
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a secret", func() {
		_, err := NewTokenIssuer("", time.Hour)
		Expect(err).To(MatchError(ErrMissingSecret))
	})

	It("round-trips user claims", func() {
		orgID, schoolID := int64(10), int64(20)
		user := &model.User{ID: 1, Email: "a@b.com", Role: model.RoleOrgAdmin, OrganizationID: &orgID, SchoolID: &schoolID}

		token, err := issuer.Issue(ClaimsForUser(user))
		Expect(err).NotTo(HaveOccurred())

		claims, err := issuer.Parse(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(1)))
		Expect(claims.Email).To(Equal("a@b.com"))
		Expect(claims.Role).To(Equal(model.RoleOrgAdmin))
		Expect(claims.OrganizationID).To(Equal(orgID))
		Expect(claims.SchoolID).To(Equal(schoolID))
		Expect(claims.Subject).To(Equal("1"))
	})

	It("rejects expired tokens", func() {
		issuer.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
		token, err := issuer.Issue(Claims{UserID: 1})
		Expect(err).NotTo(HaveOccurred())

		issuer.now = time.Now
		_, err = issuer.Parse(token)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects tokens signed with another secret", func() {
		other, err := NewTokenIssuer("other-secret", time.Hour)
		Expect(err).NotTo(HaveOccurred())
		token, err := other.Issue(Claims{UserID: 1})
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Parse(token)
		Expect(errors.Is(err, ErrInvalidToken)).To(BeTrue())
	})

	It("rejects unsigned tokens", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Parse(raw)
		Expect(err).To(MatchError(ErrInvalidToken))
	})
})

var _ = Describe("bcrypt hasher", func() {
	It("hashes and verifies", func() {
		h := NewBcryptHasher(DefaultBcryptCost)
		hash, err := h.Hash("Passw0rd")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("Passw0rd"))

		Expect(h.Compare(hash, "Passw0rd")).To(Succeed())
		Expect(h.Compare(hash, "wrong")).To(MatchError(ErrPasswordMismatch))
	})

	It("salts every hash", func() {
		h := NewBcryptHasher(DefaultBcryptCost)
		a, err := h.Hash("Passw0rd")
		Expect(err).NotTo(HaveOccurred())
		b, err := h.Hash("Passw0rd")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("raises low costs to the minimum", func() {
		h := NewBcryptHasher(4).(*bcryptHasher)
		Expect(h.cost).To(Equal(DefaultBcryptCost))
	})
})
