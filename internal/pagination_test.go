package internal_test

import (
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/peer-recognition/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Pagination", func() {
	It("defaults missing values", func() {
		p := internal.Pagination{}.Normalize()
		Expect(p.Skip).To(BeZero())
		Expect(p.Limit).To(Equal(internal.DefaultPageSize))
	})

	It("clamps the limit at the maximum", func() {
		p := internal.Pagination{Limit: 500}.Normalize()
		Expect(p.Limit).To(Equal(internal.MaxPageSize))
	})

	It("zeroes a negative skip", func() {
		p := internal.Pagination{Skip: -5, Limit: 10}.Normalize()
		Expect(p.Skip).To(BeZero())
		Expect(p.Limit).To(Equal(10))
	})

	It("parses query parameters with fallbacks", func() {
		r := httptest.NewRequest("GET", "/posts?skip=40&limit=abc", nil)
		p := internal.PaginationFromRequest(r)
		Expect(p.Skip).To(Equal(40))
		Expect(p.Limit).To(Equal(internal.DefaultPageSize))
	})
})
