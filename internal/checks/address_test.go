package checks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"rorcheck/internal/geonames"
	"rorcheck/internal/validator"
)

type AddressSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAddressSuite(t *testing.T) {
	suite.Run(t, new(AddressSuite))
}

func (s *AddressSuite) SetupTest() {
	s.ctx = context.Background()
}

// stubGeonames serves canned places: 2950159 is Berlin, everything else 404s.
func (s *AddressSuite) stubGeonames(vc *validator.Context) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("geonameId") == "2950159" {
			fmt.Fprint(w, `{"geonameId": 2950159, "name": "Berlin", "countryName": "Germany", "countryCode": "DE"}`)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	s.T().Cleanup(srv.Close)
	vc.GeonamesUser = "tester"
	vc.Geonames = geonames.New("tester",
		geonames.WithBaseURL(srv.URL),
		geonames.WithHTTPClient(srv.Client()),
		geonames.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
		geonames.WithLogger(vc.Logger),
	)
}

func (s *AddressSuite) TestCSV() {
	vc := newTestContext(s.T())
	s.stubGeonames(vc)

	s.Run("matching address is clean", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",2950159,Berlin,Germany",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Empty(findings)
	})

	s.Run("mismatched city is reported with both sides", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",2950159,Munich,Germany",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Require().Len(findings, 1)
		s.Equal("city mismatch", findings[0]["issue"])
		s.Equal("Munich", findings[0]["city"])
		s.Equal("Berlin", findings[0]["geonames_city"])
	})

	s.Run("double mismatch joins both issues", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",2950159,Munich,Austria",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Require().Len(findings, 1)
		s.Equal("city mismatch, country mismatch", findings[0]["issue"])
	})

	s.Run("case and spacing differences still match", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",2950159,berlin,  Germany ",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Empty(findings)
	})

	s.Run("lookup failure degrades to an API error finding", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",999999999,Nowhere,Utopia",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Require().Len(findings, 1)
		s.Equal("API error", findings[0]["issue"])
	})

	s.Run("rows without a place id are skipped", func() {
		writeBatchCSV(s.T(), vc,
			"id,locations.geonames_id,city,country",
			",,Berlin,Germany",
		)
		findings, err := NewAddress().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Empty(findings)
	})
}

func (s *AddressSuite) TestTree() {
	vc := newTestContext(s.T())
	s.stubGeonames(vc)
	writeTreeDoc(s.T(), vc, "0abcdefgh.json", `{
		"id": "https://ror.org/0abcdefgh",
		"status": "active",
		"names": [{"value": "Beispiel Institut", "types": ["ror_display"]}],
		"locations": [{"geonames_id": 2950159,
			"geonames_details": {"name": "Munich", "country_name": "Germany", "country_code": "DE"}}]
	}`)

	findings, err := NewAddress().Run(s.ctx, vc, validator.FormatJSON)
	s.Require().NoError(err)
	s.Require().Len(findings, 1)
	s.Equal("https://ror.org/0abcdefgh", findings[0]["record_id"])
	s.Equal("city mismatch", findings[0]["issue"])
}
