package geonames

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"
)

type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ClientSuite) newServer(handler http.HandlerFunc) (*httptest.Server, *Client) {
	srv := httptest.NewServer(handler)
	s.T().Cleanup(srv.Close)
	c := New("tester",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	return srv, c
}

func (s *ClientSuite) TestLookup() {
	s.Run("resolves a place", func() {
		_, c := s.newServer(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("2950159", r.URL.Query().Get("geonameId"))
			s.Equal("tester", r.URL.Query().Get("username"))
			fmt.Fprint(w, `{"geonameId": 2950159, "name": "Berlin", "countryName": "Germany", "countryCode": "DE"}`)
		})

		place, err := c.Lookup(s.ctx, "2950159")
		s.Require().NoError(err)
		s.Equal("Berlin", place.Name)
		s.Equal("DE", place.CountryCode)
	})

	s.Run("repeat lookups hit the cache", func() {
		var calls atomic.Int32
		_, c := s.newServer(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"geonameId": 2950159, "name": "Berlin"}`)
		})

		for i := 0; i < 3; i++ {
			_, err := c.Lookup(s.ctx, "2950159")
			s.Require().NoError(err)
		}
		s.Equal(int32(1), calls.Load())
	})

	s.Run("unknown id is recorded as a failure", func() {
		_, c := s.newServer(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": {"message": "not found", "value": 15}}`)
		})

		_, err := c.Lookup(s.ctx, "999999999")
		s.Require().Error(err)
		s.Equal([]string{"999999999"}, c.Failures())
	})

	s.Run("an id that fails on several records is reported once", func() {
		_, c := s.newServer(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})

		for i := 0; i < 2; i++ {
			_, err := c.Lookup(s.ctx, "42")
			s.Require().Error(err)
		}
		_, err := c.Lookup(s.ctx, "43")
		s.Require().Error(err)
		s.Equal([]string{"42", "43"}, c.Failures())
	})

	s.Run("server errors are recorded too", func() {
		_, c := s.newServer(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})

		_, err := c.Lookup(s.ctx, "1")
		s.Require().Error(err)
		s.Contains(c.Failures(), "1")
	})
}
