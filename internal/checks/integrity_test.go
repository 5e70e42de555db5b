package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"rorcheck/internal/validator"
)

const mitTree = `{
	"id": "https://ror.org/042nb2s44",
	"status": "active",
	"types": ["education"],
	"established": 1861,
	"names": [
		{"value": "Massachusetts Institute of Technology", "types": ["ror_display", "label"], "lang": "en"},
		{"value": "MIT", "types": ["acronym"]},
		{"value": "Old Name", "types": ["alias"]}
	],
	"links": [
		{"type": "website", "value": "https://web.mit.edu"},
		{"type": "wikipedia", "value": "https://en.wikipedia.org/wiki/Massachusetts_Institute_of_Technology"}
	],
	"locations": [{"geonames_id": 4932148, "geonames_details": {"name": "Cambridge", "country_code": "US"}}],
	"external_ids": [{"type": "wikidata", "all": ["Q49108"], "preferred": "Q49108"}]
}`

type NewIntegritySuite struct {
	suite.Suite
	ctx context.Context
}

func TestNewIntegritySuite(t *testing.T) {
	suite.Run(t, new(NewIntegritySuite))
}

func (s *NewIntegritySuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *NewIntegritySuite) run(lines ...string) []validator.Row {
	vc := newTestContext(s.T())
	writeTreeDoc(s.T(), vc, "042nb2s44.json", mitTree)
	writeBatchCSV(s.T(), vc, lines...)
	findings, err := NewNewIntegrity().Run(s.ctx, vc, validator.FormatCSVJSON)
	s.Require().NoError(err)
	return findings
}

func (s *NewIntegritySuite) TestRun() {
	s.Run("faithful row is clean", func() {
		findings := s.run(
			"id,status,types,established,names.types.label,names.types.acronym,links.type.website,external_ids.type.wikidata.all",
			"https://ror.org/042nb2s44,active,education,1861,Massachusetts Institute of Technology*en,MIT*en,https://web.mit.edu,Q49108",
		)
		s.Empty(findings)
	})

	s.Run("value that landed under another field is a transposition", func() {
		findings := s.run(
			"id,names.types.label",
			"https://ror.org/042nb2s44,MIT*en",
		)
		s.Require().Len(findings, 1)
		s.Equal("transposition", findings[0]["type"])
		s.Equal("names.types.label", findings[0]["field"])
		s.Equal("MIT", findings[0]["value"])
	})

	s.Run("value absent from the document is missing", func() {
		findings := s.run(
			"id,names.types.alias",
			"https://ror.org/042nb2s44,Institute of Example*en",
		)
		s.Require().Len(findings, 1)
		s.Equal("missing", findings[0]["type"])
		s.Equal("Institute of Example", findings[0]["value"])
	})

	s.Run("integer and case differences are canonicalized", func() {
		findings := s.run(
			"id,established,types",
			"https://ror.org/042nb2s44,01861,Education",
		)
		s.Empty(findings)
	})

	s.Run("preferred marker is stripped for external ids", func() {
		findings := s.run(
			"id,external_ids.type.wikidata.preferred",
			"https://ror.org/042nb2s44,Q49108*preferred",
		)
		s.Empty(findings)
	})

	s.Run("unlocatable document is reported", func() {
		findings := s.run(
			"id,status",
			"https://ror.org/000000000,active",
		)
		s.Require().Len(findings, 1)
		s.Equal("missing_record", findings[0]["type"])
	})

	s.Run("update batch with an update_field column is left alone", func() {
		findings := s.run(
			"id,update_field,status",
			"https://ror.org/042nb2s44,status,replace==active",
		)
		s.Empty(findings)
	})

	s.Run("directive cells mark the batch as an update", func() {
		findings := s.run(
			"id,status,names.types.alias",
			"https://ror.org/042nb2s44,replace==active,add==Newer Alias*en",
		)
		s.Empty(findings)
	})
}

type UpdateIntegritySuite struct {
	suite.Suite
	ctx context.Context
}

func TestUpdateIntegritySuite(t *testing.T) {
	suite.Run(t, new(UpdateIntegritySuite))
}

func (s *UpdateIntegritySuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *UpdateIntegritySuite) run(lines ...string) []validator.Row {
	vc := newTestContext(s.T())
	writeTreeDoc(s.T(), vc, "042nb2s44.json", mitTree)
	writeBatchCSV(s.T(), vc, lines...)
	findings, err := NewUpdateIntegrity().Run(s.ctx, vc, validator.FormatCSVJSON)
	s.Require().NoError(err)
	return findings
}

func (s *UpdateIntegritySuite) TestRun() {
	s.Run("applied directives are clean", func() {
		findings := s.run(
			"id,status,names.types.alias",
			"https://ror.org/042nb2s44,replace==active,add==Old Name*en",
		)
		s.Empty(findings)
	})

	s.Run("delete target still present", func() {
		findings := s.run(
			"id,names.types.alias",
			"https://ror.org/042nb2s44,delete==Old Name*en",
		)
		s.Require().Len(findings, 1)
		s.Equal("still_present", findings[0]["status"])
		s.Equal("delete", findings[0]["type"])
		s.Equal("Old Name", findings[0]["position"])
	})

	s.Run("delete of an absent value is clean", func() {
		findings := s.run(
			"id,names.types.alias",
			"https://ror.org/042nb2s44,delete==Never There*en",
		)
		s.Empty(findings)
	})

	s.Run("whole-field delete leaving values behind", func() {
		findings := s.run(
			"id,names.types.alias",
			"https://ror.org/042nb2s44,delete",
		)
		s.Require().Len(findings, 1)
		s.Equal("still_present", findings[0]["status"])
		s.Equal("Old Name", findings[0]["position"])
	})

	s.Run("add that never landed is missing", func() {
		findings := s.run(
			"id,names.types.alias",
			"https://ror.org/042nb2s44,add==Brand New Alias*en",
		)
		s.Require().Len(findings, 1)
		s.Equal("missing", findings[0]["status"])
		s.Equal("add", findings[0]["type"])
		s.Equal("Brand New Alias", findings[0]["position"])
	})

	s.Run("unknown directive is surfaced", func() {
		findings := s.run(
			"id,status",
			"https://ror.org/042nb2s44,append==inactive",
		)
		s.Require().Len(findings, 1)
		s.Equal("unknown_directive", findings[0]["status"])
	})

	s.Run("rows without an id are skipped", func() {
		findings := s.run(
			"id,status",
			"https://ror.org/042nb2s44,replace==active",
			",active",
		)
		s.Empty(findings)
	})

	s.Run("unlocatable document is reported", func() {
		findings := s.run(
			"id,status",
			"https://ror.org/000000000,replace==active",
		)
		s.Require().Len(findings, 1)
		s.Equal("missing_record", findings[0]["status"])
	})
}
