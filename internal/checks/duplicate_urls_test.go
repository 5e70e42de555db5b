package checks

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"rorcheck/internal/baseline"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

type DuplicateURLsSuite struct {
	suite.Suite
	ctx context.Context
	ds  *baseline.DataSource
}

func TestDuplicateURLsSuite(t *testing.T) {
	suite.Run(t, new(DuplicateURLsSuite))
}

func (s *DuplicateURLsSuite) SetupTest() {
	s.ctx = context.Background()
	s.ds = baseline.New([]*record.Record{
		{
			ID:    "https://ror.org/03vek6s52",
			Names: []record.Name{{Value: "Example University", Types: []string{"ror_display"}}},
			Links: []record.Link{{Type: "website", Value: "http://example.org"}},
		},
	})
}

func (s *DuplicateURLsSuite) TestCSV() {
	vc := newTestContext(s.T())
	vc.Baseline = s.ds

	s.Run("equivalent spellings collide", func() {
		writeBatchCSV(s.T(), vc,
			"id,links.type.website",
			",https://www.example.org/contact",
		)
		findings, err := NewDuplicateURLs().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Require().Len(findings, 1)
		s.Equal("//example.org", findings[0]["normalized"])
		s.Equal("https://ror.org/03vek6s52", findings[0]["baseline_id"])
		s.Equal("http://example.org", findings[0]["baseline_url"])
	})

	s.Run("update row sharing its own URL is not flagged", func() {
		writeBatchCSV(s.T(), vc,
			"id,links.type.website",
			"https://ror.org/03vek6s52,http://example.org",
		)
		findings, err := NewDuplicateURLs().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Empty(findings)
	})

	s.Run("unrelated URL is clean", func() {
		writeBatchCSV(s.T(), vc,
			"id,links.type.website",
			",https://elsewhere.net",
		)
		findings, err := NewDuplicateURLs().Run(s.ctx, vc, validator.FormatCSV)
		s.Require().NoError(err)
		s.Empty(findings)
	})
}

func (s *DuplicateURLsSuite) TestTree() {
	vc := newTestContext(s.T())
	vc.Baseline = s.ds
	writeTreeDoc(s.T(), vc, "0abcdefgh.json", `{
		"id": "https://ror.org/0abcdefgh",
		"status": "active",
		"names": [{"value": "New Org", "types": ["ror_display"]}],
		"links": [{"type": "website", "value": "https://example.org/"}]
	}`)

	findings, err := NewDuplicateURLs().Run(s.ctx, vc, validator.FormatJSON)
	s.Require().NoError(err)
	s.Require().Len(findings, 1)
	s.Equal("https://ror.org/0abcdefgh", findings[0]["record_id"])
	s.Equal("Example University", findings[0]["baseline_name"])
}

func (s *DuplicateURLsSuite) TestTreeUndecodableDocument() {
	vc := newTestContext(s.T())
	vc.Baseline = s.ds
	var logs bytes.Buffer
	vc.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	writeTreeDoc(s.T(), vc, "0aaaaaaaa.json", `{"id": broken`)
	writeTreeDoc(s.T(), vc, "0abcdefgh.json", `{
		"id": "https://ror.org/0abcdefgh",
		"status": "active",
		"names": [{"value": "New Org", "types": ["ror_display"]}],
		"links": [{"type": "website", "value": "https://example.org/"}]
	}`)

	findings, err := NewDuplicateURLs().Run(s.ctx, vc, validator.FormatJSON)
	s.Require().NoError(err)
	s.Require().Len(findings, 1)
	s.Equal("https://ror.org/0abcdefgh", findings[0]["record_id"])
	s.Contains(logs.String(), "undecodable tree document")
	s.Contains(logs.String(), "0aaaaaaaa.json")
}
