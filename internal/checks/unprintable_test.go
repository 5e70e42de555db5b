package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"rorcheck/internal/validator"
)

type UnprintableSuite struct {
	suite.Suite
	ctx context.Context
}

func TestUnprintableSuite(t *testing.T) {
	suite.Run(t, new(UnprintableSuite))
}

func (s *UnprintableSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *UnprintableSuite) TestCSV() {
	vc := newTestContext(s.T())
	writeBatchCSV(s.T(), vc,
		"id,names.types.label,names.types.alias",
		",\"Example\tUniversity*en\",Clean Alias*en",
	)
	findings, err := NewUnprintable().Run(s.ctx, vc, validator.FormatCSV)
	s.Require().NoError(err)
	s.Require().Len(findings, 1)
	s.Equal("names.types.label", findings[0]["field"])
	s.Equal(`'\t'`, findings[0]["characters"])
}

func (s *UnprintableSuite) TestTree() {
	vc := newTestContext(s.T())
	writeTreeDoc(s.T(), vc, "0abcdefgh.json", `{
		"id": "https://ror.org/0abcdefgh",
		"status": "active",
		"names": [{"value": "Example​University", "types": ["ror_display"]}]
	}`)

	findings, err := NewUnprintable().Run(s.ctx, vc, validator.FormatJSON)
	s.Require().NoError(err)
	s.Require().Len(findings, 1)
	s.Equal("https://ror.org/0abcdefgh", findings[0]["record_id"])
	s.Equal("names_0_value", findings[0]["field"])
	s.Equal(`'\u200b'`, findings[0]["characters"])
}

func (s *UnprintableSuite) TestDistinctFirstSeen() {
	s.Equal([]rune{'\t', '\n'}, unprintableRunes("a\tb\nc\t"))
	s.Empty(unprintableRunes("plain text with spaces"))
}
