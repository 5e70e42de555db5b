package checks

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

type StructureSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStructureSuite(t *testing.T) {
	suite.Run(t, new(StructureSuite))
}

func (s *StructureSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *StructureSuite) run(lines ...string) []validator.Row {
	vc := newTestContext(s.T())
	writeBatchCSV(s.T(), vc, lines...)
	rows, err := NewStructure().Run(s.ctx, vc, validator.FormatCSV)
	s.Require().NoError(err)
	return rows
}

func fullHeader() string {
	return strings.Join(record.Columns, ",")
}

func blankRow(overrides map[string]string) string {
	cells := make([]string, len(record.Columns))
	for i, col := range record.Columns {
		cells[i] = overrides[col]
	}
	return strings.Join(cells, ",")
}

func (s *StructureSuite) TestRun() {
	s.Run("well-formed new-record file is clean", func() {
		findings := s.run(
			fullHeader(),
			blankRow(map[string]string{record.FieldStatus: "active"}),
		)
		s.Empty(findings)
	})

	s.Run("missing required columns are reported at the header", func() {
		findings := s.run(
			"id,status",
			",active",
		)
		s.NotEmpty(findings)
		missing := make(map[string]bool)
		for _, f := range findings {
			s.Equal("1", f["row"])
			missing[f["issue"]] = true
		}
		s.True(missing["missing column types"])
		s.False(missing["missing column html_url"], "optional columns are not required")
	})

	s.Run("wrong cell count is reported per row", func() {
		findings := s.run(
			"id,status,types",
			",active",
			",active,education,extra",
		)
		issues := make(map[string]string)
		for _, f := range findings {
			if strings.HasPrefix(f["issue"], "expected") {
				issues[f["row"]] = f["issue"]
			}
		}
		s.Equal("expected 3 cells, got 2", issues["2"])
		s.Equal("expected 3 cells, got 4", issues["3"])
	})

	s.Run("update file rows must carry an id", func() {
		findings := s.run(
			"id,status,types",
			"https://ror.org/042nb2s44,active,education",
			",active,education",
		)
		var flagged []string
		for _, f := range findings {
			if f["issue"] == "update file row has no id" {
				flagged = append(flagged, f["row"])
			}
		}
		s.Equal([]string{"3"}, flagged)
	})

	s.Run("new-record file tolerates empty ids", func() {
		findings := s.run(
			"id,status,types",
			",active,education",
			",inactive,company",
		)
		for _, f := range findings {
			s.NotEqual("update file row has no id", f["issue"])
		}
	})
}
