package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type FlattenSuite struct {
	suite.Suite
}

func TestFlattenSuite(t *testing.T) {
	suite.Run(t, new(FlattenSuite))
}

func (s *FlattenSuite) flatten(raw string) map[string]string {
	var doc any
	require.NoError(s.T(), json.Unmarshal([]byte(raw), &doc))
	return Flatten(doc)
}

func (s *FlattenSuite) TestFlatten() {
	s.Run("list positions become indices", func() {
		flat := s.flatten(`{
			"names": [
				{"value": "One", "types": ["label", "alias"]},
				{"value": "Two"}
			]
		}`)
		s.Equal("One", flat["names_0_value"])
		s.Equal("label", flat["names_0_types_0"])
		s.Equal("alias", flat["names_0_types_1"])
		s.Equal("Two", flat["names_1_value"])
	})

	s.Run("numbers render without exponent", func() {
		flat := s.flatten(`{"established": 1861, "lat": 42.3601}`)
		s.Equal("1861", flat["established"])
		s.Equal("42.3601", flat["lat"])
	})

	s.Run("null becomes empty string", func() {
		flat := s.flatten(`{"established": null, "active": true}`)
		s.Equal("", flat["established"])
		s.Equal("true", flat["active"])
	})
}

func (s *FlattenSuite) TestFlatKeys() {
	flat := map[string]string{"b": "2", "a": "1", "c": "3"}
	s.Equal([]string{"a", "b", "c"}, FlatKeys(flat))
}
