package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rorcheck/internal/patterns"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
	pstrings "rorcheck/pkg/platform/strings"
)

// Finding severities.
const (
	levelError   = "error"
	levelWarning = "warning"
)

var parenthetical = regexp.MustCompile(`\s*\(.*?\)`)

// Fields checks every populated cell against the applicable pattern or
// enumeration. Update cells are decomposed into directives first; delete
// directives skip value validation.
type Fields struct {
	validator.Base
}

// NewFields builds the field-validation check.
func NewFields() *Fields {
	return &Fields{Base: validator.Base{
		CheckName:    "fields",
		CheckFormats: []validator.Format{validator.FormatCSV},
		Filename:     "field_validation.csv",
		Fields:       []string{"row", "id", "field", "value", "issue", "level"},
	}}
}

func (c *Fields) Run(_ context.Context, vc *validator.Context, _ validator.Format) ([]validator.Row, error) {
	_, rows, err := record.ReadRows(vc.CSVPath)
	if err != nil {
		return nil, err
	}
	isUpdate := record.IsUpdateFile(rows)

	var findings []validator.Row
	for i, row := range rows {
		line := strconv.Itoa(i + 2)
		for _, field := range record.ViewFields {
			check, ok := cellChecks[field]
			if !ok {
				continue
			}
			cell := row[field]
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if isUpdate {
				findings = append(findings, checkUpdateCell(line, row, field, cell, check)...)
				continue
			}
			for _, atom := range pstrings.Atoms(cell) {
				findings = append(findings, checkAtom(line, row, field, atom, check)...)
			}
		}
	}
	return findings, nil
}

func checkUpdateCell(line string, row record.Row, field, cell string, check atomCheck) []validator.Row {
	var findings []validator.Row
	for _, op := range record.ParseOps(cell) {
		switch {
		case op.Kind == "":
			findings = append(findings, validator.Row{
				"row": line, "id": row[record.FieldID], "field": field,
				"value": op.Value, "issue": "unknown change type", "level": levelError,
			})
		case op.Kind == record.OpDelete:
			// Deletes name an existing value; its shape is not re-validated.
		default:
			findings = append(findings, checkAtom(line, row, field, op.Value, check)...)
		}
	}
	return findings
}

func checkAtom(line string, row record.Row, field, atom string, check atomCheck) []validator.Row {
	var findings []validator.Row
	for _, issue := range check(atom) {
		findings = append(findings, validator.Row{
			"row": line, "id": row[record.FieldID], "field": field,
			"value": atom, "issue": issue.msg, "level": issue.level,
		})
	}
	return findings
}

type issue struct {
	msg   string
	level string
}

func errIssue(msg string) issue  { return issue{msg: msg, level: levelError} }
func warnIssue(msg string) issue { return issue{msg: msg, level: levelWarning} }

// atomCheck validates one atom; an empty result means the atom is fine.
type atomCheck func(atom string) []issue

// cellChecks is the pattern table: canonical field to atom validation.
// grid identifiers are recorded in the schema but not pattern-checked.
var cellChecks = map[string]atomCheck{
	record.FieldStatus:      checkStatus,
	record.FieldTypes:       checkType,
	record.FieldEstablished: checkEstablished,
	record.FieldGeonamesID:  matchPattern(patterns.GeoNames, "invalid geonames id"),
	record.FieldRORDisplay:  checkName,
	record.FieldLabel:       checkName,
	record.FieldAlias:       checkName,
	record.FieldAcronym:     checkAcronym,
	record.FieldWebsite:     matchPattern(patterns.URL, "invalid URL"),
	record.FieldWikipedia:   matchPattern(patterns.WikipediaURL, "invalid wikipedia URL"),

	record.ExternalIDField("isni", "preferred"):     matchPattern(patterns.ISNI, "invalid ISNI"),
	record.ExternalIDField("isni", "all"):           matchPattern(patterns.ISNI, "invalid ISNI"),
	record.ExternalIDField("wikidata", "preferred"): matchPattern(patterns.Wikidata, "invalid wikidata id"),
	record.ExternalIDField("wikidata", "all"):       matchPattern(patterns.Wikidata, "invalid wikidata id"),
	record.ExternalIDField("fundref", "preferred"):  matchPattern(patterns.FundRef, "invalid fundref id"),
	record.ExternalIDField("fundref", "all"):        matchPattern(patterns.FundRef, "invalid fundref id"),
}

func matchPattern(re *regexp.Regexp, msg string) atomCheck {
	return func(atom string) []issue {
		if re.MatchString(atom) {
			return nil
		}
		return []issue{errIssue(msg)}
	}
}

func checkStatus(atom string) []issue {
	if patterns.ValidStatuses[strings.ToLower(atom)] {
		return nil
	}
	return []issue{errIssue("invalid status")}
}

func checkType(atom string) []issue {
	cleaned := strings.TrimSpace(parenthetical.ReplaceAllString(strings.ToLower(atom), ""))
	if patterns.ValidTypes[cleaned] {
		return nil
	}
	return []issue{errIssue("invalid organization type")}
}

func checkEstablished(atom string) []issue {
	year, err := strconv.Atoi(strings.TrimSpace(atom))
	if err != nil || year < 1000 || year > 9999 {
		return []issue{errIssue("established must be a four-digit year")}
	}
	return nil
}

func checkName(atom string) []issue {
	if patterns.Names.MatchString(atom) {
		return nil
	}
	return []issue{errIssue("missing language tag")}
}

func checkAcronym(atom string) []issue {
	issues := checkName(atom)
	if base := pstrings.StripLang(atom); !patterns.Acronyms.MatchString(base) {
		issues = append(issues, warnIssue(fmt.Sprintf("acronym %q is not uppercase letters, digits, and spaces", base)))
	}
	return issues
}
