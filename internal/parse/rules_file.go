package parse

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
)

//go:embed rules_schema.json
var rulesSchemaJSON string

var rulesSchema = jsonschema.MustCompileString("rules_schema.json", rulesSchemaJSON)

// RuleSpec is one declarative rule as written in a rule file. New
// invoice templates add or override numeric rules without touching
// the built-in set.
type RuleSpec struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
	Section string `json:"section,omitempty"` // "full" (default) or "gas"
}

type ruleFile struct {
	Rules []RuleSpec `json:"rules"`
}

// LoadRuleFile merges rules from a JSON file over the engine's current
// set: a rule naming an existing field replaces it, others append. The
// file is validated against the embedded schema before any pattern is
// compiled, and every pattern must carry a capture group for the value.
func (e *Engine) LoadRuleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.NewAppError(common.CodeRuleFileInvalid, fmt.Sprintf("cannot read rule file %s", path), err)
	}
	specs, err := parseRuleFile(data)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		e.merge(spec)
	}
	return nil
}

func parseRuleFile(data []byte) ([]rule, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, common.NewAppError(common.CodeRuleFileInvalid, "rule file is not valid JSON", err)
	}
	if err := rulesSchema.Validate(doc); err != nil {
		return nil, common.NewAppError(common.CodeRuleFileInvalid, "rule file does not match schema", err)
	}

	var rf ruleFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, common.NewAppError(common.CodeRuleFileInvalid, "rule file is not valid JSON", err)
	}

	rules := make([]rule, 0, len(rf.Rules))
	for _, spec := range rf.Rules {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, common.NewAppError(common.CodeRuleFileInvalid,
				fmt.Sprintf("invalid pattern for field %s", spec.Field), err)
		}
		if re.NumSubexp() < 1 {
			return nil, common.NewAppError(common.CodeRuleFileInvalid,
				fmt.Sprintf("pattern for field %s has no capture group", spec.Field), nil)
		}
		assign, ok := numericFields[spec.Field]
		if !ok {
			return nil, common.NewAppError(common.CodeRuleFileInvalid,
				fmt.Sprintf("unknown field %s", spec.Field), nil)
		}
		scope := scopeFull
		if spec.Section == "gas" {
			scope = scopeGas
		}
		rules = append(rules, rule{field: spec.Field, re: re, scope: scope, apply: setNumber(assign)})
	}
	return rules, nil
}

// merge replaces the rule for the same field, or appends.
func (e *Engine) merge(r rule) {
	for i := range e.rules {
		if e.rules[i].field == r.field {
			e.rules[i] = r
			return
		}
	}
	e.rules = append(e.rules, r)
}
