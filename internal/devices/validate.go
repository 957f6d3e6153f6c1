package devices

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/danieljhkim/disko/internal/result"
)

//go:embed schema.json
var schemaJSON []byte

const stageValidate = "validate disko config"

// Validate checks an evaluated target against the devices schema and decodes
// it into a normalized Config.
//
// The evaluator is trusted to produce well-formed configs, so any mismatch
// here means the schema known to disko and the one the evaluator implements
// have drifted apart: it is reported as BUG_VALIDATE_CONFIG_FAILED.
func Validate(raw []byte) result.Result[Config] {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return validationFailed(string(raw), []string{fmt.Sprintf("invalid JSON: %v", err)})
	}

	report, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return validationFailed(generic, []string{fmt.Sprintf("validation error: %v", err)})
	}
	if !report.Valid() {
		problems := make([]string, 0, len(report.Errors()))
		for _, desc := range report.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return validationFailed(generic, problems)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&cfg); err != nil {
		return validationFailed(generic, []string{fmt.Sprintf("decode error: %v", err)})
	}

	return result.Ok(Normalize(cfg), stageValidate)
}

func validationFailed(config any, problems []string) result.Result[Config] {
	return result.Failure[Config](
		result.CodeBugValidateConfigFailed,
		result.Details{"config": config, "errors": problems},
		stageValidate,
	)
}
