// Package contract is the validation boundary for request and response JSON.
//
// It checks the shape of the documents exchanged with clients: the user
// message bound, fields that must never be sent in, the cap on next actions
// and the leaked-term rule on everything a user reads.
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"lcm/internal/invariant"
	dErrors "lcm/pkg/domain-errors"
	pkgstrings "lcm/pkg/platform/strings"
)

// MaxUserMessageRunes bounds the user message.
const MaxUserMessageRunes = 500

// MaxNextActions bounds next_actions in a response.
const MaxNextActions = 2

// ForbiddenInputFields may never appear at the top level of a request.
var ForbiddenInputFields = []string{"policy_text", "vendor_policy_text", "gate", "gates"}

// RejectCode says which contract rule a document broke.
type RejectCode string

const (
	RejectInputSchema    RejectCode = "INPUT_SCHEMA"
	RejectForbiddenField RejectCode = "INPUT_FORBIDDEN_FIELD"
	RejectOutputSchema   RejectCode = "OUTPUT_SCHEMA"
	RejectOutputLeak     RejectCode = "OUTPUT_LEAK"
	RejectMalformedJSON  RejectCode = "MALFORMED_JSON"
)

// Rejection is a contract failure.
type Rejection struct {
	Code   RejectCode
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("REJECT[%s] %s", r.Code, r.Detail)
}

func reject(code RejectCode, detail string) error {
	return dErrors.Wrap(&Rejection{Code: code, Detail: detail}, dErrors.CodeValidation, detail)
}

// RejectCodeOf extracts the reject code from err, or "".
func RejectCodeOf(err error) RejectCode {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Code
	}
	return ""
}

// Input is the request document.
type Input struct {
	UserMessage string         `json:"user_message" validate:"required,max=500"`
	Facts       map[string]any `json:"facts,omitempty"`
	IntentHint  string         `json:"intent_hint,omitempty" validate:"omitempty,max=64"`
}

// NextAction is one action offered in a response.
type NextAction struct {
	Label string `json:"label,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Output is the response document.
type Output struct {
	Judgement   string       `json:"judgement" validate:"required,oneof=eligible ineligible unknown blocked"`
	Message     string       `json:"message" validate:"required"`
	NextActions []NextAction `json:"next_actions" validate:"max=2"`
	Disclosure  string       `json:"disclosure" validate:"required"`
}

// Validator applies the contract. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	checker  *invariant.Checker
}

// New creates a validator using the leaked-term rules for output text.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{
		validate: v,
		checker:  invariant.LeakOnly(),
	}
}

// Struct validates any tagged struct and reports failures as
// CodeValidation errors naming the JSON fields.
func (v *Validator) Struct(s any) error {
	return v.structWith(s, RejectInputSchema)
}

func (v *Validator) structWith(s any, code RejectCode) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return reject(code, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return reject(code, strings.Join(msgs, "; "))
}

// CheckForbiddenFields rejects a JSON object carrying any forbidden top-level
// field. Keys are compared case-insensitively.
func (v *Validator) CheckForbiddenFields(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return reject(RejectMalformedJSON, "request must be a JSON object")
	}
	var hits []string
	for key := range fields {
		for _, forbidden := range ForbiddenInputFields {
			if strings.EqualFold(key, forbidden) {
				hits = append(hits, key)
			}
		}
	}
	if len(hits) == 0 {
		return nil
	}
	hits = pkgstrings.DedupeAndTrimLower(hits)
	slices.Sort(hits)
	return reject(RejectForbiddenField, "forbidden field present: "+strings.Join(hits, ", "))
}

// ValidateInputJSON decodes and validates a request document.
func (v *Validator) ValidateInputJSON(raw []byte) (*Input, error) {
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, reject(RejectMalformedJSON, "input is not valid JSON")
	}
	if err := v.Struct(&in); err != nil {
		return nil, err
	}
	if err := v.CheckForbiddenFields(raw); err != nil {
		return nil, err
	}
	return &in, nil
}

// ValidateOutput validates a response document, including the leaked-term
// rule on the message and every action label.
func (v *Validator) ValidateOutput(out *Output) error {
	if err := v.structWith(out, RejectOutputSchema); err != nil {
		return err
	}
	if viol := v.checker.Find(out.Message); viol != nil {
		return reject(RejectOutputLeak, "leaked term in message")
	}
	for i, a := range out.NextActions {
		label := a.Label
		if label == "" {
			label = a.Text
		}
		if viol := v.checker.Find(label); viol != nil {
			return reject(RejectOutputLeak, fmt.Sprintf("leaked term in next_actions[%d]", i))
		}
	}
	return nil
}

// ValidateOutputJSON decodes and validates a response document.
func (v *Validator) ValidateOutputJSON(raw []byte) (*Output, error) {
	var out Output
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return nil, reject(RejectMalformedJSON, "output is not valid JSON")
	}
	if err := v.ValidateOutput(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidatePair applies the input and output rules in order, as a contract
// test over one exchange.
func (v *Validator) ValidatePair(input, output []byte) error {
	if _, err := v.ValidateInputJSON(input); err != nil {
		return err
	}
	_, err := v.ValidateOutputJSON(output)
	return err
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s items", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
