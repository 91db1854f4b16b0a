package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Parser decodes raw client frames into typed requests.
type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	return &Parser{validate: v}
}

// Parse reads the type discriminator, decodes the frame into the matching
// request struct rejecting unknown fields, then validates it.
func (p *Parser) Parse(raw []byte) (Inbound, error) {
	var head Header
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, decodeError(err)
	}

	newRequest, ok := inboundTypes[head.Type]
	if !ok {
		if head.Type == "" {
			return nil, Invalid("type", "is required")
		}
		return nil, Invalid("type", fmt.Sprintf("unknown message type %q", head.Type))
	}

	req := newRequest()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, decodeError(err)
	}

	if err := p.validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	return req, nil
}
