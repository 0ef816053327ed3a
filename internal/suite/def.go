package suite

import (
	"fmt"

	"github.com/karupanerura/prattcalc/internal/types"
	"github.com/mitchellh/mapstructure"
)

var knownErrorTags = map[types.ErrorTag]bool{
	types.LexErrorTag:              true,
	types.ParseErrorTag:            true,
	types.EvalErrorTag:             true,
	types.UnrecognizedCharacterTag: true,
	types.InternalBoundsFaultTag:   true,
	types.UnexpectedTokenTag:       true,
	types.UnconsumedInputTag:       true,
	types.MalformedLiteralTag:      true,
	types.ZeroDivisionErrorTag:     true,
	types.OverflowErrorTag:         true,
}

type suiteDef struct {
	Cases []caseDef `mapstructure:"cases"`
}

type caseDef struct {
	Name       string `mapstructure:"name"`
	Expression string `mapstructure:"expression"`
	Expect     any    `mapstructure:"expect"`
	Error      string `mapstructure:"error"`
}

func compileSuite(raw map[string]any) (*Suite, error) {
	var def suiteDef
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid suite structure: %w", err)
	}
	if len(def.Cases) == 0 {
		return nil, fmt.Errorf("empty cases")
	}

	s := &Suite{Cases: make([]Case, len(def.Cases))}
	names := map[string]bool{}
	for i, c := range def.Cases {
		if c.Name == "" {
			c.Name = fmt.Sprintf("cases[%d]", i)
		}
		if names[c.Name] {
			return nil, fmt.Errorf("%s: duplicated case name", c.Name)
		}
		names[c.Name] = true

		compiled, err := c.compile()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		s.Cases[i] = compiled
	}
	return s, nil
}

func (d *caseDef) compile() (Case, error) {
	if d.Expect != nil && d.Error != "" {
		return Case{}, fmt.Errorf("conflict expect and error")
	}

	c := Case{
		Name:       d.Name,
		Expression: d.Expression,
	}
	if d.Expect != nil {
		v, err := decodeJSONInteger(d.Expect)
		if err != nil {
			return Case{}, fmt.Errorf("invalid expect: %w", err)
		}
		c.Expect = &v
	}
	if d.Error != "" {
		tag := types.ErrorTag(d.Error)
		if !knownErrorTags[tag] {
			return Case{}, fmt.Errorf("unknown error tag: %q", d.Error)
		}
		c.ExpectError = tag
	}
	return c, nil
}
