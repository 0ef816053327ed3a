package suite

import (
	"context"
	"fmt"

	"github.com/karupanerura/prattcalc/internal/expression"
	"github.com/karupanerura/prattcalc/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Suite struct {
	Cases []Case
}

// Case is one expression with an optional expectation. A case with neither
// Expect nor ExpectError passes when evaluation succeeds.
type Case struct {
	Name        string
	Expression  string
	Expect      *int64
	ExpectError types.ErrorTag
}

type CaseResult struct {
	Name       string           `json:"name"`
	Expression string           `json:"expression"`
	Tree       string           `json:"tree,omitempty"`
	Result     *int64           `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	Tags       []types.ErrorTag `json:"tags,omitempty"`
	Passed     bool             `json:"passed"`
}

// Run evaluates every case with at most jobs cases in flight and returns the
// results in case order.
func (s *Suite) Run(ctx context.Context, jobs int) ([]*CaseResult, error) {
	results := make([]*CaseResult, len(s.Cases))

	eg, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		eg.SetLimit(jobs)
	}
	for i, c := range s.Cases {
		i := i
		c := c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cases[%d]: %w", i, err)
			}
			results[i] = c.run()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Case) run() *CaseResult {
	result := &CaseResult{
		Name:       c.Name,
		Expression: c.Expression,
	}

	ret, err := expression.Run(c.Expression)
	if err != nil {
		result.Error = err.Error()
		result.Tags = types.Tags(err)
		result.Passed = c.ExpectError != "" && lo.Contains(result.Tags, c.ExpectError)
		return result
	}

	result.Tree = ret.Tree
	v := ret.Value
	result.Result = &v
	switch {
	case c.ExpectError != "":
		result.Passed = false
	case c.Expect != nil:
		result.Passed = *c.Expect == ret.Value
	default:
		result.Passed = true
	}
	return result
}

// Summarize counts passed and failed results.
func Summarize(results []*CaseResult) (passed, failed int) {
	passed = len(lo.Filter(results, func(r *CaseResult, _ int) bool {
		return r.Passed
	}))
	return passed, len(results) - passed
}
