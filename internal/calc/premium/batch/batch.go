// Package batch evaluates many beams in one request.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
)

const MaxItems = 500

// Evaluator runs a single beam check.
type Evaluator interface {
	Evaluate(operation string, in timber.Input) (timber.Result, error)
}

type Input struct {
	Items []timber.Input `json:"items"`
}

// Item is the outcome of one input; exactly one of Result and Error is set.
type Item struct {
	Index  int            `json:"index"`
	Result *timber.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type Result struct {
	Count  int    `json:"count"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
	Errors int    `json:"errors"`
	Items  []Item `json:"items"`
}

// Calculate evaluates the items concurrently and keeps their order. Invalid
// items are reported per item and do not fail the batch.
func Calculate(ctx context.Context, eval Evaluator, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, calcerr.Field("items", 0, "no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, calcerr.Field("items", len(in.Items), "too many items")
	}

	items := make([]Item, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, beamIn := range in.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i].Index = i
			res, err := eval.Evaluate("batch", beamIn)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	out := Result{Count: len(items), Items: items}
	for _, it := range items {
		switch {
		case it.Result == nil:
			out.Errors++
		case it.Result.AllPassed:
			out.Passed++
		default:
			out.Failed++
		}
	}
	return out, nil
}
