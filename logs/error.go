package logs

import (
	"context"
	"fmt"
)

// SpanError ties an error to the span it was reported in, so it can be matched with log records.
type SpanError struct {
	Err  error
	Span Span
}

func (s SpanError) Error() string {
	return fmt.Sprintf("%s (span %s)", s.Err, s.Span)
}

func (s SpanError) Unwrap() error {
	return s.Err
}

func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	v := ctx.Value(SpanKey)
	if v == nil {
		return err
	}
	return SpanError{
		Err:  err,
		Span: v.(Span),
	}
}
