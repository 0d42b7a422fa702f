// Package awsx contains utilities for the AWS SDK.
package awsx

import (
	"context"
)

// Do executes an AWS API request.
//
// dec is a decorator function that mutates the request before it is sent. It
// returns options that are applied to the request.
func Do[In, Out, Options any](
	ctx context.Context,
	fn func(context.Context, *In, ...func(*Options)) (Out, error),
	dec func(*In) []func(*Options),
	in *In,
	options ...func(*Options),
) (out Out, err error) {
	if dec != nil {
		options = append(options, dec(in)...)
	}

	return fn(ctx, in, options...)
}
