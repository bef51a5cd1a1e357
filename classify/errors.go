// SPDX-License-Identifier: EPL-2.0

package classify

import "errors"

var (
	ErrEmptyTaxonomy   = errors.New("class map has no classes")
	ErrMalformedRow    = errors.New("malformed class map row")
	ErrClassMismatch   = errors.New("model and class map disagree on class count")
	ErrModelShape      = errors.New("model weights have inconsistent shape")
	ErrScoreDimensions = errors.New("model returned the wrong number of scores")
)
