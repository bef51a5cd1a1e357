// SPDX-License-Identifier: EPL-2.0

package hapsync

import "errors"

var ErrNoClassifier = errors.New("hapsync: no classifier configured")
