// SPDX-License-Identifier: EPL-2.0

package detect

import (
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/utils"
)

// ThresholdPolicy maps sensitivity to a detection threshold:
// clamp(1 - sensitivity*Scale, Floor, 1).
type ThresholdPolicy struct {
	Scale float64 `json:"scale"`
	Floor float64 `json:"floor"`
}

var (
	// LinearThreshold spans the whole range: sensitivity 0.8 gives 0.2.
	LinearThreshold = ThresholdPolicy{Scale: 1.0, Floor: 0.05}
	// ScaledThreshold is gentler: sensitivity 0.8 gives 0.36.
	ScaledThreshold = ThresholdPolicy{Scale: 0.8, Floor: 0.05}
)

// Threshold returns the threshold for sensitivity, which must be in [0,1].
func (p ThresholdPolicy) Threshold(sensitivity float64) (float64, error) {
	if err := errs.Unit("detect.Threshold", "sensitivity", sensitivity); err != nil {
		return 0, err
	}

	return utils.Clamp(1-sensitivity*p.Scale, p.Floor, 1), nil
}

func (p ThresholdPolicy) Validate() error {
	const op = "detect.ThresholdPolicy"

	if p.Scale <= 0 || p.Scale != p.Scale {
		return errs.Parameter(op, "scale", p.Scale, "must be positive")
	}

	return errs.Unit(op, "floor", p.Floor)
}
