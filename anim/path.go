package anim

import (
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/ease"
)

// pathShift is the fixed point precision used by Linear, 1024 steps.
const pathShift = 10

// Linear maps ActTime onto the value range with integer arithmetic only.
// The scaled difference is shifted rather than divided so that falling
// values round toward negative infinity.
func Linear(a *Anim) int32 {
	if a.Time == 0 {
		return a.EndValue
	}
	step := int64(clampTime(a)) << pathShift / int64(a.Time)
	diff := int64(a.EndValue) - int64(a.StartValue)
	return int32(step*diff>>pathShift + int64(a.StartValue))
}

// Step keeps the start value until the animation has finished.
func Step(a *Anim) int32 {
	if uint32(clampTime(a)) >= a.Time {
		return a.EndValue
	}
	return a.StartValue
}

var (
	EaseIn    = FromEase(ease.InQuad)
	EaseOut   = FromEase(ease.OutQuad)
	EaseInOut = FromEase(ease.InOutQuad)
	Overshoot = FromEase(ease.OutBack)
	Bounce    = FromEase(ease.OutBounce)
)

// FromEase adapts an easing function over [0, 1] into a PathFunc.
func FromEase(fn func(t float64) float64) PathFunc {
	return func(a *Anim) int32 {
		if a.Time == 0 {
			return a.EndValue
		}
		t := float64(clampTime(a)) / float64(a.Time)
		diff := float64(a.EndValue) - float64(a.StartValue)
		return int32(math.Round(fn(t)*diff)) + a.StartValue
	}
}

var pathsByName = map[string]PathFunc{
	"linear":    Linear,
	"step":      Step,
	"easein":    EaseIn,
	"easeout":   EaseOut,
	"easeinout": EaseInOut,
	"overshoot": Overshoot,
	"bounce":    Bounce,
}

// PathByName looks up a path by its config name. The lookup ignores case,
// dashes and underscores. An empty name is Linear.
func PathByName(name string) (PathFunc, error) {
	if name == "" {
		return Linear, nil
	}
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	p, ok := pathsByName[key]
	if !ok {
		return nil, fmt.Errorf("unknown path %q", name)
	}
	return p, nil
}

func clampTime(a *Anim) int32 {
	if a.ActTime < 0 {
		return 0
	}
	if uint32(a.ActTime) > a.Time {
		return int32(a.Time)
	}
	return a.ActTime
}
