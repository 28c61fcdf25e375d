package effect

// Easing shapes how normalized progress accelerates over the effect
// duration.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "ease_in"
	EaseOut   Easing = "ease_out"
	EaseInOut Easing = "ease_in_out"
)

// Easings lists every supported easing kind.
var Easings = []Easing{Linear, EaseIn, EaseOut, EaseInOut}

// Apply maps linear progress tau in [0,1] to eased progress. Unknown
// easings behave as linear.
func (e Easing) Apply(tau float64) float64 {
	switch e {
	case EaseIn:
		return tau * tau
	case EaseOut:
		return 1 - (1-tau)*(1-tau)
	case EaseInOut:
		if tau < 0.5 {
			return 2 * tau * tau
		}
		v := -2*tau + 2
		return 1 - v*v/2
	default:
		return tau
	}
}

// CSS returns the easing translated to a CSS timing function for the
// live preview renderer.
func (e Easing) CSS() string {
	switch e {
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	default:
		return "linear"
	}
}

func (e Easing) valid() bool {
	switch e {
	case Linear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}
