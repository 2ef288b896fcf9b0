package sim

// Action is one policy decision: a target directional exposure and the
// fraction of equity committed to it. Values outside the legal ranges
// are clamped, never rejected, so a noisy policy cannot crash an
// episode mid-run.
type Action struct {
	// TargetPosition is the desired direction in [-1, 1]:
	// +1 fully long, -1 fully short, 0 flat.
	TargetPosition float64

	// TargetSize is the fraction of equity behind the position,
	// in [0.1, 1.0]. A floor above zero keeps size meaningful even
	// when a policy emits near-zero output.
	TargetSize float64
}

func (a Action) clamped() Action {
	return Action{
		TargetPosition: clamp(a.TargetPosition, -1, 1),
		TargetSize:     clamp(a.TargetSize, minSize, maxSize),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
