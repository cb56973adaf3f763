package visual

import "time"

// SlideDuration is how long every picture stays on screen.
const SlideDuration = 2 * time.Second

// SelectImages picks the pictures needed to cover target, one per
// SlideDuration (rounded up, at least one). When there are not enough
// pictures the whole list is repeated in order. Empty input yields nil.
func SelectImages(images []string, target time.Duration) []string {
	if len(images) == 0 {
		return nil
	}

	need := int((target + SlideDuration - 1) / SlideDuration)
	if need < 1 {
		need = 1
	}

	if need <= len(images) {
		out := make([]string, need)
		copy(out, images[:need])
		return out
	}

	out := make([]string, 0, need)
	for range need / len(images) {
		out = append(out, images...)
	}
	return append(out, images[:need%len(images)]...)
}
