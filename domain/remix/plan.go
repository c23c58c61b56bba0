package remix

// Segment is one accepted window, handed to the assembler as-is
type Segment struct {
	Asset VideoAsset
	Start float64
	End   float64
}

// Length returns the segment duration in seconds
func (s Segment) Length() float64 {
	return s.End - s.Start
}

// Interval returns the claimed range of the segment
func (s Segment) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Plan is the ordered list of accepted segments for one run
type Plan struct {
	Segments            []Segment
	AccumulatedDuration float64
	SegmentLength       float64
	TargetDuration      float64

	// Exhausted is set when the run stopped before reaching TargetDuration
	// because no asset could supply another window.
	Exhausted bool

	Proposals  int // windows proposed
	Rejections int // proposals refused because of an overlap
}

// Len returns the number of accepted segments
func (p *Plan) Len() int {
	return len(p.Segments)
}

// Empty returns true if no segment was accepted
func (p *Plan) Empty() bool {
	return len(p.Segments) == 0
}

// Complete returns true if the accumulated duration reached the target
func (p *Plan) Complete() bool {
	return p.AccumulatedDuration >= p.TargetDuration
}

// OutputDuration returns the length of the assembled remix when consecutive
// segments overlap by crossfade seconds.
func (p *Plan) OutputDuration(crossfade float64) float64 {
	if len(p.Segments) == 0 {
		return 0
	}
	if crossfade < 0 {
		crossfade = 0
	}
	return p.AccumulatedDuration - float64(len(p.Segments)-1)*crossfade
}

// Assets returns the distinct asset paths used by the plan in first-use order
func (p *Plan) Assets() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, s := range p.Segments {
		if !seen[s.Asset.Path] {
			seen[s.Asset.Path] = true
			paths = append(paths, s.Asset.Path)
		}
	}
	return paths
}

func (p *Plan) accept(seg Segment) {
	p.Segments = append(p.Segments, seg)
	p.AccumulatedDuration += p.SegmentLength
}
