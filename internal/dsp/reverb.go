package dsp

// Reverb is a Schroeder/Freeverb-style comb+allpass network: 8 parallel
// combs feeding 4 series all-passes, per channel. Tunings are the
// canonical Freeverb delay-line constants at 44.1kHz, rescaled linearly
// for the configured sample rate.
type Reverb struct {
	sampleRate float64

	combL  [8]comb
	combR  [8]comb
	allpL  [4]allpass
	allpR  [4]allpass

	roomSize  smoothed
	damping   smoothed
	wetLevel  smoothed
	dryLevel  smoothed
	width     smoothed
	freeze    bool
	gainInput float64
}

var combTunings = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var allpassTunings = [4]int{556, 441, 341, 225}

const stereoSpread = 23

// NewReverb builds a reverb sized for sampleRate, with sensible default
// parameters (room size 0.5, damping 0.5, width 1, 100% wet/dry split
// left to the caller via SetWetDry).
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{sampleRate: sampleRate, gainInput: 1.0}
	scale := sampleRate / 44100.0
	for i := 0; i < 8; i++ {
		r.combL[i] = newComb(scaleSamples(combTunings[i], scale))
		r.combR[i] = newComb(scaleSamples(combTunings[i]+stereoSpread, scale))
	}
	for i := 0; i < 4; i++ {
		r.allpL[i] = newAllpass(scaleSamples(allpassTunings[i], scale))
		r.allpR[i] = newAllpass(scaleSamples(allpassTunings[i]+stereoSpread, scale))
	}
	r.roomSize.set(0.5, sampleRate)
	r.damping.set(0.5, sampleRate)
	r.wetLevel.set(0.33, sampleRate)
	r.dryLevel.set(1.0, sampleRate)
	r.width.set(1.0, sampleRate)
	return r
}

func scaleSamples(n int, scale float64) int {
	v := int(float64(n) * scale)
	if v < 1 {
		v = 1
	}
	return v
}

// SetRoomSize, SetDamping, SetWetDry and SetWidth all ramp their target
// over a 10ms linear smoothing window, so changing a reverb knob
// mid-buffer never clicks.
func (r *Reverb) SetRoomSize(v float64) { r.roomSize.setTarget(v) }
func (r *Reverb) SetDamping(v float64)  { r.damping.setTarget(v) }
func (r *Reverb) SetWetLevel(v float64) { r.wetLevel.setTarget(v) }
func (r *Reverb) SetDryLevel(v float64) { r.dryLevel.setTarget(v) }
func (r *Reverb) SetWidth(v float64)    { r.width.setTarget(v) }

// SetSampleRate rebuilds the comb/allpass delay lines for a new sample
// rate. This happens only off the audio path (at engine configuration
// time), never inside Process.
func (r *Reverb) SetSampleRate(sampleRate float64) {
	*r = *NewReverb(sampleRate)
}

// SetFreeze enables/disables freeze mode: damping is forced to 0 and
// feedback to 1 so the reverb tail sustains indefinitely, and input gain
// drops to 0 so no new material enters the frozen tail.
func (r *Reverb) SetFreeze(on bool) {
	r.freeze = on
	if on {
		r.gainInput = 0
	} else {
		r.gainInput = 1.0
	}
}

// Process runs one stereo sample through the network in place.
func (r *Reverb) Process(inL, inR float64) (outL, outR float64) {
	roomSize := r.roomSize.tick()
	damping := r.damping.tick()
	wet := r.wetLevel.tick()
	dry := r.dryLevel.tick()
	width := r.width.tick()

	feedback := roomSize
	damp := damping
	if r.freeze {
		damp = 0
		feedback = 1
	}

	input := (inL + inR) * r.gainInput * 0.015

	var outCombL, outCombR float64
	for i := range r.combL {
		outCombL += r.combL[i].process(input, feedback, damp)
		outCombR += r.combR[i].process(input, feedback, damp)
	}
	for i := range r.allpL {
		outCombL = r.allpL[i].process(outCombL)
		outCombR = r.allpR[i].process(outCombR)
	}

	wet1 := wet * (width/2 + 0.5)
	wet2 := wet * ((1 - width) / 2)

	outL = outCombL*wet1 + outCombR*wet2 + inL*dry
	outR = outCombR*wet1 + outCombL*wet2 + inR*dry
	return outL, outR
}

// comb is a single feedback comb filter with a one-pole damping filter
// in the feedback path.
type comb struct {
	buf      []float64
	pos      int
	filtered float64
}

func newComb(size int) comb {
	return comb{buf: make([]float64, size)}
}

func (c *comb) process(input, feedback, damp float64) float64 {
	out := c.buf[c.pos]
	c.filtered = out*(1-damp) + c.filtered*damp
	c.buf[c.pos] = input + c.filtered*feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

// allpass is a series all-pass section used to diffuse the comb output.
type allpass struct {
	buf []float64
	pos int
}

func newAllpass(size int) allpass {
	return allpass{buf: make([]float64, size)}
}

const allpassFeedback = 0.5

func (a *allpass) process(input float64) float64 {
	bufout := a.buf[a.pos]
	output := -input + bufout
	a.buf[a.pos] = input + bufout*allpassFeedback
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return output
}

// smoothed is a parameter with a 10ms linear ramp to its target value,
// so UI-triggered reverb parameter changes never introduce a zipper
// click into the audio path.
type smoothed struct {
	current, target, step float64
	sampleRate             float64
}

func (s *smoothed) set(v, sampleRate float64) {
	s.sampleRate = sampleRate
	s.current = v
	s.target = v
	s.step = 0
}

func (s *smoothed) setTarget(v float64) {
	s.target = v
	rampSamples := 0.01 * s.sampleRate
	if rampSamples < 1 {
		rampSamples = 1
	}
	s.step = (s.target - s.current) / rampSamples
}

func (s *smoothed) tick() float64 {
	if s.current == s.target {
		return s.current
	}
	s.current += s.step
	if (s.step > 0 && s.current > s.target) || (s.step < 0 && s.current < s.target) {
		s.current = s.target
	}
	return s.current
}
