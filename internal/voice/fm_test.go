package voice

import "testing"

func testFMPreset(algo FMAlgorithm) *FMPreset {
	op := func(ratio float64, level float64) FMOperatorPreset {
		return FMOperatorPreset{
			Ratio: ratio, Level: level,
			Attack: 0.001, Decay: 0.05, Sustain: 0.8, Release: 0.05,
		}
	}
	return &FMPreset{
		Operators: [4]FMOperatorPreset{
			op(1.0, 1.0),
			op(2.0, 0.5),
			op(1.0, 1.0),
			op(3.0, 0.3),
		},
		Algorithm:  algo,
		SampleRate: 48000,
	}
}

func TestFMVoiceAllAlgorithmsProduceOutput(t *testing.T) {
	for _, algo := range []FMAlgorithm{AlgorithmStack, AlgorithmTwoStacks, AlgorithmThreeCarriers} {
		v := NewFMVoice(testFMPreset(algo))
		v.StartNote(60, 110)
		out := make([]float32, 400)
		v.Render(out, 200, 2)

		nonZero := false
		for _, s := range out {
			if s != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			t.Fatalf("algorithm %v produced only silence", algo)
		}
	}
}

func TestFMVoiceEnvelopeLevelTracksCarrier(t *testing.T) {
	v := NewFMVoice(testFMPreset(AlgorithmStack))
	v.StartNote(60, 127)
	if v.EnvelopeLevel() != 0 {
		t.Fatalf("expected envelope to start at 0, got %v", v.EnvelopeLevel())
	}
	out := make([]float32, 20000)
	v.Render(out, 10000, 2)
	if v.EnvelopeLevel() <= 0 {
		t.Fatal("expected envelope to have risen after rendering")
	}
}
