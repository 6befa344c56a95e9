package synthesizer

import "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"

// Confidence grows with the number of relevant knowledge chunks and never exceeds the cap.
func Confidence(cfg config.SynthesizerConfig, baseline float64, chunks int) float64 {
	if chunks < 0 {
		chunks = 0
	}

	c := baseline + cfg.ChunkBonus*float64(chunks)
	if c > cfg.ConfidenceCap {
		c = cfg.ConfidenceCap
	}
	if c < 0 {
		c = 0
	}
	return c
}
