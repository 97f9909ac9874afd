package summarizer

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultSentenceCount = 10
	NoTextMessage        = "No text to summarize."
)

// Summarizer picks the highest scoring sentences of a text by normalized
// word frequency. It holds no per-call state.
type Summarizer struct {
	tokenizer     SentenceTokenizer
	stopWords     StopWords
	sentenceCount int
	logger        *logrus.Logger
}

type Option func(*Summarizer)

func WithSentenceCount(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.sentenceCount = n
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Summarizer) {
		s.logger = logger
	}
}

func New(tokenizer SentenceTokenizer, stopWords StopWords, opts ...Option) *Summarizer {
	s := &Summarizer{
		tokenizer:     tokenizer,
		stopWords:     stopWords,
		sentenceCount: DefaultSentenceCount,
		logger:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Summarizer) Summarize(text string) string {
	return s.SummarizeN(text, s.sentenceCount)
}

type sentenceScore struct {
	index int
	score float64
}

// SummarizeN returns at most n sentences of text in their original order.
// Text with n sentences or fewer, including whitespace-only text, comes
// back unchanged.
func (s *Summarizer) SummarizeN(text string, n int) string {
	if text == "" {
		return NoTextMessage
	}
	if n <= 0 {
		n = s.sentenceCount
	}

	sentences := s.tokenizer.Sentences(text)
	if len(sentences) <= n {
		return text
	}

	tokens := make([][]string, len(sentences))
	for i, sentence := range sentences {
		tokens[i] = s.qualifying(sentence)
	}
	freq := frequencies(tokens)

	scores := make([]sentenceScore, 0, len(sentences))
	for i, sentenceTokens := range tokens {
		var score float64
		for _, w := range sentenceTokens {
			score += freq[w]
		}
		if score > 0 {
			scores = append(scores, sentenceScore{index: i, score: score})
		}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	sort.Slice(scores, func(a, b int) bool {
		return scores[a].index < scores[b].index
	})

	selected := make([]string, len(scores))
	for i, sc := range scores {
		selected[i] = sentences[sc.index]
	}

	s.logger.WithFields(logrus.Fields{
		"sentences": len(sentences),
		"selected":  len(selected),
		"words":     len(freq),
	}).Debug("Summary built")

	return strings.Join(selected, " ")
}

func (s *Summarizer) qualifying(sentence string) []string {
	all := words(sentence)
	out := all[:0]
	for _, w := range all {
		if !s.stopWords.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// frequencies counts words across all sentences and scales the counts so the
// most frequent word maps to 1.
func frequencies(sentences [][]string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, sentence := range sentences {
		for _, w := range sentence {
			counts[w]++
			if counts[w] > maxCount {
				maxCount = counts[w]
			}
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	freq := make(map[string]float64, len(counts))
	for w, c := range counts {
		freq[w] = float64(c) / float64(maxCount)
	}
	return freq
}
