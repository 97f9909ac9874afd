package summarizer

import (
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/pkg/errors"
)

// SentenceTokenizer splits text into sentences in document order.
type SentenceTokenizer interface {
	Sentences(text string) []string
}

type punktTokenizer struct {
	inner *sentences.DefaultSentenceTokenizer
}

// NewPunktTokenizer loads the pre-trained English punkt model. Build it once
// at startup and share it.
func NewPunktTokenizer() (SentenceTokenizer, error) {
	inner, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, errors.Wrap(err, "load english punkt model")
	}
	return &punktTokenizer{inner: inner}, nil
}

func (p *punktTokenizer) Sentences(text string) []string {
	tokens := p.inner.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, s := range tokens {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Contraction suffixes split off a word the way the Treebank tokenizer does.
var clitics = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m"}

// words lower-cases sentence, splits it into Treebank-style tokens and keeps
// only the tokens made entirely of letters and digits. Hyphenated words,
// decimals and punctuation are dropped whole.
func words(sentence string) []string {
	var out []string
	for _, tok := range treebankTokens(strings.ToLower(sentence)) {
		if isAlnum(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// treebankTokens splits on whitespace, peels leading and trailing punctuation
// into their own tokens and separates contraction suffixes.
func treebankTokens(text string) []string {
	var out []string
	for _, field := range strings.Fields(strings.ReplaceAll(text, "\u2019", "'")) {
		runes := []rune(field)
		start, end := 0, len(runes)
		for start < end && isPunct(runes[start]) {
			out = append(out, string(runes[start]))
			start++
		}
		var trailing []string
		for end > start && isPunct(runes[end-1]) {
			trailing = append([]string{string(runes[end-1])}, trailing...)
			end--
		}

		core := string(runes[start:end])
		for _, c := range clitics {
			if len(core) > len(c) && strings.HasSuffix(core, c) {
				out = append(out, core[:len(core)-len(c)], c)
				core = ""
				break
			}
		}
		if core != "" {
			out = append(out, core)
		}
		out = append(out, trailing...)
	}
	return out
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isAlnum(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if isPunct(r) {
			return false
		}
	}
	return true
}
