package summarizer

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeywords = 10

// Analysis is the pre-analysis passed to the model along with the transcript.
type Analysis struct {
	Sentences int
	Keywords  []string
}

// Analyze counts sentences and picks the most frequent words that are not
// Portuguese stopwords. Ties keep first-appearance order.
func Analyze(text string) Analysis {
	return Analysis{
		Sentences: len(splitSentences(text)),
		Keywords:  topKeywords(text, maxKeywords),
	}
}

// splitSentences breaks after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func topKeywords(text string, n int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

var stopwords = makeSet(`
a à ao aos aquela aquelas aquele aqueles aquilo as às até com como da das de
dela delas dele deles depois do dos e é ela elas ele eles em entre era eram
éramos essa essas esse esses esta está estamos estão estar estas estava
estavam estávamos este esteja estejam estejamos estes esteve estive estivemos
estiver estivera estiveram estivéramos estiverem estivermos estivesse
estivessem estivéssemos estou eu foi fomos for fora foram fôramos forem formos
fosse fossem fôssemos fui há haja hajam hajamos hão havemos haver hei houve
houvemos houver houvera houverá houveram houvéramos houverão houverei
houverem houveremos houveria houveriam houveríamos houvermos houvesse
houvessem houvéssemos isso isto já lhe lhes mais mas me mesmo meu meus minha
minhas muito na não nas nem no nos nós nossa nossas nosso nossos num numa o
os ou para pela pelas pelo pelos por qual quando que quem são se seja sejam
sejamos sem ser será serão serei seremos seria seriam seríamos seu seus só
somos sou sua suas também te tem tém temos tenha tenham tenhamos tenho terá
terão terei teremos teria teriam teríamos teu teus teve tinha tinham tínhamos
tive tivemos tiver tivera tiveram tivéramos tiverem tivermos tivesse
tivessem tivéssemos tu tua tuas um uma você vocês vos
`)

func makeSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}
