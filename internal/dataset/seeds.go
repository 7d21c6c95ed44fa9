package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"relayout/internal/alphabet"
	"relayout/internal/corpus"
	"relayout/internal/unigram"
)

// Lexicons maps each language to its seed word list. It is an explicit
// configuration object passed into the generator, never a mutated global, so
// generation stays deterministic under a fixed random seed.
type Lexicons map[alphabet.Language][]string

// minSeedWordLen filters very short corpus tokens out of seed lexicons.
const minSeedWordLen = 3

// BuiltinLexicons returns the default per-language seed word lists: common
// words plus conversational shorthand that formal corpora tend to miss.
func BuiltinLexicons() Lexicons {
	lex := make(Lexicons, len(builtinSeeds))
	for lang, words := range builtinSeeds {
		lex[lang] = append([]string(nil), words...)
	}
	return lex
}

// Clone returns a deep copy, so overrides never mutate a shared lexicon.
func (l Lexicons) Clone() Lexicons {
	out := make(Lexicons, len(l))
	for lang, words := range l {
		out[lang] = append([]string(nil), words...)
	}
	return out
}

// OverrideFromCorpus replaces one language's seed list with the words of a
// real corpus file, one phrase per line.
func (l Lexicons) OverrideFromCorpus(lang alphabet.Language, path string) error {
	var words []string
	err := corpus.EachLine(path, 0, nil, func(line string) error {
		for _, w := range lang.Words(line) {
			if len([]rune(w)) >= minSeedWordLen {
				words = append(words, w)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("dataset: corpus %s yields no seed words for %s", path, lang)
	}
	l[lang] = words
	return nil
}

// OverrideFromWordList replaces one language's seed list with a trained
// unigram frequency list.
func (l Lexicons) OverrideFromWordList(list *unigram.List) error {
	if len(list.Entries) == 0 {
		return fmt.Errorf("dataset: empty word list for %s", list.Lang)
	}
	l[list.Lang] = list.Words()
	return nil
}

// LoadLexicons reads seed lexicons from a YAML file mapping language tags to
// word lists. Languages absent from the file keep the built-in seeds.
func LoadLexicons(path string) (Lexicons, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read lexicons: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("dataset: decode lexicons %s: %w", path, err)
	}

	lex := BuiltinLexicons()
	for tag, words := range raw {
		lang, err := alphabet.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("dataset: lexicons %s: %w", path, err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("dataset: lexicons %s: empty word list for %s", path, lang)
		}
		lex[lang] = append([]string(nil), words...)
	}
	return lex, nil
}

var builtinSeeds = map[alphabet.Language][]string{
	alphabet.English: {
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
		"for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
		"but", "his", "by", "from", "they", "we", "say", "her", "she", "or",
		"an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "time", "no", "just", "him", "know",
		"take", "people", "into", "year", "your", "good", "some", "could",
		"them", "see", "other", "than", "then", "now", "look", "only",
		"come", "its", "over", "think", "also", "back", "after", "use",
		"two", "how", "our", "work", "first", "well", "way", "even", "new",
		"want", "because", "any", "these", "give", "day", "most", "us",
		"hello", "hi", "lol", "ok", "wow", "thanks", "yes", "maybe",
		"please", "sorry", "bro", "dude", "omg", "idk",
	},
	alphabet.Russian: {"и", "в", "не", "на", "я", "быть", "с", "он", "что",
		"а", "этот", "к", "это", "по", "ты", "они", "мы", "она", "который",
		"то", "из", "но", "все", "у", "за", "свой", "же", "весь", "год",
		"вы", "мочь", "человек", "о", "один", "такой", "какой", "только",
		"себя", "ее", "тот", "как", "сказать", "дело", "сам", "для",
		"когда", "очень", "время", "вот", "чтобы", "до", "место", "иметь",
		"раз", "если", "жизнь", "уж", "под", "где", "ни", "слово", "даже",
		"идти", "там", "сейчас", "лицо", "друг", "глаз", "теперь", "тоже",
		"здесь", "кто", "потом", "стать", "ли", "ничто", "работа", "дом",
		"надо", "голова", "стоять", "первый",
		"привет", "пока", "да", "нет", "ок", "спс", "пж", "лол", "кек",
		"как", "дела", "че", "кого", "хах",
	},
	alphabet.Hebrew: {"את", "ב", "של", "לא", "ה", "ל", "זה", "כי", "גם",
		"היה", "עם", "על", "אני", "מה", "כן", "אם", "הוא", "כל", "אבל",
		"יש", "רק", "או", "מי", "אתה", "איך", "מתי", "איפה", "שם", "כאן",
		"למה", "כדי", "פעם", "תמיד", "טוב", "יום", "בית", "איש", "דבר",
		"עולם", "חיים", "משפחה", "אהבה", "זמן", "עכשיו", "יותר", "מאוד",
		"רוצה", "צריך", "יכול", "עושה", "רואה", "יודע", "חושב", "אומר",
		"בא", "דרך", "מים", "לחם", "שמש", "ירח", "ארץ", "עיר", "ספר",
		"ילד", "שלום", "היי", "ביי", "תודה", "בבקשה", "סבבה", "יאללה",
		"אח", "שלי", "כפרה",
	},
}
