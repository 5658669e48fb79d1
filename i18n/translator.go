package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":               "expected {expected}, got {actual}",
		"required":                   "required property missing",
		"unknown_key":                "unknown key",
		"invalid_enum":               "value is not one of the allowed values",
		"invalid_format":             "invalid format",
		"discriminator_missing":      "discriminator {key} missing",
		"discriminator_invalid_type": "discriminator {key} must be a string, got {actual}",
		"depth_exceeded":             "max depth exceeded",
		"parse_error":                "parse error",
		"duplicate_key":              "key {key} duplicated",
	},
	"ja": {
		"invalid_type":               "型が不正です ({expected} を期待しましたが {actual} でした)",
		"required":                   "必須プロパティが不足しています",
		"unknown_key":                "未知のキーです",
		"invalid_enum":               "許可されていない値です",
		"invalid_format":             "形式が不正です",
		"discriminator_missing":      "判別キー {key} がありません",
		"discriminator_invalid_type": "判別キー {key} は文字列である必要があります",
		"depth_exceeded":             "ネストが深すぎます",
		"parse_error":                "解析エラー",
		"duplicate_key":              "キー {key} が重複しています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
