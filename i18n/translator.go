package i18n

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator retrieves localized messages for issue keywords.
// params carries the issue's structured parameters (for example "limit" or
// "missingProperty").
type Translator interface {
	Message(keyword string, params map[string]any) string
}

// entry describes one catalog message: its translations and the params, in
// order, that fill the format verbs.
type entry struct {
	args []string
	en   string
	ja   string
}

var entries = map[string]entry{
	"type":                 {[]string{"type"}, "must be %v", "型は %v でなければなりません"},
	"required":             {[]string{"missingProperty"}, "must have required property '%v'", "必須プロパティ '%v' がありません"},
	"enum":                 {nil, "must be equal to one of the allowed values", "許可された値のいずれかと一致しなければなりません"},
	"const":                {nil, "must be equal to constant", "定数と一致しなければなりません"},
	"multipleOf":           {[]string{"multipleOf"}, "must be multiple of %v", "%v の倍数でなければなりません"},
	"maximum":              {[]string{"comparison", "limit"}, "must be %v %v", "%[1]v %[2]v でなければなりません"},
	"minimum":              {[]string{"comparison", "limit"}, "must be %v %v", "%[1]v %[2]v でなければなりません"},
	"exclusiveMaximum":     {[]string{"comparison", "limit"}, "must be %v %v", "%[1]v %[2]v でなければなりません"},
	"exclusiveMinimum":     {[]string{"comparison", "limit"}, "must be %v %v", "%[1]v %[2]v でなければなりません"},
	"maxLength":            {[]string{"limit"}, "must NOT have more than %v characters", "%v 文字を超えてはいけません"},
	"minLength":            {[]string{"limit"}, "must NOT have fewer than %v characters", "%v 文字以上でなければなりません"},
	"maxItems":             {[]string{"limit"}, "must NOT have more than %v items", "要素数は %v 以下でなければなりません"},
	"minItems":             {[]string{"limit"}, "must NOT have fewer than %v items", "要素数は %v 以上でなければなりません"},
	"additionalItems":      {[]string{"limit"}, "must NOT have more than %v items", "要素数は %v 以下でなければなりません"},
	"uniqueItems":          {[]string{"j", "i"}, "must NOT have duplicate items (items ## %v and %v are identical)", "要素が重複しています (%v 番目と %v 番目)"},
	"contains":             {nil, "must contain at least 1 valid item", "条件を満たす要素が少なくとも 1 つ必要です"},
	"maxProperties":        {[]string{"limit"}, "must NOT have more than %v properties", "プロパティ数は %v 以下でなければなりません"},
	"minProperties":        {[]string{"limit"}, "must NOT have fewer than %v properties", "プロパティ数は %v 以上でなければなりません"},
	"additionalProperties": {[]string{"additionalProperty"}, "must NOT have additional property '%v'", "未知のプロパティ '%v' があります"},
	"propertyNames":        {[]string{"propertyName"}, "property name '%v' is invalid", "プロパティ名 '%v' が不正です"},
	"dependencies":         {[]string{"missingProperty", "property"}, "must have property %v when property %v is present", "プロパティ %[2]v があるときは %[1]v が必要です"},
	"anyOf":                {nil, "must match a schema in anyOf", "anyOf のいずれかのスキーマに一致しなければなりません"},
	"oneOf":                {nil, "must match exactly one schema in oneOf", "oneOf のちょうど 1 つのスキーマに一致しなければなりません"},
	"not":                  {nil, "must NOT be valid", "スキーマに一致してはいけません"},
	"if":                   {[]string{"failingKeyword"}, `must match "%v" schema`, `"%v" スキーマに一致しなければなりません`},
	"false schema":         {nil, "boolean schema is false", "false スキーマには何も一致しません"},
}

var supported = []language.Tag{language.English, language.Japanese}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, e := range entries {
		if err := b.SetString(language.English, key, e.en); err != nil {
			panic(fmt.Sprintf("i18n: en message %q: %v", key, err))
		}
		if err := b.SetString(language.Japanese, key, e.ja); err != nil {
			panic(fmt.Sprintf("i18n: ja message %q: %v", key, err))
		}
	}
	return b
}

// catalogTranslator is the built-in x/text catalog backed Translator.
type catalogTranslator struct{ p *message.Printer }

func newCatalogTranslator(tag language.Tag) catalogTranslator {
	return catalogTranslator{p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (t catalogTranslator) Message(keyword string, params map[string]any) string {
	e, ok := entries[keyword]
	if !ok {
		return keyword
	}
	args := make([]any, len(e.args))
	for i, k := range e.args {
		args[i] = params[k]
	}
	return t.p.Sprintf(keyword, args...)
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{newCatalogTranslator(language.English)}) }

// SetLanguage switches the built-in Translator language. Any BCP 47 tag is
// accepted and matched against the supported languages (en, ja); unknown or
// malformed tags fall back to English.
func SetLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	_, idx, _ := matcher.Match(tag)
	current.Store(holder{newCatalogTranslator(supported[idx])})
}

// SetTranslator replaces the Translator implementation (not limited to the
// catalog version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		current.Store(holder{newCatalogTranslator(language.English)})
		return
	}
	current.Store(holder{tr})
}

// T fetches a message for the given keyword using the current Translator.
func T(keyword string, params map[string]any) string {
	return current.Load().(holder).tr.Message(keyword, params)
}
