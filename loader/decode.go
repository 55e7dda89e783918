package loader

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

func parseObject(resource string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &MalformedDataError{Resource: resource, Reason: "body is not valid JSON"}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, &MalformedDataError{Resource: resource, Reason: "expected a JSON object"}
	}
	return doc, nil
}

// decodeConfig accepts any JSON object and passes it through untouched
func decodeConfig(body []byte) (json.RawMessage, error) {
	doc, err := parseObject(configKey, body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(doc.Raw), nil
}

// decodeThemes extracts the "themes" property of the envelope. A missing or
// null property is an error.
func decodeThemes(body []byte) (ThemeRegistry, error) {
	doc, err := parseObject(themesKey, body)
	if err != nil {
		return nil, err
	}

	themes := doc.Get("themes")
	if !themes.Exists() || themes.Type == gjson.Null {
		return nil, &MalformedDataError{Resource: themesKey, Reason: `missing "themes" property`}
	}
	if !themes.IsObject() {
		return nil, &MalformedDataError{Resource: themesKey, Reason: `"themes" must be an object`}
	}

	registry := make(ThemeRegistry)
	if err := json.Unmarshal([]byte(themes.Raw), &registry); err != nil {
		return nil, &MalformedDataError{Resource: themesKey, Reason: `cannot decode "themes"`, Err: err}
	}
	return registry, nil
}

// decodeCards extracts the "cards" property of the envelope. A missing or
// null property yields an empty collection.
func decodeCards(themeID string, body []byte) (CardCollection, error) {
	resource := cardsResource(themeID)
	doc, err := parseObject(resource, body)
	if err != nil {
		return nil, err
	}

	cards := doc.Get("cards")
	if !cards.Exists() || cards.Type == gjson.Null {
		return CardCollection{}, nil
	}
	if !cards.IsArray() {
		return nil, &MalformedDataError{Resource: resource, Reason: `"cards" must be an array`}
	}

	collection := make(CardCollection, 0)
	if err := json.Unmarshal([]byte(cards.Raw), &collection); err != nil {
		return nil, &MalformedDataError{Resource: resource, Reason: `cannot decode "cards"`, Err: err}
	}
	return collection, nil
}
