package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// InferenceSettings настройки инференса (например conf_thresh)
type InferenceSettings map[string]any

// SettingsEncoding вариант кодирования настроек в ответе сессии
type SettingsEncoding int

const (
	SettingsMapping SettingsEncoding = iota // обычный объект
	SettingsText                            // YAML-текст внутри строки
)

// RawSettings настройки в том виде, в каком их вернула сессия
type RawSettings struct {
	Encoding SettingsEncoding
	Mapping  map[string]any
	Text     string
}

// ParseRawSettings определяет вариант кодирования ответа get_custom_inference_settings.
// Ответ вида {"settings": ...} разворачивается, иначе весь объект считается настройками.
func ParseRawSettings(data json.RawMessage) (RawSettings, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return RawSettings{Encoding: SettingsMapping, Mapping: map[string]any{}}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err == nil {
		if inner, ok := envelope["settings"]; ok {
			data = inner
		}
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return RawSettings{Encoding: SettingsText, Text: text}, nil
	}

	var mapping map[string]any
	if err := json.Unmarshal(data, &mapping); err != nil {
		return RawSettings{}, fmt.Errorf("%w: unexpected settings payload: %v", ErrSettingsParse, err)
	}
	if mapping == nil {
		mapping = map[string]any{}
	}
	return RawSettings{Encoding: SettingsMapping, Mapping: mapping}, nil
}

// Resolve приводит любой вариант к обычному словарю.
func (r RawSettings) Resolve() (InferenceSettings, error) {
	switch r.Encoding {
	case SettingsMapping:
		out := make(InferenceSettings, len(r.Mapping))
		for k, v := range r.Mapping {
			out[k] = v
		}
		return out, nil
	case SettingsText:
		out := InferenceSettings{}
		if err := yaml.Unmarshal([]byte(r.Text), &out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSettingsParse, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrSettingsParse, r.Encoding)
	}
}
