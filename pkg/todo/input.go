package todo

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type CreateInput struct {
	Title       string  `json:"title" mapstructure:"title"`
	Description *string `json:"description,omitempty" mapstructure:"description"`
	Color       *string `json:"color,omitempty" mapstructure:"color"`
}

// ParseCreate decodes a loosely typed request body into a CreateInput.
func ParseCreate(body map[string]any) (*CreateInput, error) {
	title, ok := body["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, newValidationError("title", "title is required")
	}

	var input CreateInput
	if err := decodeFields(body, &input); err != nil {
		return nil, err
	}

	input.Normalize()

	return &input, nil
}

// Normalize trims the title and description. A blank description is dropped.
func (in *CreateInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimmed(in.Description)

	if in.Description != nil && *in.Description == "" {
		in.Description = nil
	}
}

func (in *CreateInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return newValidationError("title", "title is required")
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string `mapstructure:"title"`
	Description *string `mapstructure:"description"`
	Color       *string `mapstructure:"color"`
	IsFavorite  *bool   `mapstructure:"-"`
}

func ParsePatch(body map[string]any) (*Patch, error) {
	var patch Patch
	if err := decodeFields(body, &patch); err != nil {
		return nil, err
	}

	if v, ok := body["isFavorite"]; ok {
		if fav, ok := ParseFavorite(v); ok {
			patch.IsFavorite = &fav
		}
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, newValidationError("title", "title is required")
	}

	return &patch, nil
}

// Apply merges the patch into t.
func (p *Patch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}

	if p.Description != nil {
		t.Description = trimmed(p.Description)
	}

	if p.Color != nil {
		t.Color = String(*p.Color)
	}

	if p.IsFavorite != nil {
		t.IsFavorite = *p.IsFavorite
	}
}

// ParseFavorite matches v against the literal forms accepted for isFavorite:
// true, "true", 1, "1" and false, "false", 0, "0". Any other value reports ok=false.
func ParseFavorite(v any) (value bool, ok bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch x {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		return favoriteNumber(x)
	case int:
		return favoriteNumber(float64(x))
	case int64:
		return favoriteNumber(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return false, false
		}
		return favoriteNumber(f)
	}

	return false, false
}

func favoriteNumber(f float64) (bool, bool) {
	switch f {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}

func decodeFields(body map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(body); err != nil {
		return newValidationError("", "invalid body: %s", err.Error())
	}

	return nil
}
