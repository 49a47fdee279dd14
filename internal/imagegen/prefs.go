package imagegen

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultImageModel = "gpt-image-1.5"

// Prefs mirrors the Quack terminal preference file: settings live under a
// top-level "preferences" object, with the OpenAI key stored base64-encoded.
type Prefs struct {
	Preferences map[string]interface{} `json:"preferences"`
}

// LoadPrefs reads the preference file. A missing or unreadable file is not
// an error; it just means no preferences.
func LoadPrefs(path string) Prefs {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Prefs{}
	}

	var prefs Prefs
	if err := json.Unmarshal(raw, &prefs); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read preferences")
		return Prefs{}
	}
	return prefs
}

func (p Prefs) get(key string) string {
	if v, ok := p.Preferences[key].(string); ok {
		return v
	}
	return ""
}

// ImageModel returns the preferred image model, or the default.
func (p Prefs) ImageModel() string {
	if model := p.get("image_model"); model != "" {
		return model
	}
	return defaultImageModel
}

// ResolveAPIKey returns the OpenAI API key: the OPENAI_API_KEY environment
// variable wins, then the base64-encoded key from the preference file.
func ResolveAPIKey(prefs Prefs) (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	if encoded := prefs.get("openai_api_key"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil && strings.HasPrefix(string(decoded), "sk-") {
			return string(decoded), nil
		}
	}

	return "", fmt.Errorf("OpenAI API key not found: set OPENAI_API_KEY or configure it in Quack Settings > AI Assistant")
}
