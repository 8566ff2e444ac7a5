// Package settings holds the process-wide language preference. The value is
// initialized once at startup and mutated only through SetLanguage, never
// reset behind the reader's back.
package settings

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
)

// Supported lists the languages the deployment ships strings for. Greek is
// the default; English is the fallback.
var Supported = []language.Tag{language.Greek, language.English}

type Settings struct {
	mu   sync.RWMutex
	lang language.Tag
}

// New creates the settings object. An unsupported default falls back to Greek.
func New(defaultLang language.Tag) *Settings {
	if !supported(defaultLang) {
		defaultLang = language.Greek
	}
	return &Settings{lang: defaultLang}
}

// Language returns the current language preference.
func (s *Settings) Language() language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the live preference. Only explicit user action should
// call this; it rejects languages the deployment has no strings for.
func (s *Settings) SetLanguage(tag language.Tag) error {
	if !supported(tag) {
		return fmt.Errorf("settings: unsupported language %s", tag)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = tag
	return nil
}

func supported(tag language.Tag) bool {
	for _, t := range Supported {
		if t == tag {
			return true
		}
	}
	return false
}
