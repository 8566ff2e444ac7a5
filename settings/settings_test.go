package settings

import (
	"testing"

	"golang.org/x/text/language"
)

func TestDefaultAndSwitch(t *testing.T) {
	s := New(language.Greek)
	if s.Language() != language.Greek {
		t.Fatalf("expected greek default, got %s", s.Language())
	}

	if err := s.SetLanguage(language.English); err != nil {
		t.Fatalf("switch to english: %v", err)
	}
	if s.Language() != language.English {
		t.Fatalf("expected english, got %s", s.Language())
	}

	if err := s.SetLanguage(language.French); err == nil {
		t.Fatal("expected rejection of unsupported language")
	}
	if s.Language() != language.English {
		t.Fatal("failed switch must not change the preference")
	}
}

func TestUnsupportedDefaultFallsBack(t *testing.T) {
	s := New(language.French)
	if s.Language() != language.Greek {
		t.Fatalf("expected greek fallback, got %s", s.Language())
	}
}

func TestMessageFallback(t *testing.T) {
	s := New(language.Greek)
	if got := s.Message(MsgNameTooShort); got == "" || got == MsgNameTooShort {
		t.Fatalf("expected greek string, got %q", got)
	}

	if got := s.Message("noSuchKey"); got != "noSuchKey" {
		t.Fatalf("unknown key must echo the key, got %q", got)
	}
}
