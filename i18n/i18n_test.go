package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("id-ID,id;q=0.9,en;q=0.5") != "id" {
		t.Fatalf("expected id")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "en" {
		t.Fatalf("expected en fallback")
	}
	if DetectLanguage("") != "en" {
		t.Fatalf("expected default en")
	}
	if DetectLanguage(";;;") != "en" {
		t.Fatalf("expected default on malformed header")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("id", "required") != "Wajib diisi" {
		t.Fatalf("expected Wajib diisi")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to en translation
	if T("es", "required") != "Required" {
		t.Fatalf("expected en fallback for es lang")
	}
}

func TestTablesHaveSameKeys(t *testing.T) {
	for code := range messages[Default] {
		if _, ok := messages["id"][code]; !ok {
			t.Errorf("id table missing %q", code)
		}
	}
	for code := range messages["id"] {
		if _, ok := messages[Default][code]; !ok {
			t.Errorf("en table missing %q", code)
		}
	}
}
