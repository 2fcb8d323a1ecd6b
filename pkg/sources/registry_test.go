package sources

import "testing"

func TestDefaultRegistryResolvesKnownSources(t *testing.T) {
	cfgs := []SourceConfig{
		{Name: "lenta.ru", Timezone: "Europe/Moscow"},
		{Name: "ria.ru", Timezone: "Europe/Moscow"},
	}

	reg, err := DefaultRegistry(cfgs)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	for _, name := range []string{"lenta.ru", "RIA.RU", " ria.ru "} {
		src, err := reg.SourceFor(name)
		if err != nil {
			t.Errorf("SourceFor(%q): %v", name, err)
			continue
		}
		if src.Name() == "" {
			t.Errorf("SourceFor(%q) returned unnamed strategy", name)
		}
	}

	if _, err := reg.SourceFor("unknown.ru"); err == nil {
		t.Fatalf("expected error for unregistered source")
	}
	if _, err := reg.SourceFor(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestDefaultRegistryRejectsUnknownSource(t *testing.T) {
	_, err := DefaultRegistry([]SourceConfig{{Name: "example.com", Timezone: "UTC"}})
	if err == nil {
		t.Fatalf("expected error for source without strategy")
	}
}
