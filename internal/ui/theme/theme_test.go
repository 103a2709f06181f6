package theme

import "testing"

func TestByName(t *testing.T) {
	for _, name := range []string{"", "dark", " Light "} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestUseSwapsColors(t *testing.T) {
	t.Cleanup(func() { Use(Dark) })

	Use(Light)
	if Primary != Light.Primary || Text != Light.Text {
		t.Error("light palette not applied")
	}
	Use(Dark)
	if Primary != Dark.Primary {
		t.Error("dark palette not restored")
	}
}
