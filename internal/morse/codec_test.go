package morse

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"SOS", "... --- ..."},
		{"HELLO", ".... . .-.. .-.. ---"},
		{"12345", ".---- ..--- ...-- ....- ....."},
		{"sos", "... --- ..."},
		{"S#O~S", "... --- ..."},
		{"SOS HELP", "... --- ...   .... . .-.. .--."},
		{"HI.", ".... .."},
		{"A\tB", ".- -..."},
		{"A\nB", ".- -..."},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Encode(tt.text); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"... --- ...", "SOS"},
		{".... . .-.. .-.. ---", "HELLO"},
		{".---- ..--- ...-- ....- .....", "12345"},
		{"... ........ ---", "SO"},
		{"... --- ...   .... . .-.. .--.", "SOS HELP"},
		{".-.-.-", ""},
		{"... .-.-.- ...", "SS"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Decode(tt.code); got != tt.want {
			t.Errorf("Decode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, text := range []string{"CQ CQ DE K1ABC", "THE QUICK BROWN FOX 0123456789"} {
		if got := Decode(Encode(text)); got != text {
			t.Errorf("round trip %q -> %q", text, got)
		}
	}
}

func TestCodeTableUnique(t *testing.T) {
	seen := map[string]rune{}
	for r, c := range charToCode {
		if prev, ok := seen[c]; ok {
			t.Fatalf("code %q used by %q and %q", c, prev, r)
		}
		seen[c] = r
	}
}

func TestLettersGrouping(t *testing.T) {
	symbols := []Symbol{
		{Element: Dot, Start: 0, Duration: 0.1},
		{Element: Dash, Start: 0.2, Duration: 0.3},
		{Element: Dot, Start: 1.0, Duration: 0.1},
	}

	if got := Letters(symbols, 0.3); got != ".- ." {
		t.Fatalf("Letters = %q", got)
	}
	if got := Render(symbols); got != ". - ." {
		t.Fatalf("Render = %q", got)
	}
	if got := Letters(nil, 0.3); got != "" {
		t.Fatalf("Letters(nil) = %q", got)
	}
}
