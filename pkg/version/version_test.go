package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  Firmware
	}{
		{"0.1.0", Firmware{0, 1, 0}},
		{"1.2.3", Firmware{1, 2, 3}},
		{"v2.0.1", Firmware{2, 0, 1}},
		{"10.23.400", Firmware{10, 23, 400}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, v, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"1.0",
		"abc",
		"1.0.0.0",
		"1.x.0",
		"-1.0.0",
		"1..0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestFirmware_String(t *testing.T) {
	v, err := Parse("v10.23.4")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "10.23.4" {
		t.Errorf("String() = %q, want %q", v.String(), "10.23.4")
	}
}

func TestFirmware_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "1.1.9", 1},
		{"2.0.0", "10.0.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, _ := Parse(tt.a)
			b, _ := Parse(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUpgraded(t *testing.T) {
	if !Upgraded("0.1.0", "0.2.0") {
		t.Error("0.1.0 -> 0.2.0 should be an upgrade")
	}
	if Upgraded("0.2.0", "0.2.0") {
		t.Error("same version is not an upgrade")
	}
	if Upgraded("", "0.2.0") {
		t.Error("empty saved version is not an upgrade")
	}
}

func TestCurrentParses(t *testing.T) {
	if _, err := Parse(Current); err != nil {
		t.Errorf("Current %q does not parse: %v", Current, err)
	}
}
