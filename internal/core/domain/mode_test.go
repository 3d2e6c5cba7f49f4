package domain

import "testing"

func TestParseBoolish(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"True", true, false},
		{"true", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"on", true, false},
		{" t ", true, false},
		{"False", false, false},
		{"0", false, false},
		{"no", false, false},
		{"off", false, false},
		{"maybe", false, true},
		{"2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolish(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBoolish(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBoolish(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBootMode_String(t *testing.T) {
	if Production.String() != "production" {
		t.Errorf("Production.String() = %q", Production.String())
	}
	if Development.String() != "development" {
		t.Errorf("Development.String() = %q", Development.String())
	}
	if BootMode(7).String() != "BootMode(7)" {
		t.Errorf("BootMode(7).String() = %q", BootMode(7).String())
	}
}

func TestModeFromFlag(t *testing.T) {
	if ModeFromFlag(true) != Development {
		t.Error("ModeFromFlag(true) should be Development")
	}
	if ModeFromFlag(false) != Production {
		t.Error("ModeFromFlag(false) should be Production")
	}
}

func TestLaunchConfig_Addr(t *testing.T) {
	cfg := LaunchConfig{Host: "0.0.0.0", Port: 80}
	if got := cfg.Addr(); got != "0.0.0.0:80" {
		t.Errorf("Addr() = %q, want 0.0.0.0:80", got)
	}

	v6 := LaunchConfig{Host: "::1", Port: 8080}
	if got := v6.Addr(); got != "[::1]:8080" {
		t.Errorf("Addr() = %q, want [::1]:8080", got)
	}
}
