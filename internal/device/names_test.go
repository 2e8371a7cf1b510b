package device

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BOILER_CH_CUR_TEMP", "Boiler Ch Cur Temp"},
		{"SYS_TIME_ZONE", "Sys Time Zone"},
		{"TH_WORK_MODE", "Th Work Mode"},
		{"SINGLE", "Single"},
		{"", ""},
		{"A__B", "A  B"}, // double underscore keeps the empty word
	}

	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
