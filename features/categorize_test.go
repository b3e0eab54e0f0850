package features

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{"J40", COPD},
		{"J41", COPD},
		{"J44", COPD},
		{"J47", COPD},
		{"J449", COPD},
		{"j42", COPD},
		{"J48", RespiratoryNonCOPD},
		{"J18", RespiratoryNonCOPD},
		{"J06", RespiratoryNonCOPD},
		{"J9", RespiratoryNonCOPD},
		{"K21", NonRespiratory},
		{"I50", NonRespiratory},
		{"", NonRespiratory},
	}
	for _, tc := range tests {
		if got := Categorize(tc.code); got != tc.want {
			t.Errorf("Categorize(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestExcluded(t *testing.T) {
	for _, code := range []string{"S72", "T50", "V89", "W19", "X60", "Y83", "s02"} {
		if !Excluded(code) {
			t.Errorf("expected %q excluded", code)
		}
	}
	for _, code := range []string{"J44", "K21", "I50", "Z99", ""} {
		if Excluded(code) {
			t.Errorf("expected %q not excluded", code)
		}
	}
}
