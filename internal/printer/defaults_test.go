package printer

import "testing"

func TestDefaults_Apply(t *testing.T) {
	base := Defaults{
		Codepage:  "CP437",
		LineWidth: 48,
		Timeout:   4.0,
		Align:     "left",
		Cut:       "none",
	}

	tests := []struct {
		name string
		in   Printer
		want Printer
	}{
		{
			"fills empty fields",
			Printer{},
			Printer{Codepage: "CP437", LineWidth: 48, TimeoutSeconds: 4.0, DefaultAlign: "left", DefaultCut: "none"},
		},
		{
			"keeps set fields",
			Printer{Codepage: "CP858", LineWidth: 32, TimeoutSeconds: 2.5, DefaultAlign: "center", DefaultCut: "full"},
			Printer{Codepage: "CP858", LineWidth: 32, TimeoutSeconds: 2.5, DefaultAlign: "center", DefaultCut: "full"},
		},
		{
			"mixed",
			Printer{Codepage: "CP858", TimeoutSeconds: 1},
			Printer{Codepage: "CP858", LineWidth: 48, TimeoutSeconds: 1, DefaultAlign: "left", DefaultCut: "none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			base.Apply(&p)
			if p != tt.want {
				t.Errorf("Apply() = %+v, want %+v", p, tt.want)
			}
		})
	}
}
