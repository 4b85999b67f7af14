package cli

import "testing"

func TestIsHomebrewInstall(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "cellar_path",
			path: "/opt/homebrew/Cellar/tabcal/1.0.0/bin/tabcal",
			want: true,
		},
		{
			name: "usr_local_bin",
			path: "/usr/local/bin/tabcal",
			want: false,
		},
		{
			name: "home_go_bin",
			path: "/home/user/go/bin/tabcal",
			want: false,
		},
	}

	for _, test := range tests {
		if got := isHomebrewInstall(test.path); got != test.want {
			t.Fatalf("%s: isHomebrewInstall(%q) = %v, want %v", test.name, test.path, got, test.want)
		}
	}
}
