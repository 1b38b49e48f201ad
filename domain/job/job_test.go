package job

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		name   string
		outDir string
		input  string
		want   string
	}{
		{"relative input", "minc_proc/03-nuc", "infile.mnc", filepath.Join("minc_proc", "03-nuc", "infile.mnc")},
		{"absolute input", "minc_proc/03-nuc", "/data/subj01/t1.mnc", filepath.Join("minc_proc", "03-nuc", "t1.mnc")},
		{"nested input", "out", "a/b/c/scan.mnc.gz", filepath.Join("out", "scan.mnc.gz")},
		{"empty out dir", "", "/data/t1.mnc", "t1.mnc"},
		{"empty input", "minc_proc/03-nuc", "", filepath.Join("minc_proc", "03-nuc") + string(filepath.Separator)},
		{"directory input", "minc_proc/03-nuc", "/data/subj01/", filepath.Join("minc_proc", "03-nuc") + string(filepath.Separator)},
		{"trailing separator out dir", "out/", "", "out" + string(filepath.Separator)},
		{"empty both", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultOutput(tt.outDir, tt.input); got != tt.want {
				t.Errorf("DefaultOutput(%q, %q) = %q, want %q", tt.outDir, tt.input, got, tt.want)
			}
		})
	}
}

func TestJob_Args(t *testing.T) {
	j := New("/data/in file.mnc", "minc_proc/03-nuc/in file.mnc")

	want := []string{"nu_correct", "-clobber", "/data/in file.mnc", "minc_proc/03-nuc/in file.mnc"}
	if got := j.Args(""); !reflect.DeepEqual(got, want) {
		t.Errorf("Args(\"\") = %v, want %v", got, want)
	}
	if got := j.Args("nu_correct"); !reflect.DeepEqual(got, want) {
		t.Errorf("Args(nu_correct) = %v, want %v", got, want)
	}

	custom := j.Args("/opt/minc/bin/nu_correct")
	if custom[0] != "/opt/minc/bin/nu_correct" || custom[1] != "-clobber" {
		t.Errorf("Args(custom) = %v", custom)
	}
}

func TestJob_CommandLine(t *testing.T) {
	j := New("a.mnc", "b.mnc")

	if got := j.CommandLine(""); got != "nu_correct -clobber a.mnc b.mnc" {
		t.Errorf("CommandLine() = %q", got)
	}
}

func TestJob_EmptyPaths(t *testing.T) {
	// Empty paths are passed through; the tool is left to complain.
	got := New("", "").Args("")
	if len(got) != 4 || got[2] != "" || got[3] != "" {
		t.Errorf("Args() = %q, want empty input and output kept", got)
	}
}
