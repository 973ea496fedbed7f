package corpus

import (
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"Bacillus subtilis", "bacillus_subtilis@"},
		{"ECOLI", "ecoli@"},
		{"  Vibrio cholerae  ", "vibrio_cholerae@"},
		{"", "@"},
	}
	for _, c := range cases {
		if got := Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestLoadNames(t *testing.T) {
	names, err := LoadNames(filepath.Join("testdata", "names.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"bacillus_subtilis@",
		"escherichia_coli@",
		"listeria_monocytogenes@",
	}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadNamesMissingFile(t *testing.T) {
	if _, err := LoadNames(filepath.Join("testdata", "no_such_file.txt")); err == nil {
		t.Fatal("expected an error for a missing corpus file")
	}
}

func TestBuildVocabularyBijection(t *testing.T) {
	names := []string{"ecoli@", "bacillus_cereus@"}
	v := BuildVocabulary(names)

	if v.Index(Terminator) < 0 {
		t.Fatal("terminator missing from vocabulary")
	}
	for i := 0; i < v.Size(); i++ {
		r := v.Rune(i)
		if v.Index(r) != i {
			t.Errorf("Index(Rune(%d)) = %d", i, v.Index(r))
		}
	}
	if v.Index('z') != -1 {
		t.Errorf("Index('z') = %d, want -1", v.Index('z'))
	}
}

func TestBuildVocabularyStableOrder(t *testing.T) {
	names := []string{"ecoli@", "bacillus@"}
	a := BuildVocabulary(names)
	b := BuildVocabulary([]string{names[1], names[0]})
	if a.Size() != b.Size() {
		t.Fatalf("sizes differ: %d vs %d", a.Size(), b.Size())
	}
	for i := 0; i < a.Size(); i++ {
		if a.Rune(i) != b.Rune(i) {
			t.Errorf("index %d: %q vs %q", i, a.Rune(i), b.Rune(i))
		}
	}
}

func TestVocabularyJSONRoundTrip(t *testing.T) {
	v := BuildVocabulary([]string{"bacillus_subtilis@"})
	path := filepath.Join(t.TempDir(), "vocab.json")
	if err := v.ExportJSON(path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size() != v.Size() {
		t.Fatalf("size %d, want %d", got.Size(), v.Size())
	}
	for i := 0; i < v.Size(); i++ {
		if got.Rune(i) != v.Rune(i) {
			t.Errorf("index %d: %q, want %q", i, got.Rune(i), v.Rune(i))
		}
	}
}
