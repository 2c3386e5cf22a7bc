package services

import "testing"

func TestAgeGroup(t *testing.T) {
	cases := []struct {
		age  int
		want string
		ok   bool
	}{
		{-5, "", false},
		{0, "", false},
		{1, "", false},
		{2, "2-5", true},
		{4, "2-5", true},
		{5, "5-12", true},
		{11, "5-12", true},
		{12, "12-16", true},
		{15, "12-16", true},
		{16, "16+", true},
		{30, "16+", true},
		{99, "16+", true},
	}
	for _, c := range cases {
		got, ok := AgeGroup(c.age)
		if got != c.want || ok != c.ok {
			t.Fatalf("AgeGroup(%d)=(%q,%v), want (%q,%v)", c.age, got, ok, c.want, c.ok)
		}
	}
}

func TestAgeGroupCoversEveryAgeOnce(t *testing.T) {
	for age := -10; age < 120; age++ {
		band, ok := AgeGroup(age)
		if age < 2 {
			if ok {
				t.Fatalf("age %d should have no band, got %q", age, band)
			}
			continue
		}
		if !ok || !IsAgeBand(band) {
			t.Fatalf("age %d mapped to %q", age, band)
		}
	}
}

func TestAgeGroupFromInput(t *testing.T) {
	cases := map[string]string{
		"30":      "16+",
		" 7 ":     "5-12",
		"3 years": "2-5",
		"+12":     "12-16",
	}
	for in, want := range cases {
		if got, ok := AgeGroupFromInput(in); !ok || got != want {
			t.Fatalf("AgeGroupFromInput(%q)=(%q,%v), want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "abc", "-5", "1", "-"} {
		if got, ok := AgeGroupFromInput(in); ok {
			t.Fatalf("AgeGroupFromInput(%q) should be invalid, got %q", in, got)
		}
	}
}
