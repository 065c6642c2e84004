package validate

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"0532 123 45 67":  "05321234567",
		"0532-123-45-67":  "05321234567",
		"(0532) 1234567":  "05321234567",
		"05321234567":     "05321234567",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q)=%q，期望 %q", in, got, want)
		}
	}
}

func TestTRPhonePattern(t *testing.T) {
	valid := []string{"05321234567", "05001112233"}
	invalid := []string{"5321234567", "05321234", "0632123456789", "abc"}

	for _, p := range valid {
		if !trPhoneRe.MatchString(Normalize(p)) {
			t.Errorf("期望 %q 合法", p)
		}
	}
	for _, p := range invalid {
		if trPhoneRe.MatchString(Normalize(p)) {
			t.Errorf("期望 %q 不合法", p)
		}
	}
}
