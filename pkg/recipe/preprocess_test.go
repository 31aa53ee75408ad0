package recipe

import "testing"

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"keyword",
			`(wall :width 100)`,
			`(wall "__kw_width" 100)`,
		},
		{
			"kebab keyword",
			`(wall :pin-tolerance 0.2)`,
			`(wall "__kw_pin_tolerance" 0.2)`,
		},
		{
			"kebab identifier",
			`(pillar-cluster :count 3)`,
			`(pillar_cluster "__kw_count" 3)`,
		},
		{
			"line comment",
			"; ruins\n(wall)",
			"// ruins\n(wall)",
		},
		{
			"double semicolon comment",
			";; header",
			"// header",
		},
		{
			"keyword inside string untouched",
			`(def label "keep :this and kebab-case")`,
			`(def label "keep :this and kebab-case")`,
		},
		{
			"backtick string untouched",
			"(def raw `a ; b :c`)",
			"(def raw `a ; b :c`)",
		},
		{
			"escaped quote inside string",
			`(def s "a \" ; :kw")`,
			`(def s "a \" ; :kw")`,
		},
		{
			"assignment preserved",
			`(x := 5)`,
			`(x := 5)`,
		},
		{
			"subtraction untouched",
			`(- 10 3)`,
			`(- 10 3)`,
		},
		{
			"keyword value",
			`(wall :damage :ruined)`,
			`(wall "__kw_damage" "__kw_ruined")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.in)
			if got != tt.want {
				t.Errorf("preprocessSource(%q)\n got  %q\n want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocessIdempotentOnPlainSource(t *testing.T) {
	src := `(wall "__kw_width" 100)`
	if got := preprocessSource(src); got != src {
		t.Errorf("already-processed source changed: %q", got)
	}
}
