package sources

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&quot;quoted&quot; &#39;single&#39;", `"quoted" 'single'`},
		{"a&nbsp;&nbsp;b", "a b"},
		{"  lots \n\t of   space  ", "lots of space"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"&lt;b&gt;encoded&lt;/b&gt; tag", "encoded tag"},
		{"&amp;amp; twice", "& twice"},
		{"no markup here", "no markup here"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello &amp; welcome</p>",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;b&amp;gt;nested&amp;lt;/b&amp;gt;",
		"a < b and c > d",
		"unterminated <tag",
		"&amp;nbsp;x",
		"     spaced    ",
		"5 &lt; 6",
		"<<>>",
		"&&amp;amp;;",
	}
	for _, in := range inputs {
		once := CleanText(in)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
