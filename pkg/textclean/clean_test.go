package textclean

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "The council approved the budget.",
			want:  "The council approved the budget.",
		},
		{
			name:  "removes urls",
			input: "Read more at https://example.com/story?id=1 and http://foo.bar today",
			want:  "Read more at and today",
		},
		{
			name:  "removes uppercase scheme",
			input: "Source: HTTPS://EXAMPLE.COM/X done",
			want:  "Source done",
		},
		{
			name:  "removes tags",
			input: "<p>Hello <b>world</b></p>",
			want:  "Hello world",
		},
		{
			name:  "keeps basic punctuation",
			input: "Wait... really?! It's a well-known fact, isn't it.",
			want:  "Wait... really?! It's a well-known fact, isn't it.",
		},
		{
			name:  "drops other characters",
			input: "Price: $100 (approx) #breaking @user 50% off “quoted”",
			want:  "Price 100 approx breaking user 50 off quoted",
		},
		{
			name:  "collapses whitespace",
			input: "  line one\n\n\tline   two  ",
			want:  "line one line two",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only noise",
			input: "<div></div> https://x.y @@@",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"ht<b>tp://evil.example/path still here",
		"<<a>>https://x.com/<b>y</b> end",
		"Tabs\tand\nnewlines\r\nmixed nbsp",
		"emoji 🚀 and ümlauts",
		"a<b c>d<e",
		"   ",
		"BREAKING!!! You WON'T believe this - share now?!",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once))
	}
}

func TestCleanOutputInvariants(t *testing.T) {
	inputs := []string{
		"visit http://a.b/c or https://d.e/f",
		"ht<x>tps://sneaky.example/a",
		"<script>alert(1)</script> text <img src=x>",
		"a  b\t\tc\n\nd",
	}

	for _, in := range inputs {
		out := Clean(in)
		assert.Equal(t, false, strings.Contains(out, "http://"))
		assert.Equal(t, false, strings.Contains(out, "https://"))
		assert.Equal(t, false, strings.ContainsAny(out, "<>"))
		assert.Equal(t, false, strings.Contains(out, "  "))
		assert.Equal(t, false, strings.ContainsAny(out, "\t\n\r"))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
