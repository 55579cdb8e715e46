package sections

import (
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Run("every input yields exactly one section", func(t *testing.T) {
		inputs := []string{
			"",
			"   ",
			"\n\n\n",
			"no line breaks at all",
			"##",
			"## ",
			"###",
			"### ",
			"\r\n\r\n",
			"\x00\xff",
			"## \n## \n",
		}
		for _, in := range inputs {
			got := Parse(map[string]string{"k": in})
			if len(got) != 1 {
				t.Errorf("input %q: expected 1 section, got %d", in, len(got))
				continue
			}
			if got[0].ID != "k" {
				t.Errorf("input %q: expected id k, got %q", in, got[0].ID)
			}
			if got[0].Content == nil {
				t.Errorf("input %q: content should be non-nil", in)
			}
		}
	})

	t.Run("keys sort numerically", func(t *testing.T) {
		got := Parse(map[string]string{
			"section_2":  "## Two",
			"section_10": "## Ten",
			"section_1":  "## One",
		})

		var ids []string
		for _, s := range got {
			ids = append(ids, s.ID)
		}
		want := []string{"section_1", "section_2", "section_10"}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("unexpected order (-want +got):\n%s", diff)
		}
	})

	t.Run("headline extraction", func(t *testing.T) {
		got := ParseSection("k", "## Title Here\nSome text.")
		want := models.Section{ID: "k", Headline: "Title Here", Content: []string{"Some text."}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected section (-want +got):\n%s", diff)
		}
	})

	t.Run("fallback headline", func(t *testing.T) {
		got := ParseSection("k", "Just some text with no heading.")
		want := models.Section{ID: "k", Headline: "Section", Content: []string{"Just some text with no heading."}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected section (-want +got):\n%s", diff)
		}
	})

	t.Run("subheaders flatten into content", func(t *testing.T) {
		got := ParseSection("k", "## H\n### Sub\nBody line.")
		if diff := cmp.Diff([]string{"Sub", "Body line."}, got.Content); diff != "" {
			t.Errorf("unexpected content (-want +got):\n%s", diff)
		}
	})

	t.Run("blank lines are dropped", func(t *testing.T) {
		got := ParseSection("k", "## H\n\n\nBody.")
		if diff := cmp.Diff([]string{"Body."}, got.Content); diff != "" {
			t.Errorf("unexpected content (-want +got):\n%s", diff)
		}
	})

	t.Run("empty and nil maps", func(t *testing.T) {
		for name, in := range map[string]map[string]string{"nil": nil, "empty": {}} {
			got := Parse(in)
			if got == nil {
				t.Errorf("%s: expected non-nil slice", name)
			}
			if len(got) != 0 {
				t.Errorf("%s: expected no sections, got %d", name, len(got))
			}
		}
	})

	t.Run("keys are preserved one to one", func(t *testing.T) {
		raw := map[string]string{}
		for i := range 25 {
			raw[fmt.Sprintf("section_%d", i)] = fmt.Sprintf("## H%d\nbody", i)
		}
		raw["intro"] = "text"
		raw["Section_3"] = "text"

		got := Parse(raw)
		if len(got) != len(raw) {
			t.Fatalf("expected %d sections, got %d", len(raw), len(got))
		}
		seen := map[string]int{}
		for _, s := range got {
			seen[s.ID]++
		}
		for k := range raw {
			if seen[k] != 1 {
				t.Errorf("key %q appears %d times", k, seen[k])
			}
		}
	})

	t.Run("article scenario", func(t *testing.T) {
		got := Parse(map[string]string{
			"section_1": "## Intro\nWelcome.",
			"section_2": "## Deep Dive\n### Analysis\nThe numbers show...",
		})
		want := []models.Section{
			{ID: "section_1", Headline: "Intro", Content: []string{"Welcome."}},
			{ID: "section_2", Headline: "Deep Dive", Content: []string{"Analysis", "The numbers show..."}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected sections (-want +got):\n%s", diff)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		raw := map[string]string{"b": "## B\nx", "a": "## A\ny", "a1": "z", "a10": "w", "a2": "v"}
		first := Parse(raw)
		for range 20 {
			if diff := cmp.Diff(first, Parse(raw)); diff != "" {
				t.Fatalf("output changed between calls:\n%s", diff)
			}
		}
	})
}

func TestParseSectionEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Section
	}{
		{
			name: "only blank lines",
			raw:  "\n  \n\t\n",
			want: models.Section{ID: "k", Headline: "Section", Content: []string{}},
		},
		{
			name: "empty headline stays empty",
			raw:  "## \nBody",
			want: models.Section{ID: "k", Headline: "", Content: []string{"Body"}},
		},
		{
			name: "later headline lines remain content",
			raw:  "## First\n## Second\nBody",
			want: models.Section{ID: "k", Headline: "First", Content: []string{"## Second", "Body"}},
		},
		{
			name: "preamble before headline",
			raw:  "Lead in\n## Title\nBody",
			want: models.Section{ID: "k", Headline: "Title", Content: []string{"Lead in", "Body"}},
		},
		{
			name: "headline is trimmed",
			raw:  "##    Padded   \nBody",
			want: models.Section{ID: "k", Headline: "Padded", Content: []string{"Body"}},
		},
		{
			name: "marker needs a space",
			raw:  "##NoSpace\nBody",
			want: models.Section{ID: "k", Headline: "Section", Content: []string{"##NoSpace", "Body"}},
		},
		{
			name: "indented marker is not a heading",
			raw:  "  ## Indented",
			want: models.Section{ID: "k", Headline: "Section", Content: []string{"  ## Indented"}},
		},
		{
			name: "paragraph whitespace is kept",
			raw:  "## H\n  indented paragraph  ",
			want: models.Section{ID: "k", Headline: "H", Content: []string{"  indented paragraph  "}},
		},
		{
			name: "empty subheader is dropped",
			raw:  "## H\n### \nBody",
			want: models.Section{ID: "k", Headline: "H", Content: []string{"Body"}},
		},
		{
			name: "crlf line endings",
			raw:  "## Title\r\n### Sub\r\n\r\nBody.\r\n",
			want: models.Section{ID: "k", Headline: "Title", Content: []string{"Sub", "Body."}},
		},
		{
			name: "level four heading is ordinary text",
			raw:  "## H\n#### Deep",
			want: models.Section{ID: "k", Headline: "H", Content: []string{"#### Deep"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSection("k", tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected section (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareKeys(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"section_2", "section_10", -1},
		{"section_10", "section_2", 1},
		{"section_1", "section_1", 0},
		{"a9", "a10", -1},
		{"section_1", "section_1a", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := CompareKeys(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("CompareKeys(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
		})
	}

	t.Run("distinct keys never tie", func(t *testing.T) {
		pairs := [][2]string{{"Section_1", "section_1"}, {"a-1", "a1"}, {"x", "X"}}
		for _, p := range pairs {
			if CompareKeys(p[0], p[1]) == 0 {
				t.Errorf("CompareKeys(%q, %q) reported equal", p[0], p[1])
			}
			if sign(CompareKeys(p[0], p[1])) != -sign(CompareKeys(p[1], p[0])) {
				t.Errorf("CompareKeys(%q, %q) is not antisymmetric", p[0], p[1])
			}
		}
	})
}

func TestParseConcurrent(t *testing.T) {
	raw := map[string]string{
		"section_3":  "## C\nc",
		"section_1":  "## A\na",
		"section_12": "## L\nl",
	}
	want := Parse(raw)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if diff := cmp.Diff(want, Parse(raw)); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)

	for diff := range errs {
		t.Errorf("concurrent parse differs:\n%s", diff)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
