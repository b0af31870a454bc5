package parser

import (
	"errors"
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

var chest = types.MustIdentifier("TreasureChest01")

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  types.Kind
	}{
		{"Gold001|100", types.Add},
		{"-Gold001|50", types.Remove},
		{"-Gold001", types.RemoveAll},
		{"OldSword|1^NewSword|1", types.Replace},
		{"OldSword^NewSword|3", types.ReplaceAll},
		{"OldSword^NewSword", types.ReplaceAll},
		{"0x12~Skyrim.esm|2", types.Add},
		{"0x12~My-Mod.esp|2", types.Add},
		{"Gold001|5?50", types.Add},
		{"Gold001|5@WhiterunLocation", types.Add},
		{"-Gold001?25@@LocTypeDungeon", types.RemoveAll},

		// Malformed shapes.
		{"Gold001", types.Error},
		{"Gold001|1|2", types.Error},
		{"-Gold001|1|2", types.Error},
		{"-Old^New", types.Error},
		{"Old|1^New|2|3", types.Error},
		{"", types.Error},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  types.Kind
		want  types.RuleToken
	}{
		{
			name:  "add",
			input: "Gold001|100",
			kind:  types.Add,
			want: types.RuleToken{
				Kind: types.Add, Source: types.MustIdentifier("Gold001"), Count: 100, Chance: 100,
			},
		},
		{
			name:  "remove",
			input: "-Gold001|50",
			kind:  types.Remove,
			want: types.RuleToken{
				Kind: types.Remove, Source: types.MustIdentifier("Gold001"), Count: 50, Chance: 100,
			},
		},
		{
			name:  "remove all",
			input: "-Gold001",
			kind:  types.RemoveAll,
			want: types.RuleToken{
				Kind: types.RemoveAll, Source: types.MustIdentifier("Gold001"), Chance: 100,
			},
		},
		{
			name:  "replace",
			input: "OldSword|1^NewSword|1",
			kind:  types.Replace,
			want: types.RuleToken{
				Kind: types.Replace, Source: types.MustIdentifier("OldSword"), Count: 1,
				With: types.MustIdentifier("NewSword"), WithCount: 1, Chance: 100,
			},
		},
		{
			name:  "replace all with count",
			input: "OldItem^NewItem|3",
			kind:  types.ReplaceAll,
			want: types.RuleToken{
				Kind: types.ReplaceAll, Source: types.MustIdentifier("OldItem"),
				With: types.MustIdentifier("NewItem"), WithCount: 3, Chance: 100,
			},
		},
		{
			name:  "replace all keeps count",
			input: "OldItem^NewItem",
			kind:  types.ReplaceAll,
			want: types.RuleToken{
				Kind: types.ReplaceAll, Source: types.MustIdentifier("OldItem"),
				With: types.MustIdentifier("NewItem"), Chance: 100,
			},
		},
		{
			name:  "origin scoped id and hex count",
			input: "0x800~MyMod.esp|0x10",
			kind:  types.Add,
			want: types.RuleToken{
				Kind: types.Add, Source: types.Identifier{ID: 0x800, Origin: "MyMod.esp"}, Count: 16, Chance: 100,
			},
		},
		{
			name:  "chance and location",
			input: "Gold001|5?50@WhiterunLocation",
			kind:  types.Add,
			want: types.RuleToken{
				Kind: types.Add, Source: types.MustIdentifier("Gold001"), Count: 5, Chance: 50,
				Location: types.MustIdentifier("WhiterunLocation"),
			},
		},
		{
			name:  "scope before chance",
			input: "Gold001|5@WhiterunLocation?50",
			kind:  types.Add,
			want: types.RuleToken{
				Kind: types.Add, Source: types.MustIdentifier("Gold001"), Count: 5, Chance: 50,
				Location: types.MustIdentifier("WhiterunLocation"),
			},
		},
		{
			name:  "keyword only",
			input: "-Lockpick@@LocTypeDungeon",
			kind:  types.RemoveAll,
			want: types.RuleToken{
				Kind: types.RemoveAll, Source: types.MustIdentifier("Lockpick"), Chance: 100,
				LocationKeyword: types.MustIdentifier("LocTypeDungeon"),
			},
		},
		{
			name:  "location and keyword",
			input: "Torch01|2@SkyrimLocation@LocTypeCity",
			kind:  types.Add,
			want: types.RuleToken{
				Kind: types.Add, Source: types.MustIdentifier("Torch01"), Count: 2, Chance: 100,
				Location:        types.MustIdentifier("SkyrimLocation"),
				LocationKeyword: types.MustIdentifier("LocTypeCity"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input, chest, "Base_CID.ini", tt.kind)
			want := tt.want
			want.Target = chest
			want.Filename = "Base_CID.ini"
			want.Raw = tt.input
			if got != want {
				t.Errorf("Tokenize(%q)\n got  %+v\n want %+v", tt.input, got, want)
			}
		})
	}
}

func TestTokenize_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  types.Kind
	}{
		{"kind mismatch", "Gold001|1", types.Remove},
		{"too many bars", "Gold001|1|2", types.Add},
		{"zero count", "Gold001|0", types.Add},
		{"negative count", "Gold001|-3", types.Add},
		{"non-numeric count", "Gold001|lots", types.Add},
		{"chance too high", "Gold001|1?101", types.Add},
		{"chance zero", "Gold001|1?0", types.Add},
		{"empty chance", "Gold001|1?", types.Add},
		{"empty identifier", "|5", types.Add},
		{"bad form id", "zz~Skyrim.esm|1", types.Add},
		{"missing origin", "0x12~|1", types.Add},
		{"replace all with lhs count", "Old|1^New", types.ReplaceAll},
		{"error kind", "Gold001", types.Error},
		{"empty", "", types.Add},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Tokenize(tt.input, chest, "Base_CID.ini", tt.kind)
			if tok.Kind != types.Error {
				t.Fatalf("expected Error token, got %+v", tok)
			}
			if tok.Filename != "Base_CID.ini" || tok.Target != chest {
				t.Errorf("error token lost provenance: %+v", tok)
			}
		})
	}
}

func TestParse_ReturnsParseError(t *testing.T) {
	_, err := Parse("Gold001|1|2", chest, "Base_CID.ini")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Raw != "Gold001|1|2" {
		t.Errorf("Raw = %q", pe.Raw)
	}
}

func TestParse_ClassifiesThenTokenizes(t *testing.T) {
	tok, err := Parse("-Gold001|2?75", chest, "Override_CID.ini")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tok.Kind != types.Remove || tok.Count != 2 || tok.Chance != 75 {
		t.Errorf("unexpected token %+v", tok)
	}
}

// Well-formed rules generated from the grammar always tokenize to the kind
// they were classified as, and the identifier survives.
func TestTokenize_GeneratedRulesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z][A-Za-z0-9_]{0,15}`).Draw(t, "name")
		other := rapid.StringMatching(`[A-Za-z][A-Za-z0-9_]{0,15}`).Draw(t, "other")
		count := rapid.IntRange(1, 5000).Draw(t, "count")
		chance := rapid.IntRange(1, 100).Draw(t, "chance")

		var raw string
		var want types.Kind
		switch rapid.IntRange(0, 4).Draw(t, "shape") {
		case 0:
			raw, want = name+"|"+strconv.Itoa(count), types.Add
		case 1:
			raw, want = "-"+name+"|"+strconv.Itoa(count), types.Remove
		case 2:
			raw, want = "-"+name, types.RemoveAll
		case 3:
			raw, want = name+"|"+strconv.Itoa(count)+"^"+other+"|"+strconv.Itoa(count), types.Replace
		default:
			raw, want = name+"^"+other, types.ReplaceAll
		}
		if rapid.Bool().Draw(t, "withChance") {
			raw += "?" + strconv.Itoa(chance)
		} else {
			chance = DefaultChance
		}

		if got := Classify(raw); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", raw, got, want)
		}
		tok, err := Parse(raw, chest, "Gen_CID.ini")
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if tok.Kind != want || tok.Source.Name != name || tok.Chance != chance {
			t.Fatalf("Parse(%q) = %+v", raw, tok)
		}
	})
}
