package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	gr "github.com/dekarrin/minnow/internal/ictiobus/grammar"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

func testGrammar() gr.Grammar {
	var g gr.Grammar
	g.Start = "S"
	g.AddTerm("a", types.MakeDefaultClass("a"))
	g.AddRule("S", []string{"a"})
	return g
}

func Test_GrammarSignature_Deterministic(t *testing.T) {
	assert := assert.New(t)

	g := testGrammar()
	sig1 := GrammarSignature(g)
	sig2 := GrammarSignature(g)
	assert.Equal(sig1, sig2)
	assert.Contains(sig1, "start:S")
	assert.Contains(sig1, "S -> a")
}

func Test_GrammarSignature_DiffersOnRuleOrderChange(t *testing.T) {
	assert := assert.New(t)

	var g1 gr.Grammar
	g1.Start = "S"
	g1.AddTerm("a", types.MakeDefaultClass("a"))
	g1.AddTerm("b", types.MakeDefaultClass("b"))
	g1.AddRule("S", []string{"a"})
	g1.AddRule("S", []string{"b"})

	var g2 gr.Grammar
	g2.Start = "S"
	g2.AddTerm("a", types.MakeDefaultClass("a"))
	g2.AddTerm("b", types.MakeDefaultClass("b"))
	g2.AddRule("S", []string{"b"})
	g2.AddRule("S", []string{"a"})

	assert.NotEqual(GrammarSignature(g1), GrammarSignature(g2))
}

func Test_HashSignature_Deterministic(t *testing.T) {
	assert := assert.New(t)

	h1, err := HashSignature("hello")
	assert.NoError(err)
	h2, err := HashSignature("hello")
	assert.NoError(err)
	assert.Equal(h1, h2)

	h3, err := HashSignature("world")
	assert.NoError(err)
	assert.NotEqual(h1, h3)
}

func Test_Load_MissingFile_ReportsMissNotError(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	rec, ok, err := Load(dir)
	assert.NoError(err)
	assert.False(ok)
	assert.Equal(Record{}, rec)
}

func Test_SaveThenLoad_RoundTrips(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	rec := Record{
		GrammarHash: "gh",
		MatcherHash: "mh",
		GrammarText: "start:S\n",
		MatcherText: "m1,m2",
	}

	assert.NoError(Save(dir, rec))

	loaded, ok, err := Load(dir)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(rec, loaded)

	// the file is installed at the stable name, with no leftover staging file
	entries, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(entries, 1)
	assert.Equal(FileName, entries[0].Name())
}

func Test_Save_OverwritesPriorRecord(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	assert.NoError(Save(dir, Record{GrammarHash: "one"}))
	assert.NoError(Save(dir, Record{GrammarHash: "two"}))

	loaded, ok, err := Load(dir)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("two", loaded.GrammarHash)
}

func Test_Record_Fresh(t *testing.T) {
	assert := assert.New(t)

	rec := Record{GrammarHash: "g", MatcherHash: "m"}
	assert.True(rec.Fresh("g", "m"))
	assert.False(rec.Fresh("g", "other"))
	assert.False(rec.Fresh("other", "m"))
}

func Test_Check_FirstRun_IsMiss(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	status, err := Check(dir, testGrammar(), "matchers-v1")
	assert.NoError(err)
	assert.False(status.Hit)
	assert.NotEmpty(status.Record.GrammarHash)
}

func Test_Check_SecondRun_SameInputs_IsHit(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	g := testGrammar()

	first, err := Check(dir, g, "matchers-v1")
	assert.NoError(err)
	assert.NoError(Save(dir, first.Record))

	second, err := Check(dir, g, "matchers-v1")
	assert.NoError(err)
	assert.True(second.Hit)
}

func Test_Check_ChangedMatcherSignature_IsMiss(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	g := testGrammar()

	first, err := Check(dir, g, "matchers-v1")
	assert.NoError(err)
	assert.NoError(Save(dir, first.Record))

	second, err := Check(dir, g, "matchers-v2")
	assert.NoError(err)
	assert.False(second.Hit)
}

func Test_Save_CreatesCacheDirIfMissing(t *testing.T) {
	assert := assert.New(t)

	parent := t.TempDir()
	dir := filepath.Join(parent, "nested", "cache")

	assert.NoError(Save(dir, Record{GrammarHash: "g"}))

	_, ok, err := Load(dir)
	assert.NoError(err)
	assert.True(ok)
}
