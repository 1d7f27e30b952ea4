package doctags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsight/docsight/internal/geometry"
)

func TestParseSampleDocument(t *testing.T) {
	doc, err := Parse(SampleDocTags())
	require.NoError(t, err)

	require.Len(t, doc.Tables, 1)
	tbl := doc.Tables[0]
	assert.Equal(t, []string{"Metric", "2023 (in Millions)"}, tbl.Columns)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, []string{"Total Revenue", "$1234.56"}, tbl.Rows[0])
	assert.Equal(t, []string{"Earnings Per Share (EPS)", "0.52"}, tbl.Rows[3])
	require.NotNil(t, tbl.Box)
	assert.Equal(t, geometry.NewBox(60, 200, 550, 350), *tbl.Box)

	// title header block plus two narrative blocks, in document order
	require.Len(t, doc.TextBlocks, 3)
	assert.Equal(t, CategoryHeader, doc.TextBlocks[0].Category)
	assert.Equal(t, "FinTech Corp Financial Report 2023", doc.TextBlocks[0].Content)
	assert.Equal(t, CategoryBody, doc.TextBlocks[1].Category)
	assert.Contains(t, doc.TextBlocks[1].Content, "robust performance in fiscal year 2023")
	assert.Contains(t, doc.TextBlocks[2].Content, "growth of 5-7%")

	require.NotNil(t, doc.PageBox)
	assert.Equal(t, geometry.NewBox(0, 0, 612, 792), *doc.PageBox)
}

func TestParseDeterministic(t *testing.T) {
	a, err := Parse(SampleDocTags())
	require.NoError(t, err)
	b, err := Parse(SampleDocTags())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseDropsMismatchedRows(t *testing.T) {
	input := `<otsl bbox="0 0 100 100">
		<header><cell>A</cell><cell>B</cell></header>
		<row><cell>1</cell><cell>2</cell></row>
		<row><cell>too</cell><cell>many</cell><cell>cells</cell></row>
		<row><cell>lonely</cell></row>
		<row><cell>3</cell><cell>4</cell></row>
	</otsl>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	tbl := doc.Tables[0]
	require.Len(t, tbl.Rows, 2)
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(tbl.Columns))
	}
	assert.Equal(t, []string{"1", "2"}, tbl.Rows[0])
	assert.Equal(t, []string{"3", "4"}, tbl.Rows[1])
}

func TestParseTableWithoutPosition(t *testing.T) {
	input := `<otsl>
		<header><cell>Metric</cell><cell>Value</cell></header>
		<row><cell>Revenue</cell><cell>$10</cell></row>
	</otsl>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Nil(t, doc.Tables[0].Box)
	require.Len(t, doc.Tables[0].Rows, 1)
}

func TestParseInvalidBBoxDegrades(t *testing.T) {
	input := `<text bbox="not a box">hello world</text>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.TextBlocks, 1)
	assert.Nil(t, doc.TextBlocks[0].Box)
	assert.Equal(t, "hello world", doc.TextBlocks[0].Content)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse(`<root></root>`)
	require.NoError(t, err)
	assert.Empty(t, doc.Tables)
	assert.Empty(t, doc.TextBlocks)
}

func TestParseSkipsEmptyText(t *testing.T) {
	doc, err := Parse(`<text bbox="0 0 10 10">   </text><text>real content</text>`)
	require.NoError(t, err)
	require.Len(t, doc.TextBlocks, 1)
	assert.Equal(t, "real content", doc.TextBlocks[0].Content)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(`<root><otsl><header><cell>A`)
	require.Error(t, err)
	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
}

func TestParseLocTokenEncoding(t *testing.T) {
	input := `<text><loc_60><loc_110><loc_550><loc_180>Quarterly revenue grew steadily.</text>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.TextBlocks, 1)
	require.NotNil(t, doc.TextBlocks[0].Box)
	assert.Equal(t, geometry.NewBox(60, 110, 550, 180), *doc.TextBlocks[0].Box)
	assert.Equal(t, "Quarterly revenue grew steadily.", doc.TextBlocks[0].Content)
}

func TestParseFlatCellDialect(t *testing.T) {
	input := `<otsl bbox="0 0 100 100">
		<ched>Metric</ched><ched>Value</ched>
		<fcel>Revenue</fcel><fcel>$10</fcel>
		<fcel>Net Income</fcel><fcel>$4</fcel>
		<fcel>dangling</fcel>
	</otsl>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	tbl := doc.Tables[0]
	assert.Equal(t, []string{"Metric", "Value"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Revenue", "$10"}, tbl.Rows[0])
	assert.Equal(t, []string{"Net Income", "$4"}, tbl.Rows[1])
}

func TestParseWhitespaceNormalization(t *testing.T) {
	doc, err := Parse("<text>line one\n\t   line two</text>")
	require.NoError(t, err)
	require.Len(t, doc.TextBlocks, 1)
	assert.Equal(t, "line one line two", doc.TextBlocks[0].Content)
}

func TestParseTableWithZeroValidRows(t *testing.T) {
	input := `<otsl bbox="0 0 50 50">
		<header><cell>A</cell><cell>B</cell></header>
		<row><cell>only</cell></row>
	</otsl>`
	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Empty(t, doc.Tables[0].Rows)
	assert.Equal(t, []string{"A", "B"}, doc.Tables[0].Columns)
}
