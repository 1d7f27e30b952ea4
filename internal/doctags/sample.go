package doctags

// SampleDocTags returns the canonical simulated DocTags payload for a
// one-page financial report. Coordinates line up with the placeholder
// page rendered by internal/render.
func SampleDocTags() string {
	return `<root bbox="0 0 612 792">
    <document_meta>
        <title bbox="60 60 400 90">FinTech Corp Financial Report 2023</title>
        <page_num>1</page_num>
    </document_meta>
    <content>
        <text bbox="60 110 550 180">
            FinTech Corp delivered robust performance in fiscal year 2023.
            Despite global economic headwinds, our diversified portfolio ensured stability.
            Our primary focus on digital transformation has yielded significant operational efficiencies.
        </text>
        <otsl bbox="60 200 550 350">
            <header>
                <cell bbox="60 200 250 230">Metric</cell>
                <cell bbox="250 200 550 230">2023 (in Millions)</cell>
            </header>
            <row>
                <cell bbox="60 230 250 255">Total Revenue</cell>
                <cell bbox="250 230 550 255">$1234.56</cell>
            </row>
            <row>
                <cell bbox="60 255 250 280">Operating Expenses</cell>
                <cell bbox="250 255 550 280">$850.00</cell>
            </row>
            <row>
                <cell bbox="60 280 250 305">Net Income</cell>
                <cell bbox="250 280 550 305">$384.56</cell>
            </row>
            <row>
                <cell bbox="60 305 250 330">Earnings Per Share (EPS)</cell>
                <cell bbox="250 305 550 330">0.52</cell>
            </row>
        </otsl>
        <text bbox="60 360 550 380">
            Management expects continued growth of 5-7% in the upcoming fiscal year.
        </text>
    </content>
</root>`
}
